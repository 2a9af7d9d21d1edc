package ingest

import (
	"strings"
	"time"

	"github.com/langchou/evhighway/internal/models"
)

// timestampLayout 接口日期格式 YYYYMMDDHHMMSS
const timestampLayout = "20060102150405"

// ParseTimestamp 解析 14 位日期字符串，失败返回 false
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	if len(raw) != len(timestampLayout) {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(timestampLayout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// connectorCodes 充电桩类型代码映射 (chgerType)
var connectorCodes = map[string]models.ConnectorType{
	"01": models.ConnectorCHAdeMO,
	"02": models.ConnectorACType2,
	"03": models.ConnectorCHAdeMO,
	"04": models.ConnectorDCCombo,
	"05": models.ConnectorDCCombo,
	"06": models.ConnectorDCCombo,
	"07": models.ConnectorACType2,
	"08": models.ConnectorDCCombo, // 低速 DC，暂归入 DC Combo
	"10": models.ConnectorDCCombo,
}

// MapConnectorCode 映射充电桩类型代码，未知代码返回 Unknown
func MapConnectorCode(code string) models.ConnectorType {
	if t, ok := connectorCodes[code]; ok {
		return t
	}
	return models.ConnectorUnknown
}

// InferHighway 根据地址推断所属高速公路
func InferHighway(address string) string {
	if address == "" {
		return models.OtherHighway
	}
	for _, highway := range models.Highways {
		short := strings.TrimSuffix(highway, "고속도로")
		if strings.Contains(address, highway) || strings.Contains(address, short) {
			return highway
		}
	}
	return models.OtherHighway
}
