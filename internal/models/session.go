package models

import "time"

// ConnectorType 充电接口类型
type ConnectorType string

const (
	ConnectorDCCombo ConnectorType = "DC Combo"
	ConnectorCHAdeMO ConnectorType = "CHAdeMO"
	ConnectorACType2 ConnectorType = "AC Type 2"
	ConnectorUnknown ConnectorType = "Unknown"
)

// 缺省值
const (
	UnknownOperator = "알 수 없음"
	DefaultLocation = "휴게소"
	OtherHighway    = "기타"
)

// Highways 已知高速公路列表，顺序即匹配优先级
var Highways = []string{
	"경부고속도로",
	"서해안고속도로",
	"호남고속도로",
	"영동고속도로",
	"중부고속도로",
	"남해고속도로",
}

// ChargingSession 充电会话 (由充电桩元数据合成)
type ChargingSession struct {
	ID            string        `json:"id"`
	StationID     string        `json:"station_id"`
	Operator      string        `json:"operator"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	ChargeAmount  float64       `json:"charge_amount"` // kWh
	Location      string        `json:"location"`
	Highway       string        `json:"highway"`
	ConnectorType ConnectorType `json:"connector_type"`
	Lat           float64       `json:"lat"`
	Lng           float64       `json:"lng"`
}

// DurationHours 充电时长 (小时)
func (s *ChargingSession) DurationHours() float64 {
	return s.EndTime.Sub(s.StartTime).Hours()
}
