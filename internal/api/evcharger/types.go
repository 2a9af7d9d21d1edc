package evcharger

import (
	"bytes"

	"github.com/goccy/go-json"
)

// ChargerInfo 充电桩信息 (getChargerInfo 单条记录)
type ChargerInfo struct {
	StatNm      string `json:"statNm"`    // 充电站名称
	StatID      string `json:"statId"`    // 充电站 ID
	ChgerID     string `json:"chgerId"`   // 充电桩 ID
	ChgerType   string `json:"chgerType"` // 充电桩类型代码
	Addr        string `json:"addr"`
	Lat         string `json:"lat"`
	Lng         string `json:"lng"`
	UseTime     string `json:"useTime"`
	BusiID      string `json:"busiId"`
	Bnm         string `json:"bnm"`    // 运营机构名称
	BusiNm      string `json:"busiNm"` // 运营商名称
	BusiCall    string `json:"busiCall"`
	Stat        string `json:"stat"`
	StatUpdDt   string `json:"statUpdDt"`
	LastTsdt    string `json:"lastTsdt"` // 最近一次充电开始时间
	LastTedt    string `json:"lastTedt"` // 最近一次充电结束时间
	NowTsdt     string `json:"nowTsdt"`
	Output      string `json:"output"` // 额定功率 kW
	Method      string `json:"method"`
	Zcode       string `json:"zcode"`
	ParkingFree string `json:"parkingFree"`
	Kind        string `json:"kind"`
	KindDetail  string `json:"kindDetail"`
}

// Envelope 接口响应外层结构
type Envelope struct {
	ResultCode string `json:"resultCode"`
	ResultMsg  string `json:"resultMsg"`
	TotalCount int    `json:"totalCount"`
	PageNo     int    `json:"pageNo"`
	NumOfRows  int    `json:"numOfRows"`
	Items      Items  `json:"items"`
}

// Items 无数据时接口可能返回空字符串
type Items struct {
	Item ItemList `json:"item"`
}

// UnmarshalJSON 解析 items 字段
func (i *Items) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		*i = Items{}
		return nil
	}
	type plain Items
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = Items(p)
	return nil
}

// ItemList 兼容 item 为数组或单个对象两种形式
type ItemList []ChargerInfo

// UnmarshalJSON 解析 item 字段
func (l *ItemList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '{' {
		var single ChargerInfo
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*l = ItemList{single}
		return nil
	}
	var items []ChargerInfo
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// Result 一次抓取的结果
type Result struct {
	TotalCount int
	Items      []ChargerInfo
}
