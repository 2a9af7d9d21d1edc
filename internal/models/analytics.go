package models

// OperatorShare 运营商会话占比
type OperatorShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// DailyCount 每日会话数
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// KPISet 概览指标
type KPISet struct {
	SessionCount       int     `json:"session_count"`
	TotalEnergy        float64 `json:"total_energy"` // kWh
	TotalDurationHours float64 `json:"total_duration_hours"`
	DaySpan            int     `json:"day_span"`
	Utilization        float64 `json:"utilization"`       // %
	AvgChargeTime      float64 `json:"avg_charge_time"`   // 分钟
	AvgChargeAmount    float64 `json:"avg_charge_amount"` // kWh
	EstimatedRevenue   float64 `json:"estimated_revenue"` // 원
}

// OperatorFinancial 运营商经营指标
type OperatorFinancial struct {
	Name               string  `json:"name"`
	Sessions           int     `json:"sessions"`
	TotalEnergy        float64 `json:"total_energy"`
	TotalDurationHours float64 `json:"total_duration_hours"`
	Revenue            float64 `json:"revenue"`
	AvgEnergy          float64 `json:"avg_energy"`
}

// GrowthRow 月度增长矩阵的一行
type GrowthRow struct {
	Month  string         `json:"month"` // YYYY-MM
	Counts map[string]int `json:"counts"`
}

// GrowthMatrix 近三个月运营商会话数
type GrowthMatrix struct {
	Operators []string    `json:"operators"`
	Rows      []GrowthRow `json:"rows"`
}

// StationStat 充电站汇总
type StationStat struct {
	StationID   string  `json:"station_id"`
	Location    string  `json:"location"`
	Highway     string  `json:"highway"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Count       int     `json:"count"`
	TotalCharge float64 `json:"total_charge"`
}

// StationRollup 充电站排名
type StationRollup struct {
	Stations []StationStat `json:"stations"`
	Top5     []StationStat `json:"top5"`
	Bottom5  []StationStat `json:"bottom5"`
}

// PeakBuckets 时段分布
type PeakBuckets struct {
	Morning   int `json:"morning"`   // 6-12
	Afternoon int `json:"afternoon"` // 12-18
	Night     int `json:"night"`     // 18-6
}

// DayTypeBuckets 平日/周末分布
type DayTypeBuckets struct {
	Weekday int `json:"weekday"`
	Weekend int `json:"weekend"`
}

// TimePattern 时间模式分析
type TimePattern struct {
	Heatmap [7][24]int     `json:"heatmap"` // [weekday 0=周日][hour]
	Max     int            `json:"max"`
	Peak    PeakBuckets    `json:"peak"`
	DayType DayTypeBuckets `json:"day_type"`
}

// ComparisonRow 两家运营商的月度会话数
type ComparisonRow struct {
	Month string `json:"month"`
	A     int    `json:"a"`
	B     int    `json:"b"`
}

// Comparison 两家运营商对比
type Comparison struct {
	OperatorA   string          `json:"operator_a"`
	OperatorB   string          `json:"operator_b"`
	MarketShare float64         `json:"market_share"` // A 按充电量计的占比 %
	Growth      []ComparisonRow `json:"growth"`
}
