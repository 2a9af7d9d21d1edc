// Package analytics 在已筛选的会话集合上计算各类汇总视图。
//
// 所有函数都是纯函数，空集合返回零值或空结果。
package analytics

import (
	"sort"
	"time"

	"github.com/langchou/evhighway/internal/models"
)

const dateLayout = "2006-01-02"

// OperatorShare 按运营商统计会话数，按数量降序
func OperatorShare(sessions []models.ChargingSession) []models.OperatorShare {
	names, counts := countByOperator(sessions)

	rows := make([]models.OperatorShare, 0, len(names))
	for _, name := range names {
		rows = append(rows, models.OperatorShare{Name: name, Value: counts[name]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Value > rows[j].Value
	})
	return rows
}

// DailySessions 按开始时间所在日期统计会话数，按日期升序
func DailySessions(sessions []models.ChargingSession) []models.DailyCount {
	counts := make(map[string]int)
	for _, s := range sessions {
		counts[s.StartTime.Format(dateLayout)]++
	}

	rows := make([]models.DailyCount, 0, len(counts))
	for date, count := range counts {
		rows = append(rows, models.DailyCount{Date: date, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date < rows[j].Date
	})
	return rows
}

// DaySpan 日序列首尾之间的天数 (含首尾)，至少为 1
func DaySpan(daily []models.DailyCount) int {
	if len(daily) < 2 {
		return 1
	}
	first, err1 := time.Parse(dateLayout, daily[0].Date)
	last, err2 := time.Parse(dateLayout, daily[len(daily)-1].Date)
	if err1 != nil || err2 != nil {
		return 1
	}
	days := int(last.Sub(first).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// KPIs 概览指标
// totalChargers 为接口报告的充电桩总数，pricePerKWh 为估算单价
func KPIs(sessions []models.ChargingSession, totalChargers int, pricePerKWh float64) models.KPISet {
	if len(sessions) == 0 {
		return models.KPISet{DaySpan: 1}
	}

	var totalEnergy, totalHours float64
	for i := range sessions {
		totalEnergy += sessions[i].ChargeAmount
		totalHours += sessions[i].DurationHours()
	}

	daySpan := DaySpan(DailySessions(sessions))
	possibleHours := 1.0
	if totalChargers > 0 {
		possibleHours = float64(totalChargers) * 24 * float64(daySpan)
	}

	n := float64(len(sessions))
	return models.KPISet{
		SessionCount:       len(sessions),
		TotalEnergy:        totalEnergy,
		TotalDurationHours: totalHours,
		DaySpan:            daySpan,
		Utilization:        totalHours / possibleHours * 100,
		AvgChargeTime:      totalHours * 60 / n,
		AvgChargeAmount:    totalEnergy / n,
		EstimatedRevenue:   totalEnergy * pricePerKWh,
	}
}

// countByOperator 统计每个运营商的会话数，names 保持首次出现顺序
func countByOperator(sessions []models.ChargingSession) ([]string, map[string]int) {
	counts := make(map[string]int)
	var names []string
	for _, s := range sessions {
		if _, ok := counts[s.Operator]; !ok {
			names = append(names, s.Operator)
		}
		counts[s.Operator]++
	}
	return names, counts
}
