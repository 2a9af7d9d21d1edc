package analytics

import (
	"sort"
	"time"

	"github.com/langchou/evhighway/internal/models"
)

const monthLayout = "2006-01"

// growthWindowMonths 增长矩阵覆盖的月数 (含锚定月)
const growthWindowMonths = 3

// OperatorFinancials 运营商经营指标，按收入降序
func OperatorFinancials(sessions []models.ChargingSession, pricePerKWh float64) []models.OperatorFinancial {
	index := make(map[string]int)
	var rows []models.OperatorFinancial

	for i := range sessions {
		s := &sessions[i]
		idx, ok := index[s.Operator]
		if !ok {
			idx = len(rows)
			index[s.Operator] = idx
			rows = append(rows, models.OperatorFinancial{Name: s.Operator})
		}
		rows[idx].Sessions++
		rows[idx].TotalEnergy += s.ChargeAmount
		rows[idx].TotalDurationHours += s.DurationHours()
	}

	for i := range rows {
		rows[i].Revenue = rows[i].TotalEnergy * pricePerKWh
		if rows[i].Sessions > 0 {
			rows[i].AvgEnergy = rows[i].TotalEnergy / float64(rows[i].Sessions)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Revenue > rows[j].Revenue
	})
	if rows == nil {
		rows = []models.OperatorFinancial{}
	}
	return rows
}

// MonthlyGrowth 以最新会话所在月为锚，统计近三个月各运营商的会话数
func MonthlyGrowth(sessions []models.ChargingSession) models.GrowthMatrix {
	matrix := models.GrowthMatrix{Operators: []string{}, Rows: []models.GrowthRow{}}
	if len(sessions) == 0 {
		return matrix
	}

	latest := sessions[0].StartTime
	for _, s := range sessions[1:] {
		if s.StartTime.After(latest) {
			latest = s.StartTime
		}
	}
	windowStart := time.Date(latest.Year(), latest.Month()-(growthWindowMonths-1), 1, 0, 0, 0, 0, latest.Location())

	counts := make(map[string]map[string]int)
	seen := make(map[string]struct{})
	for _, s := range sessions {
		if s.StartTime.Before(windowStart) {
			continue
		}
		month := s.StartTime.In(latest.Location()).Format(monthLayout)
		if counts[month] == nil {
			counts[month] = make(map[string]int)
		}
		counts[month][s.Operator]++
		if _, ok := seen[s.Operator]; !ok {
			seen[s.Operator] = struct{}{}
			matrix.Operators = append(matrix.Operators, s.Operator)
		}
	}

	months := make([]string, 0, len(counts))
	for month := range counts {
		months = append(months, month)
	}
	sort.Strings(months)

	for _, month := range months {
		row := models.GrowthRow{Month: month, Counts: make(map[string]int, len(matrix.Operators))}
		for _, op := range matrix.Operators {
			row.Counts[op] = counts[month][op]
		}
		matrix.Rows = append(matrix.Rows, row)
	}
	return matrix
}
