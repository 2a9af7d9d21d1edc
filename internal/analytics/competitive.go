package analytics

import (
	"sort"

	"github.com/langchou/evhighway/internal/models"
)

// DefaultPair 会话数最多的两家运营商，不足两家时对应位置为空
func DefaultPair(sessions []models.ChargingSession) (string, string) {
	return CompletePair(sessions, "", "")
}

// CompletePair 按会话数排名补全未指定的一方，不会与另一方重复
func CompletePair(sessions []models.ChargingSession, operatorA, operatorB string) (string, string) {
	if operatorA != "" && operatorB != "" {
		return operatorA, operatorB
	}
	for _, row := range OperatorShare(sessions) {
		switch {
		case operatorA == "" && row.Name != operatorB:
			operatorA = row.Name
		case operatorB == "" && row.Name != operatorA:
			operatorB = row.Name
		}
		if operatorA != "" && operatorB != "" {
			break
		}
	}
	return operatorA, operatorB
}

// MarketShare A 按充电量计算的占比 (%)，两者都为 0 时返回 0
func MarketShare(energyA, energyB float64) float64 {
	total := energyA + energyB
	if total <= 0 {
		return 0
	}
	return energyA / total * 100
}

// Compare 两家运营商对比，任一为空或两者相同时返回零值结果
func Compare(sessions []models.ChargingSession, operatorA, operatorB string) models.Comparison {
	result := models.Comparison{
		OperatorA: operatorA,
		OperatorB: operatorB,
		Growth:    []models.ComparisonRow{},
	}
	if operatorA == "" || operatorB == "" || operatorA == operatorB {
		return result
	}

	var energyA, energyB float64
	monthly := make(map[string]*models.ComparisonRow)

	for i := range sessions {
		s := &sessions[i]
		isA := s.Operator == operatorA
		isB := s.Operator == operatorB
		if !isA && !isB {
			continue
		}

		month := s.StartTime.Format(monthLayout)
		row, ok := monthly[month]
		if !ok {
			row = &models.ComparisonRow{Month: month}
			monthly[month] = row
		}
		if isA {
			energyA += s.ChargeAmount
			row.A++
		}
		if isB {
			energyB += s.ChargeAmount
			row.B++
		}
	}

	result.MarketShare = MarketShare(energyA, energyB)
	for _, row := range monthly {
		result.Growth = append(result.Growth, *row)
	}
	sort.Slice(result.Growth, func(i, j int) bool {
		return result.Growth[i].Month < result.Growth[j].Month
	})
	return result
}
