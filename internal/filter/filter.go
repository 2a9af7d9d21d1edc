// Package filter 按日期、运营商、高速公路筛选充电会话
package filter

import (
	"sort"

	"github.com/langchou/evhighway/internal/models"
)

// Result 筛选结果
type Result struct {
	Sessions  []models.ChargingSession `json:"sessions"`
	Operators []string                 `json:"operators"` // 来自未筛选的全集
}

// Run 筛选并返回全集中的运营商列表
func Run(sessions []models.ChargingSession, f models.FilterState) Result {
	return Result{
		Sessions:  Apply(sessions, f),
		Operators: Operators(sessions),
	}
}

// Apply 返回满足全部条件的会话，保持原有顺序
func Apply(sessions []models.ChargingSession, f models.FilterState) []models.ChargingSession {
	if f.IsEmpty() {
		out := make([]models.ChargingSession, len(sessions))
		copy(out, sessions)
		return out
	}

	operators := toSet(f.Operators)
	highways := toSet(f.Highways)

	out := make([]models.ChargingSession, 0, len(sessions))
	for _, s := range sessions {
		if f.DateRange.Start != nil && s.StartTime.Before(*f.DateRange.Start) {
			continue
		}
		if f.DateRange.End != nil && s.StartTime.After(*f.DateRange.End) {
			continue
		}
		if len(operators) > 0 {
			if _, ok := operators[s.Operator]; !ok {
				continue
			}
		}
		if len(highways) > 0 {
			if _, ok := highways[s.Highway]; !ok {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// Operators 去重并排序的运营商列表
func Operators(sessions []models.ChargingSession) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, s := range sessions {
		if _, ok := seen[s.Operator]; ok {
			continue
		}
		seen[s.Operator] = struct{}{}
		names = append(names, s.Operator)
	}
	sort.Strings(names)
	return names
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
