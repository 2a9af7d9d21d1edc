package models

import "time"

// DateRange 日期范围，nil 表示不限
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// FilterState 用户筛选条件
type FilterState struct {
	DateRange DateRange `json:"date_range"`
	Operators []string  `json:"operators"` // 为空表示不限
	Highways  []string  `json:"highways"`  // 为空表示不限
}

// IsEmpty 是否没有任何筛选条件
func (f FilterState) IsEmpty() bool {
	return f.DateRange.Start == nil && f.DateRange.End == nil &&
		len(f.Operators) == 0 && len(f.Highways) == 0
}
