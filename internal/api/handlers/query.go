package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/langchou/evhighway/internal/filter"
	"github.com/langchou/evhighway/internal/models"
	"github.com/langchou/evhighway/internal/state"
)

const queryDateLayout = "2006-01-02"

// filterQuery 筛选参数
type filterQuery struct {
	Start     string   `form:"start"`
	End       string   `form:"end"`
	Operators []string `form:"operator"`
	Highways  []string `form:"highway"`
}

// parseFilter 解析筛选参数
// 仅日期的 end 包含当天全部时间
func parseFilter(c *gin.Context, loc *time.Location) (models.FilterState, error) {
	var q filterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return models.FilterState{}, fmt.Errorf("bind query: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}

	f := models.FilterState{
		Operators: q.Operators,
		Highways:  q.Highways,
	}

	if q.Start != "" {
		t, _, err := parseQueryTime(q.Start, loc)
		if err != nil {
			return models.FilterState{}, fmt.Errorf("invalid start: %w", err)
		}
		f.DateRange.Start = &t
	}
	if q.End != "" {
		t, dateOnly, err := parseQueryTime(q.End, loc)
		if err != nil {
			return models.FilterState{}, fmt.Errorf("invalid end: %w", err)
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		f.DateRange.End = &t
	}
	if f.DateRange.Start != nil && f.DateRange.End != nil && f.DateRange.End.Before(*f.DateRange.Start) {
		return models.FilterState{}, fmt.Errorf("end is before start")
	}
	return f, nil
}

// parseQueryTime 支持 YYYY-MM-DD 和 RFC 3339
func parseQueryTime(raw string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(queryDateLayout, raw, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, false, nil
}

// filteredSessions 取当前数据集并按请求参数筛选
func (h *Handler) filteredSessions(c *gin.Context) (*state.Dataset, filter.Result, bool) {
	ds, ok := h.currentDataset(c)
	if !ok {
		return nil, filter.Result{}, false
	}

	f, err := parseFilter(c, ds.Location)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, filter.Result{}, false
	}
	return ds, filter.Run(ds.Sessions, f), true
}
