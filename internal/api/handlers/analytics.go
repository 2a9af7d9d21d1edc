package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/langchou/evhighway/internal/analytics"
	"github.com/langchou/evhighway/internal/filter"
	"github.com/langchou/evhighway/internal/models"
)

// GetFilterOptions 获取筛选项
// GET /api/filters/options
func (h *Handler) GetFilterOptions(c *gin.Context) {
	ds, ok := h.currentDataset(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"operators": filter.Operators(ds.Sessions),
			"highways":  models.Highways,
		},
	})
}

// ListSessions 获取筛选后的会话
// GET /api/sessions?start=&end=&operator=&highway=
func (h *Handler) ListSessions(c *gin.Context) {
	_, result, ok := h.filteredSessions(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      result.Sessions,
		"count":     len(result.Sessions),
		"operators": result.Operators,
	})
}

// GetOverview 概览: 指标、运营商占比、每日趋势
// GET /api/overview
func (h *Handler) GetOverview(c *gin.Context) {
	ds, result, ok := h.filteredSessions(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"kpis":           analytics.KPIs(result.Sessions, ds.TotalCount, h.pricePerKWh),
			"operator_share": analytics.OperatorShare(result.Sessions),
			"daily":          analytics.DailySessions(result.Sessions),
			"total_count":    ds.TotalCount,
			"last_updated":   ds.LastUpdated,
		},
	})
}

// GetOperatorComparison 运营商经营对比与月度增长
// GET /api/operators
func (h *Handler) GetOperatorComparison(c *gin.Context) {
	_, result, ok := h.filteredSessions(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"financials": analytics.OperatorFinancials(result.Sessions, h.pricePerKWh),
			"growth":     analytics.MonthlyGrowth(result.Sessions),
		},
	})
}

// GetRegional 充电站区域分析
// GET /api/regional
func (h *Handler) GetRegional(c *gin.Context) {
	_, result, ok := h.filteredSessions(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": analytics.StationRollup(result.Sessions)})
}

// GetTimePattern 时间模式分析
// GET /api/time-pattern
func (h *Handler) GetTimePattern(c *gin.Context) {
	_, result, ok := h.filteredSessions(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": analytics.TimePatterns(result.Sessions)})
}

// GetCompetitive 两家运营商对比，未指定的一方按会话数排名补全
// GET /api/competitive?a=&b=
func (h *Handler) GetCompetitive(c *gin.Context) {
	_, result, ok := h.filteredSessions(c)
	if !ok {
		return
	}

	a, b := analytics.CompletePair(result.Sessions, c.Query("a"), c.Query("b"))

	c.JSON(http.StatusOK, gin.H{
		"data":      analytics.Compare(result.Sessions, a, b),
		"operators": result.Operators,
	})
}
