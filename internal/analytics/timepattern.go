package analytics

import (
	"time"

	"github.com/langchou/evhighway/internal/models"
)

// TimePatterns 星期×小时热力图以及时段、平日/周末分布
func TimePatterns(sessions []models.ChargingSession) models.TimePattern {
	var p models.TimePattern

	for i := range sessions {
		start := sessions[i].StartTime
		day := start.Weekday()
		hour := start.Hour()
		p.Heatmap[day][hour]++

		switch {
		case hour >= 6 && hour < 12:
			p.Peak.Morning++
		case hour >= 12 && hour < 18:
			p.Peak.Afternoon++
		default:
			p.Peak.Night++
		}

		if day == time.Sunday || day == time.Saturday {
			p.DayType.Weekend++
		} else {
			p.DayType.Weekday++
		}
	}

	// 热力图颜色归一化用，至少为 1
	p.Max = 1
	for _, row := range p.Heatmap {
		for _, v := range row {
			if v > p.Max {
				p.Max = v
			}
		}
	}
	return p
}
