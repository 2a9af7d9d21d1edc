package analytics

import (
	"sort"

	"github.com/langchou/evhighway/internal/models"
)

const rankSize = 5

// StationRollup 按充电站汇总会话数和充电量，并给出前 5 / 后 5
func StationRollup(sessions []models.ChargingSession) models.StationRollup {
	index := make(map[string]int)
	stations := make([]models.StationStat, 0)

	for i := range sessions {
		s := &sessions[i]
		idx, ok := index[s.StationID]
		if !ok {
			// 每个充电站保留首次出现的位置信息
			idx = len(stations)
			index[s.StationID] = idx
			stations = append(stations, models.StationStat{
				StationID: s.StationID,
				Location:  s.Location,
				Highway:   s.Highway,
				Lat:       s.Lat,
				Lng:       s.Lng,
			})
		}
		stations[idx].Count++
		stations[idx].TotalCharge += s.ChargeAmount
	}

	sorted := make([]models.StationStat, len(stations))
	copy(sorted, stations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})

	n := rankSize
	if len(sorted) < n {
		n = len(sorted)
	}

	top := make([]models.StationStat, n)
	copy(top, sorted[:n])

	// 后 5 名倒序，使用量最少的排在最前
	bottom := make([]models.StationStat, 0, n)
	for i := len(sorted) - 1; i >= len(sorted)-n; i-- {
		bottom = append(bottom, sorted[i])
	}

	return models.StationRollup{
		Stations: stations,
		Top5:     top,
		Bottom5:  bottom,
	}
}
