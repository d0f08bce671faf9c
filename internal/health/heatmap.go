package health

import "github.com/Yanami-qaq/health-assistant/internal/types"

type HeatmapCell struct {
	Date  string `json:"date"`
	Steps int    `json:"steps"`
}

// Heatmap projects a user's history into (date, steps) cells. Days without a
// step count contribute nothing; gaps stay sparse rather than being zero
// filled.
func Heatmap(samples []*types.HealthSample) []HeatmapCell {
	cells := make([]HeatmapCell, 0, len(samples))
	for _, s := range samples {
		if s == nil || s.Steps == nil || *s.Steps == 0 {
			continue
		}
		cells = append(cells, HeatmapCell{
			Date:  s.Date.Format("2006-01-02"),
			Steps: *s.Steps,
		})
	}
	return cells
}
