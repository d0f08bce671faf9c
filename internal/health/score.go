package health

import (
	"math"

	"github.com/Yanami-qaq/health-assistant/internal/types"
)

// Score computes the 0-100 vitality score for the latest sample. The weights
// are a product contract, not tunables: movement 0.5, sleep 0.3, body
// composition 0.2, plus a flat +5 hydration bonus at 2000 ml or more. The
// bonus is added before the final clamp, so it fills headroom but can never
// push past 100.
func Score(user *types.User, latest *types.HealthSample) int {
	if latest == nil {
		return 0
	}

	steps := 0
	if latest.Steps != nil {
		steps = *latest.Steps
	}
	scoreMove := math.Min(float64(steps)/10000*100, 100)

	// Absent sleep scores as zero hours, which lands in the lowest tier.
	sleep := 0.0
	if latest.SleepHours != nil {
		sleep = *latest.SleepHours
	}
	var scoreSleep float64
	switch {
	case sleep >= 7 && sleep <= 9:
		scoreSleep = 100
	case (sleep >= 6 && sleep < 7) || (sleep > 9 && sleep <= 10):
		scoreSleep = 80
	default:
		scoreSleep = 60
	}

	// Without both height and a measured weight the body component stays
	// neutral rather than penalizing the user for missing data.
	scoreBody := 80.0
	if user != nil && user.HeightCM != nil && latest.Weight != nil {
		hm := *user.HeightCM / 100
		bmi := *latest.Weight / (hm * hm)
		switch {
		case bmi >= 18.5 && bmi <= 24:
			scoreBody = 100
		case (bmi > 24 && bmi <= 28) || (bmi >= 17 && bmi < 18.5):
			scoreBody = 80
		default:
			scoreBody = 60
		}
	}

	bonus := 0
	if latest.WaterIntake != nil && *latest.WaterIntake >= 2000 {
		bonus = 5
	}

	total := int(math.Round(scoreMove*0.5+scoreSleep*0.3+scoreBody*0.2)) + bonus
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	return total
}
