package health

import (
	"testing"

	"github.com/Yanami-qaq/health-assistant/internal/types"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestScoreNoSample(t *testing.T) {
	if got := Score(&types.User{}, nil); got != 0 {
		t.Fatalf("score without sample: want=0 got=%d", got)
	}
}

func TestScorePerfectDay(t *testing.T) {
	user := &types.User{HeightCM: fptr(170)}
	sample := &types.HealthSample{
		Steps:      iptr(10000),
		SleepHours: fptr(8),
		Weight:     fptr(65),
	}
	// movement=100, sleep=100, BMI 22.5 -> 100, no bonus.
	if got := Score(user, sample); got != 100 {
		t.Fatalf("perfect day: want=100 got=%d", got)
	}
}

func TestScoreDeterministic(t *testing.T) {
	user := &types.User{HeightCM: fptr(180)}
	sample := &types.HealthSample{
		Steps:      iptr(6400),
		SleepHours: fptr(6.5),
		Weight:     fptr(90),
	}
	first := Score(user, sample)
	for i := 0; i < 5; i++ {
		if got := Score(user, sample); got != first {
			t.Fatalf("score not deterministic: first=%d got=%d", first, got)
		}
	}
}

func TestScoreComponents(t *testing.T) {
	cases := []struct {
		name   string
		user   *types.User
		sample *types.HealthSample
		want   int
	}{
		{
			name:   "absent steps count as zero movement",
			user:   &types.User{HeightCM: fptr(170)},
			sample: &types.HealthSample{SleepHours: fptr(8), Weight: fptr(65)},
			// 0*0.5 + 100*0.3 + 100*0.2 = 50
			want: 50,
		},
		{
			name:   "absent sleep lands in lowest tier",
			user:   &types.User{HeightCM: fptr(170)},
			sample: &types.HealthSample{Steps: iptr(10000), Weight: fptr(65)},
			// 100*0.5 + 60*0.3 + 100*0.2 = 88
			want: 88,
		},
		{
			name:   "missing height keeps body component neutral",
			user:   &types.User{},
			sample: &types.HealthSample{Steps: iptr(10000), SleepHours: fptr(8), Weight: fptr(65)},
			// 100*0.5 + 100*0.3 + 80*0.2 = 96
			want: 96,
		},
		{
			name:   "overweight BMI drops body tier",
			user:   &types.User{HeightCM: fptr(170)},
			sample: &types.HealthSample{Steps: iptr(10000), SleepHours: fptr(8), Weight: fptr(95)},
			// BMI ~32.9 -> 60: 100*0.5 + 100*0.3 + 60*0.2 = 92
			want: 92,
		},
		{
			name:   "short sleep tier",
			user:   &types.User{HeightCM: fptr(170)},
			sample: &types.HealthSample{Steps: iptr(10000), SleepHours: fptr(6.5), Weight: fptr(65)},
			// 100*0.5 + 80*0.3 + 100*0.2 = 94
			want: 94,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.user, tc.sample); got != tc.want {
				t.Fatalf("want=%d got=%d", tc.want, got)
			}
		})
	}
}

func TestScoreHydrationBonus(t *testing.T) {
	user := &types.User{HeightCM: fptr(170)}
	base := &types.HealthSample{Steps: iptr(5000), SleepHours: fptr(8), Weight: fptr(65)}
	// 50*0.5 + 100*0.3 + 100*0.2 = 75
	if got := Score(user, base); got != 75 {
		t.Fatalf("without bonus: want=75 got=%d", got)
	}

	hydrated := *base
	hydrated.WaterIntake = iptr(2000)
	if got := Score(user, &hydrated); got != 80 {
		t.Fatalf("with bonus: want=80 got=%d", got)
	}

	underHydrated := *base
	underHydrated.WaterIntake = iptr(1999)
	if got := Score(user, &underHydrated); got != 75 {
		t.Fatalf("below threshold: want=75 got=%d", got)
	}
}

func TestScoreBonusCannotExceedCap(t *testing.T) {
	user := &types.User{HeightCM: fptr(170)}
	sample := &types.HealthSample{
		Steps:       iptr(12000),
		SleepHours:  fptr(8),
		Weight:      fptr(65),
		WaterIntake: iptr(3000),
	}
	// weighted sum is already 100; the +5 bonus is clamped away.
	if got := Score(user, sample); got != 100 {
		t.Fatalf("capped score: want=100 got=%d", got)
	}
}
