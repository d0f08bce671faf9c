package health

import (
	"fmt"
	"strings"
	"time"

	"github.com/Yanami-qaq/health-assistant/internal/types"
)

const unknownMarker = "unknown"

// BuildProfile renders the deterministic text profile fed to the advisor.
// Every absent value is written out as "unknown" instead of being dropped, so
// the consumer can reason about data gaps instead of being misled by silence.
func BuildProfile(user *types.User, latest *types.HealthSample, now time.Time) string {
	var b strings.Builder

	b.WriteString("Basics:\n")
	writeLine(&b, "gender", stringOrUnknown(userGender(user)))
	writeLine(&b, "age", ageOrUnknown(user, now))
	writeLine(&b, "height", floatPtrOrUnknown(heightOf(user), "cm"))
	writeLine(&b, "weight", floatPtrOrUnknown(weightOf(latest), "kg"))
	writeLine(&b, "BMI", bmiOrUnknown(user, latest))
	writeLine(&b, "goal", stringOrUnknown(userGoal(user)))

	b.WriteString("\nBody composition:\n")
	writeLine(&b, "body fat", floatPtrOrUnknown(fieldFloat(latest, func(s *types.HealthSample) *float64 { return s.BodyFat }), "%"))

	b.WriteString("\nActivity:\n")
	writeLine(&b, "steps", intPtrOrUnknown(fieldInt(latest, func(s *types.HealthSample) *int { return s.Steps }), ""))
	writeLine(&b, "calories burned", intPtrOrUnknown(fieldInt(latest, func(s *types.HealthSample) *int { return s.Calories }), "kcal"))

	b.WriteString("\nCardiovascular:\n")
	writeLine(&b, "resting heart rate", intPtrOrUnknown(fieldInt(latest, func(s *types.HealthSample) *int { return s.HeartRate }), "bpm"))
	writeLine(&b, "blood pressure", bloodPressureOrUnknown(latest))

	b.WriteString("\nMetabolic:\n")
	writeLine(&b, "fasting blood glucose", floatPtrOrUnknown(fieldFloat(latest, func(s *types.HealthSample) *float64 { return s.BloodGlucose }), "mmol/L"))

	b.WriteString("\nHabits:\n")
	writeLine(&b, "sleep", floatPtrOrUnknown(fieldFloat(latest, func(s *types.HealthSample) *float64 { return s.SleepHours }), "hours"))
	writeLine(&b, "water intake", intPtrOrUnknown(fieldInt(latest, func(s *types.HealthSample) *int { return s.WaterIntake }), "ml"))

	b.WriteString("\nMedical history: ")
	if user != nil && strings.TrimSpace(user.MedicalHistory) != "" {
		b.WriteString(strings.TrimSpace(user.MedicalHistory))
	} else {
		b.WriteString("none reported")
	}
	b.WriteString("\n")

	return b.String()
}

// BMI returns the body mass index for a profile height and sample weight, or
// false when either side is missing.
func BMI(user *types.User, latest *types.HealthSample) (float64, bool) {
	if user == nil || user.HeightCM == nil || latest == nil || latest.Weight == nil {
		return 0, false
	}
	hm := *user.HeightCM / 100
	if hm <= 0 {
		return 0, false
	}
	return *latest.Weight / (hm * hm), true
}

func writeLine(b *strings.Builder, label, value string) {
	b.WriteString("- ")
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func userGender(user *types.User) string {
	if user == nil {
		return ""
	}
	return user.Gender
}

func userGoal(user *types.User) string {
	if user == nil {
		return ""
	}
	return user.Goal
}

func heightOf(user *types.User) *float64 {
	if user == nil {
		return nil
	}
	return user.HeightCM
}

func weightOf(latest *types.HealthSample) *float64 {
	if latest == nil {
		return nil
	}
	return latest.Weight
}

func fieldFloat(latest *types.HealthSample, get func(*types.HealthSample) *float64) *float64 {
	if latest == nil {
		return nil
	}
	return get(latest)
}

func fieldInt(latest *types.HealthSample, get func(*types.HealthSample) *int) *int {
	if latest == nil {
		return nil
	}
	return get(latest)
}

func stringOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknownMarker
	}
	return s
}

func ageOrUnknown(user *types.User, now time.Time) string {
	if user == nil || user.BirthYear == nil {
		return unknownMarker
	}
	return fmt.Sprintf("%d", now.Year()-*user.BirthYear)
}

func floatPtrOrUnknown(v *float64, unit string) string {
	if v == nil {
		return unknownMarker
	}
	if unit == "" {
		return fmt.Sprintf("%g", *v)
	}
	return fmt.Sprintf("%g %s", *v, unit)
}

func intPtrOrUnknown(v *int, unit string) string {
	if v == nil {
		return unknownMarker
	}
	if unit == "" {
		return fmt.Sprintf("%d", *v)
	}
	return fmt.Sprintf("%d %s", *v, unit)
}

func bmiOrUnknown(user *types.User, latest *types.HealthSample) string {
	bmi, ok := BMI(user, latest)
	if !ok {
		return unknownMarker
	}
	return fmt.Sprintf("%.1f", bmi)
}

func bloodPressureOrUnknown(latest *types.HealthSample) string {
	sys := unknownMarker
	dia := unknownMarker
	if latest != nil && latest.Systolic != nil {
		sys = fmt.Sprintf("%d", *latest.Systolic)
	}
	if latest != nil && latest.Diastolic != nil {
		dia = fmt.Sprintf("%d", *latest.Diastolic)
	}
	if sys == unknownMarker && dia == unknownMarker {
		return unknownMarker
	}
	return fmt.Sprintf("%s/%s mmHg", sys, dia)
}
