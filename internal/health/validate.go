package health

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Yanami-qaq/health-assistant/internal/types"
)

// EntryMode distinguishes a manual form submission from a device sync. Manual
// entries must carry a weight; device syncs may omit it (the record service
// copies the settings weight in that case).
type EntryMode int

const (
	ManualEntry EntryMode = iota
	DeviceSync
)

type ValidationResult struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors"`
}

type fieldRule struct {
	name    string
	unit    string
	min     float64
	max     float64
	integer bool
}

// Rule order fixes the order errors are reported in.
var fieldRules = []fieldRule{
	{name: "weight", unit: "kg", min: 20, max: 300},
	{name: "body_fat", unit: "%", min: 3, max: 60},
	{name: "steps", unit: "", min: 0, max: 100000, integer: true},
	{name: "calories", unit: "kcal", min: 0, max: 10000, integer: true},
	{name: "water_intake", unit: "ml", min: 0, max: 10000, integer: true},
	{name: "blood_glucose", unit: "mmol/L", min: 2, max: 30},
	{name: "sleep_hours", unit: "hours", min: 0, max: 24},
	{name: "heart_rate", unit: "bpm", min: 30, max: 250, integer: true},
	{name: "systolic", unit: "mmHg", min: 60, max: 250, integer: true},
	{name: "diastolic", unit: "mmHg", min: 40, max: 150, integer: true},
}

// Validate checks raw submitted fields against plausibility rules. Every
// failing field contributes its own error; nothing short-circuits, so a caller
// can surface all problems in one round trip.
func Validate(fields map[string]string, mode EntryMode) ValidationResult {
	var errs []string

	if mode == ManualEntry {
		if strings.TrimSpace(fields["weight"]) == "" {
			errs = append(errs, "weight is required")
		}
	}

	parsed := make(map[string]float64, len(fieldRules))
	for _, rule := range fieldRules {
		raw := strings.TrimSpace(fields[rule.name])
		if raw == "" {
			continue
		}
		val, err := parseNumeric(raw, rule.integer)
		if err != nil {
			if rule.integer {
				errs = append(errs, fmt.Sprintf("%s must be an integer", rule.name))
			} else {
				errs = append(errs, fmt.Sprintf("%s must be a number", rule.name))
			}
			continue
		}
		if val < rule.min || val > rule.max {
			errs = append(errs, rangeError(rule))
			continue
		}
		parsed[rule.name] = val
	}

	// Cross-field rule: a systolic reading at or below the diastolic one is
	// physically implausible even when both pass their individual ranges.
	sys, hasSys := coercedOrRaw(parsed, fields, "systolic")
	dia, hasDia := coercedOrRaw(parsed, fields, "diastolic")
	if hasSys && hasDia && sys <= dia {
		errs = append(errs, "systolic pressure must be greater than diastolic pressure")
	}

	return ValidationResult{OK: len(errs) == 0, Errors: errs}
}

func rangeError(rule fieldRule) string {
	if rule.unit == "" {
		return fmt.Sprintf("%s must be between %s and %s", rule.name, formatBound(rule.min), formatBound(rule.max))
	}
	return fmt.Sprintf("%s must be between %s and %s %s", rule.name, formatBound(rule.min), formatBound(rule.max), rule.unit)
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseNumeric(raw string, integer bool) (float64, error) {
	if integer {
		i, err := strconv.Atoi(raw)
		if err != nil {
			return 0, err
		}
		return float64(i), nil
	}
	return strconv.ParseFloat(raw, 64)
}

// coercedOrRaw resolves the cross-field operands: prefer the value that passed
// its own rule, fall back to any parseable raw value so the cross-field check
// still fires when a reading is out of range but numeric.
func coercedOrRaw(parsed map[string]float64, fields map[string]string, name string) (float64, bool) {
	if v, ok := parsed[name]; ok {
		return v, true
	}
	raw := strings.TrimSpace(fields[name])
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CheckSampleQuality applies the same plausibility ranges to an already stored
// sample. Used by the assessment gate to refuse implausible source data before
// any advisor call.
func CheckSampleQuality(sample *types.HealthSample) []string {
	if sample == nil {
		return nil
	}
	var errs []string

	checkFloat := func(name, unit string, v *float64, min, max float64) {
		if v == nil {
			return
		}
		if *v < min || *v > max {
			errs = append(errs, fmt.Sprintf("%s out of plausible range: %g (expected %s-%s %s)",
				name, *v, formatBound(min), formatBound(max), unit))
		}
	}
	checkInt := func(name, unit string, v *int, min, max int) {
		if v == nil {
			return
		}
		if *v < min || *v > max {
			msg := fmt.Sprintf("%s out of plausible range: %d (expected %d-%d", name, *v, min, max)
			if unit != "" {
				msg += " " + unit
			}
			errs = append(errs, msg+")")
		}
	}

	checkFloat("weight", "kg", sample.Weight, 20, 300)
	checkFloat("body_fat", "%", sample.BodyFat, 3, 60)
	checkInt("steps", "", sample.Steps, 0, 100000)
	checkInt("calories", "kcal", sample.Calories, 0, 10000)
	checkInt("water_intake", "ml", sample.WaterIntake, 0, 10000)
	checkFloat("blood_glucose", "mmol/L", sample.BloodGlucose, 2, 30)
	checkFloat("sleep_hours", "hours", sample.SleepHours, 0, 24)
	checkInt("heart_rate", "bpm", sample.HeartRate, 30, 250)
	checkInt("systolic", "mmHg", sample.Systolic, 60, 250)
	checkInt("diastolic", "mmHg", sample.Diastolic, 40, 150)

	if sample.Systolic != nil && sample.Diastolic != nil && *sample.Systolic <= *sample.Diastolic {
		errs = append(errs, fmt.Sprintf("systolic pressure (%d) must be greater than diastolic pressure (%d)",
			*sample.Systolic, *sample.Diastolic))
	}

	return errs
}
