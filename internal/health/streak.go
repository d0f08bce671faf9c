package health

import "time"

// Streak counts consecutive logging days anchored at today or yesterday.
// Dates must be sorted newest first. A duplicate date is skipped rather than
// counted twice; any larger gap ends the walk.
func Streak(dates []time.Time, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	if dayNumber(today)-dayNumber(dates[0]) > 1 {
		return 0
	}

	streak := 1
	prev := dayNumber(dates[0])
	for _, d := range dates[1:] {
		diff := prev - dayNumber(d)
		switch diff {
		case 1:
			streak++
			prev = dayNumber(d)
		case 0:
			continue
		default:
			return streak
		}
	}
	return streak
}

// dayNumber collapses a timestamp to its calendar day so wall-clock times and
// time zones cannot skew the day arithmetic.
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
