package finmath

import "time"

// Frequency is a named recurrence interval.
type Frequency string

const (
	FrequencyDaily        Frequency = "daily"
	FrequencyWeekly       Frequency = "weekly"
	FrequencyBiweekly     Frequency = "biweekly"
	FrequencyMonthly      Frequency = "monthly"
	FrequencyQuarterly    Frequency = "quarterly"
	FrequencySemiannually Frequency = "semiannually"
	FrequencyYearly       Frequency = "yearly"
	FrequencyCustom       Frequency = "custom"
)

// Valid reports whether f is a recognized frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly,
		FrequencyQuarterly, FrequencySemiannually, FrequencyYearly, FrequencyCustom:
		return true
	}
	return false
}

// IntervalUnit is the unit for custom frequencies.
type IntervalUnit string

const (
	IntervalDays   IntervalUnit = "days"
	IntervalWeeks  IntervalUnit = "weeks"
	IntervalMonths IntervalUnit = "months"
)

// maxOccurrences bounds enumeration for very tight custom frequencies.
const maxOccurrences = 100

// occurrenceHorizon is how far past now GenerateOccurrences enumerates when
// no end date cuts it shorter.
const occurrenceHorizonYears = 1

// NextDueDate steps a due date forward by one occurrence of the frequency.
// Month-based steps use time.AddDate, which normalizes overflow (Jan 31 plus
// one month lands in early March); that normalization is the documented
// month-rollover behavior for this package.
func NextDueDate(current time.Time, frequency Frequency, interval int, unit IntervalUnit) time.Time {
	switch frequency {
	case FrequencyDaily:
		return current.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return current.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		return current.AddDate(0, 0, 14)
	case FrequencyMonthly:
		return current.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		return current.AddDate(0, 3, 0)
	case FrequencySemiannually:
		return current.AddDate(0, 6, 0)
	case FrequencyYearly:
		return current.AddDate(1, 0, 0)
	case FrequencyCustom:
		switch unit {
		case IntervalWeeks:
			return current.AddDate(0, 0, 7*interval)
		case IntervalMonths:
			return current.AddDate(0, interval, 0)
		default:
			return current.AddDate(0, 0, interval)
		}
	}
	return current.AddDate(0, 1, 0)
}

// InitialNextDueDate is the first due date for a new template: the start date
// itself, unchanged. A past start date immediately shows as overdue rather
// than silently skipping to the first future occurrence.
func InitialNextDueDate(startDate time.Time) time.Time {
	return startDate
}

// DaysUntilDue returns the calendar-day difference from asOf to due.
// Negative means overdue. Calendar days, not 24-hour buckets: a due date of
// yesterday 23:00 checked at 01:00 today is one day overdue.
func DaysUntilDue(due, asOf time.Time) int {
	return daysBetween(normalizeDay(asOf), normalizeDay(due))
}

// IsOverdue reports whether due falls on a calendar day before asOf.
func IsOverdue(due, asOf time.Time) bool {
	return DaysUntilDue(due, asOf) < 0
}

// GenerateOccurrences enumerates occurrence dates from startDate, stepping by
// the frequency, up to the earlier of endDate and one year past now, skipping
// dates in skippedDates (compared by calendar day) and hard-capped at 100
// entries. It does not know which occurrences were already executed; that
// filtering belongs to the caller.
func GenerateOccurrences(startDate time.Time, frequency Frequency, interval int, unit IntervalUnit, endDate *time.Time, skippedDates []time.Time, now time.Time) []time.Time {
	horizon := normalizeDay(now).AddDate(occurrenceHorizonYears, 0, 0)
	if endDate != nil && normalizeDay(*endDate).Before(horizon) {
		horizon = normalizeDay(*endDate)
	}

	skip := make(map[time.Time]struct{}, len(skippedDates))
	for _, d := range skippedDates {
		skip[normalizeDay(d)] = struct{}{}
	}

	var occurrences []time.Time
	current := startDate
	for len(occurrences) < maxOccurrences && !normalizeDay(current).After(horizon) {
		if _, skipped := skip[normalizeDay(current)]; !skipped {
			occurrences = append(occurrences, current)
		}
		next := NextDueDate(current, frequency, interval, unit)
		if !next.After(current) {
			break
		}
		current = next
	}
	return occurrences
}

// normalizeDay truncates a timestamp to its calendar day in UTC.
func normalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween is the whole-day difference to - from.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
