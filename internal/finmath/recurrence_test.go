package finmath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDate_NamedFrequencies(t *testing.T) {
	current := day(2024, 3, 15)

	assert.Equal(t, day(2024, 3, 16), NextDueDate(current, FrequencyDaily, 0, ""))
	assert.Equal(t, day(2024, 3, 22), NextDueDate(current, FrequencyWeekly, 0, ""))
	assert.Equal(t, day(2024, 3, 29), NextDueDate(current, FrequencyBiweekly, 0, ""))
	assert.Equal(t, day(2024, 4, 15), NextDueDate(current, FrequencyMonthly, 0, ""))
	assert.Equal(t, day(2024, 6, 15), NextDueDate(current, FrequencyQuarterly, 0, ""))
	assert.Equal(t, day(2024, 9, 15), NextDueDate(current, FrequencySemiannually, 0, ""))
	assert.Equal(t, day(2025, 3, 15), NextDueDate(current, FrequencyYearly, 0, ""))
}

func TestNextDueDate_Custom(t *testing.T) {
	current := day(2024, 3, 15)

	assert.Equal(t, day(2024, 3, 18), NextDueDate(current, FrequencyCustom, 3, IntervalDays))
	assert.Equal(t, day(2024, 3, 29), NextDueDate(current, FrequencyCustom, 2, IntervalWeeks))
	assert.Equal(t, day(2024, 5, 15), NextDueDate(current, FrequencyCustom, 2, IntervalMonths))
}

func TestNextDueDate_MonthEndNormalizes(t *testing.T) {
	// time.AddDate semantics: Jan 31 + 1 month normalizes into March.
	next := NextDueDate(day(2024, 1, 31), FrequencyMonthly, 0, "")
	assert.Equal(t, day(2024, 3, 2), next)
}

func TestInitialNextDueDate_KeepsPastStart(t *testing.T) {
	start := day(2020, 1, 1)
	assert.Equal(t, start, InitialNextDueDate(start), "a past start date stays overdue rather than skipping forward")
}

func TestDaysUntilDue_CalendarDays(t *testing.T) {
	asOf := time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)

	// Due late yesterday is still one calendar day overdue.
	due := time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, -1, DaysUntilDue(due, asOf))
	assert.True(t, IsOverdue(due, asOf))

	assert.Equal(t, 0, DaysUntilDue(day(2024, 3, 10), asOf))
	assert.False(t, IsOverdue(day(2024, 3, 10), asOf))
	assert.Equal(t, 5, DaysUntilDue(day(2024, 3, 15), asOf))
}

func TestGenerateOccurrences_DailyCapsAtHundred(t *testing.T) {
	now := day(2024, 6, 1)
	occurrences := GenerateOccurrences(now, FrequencyDaily, 0, "", nil, nil, now)

	assert.Len(t, occurrences, maxOccurrences)
	assert.Equal(t, now, occurrences[0])
	assert.Equal(t, now.AddDate(0, 0, maxOccurrences-1), occurrences[len(occurrences)-1])
}

func TestGenerateOccurrences_MonthlyCoversOneYearHorizon(t *testing.T) {
	now := day(2024, 6, 1)
	occurrences := GenerateOccurrences(now, FrequencyMonthly, 0, "", nil, nil, now)

	// Start date through now+12 months inclusive.
	assert.Len(t, occurrences, 13)
	assert.Equal(t, now.AddDate(1, 0, 0), occurrences[12])
}

func TestGenerateOccurrences_EndDateShortensHorizon(t *testing.T) {
	now := day(2024, 6, 1)
	end := day(2024, 8, 1)
	occurrences := GenerateOccurrences(now, FrequencyMonthly, 0, "", &end, nil, now)

	assert.Len(t, occurrences, 3)
	assert.Equal(t, end, occurrences[2])
}

func TestGenerateOccurrences_ExcludesSkippedDates(t *testing.T) {
	now := day(2024, 6, 1)
	// Skip entries compare by calendar day regardless of clock time.
	skipped := []time.Time{time.Date(2024, 7, 1, 15, 30, 0, 0, time.UTC)}
	occurrences := GenerateOccurrences(now, FrequencyMonthly, 0, "", nil, skipped, now)

	assert.Len(t, occurrences, 12)
	for _, occ := range occurrences {
		assert.False(t, occ.Equal(day(2024, 7, 1)), "skipped date must not appear")
	}
}

func TestGenerateOccurrences_NonAdvancingCustomInterval(t *testing.T) {
	now := day(2024, 6, 1)
	occurrences := GenerateOccurrences(now, FrequencyCustom, 0, IntervalDays, nil, nil, now)

	// A zero interval cannot advance; enumeration stops after the start date.
	assert.Len(t, occurrences, 1)
}

func TestGenerateOccurrences_PastStartEnumeratesBacklog(t *testing.T) {
	now := day(2024, 6, 1)
	start := day(2024, 3, 1)
	occurrences := GenerateOccurrences(start, FrequencyMonthly, 0, "", nil, nil, now)

	assert.Equal(t, start, occurrences[0])
	// March through next June inclusive.
	assert.Len(t, occurrences, 16)
}
