package recurring

import (
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosslake/finledger/internal/finmath"
	"github.com/mosslake/finledger/internal/ledger"
)

func monthlyTemplate(start time.Time) *Template {
	return &Template{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    uuid.Must(uuid.NewV4()),
		Type:      ledger.TypeExpense,
		Amount:    d("25"),
		AccountID: uuid.Must(uuid.NewV4()),
		Frequency: finmath.FrequencyMonthly,
		StartDate: start,
		Active:    true,
	}
}

func TestOutstanding_OverdueEligibleFutureIsNot(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	tpl := monthlyTemplate(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))

	executed := []time.Time{time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)}
	out := Outstanding(tpl, executed, now)
	require.GreaterOrEqual(t, len(out), 2)

	overdue := out[0]
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), overdue.Date)
	assert.Equal(t, -5, overdue.DaysUntilDue)
	assert.True(t, overdue.Overdue)
	assert.True(t, overdue.Eligible)

	future := out[1]
	assert.Equal(t, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC), future.Date)
	assert.Equal(t, 25, future.DaysUntilDue)
	assert.False(t, future.Overdue)
	assert.False(t, future.Eligible, "a future occurrence cannot run while an earlier one is outstanding")
	for _, occ := range out[2:] {
		assert.False(t, occ.Eligible)
	}
}

func TestOutstanding_MultipleOverdueAllEligible(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	tpl := monthlyTemplate(time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC))

	out := Outstanding(tpl, nil, now)
	require.GreaterOrEqual(t, len(out), 4)
	for i, occ := range out[:3] {
		assert.True(t, occ.Overdue, "occurrence %d", i)
		assert.True(t, occ.Eligible, "occurrence %d", i)
	}
	for _, occ := range out[3:] {
		assert.False(t, occ.Eligible)
	}
}

func TestOutstanding_FutureEligibleWhenCaughtUp(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	tpl := monthlyTemplate(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))

	executed := []time.Time{
		time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	out := Outstanding(tpl, executed, now)
	require.NotEmpty(t, out)
	assert.Equal(t, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC), out[0].Date)
	assert.True(t, out[0].Eligible, "the earliest outstanding occurrence may run early")
	for _, occ := range out[1:] {
		assert.False(t, occ.Eligible)
	}
}

func TestOutstanding_ExecutedMatchesByCalendarDay(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	tpl := monthlyTemplate(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))

	// Executed timestamp carries a time of day; it still matches the
	// midnight occurrence date.
	executed := []time.Time{time.Date(2024, 6, 10, 14, 45, 0, 0, time.UTC)}
	out := Outstanding(tpl, executed, now)
	for _, occ := range out {
		assert.False(t, sameDay(occ.Date, executed[0]))
	}
}

func TestOutstanding_SkippedDatesExcluded(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	tpl := monthlyTemplate(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	tpl.SkipDates = []time.Time{time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)}

	out := Outstanding(tpl, nil, now)
	for _, occ := range out {
		assert.NotEqual(t, tpl.SkipDates[0], occ.Date)
	}
}

func TestOutstanding_InactiveTemplate(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	tpl := monthlyTemplate(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	tpl.Active = false

	assert.Nil(t, Outstanding(tpl, nil, now))
	assert.Nil(t, Outstanding(nil, nil, now))
}
