package recurring

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/finmath"
)

// Occurrence is one scheduled instance of a template that has not been
// executed yet.
type Occurrence struct {
	TemplateID   uuid.UUID
	Date         time.Time
	DaysUntilDue int
	Overdue      bool
	// Eligible marks occurrences the caller may execute now. Everything
	// due today or earlier is eligible; among future occurrences only the
	// template's earliest outstanding one is, so occurrence N+2 can never
	// run while N is outstanding.
	Eligible bool
}

// Outstanding enumerates the template's not-yet-executed occurrences and
// applies the execute-eligibility policy. The executed list comes from
// Engine.ExecutedDates; dates compare by calendar day.
func Outstanding(tpl *Template, executed []time.Time, now time.Time) []Occurrence {
	if tpl == nil || !tpl.Active {
		return nil
	}

	dates := finmath.GenerateOccurrences(tpl.StartDate, tpl.Frequency, tpl.Interval, tpl.IntervalUnit, tpl.EndDate, tpl.SkipDates, now)

	done := make(map[[3]int]struct{}, len(executed))
	for _, d := range executed {
		done[dayKey(d)] = struct{}{}
	}

	var out []Occurrence
	for _, date := range dates {
		if _, executed := done[dayKey(date)]; executed {
			continue
		}
		days := finmath.DaysUntilDue(date, now)
		out = append(out, Occurrence{
			TemplateID:   tpl.ID,
			Date:         date,
			DaysUntilDue: days,
			Overdue:      days < 0,
			Eligible:     days <= 0 || len(out) == 0,
		})
	}
	return out
}

func dayKey(t time.Time) [3]int {
	y, m, d := t.Date()
	return [3]int{y, int(m), d}
}
