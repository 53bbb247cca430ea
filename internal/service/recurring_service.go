package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/recurring"
	"github.com/mosslake/finledger/internal/storage/template"
)

// TemplateReader is the read-side template storage the services work against.
type TemplateReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*recurring.Template, error)
	List(ctx context.Context, filter *template.TemplateFilter) ([]*recurring.Template, error)
}

// RecurringService handles recurring-template read paths.
type RecurringService struct {
	templates    TemplateReader
	transactions TransactionReader
}

// NewRecurringService creates a new RecurringService.
func NewRecurringService(templates TemplateReader, transactions TransactionReader) *RecurringService {
	return &RecurringService{templates: templates, transactions: transactions}
}

// Get returns one template. Templates owned by another user read as not
// found.
func (s *RecurringService) Get(ctx context.Context, id, userID uuid.UUID) (*recurring.Template, error) {
	tpl, err := s.templates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil || tpl.UserID != userID {
		return nil, fmt.Errorf("recurring template %s: %w", id, ledger.ErrNotFound)
	}
	return tpl, nil
}

// List returns the user's templates, inactive ones only on request.
func (s *RecurringService) List(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]*recurring.Template, error) {
	return s.templates.List(ctx, &template.TemplateFilter{
		UserID:          userID,
		IncludeInactive: includeInactive,
	})
}

// TemplateSchedule is one template's outstanding occurrences.
type TemplateSchedule struct {
	Template    *recurring.Template
	Occurrences []recurring.Occurrence
}

// Schedule projects every active template's outstanding occurrences against
// what has already been executed.
func (s *RecurringService) Schedule(ctx context.Context, userID uuid.UUID, now time.Time) ([]TemplateSchedule, error) {
	templates, err := s.templates.List(ctx, &template.TemplateFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	tagged, err := s.transactions.ListByRecurring(ctx, userID)
	if err != nil {
		return nil, err
	}
	executed := recurring.ExecutedDatesOf(tagged)

	out := make([]TemplateSchedule, 0, len(templates))
	for _, tpl := range templates {
		out = append(out, TemplateSchedule{
			Template:    tpl,
			Occurrences: recurring.Outstanding(tpl, executed[tpl.ID], now),
		})
	}
	return out, nil
}

// ExecutedDates returns the user's execution history grouped by template.
func (s *RecurringService) ExecutedDates(ctx context.Context, userID uuid.UUID) (map[uuid.UUID][]time.Time, error) {
	tagged, err := s.transactions.ListByRecurring(ctx, userID)
	if err != nil {
		return nil, err
	}
	return recurring.ExecutedDatesOf(tagged), nil
}
