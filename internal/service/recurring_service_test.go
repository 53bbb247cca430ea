package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mosslake/finledger/internal/finmath"
	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/recurring"
	"github.com/mosslake/finledger/internal/storage/template"
)

type mockTemplateReader struct {
	mock.Mock
}

func (m *mockTemplateReader) FindByID(ctx context.Context, id uuid.UUID) (*recurring.Template, error) {
	args := m.Called(ctx, id)
	tpl, _ := args.Get(0).(*recurring.Template)
	return tpl, args.Error(1)
}

func (m *mockTemplateReader) List(ctx context.Context, filter *template.TemplateFilter) ([]*recurring.Template, error) {
	args := m.Called(ctx, filter)
	tpls, _ := args.Get(0).([]*recurring.Template)
	return tpls, args.Error(1)
}

func TestSchedule_ProjectsOutstandingOccurrences(t *testing.T) {
	templates := &mockTemplateReader{}
	transactions := &mockTransactionReader{}
	svc := NewRecurringService(templates, transactions)

	userID := uuid.Must(uuid.NewV4())
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	tpl := &recurring.Template{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    userID,
		Type:      ledger.TypeExpense,
		Amount:    decimal.RequireFromString("25"),
		AccountID: uuid.Must(uuid.NewV4()),
		Frequency: finmath.FrequencyMonthly,
		StartDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Active:    true,
	}

	executedDue := tpl.StartDate
	templates.On("List", mock.Anything, mock.Anything).Return([]*recurring.Template{tpl}, nil)
	transactions.On("ListByRecurring", mock.Anything, userID).Return([]*ledger.Transaction{
		{RecurringID: &tpl.ID, RecurringDueDate: &executedDue, Date: executedDue.AddDate(0, 0, 2)},
	}, nil)

	schedules, err := svc.Schedule(context.Background(), userID, now)
	require.NoError(t, err)
	require.Len(t, schedules, 1)

	occurrences := schedules[0].Occurrences
	require.NotEmpty(t, occurrences)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), occurrences[0].Date,
		"the executed start-date occurrence is filtered out")
	assert.True(t, occurrences[0].Overdue)
	assert.True(t, occurrences[0].Eligible)
}

func TestExecutedDates_GroupsByTemplate(t *testing.T) {
	templates := &mockTemplateReader{}
	transactions := &mockTransactionReader{}
	svc := NewRecurringService(templates, transactions)

	userID := uuid.Must(uuid.NewV4())
	templateID := uuid.Must(uuid.NewV4())
	due := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	transactions.On("ListByRecurring", mock.Anything, userID).Return([]*ledger.Transaction{
		{RecurringID: &templateID, RecurringDueDate: &due},
		{RecurringID: &templateID, Date: due.AddDate(0, 1, 0)},
	}, nil)

	dates, err := svc.ExecutedDates(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, dates[templateID], 2)
}

func TestLoanProgress(t *testing.T) {
	templates := &mockTemplateReader{}
	svc := NewLoanService(templates)

	userID := uuid.Must(uuid.NewV4())
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tpl := &recurring.Template{
		ID:     uuid.Must(uuid.NewV4()),
		UserID: userID,
		Loan: &recurring.LoanDetails{
			Principal:         decimal.RequireFromString("240000"),
			AnnualRatePercent: 6,
			TermMonths:        360,
			StartDate:         start,
		},
		Active: true,
	}
	templates.On("FindByID", mock.Anything, tpl.ID).Return(tpl, nil)

	asOf := start.AddDate(0, 2, 5)
	progress, err := svc.Progress(context.Background(), tpl.ID, userID, asOf)
	require.NoError(t, err)

	assert.Equal(t, 2, progress.PaymentsMade)
	assert.Equal(t, 358, progress.PaymentsRemaining)
	assert.InDelta(t, 1438.92, progress.MonthlyPayment.InexactFloat64(), 0.5)
	assert.True(t, progress.CurrentBalance.LessThan(progress.Principal))
	assert.True(t, progress.PaidPrincipal.GreaterThan(decimal.Zero))
}

func TestLoanViews_RejectNonLoanTemplate(t *testing.T) {
	templates := &mockTemplateReader{}
	svc := NewLoanService(templates)

	userID := uuid.Must(uuid.NewV4())
	tpl := &recurring.Template{ID: uuid.Must(uuid.NewV4()), UserID: userID, Active: true}
	templates.On("FindByID", mock.Anything, tpl.ID).Return(tpl, nil)

	_, err := svc.Schedule(context.Background(), tpl.ID, userID)
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)
}
