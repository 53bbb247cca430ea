package recurring

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mosslake/finledger/internal/finmath"
	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/operator/actions"
	"github.com/mosslake/finledger/internal/recurring"
	"github.com/mosslake/finledger/internal/service"
)

func TestHTTP_ExecuteTemplate_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	templateID := uuid.Must(uuid.NewV4())
	accountID := uuid.Must(uuid.NewV4())

	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		exec, ok := a.(*actions.ExecuteTemplate)
		return ok && exec.Input.TemplateID == templateID &&
			exec.Input.UserID == userID &&
			exec.Input.OverrideAmount == nil
	})).Run(func(args mock.Arguments) {
		exec := args.Get(1).(*actions.ExecuteTemplate)
		amount := decimal.RequireFromString("1500")
		exec.Result = []*ledger.Transaction{{
			ID:           uuid.Must(uuid.NewV4()),
			UserID:       userID,
			AccountID:    accountID,
			Type:         ledger.TypeExpense,
			Amount:       amount,
			SignedAmount: amount.Neg(),
			Category:     "rent",
			Status:       ledger.StatusCompleted,
			Date:         time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}}
	}).Return(nil)

	_, api := humatest.New(t)
	NewExecuteTemplateHandler(op).Register(api)

	resp := api.Post("/v1/recurring/"+templateID.String()+"/execute",
		userHeader(userID), ExecuteTemplateBody{})

	require.Equal(t, http.StatusCreated, resp.Code)
	var body ExecuteTemplateResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Transactions, 1)
	assert.Equal(t, "-1500", body.Transactions[0].SignedAmount)
	assert.Equal(t, "rent", body.Transactions[0].Category)
	op.AssertExpectations(t)
}

func TestHTTP_ExecuteTemplate_OverridesForwarded(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	templateID := uuid.Must(uuid.NewV4())

	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		exec, ok := a.(*actions.ExecuteTemplate)
		if !ok {
			return false
		}
		return exec.Input.OverridePrincipal != nil &&
			exec.Input.OverridePrincipal.Equal(decimal.RequireFromString("260")) &&
			exec.Input.OverrideInterest != nil &&
			exec.Input.OverrideInterest.Equal(decimal.RequireFromString("1180")) &&
			exec.Input.DueDate != nil
	})).Run(func(args mock.Arguments) {
		exec := args.Get(1).(*actions.ExecuteTemplate)
		exec.Result = []*ledger.Transaction{}
	}).Return(nil)

	_, api := humatest.New(t)
	NewExecuteTemplateHandler(op).Register(api)

	resp := api.Post("/v1/recurring/"+templateID.String()+"/execute",
		userHeader(userID), ExecuteTemplateBody{
			DueDate:   "2025-07-01T00:00:00Z",
			Principal: "260",
			Interest:  "1180",
		})

	assert.Equal(t, http.StatusCreated, resp.Code)
	op.AssertExpectations(t)
}

func TestHTTP_ExecuteTemplate_NotDueMapsTo400(t *testing.T) {
	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.Anything).Return(ledger.ErrInvalidInput)

	_, api := humatest.New(t)
	NewExecuteTemplateHandler(op).Register(api)

	resp := api.Post("/v1/recurring/"+uuid.Must(uuid.NewV4()).String()+"/execute",
		userHeader(uuid.Must(uuid.NewV4())), ExecuteTemplateBody{})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	op.AssertExpectations(t)
}

func TestHTTP_SkipOccurrence_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	templateID := uuid.Must(uuid.NewV4())
	skipDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		skip, ok := a.(*actions.SkipOccurrence)
		return ok && skip.TemplateID == templateID && skip.Date.Equal(skipDate)
	})).Run(func(args mock.Arguments) {
		skip := args.Get(1).(*actions.SkipOccurrence)
		skip.Result = &recurring.Template{
			ID:          templateID,
			UserID:      userID,
			Type:        ledger.TypeExpense,
			Amount:      decimal.RequireFromString("1500"),
			Frequency:   finmath.FrequencyMonthly,
			StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			NextDueDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			SkipDates:   []time.Time{skipDate},
			Active:      true,
		}
	}).Return(nil)

	_, api := humatest.New(t)
	NewSkipOccurrenceHandler(op).Register(api)

	resp := api.Post("/v1/recurring/"+templateID.String()+"/skip",
		userHeader(userID), SkipOccurrenceBody{Date: "2025-07-01T00:00:00Z"})

	require.Equal(t, http.StatusOK, resp.Code)
	var body Template
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.SkipDates, 1)
	assert.Equal(t, "2025-07-01T00:00:00Z", body.SkipDates[0])
	assert.Equal(t, "2025-08-01T00:00:00Z", body.NextDueDate)
	op.AssertExpectations(t)
}

type mockScheduleService struct {
	mock.Mock
}

func (m *mockScheduleService) Schedule(ctx context.Context, userID uuid.UUID, now time.Time) ([]service.TemplateSchedule, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.TemplateSchedule), args.Error(1)
}

func TestHTTP_GetSchedule_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	tpl := &recurring.Template{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      userID,
		Type:        ledger.TypeExpense,
		Amount:      decimal.RequireFromString("1500"),
		AccountID:   uuid.Must(uuid.NewV4()),
		Frequency:   finmath.FrequencyMonthly,
		StartDate:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		NextDueDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Active:      true,
	}

	svc := new(mockScheduleService)
	svc.On("Schedule", mock.Anything, userID, mock.Anything).Return([]service.TemplateSchedule{{
		Template: tpl,
		Occurrences: []recurring.Occurrence{
			{TemplateID: tpl.ID, Date: tpl.NextDueDate, DaysUntilDue: -4, Overdue: true, Eligible: true},
			{TemplateID: tpl.ID, Date: tpl.NextDueDate.AddDate(0, 1, 0), DaysUntilDue: 26, Eligible: false},
		},
	}}, nil)

	_, api := humatest.New(t)
	NewGetScheduleHandler(svc).Register(api)

	resp := api.Get("/v1/recurring/schedule", userHeader(userID))

	require.Equal(t, http.StatusOK, resp.Code)
	var body GetScheduleResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Schedules, 1)
	require.Len(t, body.Schedules[0].Occurrences, 2)
	assert.True(t, body.Schedules[0].Occurrences[0].Overdue)
	assert.True(t, body.Schedules[0].Occurrences[0].Eligible)
	assert.False(t, body.Schedules[0].Occurrences[1].Eligible)
	svc.AssertExpectations(t)
}
