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
)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, action actions.IAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func userHeader(userID uuid.UUID) string {
	return "X-User-ID: " + userID.String()
}

func templateFromInput(in recurring.TemplateInput) *recurring.Template {
	return &recurring.Template{
		ID:           uuid.Must(uuid.NewV4()),
		UserID:       in.UserID,
		Type:         in.Type,
		Amount:       in.Amount,
		Currency:     in.Currency,
		AccountID:    in.AccountID,
		ToAccountID:  in.ToAccountID,
		Category:     in.Category,
		Description:  in.Description,
		Frequency:    in.Frequency,
		Interval:     in.Interval,
		IntervalUnit: in.IntervalUnit,
		StartDate:    in.StartDate,
		NextDueDate:  in.StartDate,
		EndDate:      in.EndDate,
		Splits:       in.Splits,
		Split:        len(in.Splits) > 0,
		Loan:         in.Loan,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestHTTP_CreateTemplate_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	accountID := uuid.Must(uuid.NewV4())

	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		create, ok := a.(*actions.CreateTemplate)
		return ok && create.Input.UserID == userID &&
			create.Input.Frequency == finmath.FrequencyMonthly &&
			create.Input.Amount.Equal(decimal.RequireFromString("1500"))
	})).Run(func(args mock.Arguments) {
		create := args.Get(1).(*actions.CreateTemplate)
		create.Result = templateFromInput(create.Input)
	}).Return(nil)

	_, api := humatest.New(t)
	NewCreateTemplateHandler(op).Register(api)

	resp := api.Post("/v1/recurring", userHeader(userID), CreateTemplateBody{
		Type:      "expense",
		Amount:    "1500",
		Currency:  "USD",
		AccountID: accountID.String(),
		Category:  "rent",
		Frequency: "monthly",
		StartDate: "2025-06-01T00:00:00Z",
	})

	require.Equal(t, http.StatusCreated, resp.Code)
	var body Template
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "monthly", body.Frequency)
	assert.Equal(t, "2025-06-01T00:00:00Z", body.NextDueDate)
	assert.True(t, body.Active)
	op.AssertExpectations(t)
}

func TestHTTP_CreateTemplate_SplitsParsedInOrder(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	savingsID := uuid.Must(uuid.NewV4())

	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		create, ok := a.(*actions.CreateTemplate)
		if !ok || len(create.Input.Splits) != 2 {
			return false
		}
		first, second := create.Input.Splits[0], create.Input.Splits[1]
		return first.Kind == recurring.SplitTransfer &&
			first.ToAccountID != nil && *first.ToAccountID == savingsID &&
			second.Kind == recurring.SplitExpense &&
			second.Amount.Equal(decimal.RequireFromString("300"))
	})).Run(func(args mock.Arguments) {
		create := args.Get(1).(*actions.CreateTemplate)
		create.Result = templateFromInput(create.Input)
	}).Return(nil)

	_, api := humatest.New(t)
	NewCreateTemplateHandler(op).Register(api)

	resp := api.Post("/v1/recurring", userHeader(userID), CreateTemplateBody{
		Type:      "expense",
		Amount:    "1000",
		Currency:  "USD",
		AccountID: uuid.Must(uuid.NewV4()).String(),
		Frequency: "monthly",
		StartDate: "2025-06-01T00:00:00Z",
		Splits: []SplitPart{
			{Kind: "transfer", Amount: "700", ToAccountID: savingsID.String()},
			{Kind: "expense", Amount: "300", Category: "utilities"},
		},
	})

	require.Equal(t, http.StatusCreated, resp.Code)
	var body Template
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Split)
	require.Len(t, body.Splits, 2)
	assert.Equal(t, "transfer", body.Splits[0].Kind)
	op.AssertExpectations(t)
}

func TestHTTP_CreateTemplate_SchemaRejections(t *testing.T) {
	op := new(mockProcessor)

	_, api := humatest.New(t)
	NewCreateTemplateHandler(op).Register(api)

	// frequency not in the enum
	resp := api.Post("/v1/recurring", userHeader(uuid.Must(uuid.NewV4())), CreateTemplateBody{
		Type:      "expense",
		Amount:    "10",
		Currency:  "USD",
		AccountID: uuid.Must(uuid.NewV4()).String(),
		Frequency: "fortnightly",
		StartDate: "2025-06-01T00:00:00Z",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	// startDate missing
	resp = api.Post("/v1/recurring", userHeader(uuid.Must(uuid.NewV4())), CreateTemplateBody{
		Type:      "expense",
		Amount:    "10",
		Currency:  "USD",
		AccountID: uuid.Must(uuid.NewV4()).String(),
		Frequency: "monthly",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	op.AssertNotCalled(t, "Process")
}

func TestHTTP_CreateTemplate_EngineRejectionMapsTo400(t *testing.T) {
	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.Anything).Return(ledger.ErrInvalidInput)

	_, api := humatest.New(t)
	NewCreateTemplateHandler(op).Register(api)

	// split amounts that don't sum to the total are the engine's call
	resp := api.Post("/v1/recurring", userHeader(uuid.Must(uuid.NewV4())), CreateTemplateBody{
		Type:      "expense",
		Amount:    "1000",
		Currency:  "USD",
		AccountID: uuid.Must(uuid.NewV4()).String(),
		Frequency: "monthly",
		StartDate: "2025-06-01T00:00:00Z",
		Splits: []SplitPart{
			{Kind: "expense", Amount: "999", Category: "misc"},
		},
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	op.AssertExpectations(t)
}

func TestHTTP_DeleteTemplate_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	templateID := uuid.Must(uuid.NewV4())

	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		del, ok := a.(*actions.DeleteTemplate)
		return ok && del.ID == templateID && del.UserID == userID
	})).Return(nil)

	_, api := humatest.New(t)
	NewDeleteTemplateHandler(op).Register(api)

	resp := api.Delete("/v1/recurring/"+templateID.String(), userHeader(userID))

	assert.Equal(t, http.StatusNoContent, resp.Code)
	op.AssertExpectations(t)
}
