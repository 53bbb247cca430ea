package account

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

	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/operator/actions"
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

func TestHTTP_CreateAccount_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())

	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		create, ok := a.(*actions.CreateAccount)
		return ok && create.UserID == userID &&
			create.Name == "Checking" &&
			create.Type == ledger.AccountTypeCash &&
			create.StartingBalance.Equal(decimal.RequireFromString("250.00"))
	})).Run(func(args mock.Arguments) {
		create := args.Get(1).(*actions.CreateAccount)
		create.Result = &ledger.Account{
			ID:              uuid.Must(uuid.NewV4()),
			UserID:          userID,
			Name:            create.Name,
			Type:            create.Type,
			Currency:        create.Currency,
			Balance:         create.StartingBalance,
			StartingBalance: create.StartingBalance,
			Active:          true,
			CreatedAt:       time.Now().UTC(),
		}
	}).Return(nil)

	_, api := humatest.New(t)
	NewCreateAccountHandler(op).Register(api)

	resp := api.Post("/v1/account", userHeader(userID), CreateAccountBody{
		Name:            "Checking",
		Type:            0,
		Currency:        "USD",
		StartingBalance: "250.00",
	})

	require.Equal(t, http.StatusCreated, resp.Code)
	var body Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Checking", body.Name)
	assert.Equal(t, "250", body.Balance)
	assert.True(t, body.Active)
	op.AssertExpectations(t)
}

func TestHTTP_CreateAccount_DefaultsStartingBalanceToZero(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())

	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		create, ok := a.(*actions.CreateAccount)
		return ok && create.StartingBalance.IsZero()
	})).Run(func(args mock.Arguments) {
		create := args.Get(1).(*actions.CreateAccount)
		create.Result = &ledger.Account{
			ID:       uuid.Must(uuid.NewV4()),
			UserID:   userID,
			Name:     create.Name,
			Currency: create.Currency,
			Active:   true,
		}
	}).Return(nil)

	_, api := humatest.New(t)
	NewCreateAccountHandler(op).Register(api)

	resp := api.Post("/v1/account", userHeader(userID), CreateAccountBody{
		Name:     "Savings",
		Type:     0,
		Currency: "EUR",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	op.AssertExpectations(t)
}

func TestHTTP_CreateAccount_SchemaRejections(t *testing.T) {
	op := new(mockProcessor)

	_, api := humatest.New(t)
	NewCreateAccountHandler(op).Register(api)

	// name missing
	resp := api.Post("/v1/account", userHeader(uuid.Must(uuid.NewV4())),
		CreateAccountBody{Currency: "USD"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	// type out of range
	resp = api.Post("/v1/account", userHeader(uuid.Must(uuid.NewV4())),
		CreateAccountBody{Name: "X", Type: 9, Currency: "USD"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	// currency not 3 chars
	resp = api.Post("/v1/account", userHeader(uuid.Must(uuid.NewV4())),
		CreateAccountBody{Name: "X", Currency: "DOLLARS"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	op.AssertNotCalled(t, "Process")
}

func TestHTTP_CreateAccount_InvalidStartingBalance(t *testing.T) {
	op := new(mockProcessor)

	_, api := humatest.New(t)
	NewCreateAccountHandler(op).Register(api)

	resp := api.Post("/v1/account", userHeader(uuid.Must(uuid.NewV4())),
		CreateAccountBody{Name: "X", Currency: "USD", StartingBalance: "lots"})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	op.AssertNotCalled(t, "Process")
}

func TestHTTP_UpdateAccount_Close(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	accountID := uuid.Must(uuid.NewV4())

	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		update, ok := a.(*actions.UpdateAccount)
		return ok && update.ID == accountID && update.UserID == userID &&
			update.Name == nil && update.Active != nil && !*update.Active
	})).Run(func(args mock.Arguments) {
		update := args.Get(1).(*actions.UpdateAccount)
		update.Result = &ledger.Account{
			ID:     accountID,
			UserID: userID,
			Name:   "Checking",
			Active: false,
		}
	}).Return(nil)

	_, api := humatest.New(t)
	NewUpdateAccountHandler(op).Register(api)

	active := false
	resp := api.Patch("/v1/account/"+accountID.String(), userHeader(userID),
		UpdateAccountBody{Active: &active})

	require.Equal(t, http.StatusOK, resp.Code)
	var body Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Active)
	op.AssertExpectations(t)
}

func TestHTTP_UpdateAccount_ForeignAccountMapsTo404(t *testing.T) {
	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.Anything).Return(ledger.ErrNotFound)

	_, api := humatest.New(t)
	NewUpdateAccountHandler(op).Register(api)

	name := "Renamed"
	resp := api.Patch("/v1/account/"+uuid.Must(uuid.NewV4()).String(),
		userHeader(uuid.Must(uuid.NewV4())), UpdateAccountBody{Name: &name})

	assert.Equal(t, http.StatusNotFound, resp.Code)
	op.AssertExpectations(t)
}

func TestHTTP_RebuildAccount_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	accountID := uuid.Must(uuid.NewV4())

	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		rebuild, ok := a.(*actions.RebuildAccount)
		return ok && rebuild.ID == accountID && rebuild.UserID == userID
	})).Return(nil)

	_, api := humatest.New(t)
	NewRebuildAccountHandler(op).Register(api)

	resp := api.Post("/v1/account/"+accountID.String()+"/rebuild", userHeader(userID))

	assert.Equal(t, http.StatusNoContent, resp.Code)
	op.AssertExpectations(t)
}
