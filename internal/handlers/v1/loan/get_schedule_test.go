package loan

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
	"github.com/mosslake/finledger/internal/service"
)

type mockLoanService struct {
	mock.Mock
}

func (m *mockLoanService) Schedule(ctx context.Context, templateID, userID uuid.UUID) ([]finmath.ScheduleEntry, error) {
	args := m.Called(ctx, templateID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finmath.ScheduleEntry), args.Error(1)
}

func (m *mockLoanService) NextPayment(ctx context.Context, templateID, userID uuid.UUID, asOf time.Time) (finmath.PaymentBreakdown, error) {
	args := m.Called(ctx, templateID, userID, asOf)
	return args.Get(0).(finmath.PaymentBreakdown), args.Error(1)
}

func (m *mockLoanService) Progress(ctx context.Context, templateID, userID uuid.UUID, asOf time.Time) (*service.LoanProgress, error) {
	args := m.Called(ctx, templateID, userID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoanProgress), args.Error(1)
}

func userHeader(userID uuid.UUID) string {
	return "X-User-ID: " + userID.String()
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestHTTP_GetLoanSchedule_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	templateID := uuid.Must(uuid.NewV4())

	svc := new(mockLoanService)
	svc.On("Schedule", mock.Anything, templateID, userID).Return([]finmath.ScheduleEntry{
		{
			Period:           1,
			Date:             time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Principal:        d("239.19"),
			Interest:         d("1200"),
			Payment:          d("1439.19"),
			RemainingBalance: d("239760.81"),
		},
		{
			Period:           2,
			Date:             time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			Principal:        d("240.38"),
			Interest:         d("1198.80"),
			Payment:          d("1439.18"),
			RemainingBalance: d("239520.43"),
		},
	}, nil)

	_, api := humatest.New(t)
	NewGetScheduleHandler(svc).Register(api)

	resp := api.Get("/v1/loan/"+templateID.String()+"/schedule", userHeader(userID))

	require.Equal(t, http.StatusOK, resp.Code)
	var body GetScheduleResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Entries, 2)
	assert.Equal(t, 1, body.Entries[0].Period)
	assert.Equal(t, "1200", body.Entries[0].Interest)
	assert.Equal(t, "239520.43", body.Entries[1].RemainingBalance)
	svc.AssertExpectations(t)
}

func TestHTTP_GetLoanSchedule_NotALoanMapsTo400(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	templateID := uuid.Must(uuid.NewV4())

	svc := new(mockLoanService)
	svc.On("Schedule", mock.Anything, templateID, userID).Return(nil, ledger.ErrInvalidInput)

	_, api := humatest.New(t)
	NewGetScheduleHandler(svc).Register(api)

	resp := api.Get("/v1/loan/"+templateID.String()+"/schedule", userHeader(userID))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	svc.AssertExpectations(t)
}

func TestHTTP_GetNextPayment_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	templateID := uuid.Must(uuid.NewV4())

	svc := new(mockLoanService)
	svc.On("NextPayment", mock.Anything, templateID, userID, mock.Anything).Return(finmath.PaymentBreakdown{
		Principal:        d("240.38"),
		Interest:         d("1198.80"),
		TotalPayment:     d("1439.18"),
		RemainingBalance: d("239520.43"),
	}, nil)

	_, api := humatest.New(t)
	NewGetNextPaymentHandler(svc).Register(api)

	resp := api.Get("/v1/loan/"+templateID.String()+"/next-payment", userHeader(userID))

	require.Equal(t, http.StatusOK, resp.Code)
	var body NextPaymentResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "240.38", body.Principal)
	assert.Equal(t, "1198.8", body.Interest)
	svc.AssertExpectations(t)
}

func TestHTTP_GetProgress_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	templateID := uuid.Must(uuid.NewV4())

	svc := new(mockLoanService)
	svc.On("Progress", mock.Anything, templateID, userID, mock.Anything).Return(&service.LoanProgress{
		Principal:         d("240000"),
		CurrentBalance:    d("239760.81"),
		PaidPrincipal:     d("239.19"),
		MonthlyPayment:    d("1439.19"),
		PaymentsMade:      1,
		PaymentsRemaining: 359,
		TermMonths:        360,
	}, nil)

	_, api := humatest.New(t)
	NewGetProgressHandler(svc).Register(api)

	resp := api.Get("/v1/loan/"+templateID.String()+"/progress", userHeader(userID))

	require.Equal(t, http.StatusOK, resp.Code)
	var body ProgressResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "239.19", body.PaidPrincipal)
	assert.Equal(t, 359, body.PaymentsRemaining)
	svc.AssertExpectations(t)
}

func TestHTTP_GetProgress_UnknownTemplate(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	templateID := uuid.Must(uuid.NewV4())

	svc := new(mockLoanService)
	svc.On("Progress", mock.Anything, templateID, userID, mock.Anything).Return(nil, ledger.ErrNotFound)

	_, api := humatest.New(t)
	NewGetProgressHandler(svc).Register(api)

	resp := api.Get("/v1/loan/"+templateID.String()+"/progress", userHeader(userID))

	assert.Equal(t, http.StatusNotFound, resp.Code)
	svc.AssertExpectations(t)
}
