package loan

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
)

// GetProgressInput is the Huma input for loan progress.
type GetProgressInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	ID     string `path:"id" format:"uuid" doc:"Loan template UUID"`
}

// ProgressResponseBody is the response body for loan progress.
type ProgressResponseBody struct {
	Principal         string `json:"principal" doc:"Original loan principal"`
	CurrentBalance    string `json:"currentBalance" doc:"Remaining balance"`
	PaidPrincipal     string `json:"paidPrincipal" doc:"Principal repaid so far"`
	MonthlyPayment    string `json:"monthlyPayment" doc:"Fixed monthly payment"`
	PaymentsMade      int    `json:"paymentsMade" doc:"Payments elapsed since the start date"`
	PaymentsRemaining int    `json:"paymentsRemaining" doc:"Payments left in the term"`
	TermMonths        int    `json:"termMonths" doc:"Loan term in months"`
}

// GetProgressOutput is the Huma output for loan progress.
type GetProgressOutput struct {
	Body ProgressResponseBody
}

// GetProgressHandler handles GET /v1/loan/{id}/progress.
type GetProgressHandler struct {
	LoanService loanReader
}

// NewGetProgressHandler creates a new GetProgressHandler.
func NewGetProgressHandler(svc loanReader) *GetProgressHandler {
	return &GetProgressHandler{LoanService: svc}
}

// Register registers the loan progress endpoint with the Huma API.
func (h *GetProgressHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-loan-progress",
		Method:      http.MethodGet,
		Path:        "/v1/loan/{id}/progress",
		Summary:     "Get loan payoff progress",
		Tags:        []string{"Loans"},
	}, h.handle)
}

func (h *GetProgressHandler) handle(ctx context.Context, input *GetProgressInput) (*GetProgressOutput, error) {
	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}
	id, err := apiutil.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}

	progress, err := h.LoanService.Progress(ctx, id, userID, time.Now().UTC())
	if err != nil {
		return nil, apiutil.MapError(err, "failed to get loan progress")
	}

	return &GetProgressOutput{Body: ProgressResponseBody{
		Principal:         progress.Principal.String(),
		CurrentBalance:    progress.CurrentBalance.String(),
		PaidPrincipal:     progress.PaidPrincipal.String(),
		MonthlyPayment:    progress.MonthlyPayment.String(),
		PaymentsMade:      progress.PaymentsMade,
		PaymentsRemaining: progress.PaymentsRemaining,
		TermMonths:        progress.TermMonths,
	}}, nil
}
