package loan

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
)

// GetNextPaymentInput is the Huma input for the next payment breakdown.
type GetNextPaymentInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	ID     string `path:"id" format:"uuid" doc:"Loan template UUID"`
}

// NextPaymentResponseBody is the response body for the next payment breakdown.
type NextPaymentResponseBody struct {
	Principal        string `json:"principal" doc:"Principal portion of the next payment"`
	Interest         string `json:"interest" doc:"Interest portion of the next payment"`
	TotalPayment     string `json:"totalPayment" doc:"Total next payment"`
	RemainingBalance string `json:"remainingBalance" doc:"Balance after the next payment"`
}

// GetNextPaymentOutput is the Huma output for the next payment breakdown.
type GetNextPaymentOutput struct {
	Body NextPaymentResponseBody
}

// GetNextPaymentHandler handles GET /v1/loan/{id}/next-payment.
type GetNextPaymentHandler struct {
	LoanService loanReader
}

// NewGetNextPaymentHandler creates a new GetNextPaymentHandler.
func NewGetNextPaymentHandler(svc loanReader) *GetNextPaymentHandler {
	return &GetNextPaymentHandler{LoanService: svc}
}

// Register registers the next payment endpoint with the Huma API.
func (h *GetNextPaymentHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-loan-next-payment",
		Method:      http.MethodGet,
		Path:        "/v1/loan/{id}/next-payment",
		Summary:     "Get next loan payment breakdown",
		Description: "Splits the next payment into principal and interest using the loan's tracked balance.",
		Tags:        []string{"Loans"},
	}, h.handle)
}

func (h *GetNextPaymentHandler) handle(ctx context.Context, input *GetNextPaymentInput) (*GetNextPaymentOutput, error) {
	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}
	id, err := apiutil.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}

	breakdown, err := h.LoanService.NextPayment(ctx, id, userID, time.Now().UTC())
	if err != nil {
		return nil, apiutil.MapError(err, "failed to get next payment")
	}

	return &GetNextPaymentOutput{Body: NextPaymentResponseBody{
		Principal:        breakdown.Principal.String(),
		Interest:         breakdown.Interest.String(),
		TotalPayment:     breakdown.TotalPayment.String(),
		RemainingBalance: breakdown.RemainingBalance.String(),
	}}, nil
}
