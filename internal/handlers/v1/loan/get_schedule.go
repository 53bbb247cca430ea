package loan

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
	"github.com/mosslake/finledger/internal/logging"
)

// ScheduleEntry is the API model for one amortization schedule row.
type ScheduleEntry struct {
	Period           int    `json:"period" doc:"1-based payment number"`
	Date             string `json:"date" doc:"RFC3339 payment date"`
	Principal        string `json:"principal" doc:"Principal portion"`
	Interest         string `json:"interest" doc:"Interest portion"`
	Payment          string `json:"payment" doc:"Total payment"`
	RemainingBalance string `json:"remainingBalance" doc:"Balance after this payment"`
}

// GetScheduleInput is the Huma input for the amortization schedule.
type GetScheduleInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	ID     string `path:"id" format:"uuid" doc:"Loan template UUID"`
}

// GetScheduleResponseBody is the response body for the amortization schedule.
type GetScheduleResponseBody struct {
	Entries []ScheduleEntry `json:"entries" doc:"Full schedule, first payment first"`
}

// GetScheduleOutput is the Huma output for the amortization schedule.
type GetScheduleOutput struct {
	Body GetScheduleResponseBody
}

// GetScheduleHandler handles GET /v1/loan/{id}/schedule.
type GetScheduleHandler struct {
	LoanService loanReader
}

// NewGetScheduleHandler creates a new GetScheduleHandler.
func NewGetScheduleHandler(svc loanReader) *GetScheduleHandler {
	return &GetScheduleHandler{LoanService: svc}
}

// Register registers the loan schedule endpoint with the Huma API.
func (h *GetScheduleHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-loan-schedule",
		Method:      http.MethodGet,
		Path:        "/v1/loan/{id}/schedule",
		Summary:     "Get loan amortization schedule",
		Tags:        []string{"Loans"},
	}, h.handle)
}

func (h *GetScheduleHandler) handle(ctx context.Context, input *GetScheduleInput) (*GetScheduleOutput, error) {
	logData := logging.GetLogData(ctx)

	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}
	id, err := apiutil.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}

	entries, err := h.LoanService.Schedule(ctx, id, userID)
	if err != nil {
		return nil, apiutil.MapError(err, "failed to get loan schedule")
	}

	if logData != nil {
		logData.AddData("scheduleLength", len(entries))
	}

	resp := GetScheduleResponseBody{
		Entries: make([]ScheduleEntry, len(entries)),
	}
	for i, entry := range entries {
		resp.Entries[i] = ScheduleEntry{
			Period:           entry.Period,
			Date:             entry.Date.Format(time.RFC3339),
			Principal:        entry.Principal.String(),
			Interest:         entry.Interest.String(),
			Payment:          entry.Payment.String(),
			RemainingBalance: entry.RemainingBalance.String(),
		}
	}
	return &GetScheduleOutput{Body: resp}, nil
}
