package recurring

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
	"github.com/mosslake/finledger/internal/operator/actions"
)

// SkipOccurrenceBody is the request body for skipping an occurrence.
type SkipOccurrenceBody struct {
	Date string `json:"date" required:"true" format:"date-time" doc:"Occurrence date to skip"`
}

// SkipOccurrenceInput is the Huma input for skipping an occurrence.
type SkipOccurrenceInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	ID     string `path:"id" format:"uuid" doc:"Template UUID"`
	Body   SkipOccurrenceBody
}

// SkipOccurrenceOutput is the Huma output for skipping an occurrence.
type SkipOccurrenceOutput struct {
	Body Template
}

// SkipOccurrenceHandler handles POST /v1/recurring/{id}/skip.
type SkipOccurrenceHandler struct {
	Operator processor
}

// NewSkipOccurrenceHandler creates a new SkipOccurrenceHandler.
func NewSkipOccurrenceHandler(op processor) *SkipOccurrenceHandler {
	return &SkipOccurrenceHandler{Operator: op}
}

// Register registers the skip occurrence endpoint with the Huma API.
func (h *SkipOccurrenceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "skip-recurring-occurrence",
		Method:      http.MethodPost,
		Path:        "/v1/recurring/{id}/skip",
		Summary:     "Skip recurring occurrence",
		Description: "Marks one occurrence date skipped without creating a transaction. Skipping the next due date advances the cursor.",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func (h *SkipOccurrenceHandler) handle(ctx context.Context, input *SkipOccurrenceInput) (*SkipOccurrenceOutput, error) {
	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}
	id, err := apiutil.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(time.RFC3339, input.Body.Date)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid date", err)
	}

	action := &actions.SkipOccurrence{TemplateID: id, UserID: userID, Date: date}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, apiutil.MapError(err, "failed to skip occurrence")
	}

	return &SkipOccurrenceOutput{Body: fromTemplate(action.Result)}, nil
}
