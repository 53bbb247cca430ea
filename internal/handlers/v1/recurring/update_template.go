package recurring

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/mosslake/finledger/internal/finmath"
	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
	"github.com/mosslake/finledger/internal/operator/actions"
	"github.com/mosslake/finledger/internal/recurring"
)

// UpdateTemplateBody is the request body for updating a template. Absent
// fields are left untouched.
type UpdateTemplateBody struct {
	Amount      *string     `json:"amount,omitempty" doc:"New positive decimal amount"`
	Category    *string     `json:"category,omitempty" doc:"New category"`
	Description *string     `json:"description,omitempty" doc:"New description"`
	Frequency   *string     `json:"frequency,omitempty" enum:"daily,weekly,biweekly,monthly,quarterly,semiannually,yearly,custom" doc:"New frequency"`
	Interval    *int        `json:"interval,omitempty" minimum:"0" doc:"New custom interval length"`
	EndDate     *string     `json:"endDate,omitempty" format:"date-time" doc:"New RFC3339 last occurrence date"`
	Splits      []SplitPart `json:"splits,omitempty" doc:"Replacement split parts, must sum to the amount"`
}

// UpdateTemplateInput is the Huma input for updating a template.
type UpdateTemplateInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	ID     string `path:"id" format:"uuid" doc:"Template UUID"`
	Body   UpdateTemplateBody
}

// UpdateTemplateOutput is the Huma output for updating a template.
type UpdateTemplateOutput struct {
	Body Template
}

// UpdateTemplateHandler handles PATCH /v1/recurring/{id}.
type UpdateTemplateHandler struct {
	Operator processor
}

// NewUpdateTemplateHandler creates a new UpdateTemplateHandler.
func NewUpdateTemplateHandler(op processor) *UpdateTemplateHandler {
	return &UpdateTemplateHandler{Operator: op}
}

// Register registers the update template endpoint with the Huma API.
func (h *UpdateTemplateHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-recurring-template",
		Method:      http.MethodPatch,
		Path:        "/v1/recurring/{id}",
		Summary:     "Update recurring template",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func parseUpdateTemplateInput(input *UpdateTemplateInput) (recurring.TemplateUpdate, error) {
	var update recurring.TemplateUpdate

	if input.Body.Amount != nil {
		amount, err := decimal.NewFromString(*input.Body.Amount)
		if err != nil {
			return update, huma.NewError(http.StatusBadRequest, "invalid amount", err)
		}
		update.Amount = &amount
	}
	update.Category = input.Body.Category
	update.Description = input.Body.Description
	if input.Body.Frequency != nil {
		freq := finmath.Frequency(*input.Body.Frequency)
		update.Frequency = &freq
	}
	update.Interval = input.Body.Interval
	if input.Body.EndDate != nil {
		endDate, err := time.Parse(time.RFC3339, *input.Body.EndDate)
		if err != nil {
			return update, huma.NewError(http.StatusBadRequest, "invalid endDate", err)
		}
		update.EndDate = &endDate
	}
	splits, err := parseSplitParts(input.Body.Splits)
	if err != nil {
		return update, err
	}
	update.Splits = splits
	return update, nil
}

func (h *UpdateTemplateHandler) handle(ctx context.Context, input *UpdateTemplateInput) (*UpdateTemplateOutput, error) {
	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}
	id, err := apiutil.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}
	update, err := parseUpdateTemplateInput(input)
	if err != nil {
		return nil, err
	}

	action := &actions.UpdateTemplate{ID: id, UserID: userID, Input: update}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, apiutil.MapError(err, "failed to update recurring template")
	}

	return &UpdateTemplateOutput{Body: fromTemplate(action.Result)}, nil
}
