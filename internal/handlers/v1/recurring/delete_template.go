package recurring

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
	"github.com/mosslake/finledger/internal/operator/actions"
)

// DeleteTemplateInput is the Huma input for deleting a template.
type DeleteTemplateInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	ID     string `path:"id" format:"uuid" doc:"Template UUID"`
}

// DeleteTemplateOutput is the Huma output for deleting a template.
type DeleteTemplateOutput struct {
	Status int
}

// DeleteTemplateHandler handles DELETE /v1/recurring/{id}.
type DeleteTemplateHandler struct {
	Operator processor
}

// NewDeleteTemplateHandler creates a new DeleteTemplateHandler.
func NewDeleteTemplateHandler(op processor) *DeleteTemplateHandler {
	return &DeleteTemplateHandler{Operator: op}
}

// Register registers the delete template endpoint with the Huma API.
func (h *DeleteTemplateHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-recurring-template",
		Method:        http.MethodDelete,
		Path:          "/v1/recurring/{id}",
		Summary:       "Delete recurring template",
		Description:   "Deactivates a template. Transactions it generated are kept.",
		Tags:          []string{"Recurring"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteTemplateHandler) handle(ctx context.Context, input *DeleteTemplateInput) (*DeleteTemplateOutput, error) {
	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}
	id, err := apiutil.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}

	action := &actions.DeleteTemplate{ID: id, UserID: userID}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, apiutil.MapError(err, "failed to delete recurring template")
	}

	return &DeleteTemplateOutput{Status: http.StatusNoContent}, nil
}
