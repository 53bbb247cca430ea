package recurring

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
	"github.com/mosslake/finledger/internal/recurring"
)

// GetTemplateInput is the Huma input for fetching one template.
type GetTemplateInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	ID     string `path:"id" format:"uuid" doc:"Template UUID"`
}

// GetTemplateOutput is the Huma output for fetching one template.
type GetTemplateOutput struct {
	Body Template
}

// templateGetter is the service slice the get handler needs.
type templateGetter interface {
	Get(ctx context.Context, id, userID uuid.UUID) (*recurring.Template, error)
}

// GetTemplateHandler handles GET /v1/recurring/{id}.
type GetTemplateHandler struct {
	RecurringService templateGetter
}

// NewGetTemplateHandler creates a new GetTemplateHandler.
func NewGetTemplateHandler(svc templateGetter) *GetTemplateHandler {
	return &GetTemplateHandler{RecurringService: svc}
}

// Register registers the get template endpoint with the Huma API.
func (h *GetTemplateHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-recurring-template",
		Method:      http.MethodGet,
		Path:        "/v1/recurring/{id}",
		Summary:     "Get recurring template",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func (h *GetTemplateHandler) handle(ctx context.Context, input *GetTemplateInput) (*GetTemplateOutput, error) {
	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}
	id, err := apiutil.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}

	tpl, err := h.RecurringService.Get(ctx, id, userID)
	if err != nil {
		return nil, apiutil.MapError(err, "failed to get recurring template")
	}
	return &GetTemplateOutput{Body: fromTemplate(tpl)}, nil
}
