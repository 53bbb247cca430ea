package recurring

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
	"github.com/mosslake/finledger/internal/logging"
	"github.com/mosslake/finledger/internal/recurring"
)

// ListTemplatesInput is the Huma input for listing templates.
type ListTemplatesInput struct {
	UserID          string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	IncludeInactive bool   `query:"includeInactive" doc:"Include deleted templates"`
}

// ListTemplatesResponseBody is the response body for listing templates.
type ListTemplatesResponseBody struct {
	Templates []Template `json:"templates" doc:"The user's templates, by next due date"`
}

// ListTemplatesOutput is the Huma output for listing templates.
type ListTemplatesOutput struct {
	Body ListTemplatesResponseBody
}

// templateLister is the service slice the list handler needs.
type templateLister interface {
	List(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]*recurring.Template, error)
}

// ListTemplatesHandler handles GET /v1/recurring.
type ListTemplatesHandler struct {
	RecurringService templateLister
}

// NewListTemplatesHandler creates a new ListTemplatesHandler.
func NewListTemplatesHandler(svc templateLister) *ListTemplatesHandler {
	return &ListTemplatesHandler{RecurringService: svc}
}

// Register registers the list templates endpoint with the Huma API.
func (h *ListTemplatesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-recurring-templates",
		Method:      http.MethodGet,
		Path:        "/v1/recurring",
		Summary:     "List recurring templates",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func (h *ListTemplatesHandler) handle(ctx context.Context, input *ListTemplatesInput) (*ListTemplatesOutput, error) {
	logData := logging.GetLogData(ctx)

	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}

	templates, err := h.RecurringService.List(ctx, userID, input.IncludeInactive)
	if err != nil {
		return nil, apiutil.MapError(err, "failed to list recurring templates")
	}

	if logData != nil {
		logData.AddData("templateCount", len(templates))
	}

	resp := ListTemplatesResponseBody{
		Templates: make([]Template, len(templates)),
	}
	for i, tpl := range templates {
		resp.Templates[i] = fromTemplate(tpl)
	}
	return &ListTemplatesOutput{Body: resp}, nil
}
