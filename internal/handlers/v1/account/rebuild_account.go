package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
	"github.com/mosslake/finledger/internal/logging"
	"github.com/mosslake/finledger/internal/operator/actions"
)

// RebuildAccountInput is the Huma input for rebuilding an account's chain.
type RebuildAccountInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	ID     string `path:"id" format:"uuid" doc:"Account UUID"`
}

// RebuildAccountOutput is the Huma output for rebuilding an account's chain.
type RebuildAccountOutput struct {
	Status int
}

// RebuildAccountHandler handles POST /v1/account/{id}/rebuild.
type RebuildAccountHandler struct {
	Operator processor
}

// NewRebuildAccountHandler creates a new RebuildAccountHandler.
func NewRebuildAccountHandler(op processor) *RebuildAccountHandler {
	return &RebuildAccountHandler{Operator: op}
}

// Register registers the rebuild account endpoint with the Huma API.
func (h *RebuildAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "rebuild-account",
		Method:        http.MethodPost,
		Path:          "/v1/account/{id}/rebuild",
		Summary:       "Rebuild account balances",
		Description:   "Recomputes every running balance and the account balance from scratch.",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *RebuildAccountHandler) handle(ctx context.Context, input *RebuildAccountInput) (*RebuildAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}
	id, err := apiutil.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("rebuildAccountMs")
	}
	err = h.Operator.Process(ctx, &actions.RebuildAccount{ID: id, UserID: userID})
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apiutil.MapError(err, "failed to rebuild account")
	}

	return &RebuildAccountOutput{Status: http.StatusNoContent}, nil
}
