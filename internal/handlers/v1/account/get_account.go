package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
	"github.com/mosslake/finledger/internal/ledger"
)

// GetAccountInput is the Huma input for fetching one account.
type GetAccountInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	ID     string `path:"id" format:"uuid" doc:"Account UUID"`
}

// GetAccountOutput is the Huma output for fetching one account.
type GetAccountOutput struct {
	Body Account
}

// accountGetter is the service slice the get handler needs.
type accountGetter interface {
	Get(ctx context.Context, id, userID uuid.UUID) (*ledger.Account, error)
}

// GetAccountHandler handles GET /v1/account/{id}.
type GetAccountHandler struct {
	AccountService accountGetter
}

// NewGetAccountHandler creates a new GetAccountHandler.
func NewGetAccountHandler(svc accountGetter) *GetAccountHandler {
	return &GetAccountHandler{AccountService: svc}
}

// Register registers the get account endpoint with the Huma API.
func (h *GetAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-account",
		Method:      http.MethodGet,
		Path:        "/v1/account/{id}",
		Summary:     "Get account",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *GetAccountHandler) handle(ctx context.Context, input *GetAccountInput) (*GetAccountOutput, error) {
	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}
	id, err := apiutil.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}

	acc, err := h.AccountService.Get(ctx, id, userID)
	if err != nil {
		return nil, apiutil.MapError(err, "failed to get account")
	}
	return &GetAccountOutput{Body: fromLedger(acc)}, nil
}
