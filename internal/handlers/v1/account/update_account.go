package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
	"github.com/mosslake/finledger/internal/operator/actions"
)

// UpdateAccountBody is the request body for updating an account. Absent
// fields are left untouched.
type UpdateAccountBody struct {
	Name   *string `json:"name,omitempty" minLength:"1" doc:"New account name"`
	Active *bool   `json:"active,omitempty" doc:"False closes the account, true reopens it"`
}

// UpdateAccountInput is the Huma input for updating an account.
type UpdateAccountInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	ID     string `path:"id" format:"uuid" doc:"Account UUID"`
	Body   UpdateAccountBody
}

// UpdateAccountOutput is the Huma output for updating an account.
type UpdateAccountOutput struct {
	Body Account
}

// UpdateAccountHandler handles PATCH /v1/account/{id}.
type UpdateAccountHandler struct {
	Operator processor
}

// NewUpdateAccountHandler creates a new UpdateAccountHandler.
func NewUpdateAccountHandler(op processor) *UpdateAccountHandler {
	return &UpdateAccountHandler{Operator: op}
}

// Register registers the update account endpoint with the Huma API.
func (h *UpdateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-account",
		Method:      http.MethodPatch,
		Path:        "/v1/account/{id}",
		Summary:     "Update account",
		Description: "Renames, closes, or reopens an account.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *UpdateAccountHandler) handle(ctx context.Context, input *UpdateAccountInput) (*UpdateAccountOutput, error) {
	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}
	id, err := apiutil.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}

	action := &actions.UpdateAccount{
		ID:     id,
		UserID: userID,
		Name:   input.Body.Name,
		Active: input.Body.Active,
	}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, apiutil.MapError(err, "failed to update account")
	}

	return &UpdateAccountOutput{Body: fromLedger(action.Result)}, nil
}
