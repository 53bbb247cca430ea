package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/operator/actions"
)

// UpdateTransactionBody is the request body for updating a transaction.
// Absent fields are left untouched.
type UpdateTransactionBody struct {
	Amount      *string `json:"amount,omitempty" doc:"New positive decimal amount"`
	Type        *string `json:"type,omitempty" enum:"expense,income" doc:"New type, transfers cannot change type"`
	Category    *string `json:"category,omitempty" doc:"New category"`
	Description *string `json:"description,omitempty" doc:"New description"`
	Date        *string `json:"date,omitempty" format:"date-time" doc:"New RFC3339 transaction date"`
	Status      *string `json:"status,omitempty" enum:"completed,cancelled" doc:"New status, pending transactions only"`
	AccountID   *string `json:"accountId,omitempty" format:"uuid" doc:"Reassign to this account"`
	ToAccountID *string `json:"toAccountId,omitempty" format:"uuid" doc:"New transfer destination, source half only"`
}

// UpdateTransactionInput is the Huma input for updating a transaction.
type UpdateTransactionInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	ID     string `path:"id" format:"uuid" doc:"Transaction UUID"`
	Body   UpdateTransactionBody
}

// UpdateTransactionOutput is the Huma output for updating a transaction.
type UpdateTransactionOutput struct {
	Body Transaction
}

// UpdateTransactionHandler handles PATCH /v1/transaction/{id}.
type UpdateTransactionHandler struct {
	Operator processor
}

// NewUpdateTransactionHandler creates a new UpdateTransactionHandler.
func NewUpdateTransactionHandler(op processor) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{Operator: op}
}

// Register registers the update transaction endpoint with the Huma API.
func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPatch,
		Path:        "/v1/transaction/{id}",
		Summary:     "Update transaction",
		Description: "Updates a transaction and restores the account's running-balance chain.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseUpdateTransactionInput(input *UpdateTransactionInput) (ledger.UpdateInput, error) {
	var update ledger.UpdateInput

	if input.Body.Amount != nil {
		amount, err := decimal.NewFromString(*input.Body.Amount)
		if err != nil {
			return update, huma.NewError(http.StatusBadRequest, "invalid amount", err)
		}
		update.Amount = &amount
	}
	if input.Body.Type != nil {
		txType := ledger.TransactionType(*input.Body.Type)
		update.Type = &txType
	}
	update.Category = input.Body.Category
	update.Description = input.Body.Description
	if input.Body.Date != nil {
		date, err := time.Parse(time.RFC3339, *input.Body.Date)
		if err != nil {
			return update, huma.NewError(http.StatusBadRequest, "invalid date", err)
		}
		update.Date = &date
	}
	if input.Body.Status != nil {
		status := ledger.TransactionStatus(*input.Body.Status)
		update.Status = &status
	}
	if input.Body.AccountID != nil {
		accountID, err := apiutil.ParseID(*input.Body.AccountID, "accountId")
		if err != nil {
			return update, err
		}
		update.AccountID = &accountID
	}
	if input.Body.ToAccountID != nil {
		toAccountID, err := apiutil.ParseID(*input.Body.ToAccountID, "toAccountId")
		if err != nil {
			return update, err
		}
		update.ToAccountID = &toAccountID
	}
	return update, nil
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return nil, err
	}
	id, err := apiutil.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}
	update, err := parseUpdateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	action := &actions.UpdateTransaction{ID: id, UserID: userID, Input: update}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, apiutil.MapError(err, "failed to update transaction")
	}

	return &UpdateTransactionOutput{Body: fromLedger(action.Result)}, nil
}
