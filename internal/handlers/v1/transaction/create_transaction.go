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

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	AccountID   string      `json:"accountId" required:"true" format:"uuid" doc:"Account UUID"`
	ToAccountID string      `json:"toAccountId,omitempty" format:"uuid" doc:"Destination account UUID, transfers only"`
	Type        string      `json:"type" required:"true" enum:"expense,income,transfer" doc:"Transaction type"`
	Amount      string      `json:"amount" required:"true" doc:"Positive decimal amount"`
	Category    string      `json:"category,omitempty" doc:"Spending category, required except for transfers"`
	Description string      `json:"description,omitempty" doc:"Free-form description"`
	Date        string      `json:"date,omitempty" format:"date-time" doc:"RFC3339 transaction date, defaults to now"`
	Status      string      `json:"status,omitempty" enum:"pending,completed" doc:"Initial status, defaults to completed"`
	Conversion  *Conversion `json:"conversion,omitempty" doc:"Conversion metadata for cross-currency transfers"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	Body   CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   Transaction
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	Operator processor
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(op processor) *CreateTransactionHandler {
	return &CreateTransactionHandler{Operator: op}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Creates a new transaction. Transfers produce two cross-linked records, one per account.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateTransactionInput parses and validates the API input into a
// ledger create.
func parseCreateTransactionInput(input *CreateTransactionInput) (ledger.CreateInput, error) {
	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return ledger.CreateInput{}, err
	}
	accountID, err := apiutil.ParseID(input.Body.AccountID, "accountId")
	if err != nil {
		return ledger.CreateInput{}, err
	}
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return ledger.CreateInput{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	create := ledger.CreateInput{
		UserID:      userID,
		AccountID:   accountID,
		Type:        ledger.TransactionType(input.Body.Type),
		Amount:      amount,
		Category:    input.Body.Category,
		Description: input.Body.Description,
		Status:      ledger.TransactionStatus(input.Body.Status),
	}

	if input.Body.ToAccountID != "" {
		toID, err := apiutil.ParseID(input.Body.ToAccountID, "toAccountId")
		if err != nil {
			return ledger.CreateInput{}, err
		}
		create.ToAccountID = &toID
	}
	if input.Body.Date != "" {
		date, err := time.Parse(time.RFC3339, input.Body.Date)
		if err != nil {
			return ledger.CreateInput{}, huma.NewError(http.StatusBadRequest, "invalid date", err)
		}
		create.Date = date
	}
	if input.Body.Conversion != nil {
		conv, err := parseConversion(input.Body.Conversion)
		if err != nil {
			return ledger.CreateInput{}, err
		}
		create.Conversion = conv
	}
	return create, nil
}

func parseConversion(in *Conversion) (*ledger.Conversion, error) {
	fromAmount, err := decimal.NewFromString(in.FromAmount)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid conversion fromAmount", err)
	}
	toAmount, err := decimal.NewFromString(in.ToAmount)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid conversion toAmount", err)
	}
	rate, err := decimal.NewFromString(in.Rate)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid conversion rate", err)
	}
	return &ledger.Conversion{
		FromCurrency: in.FromCurrency,
		ToCurrency:   in.ToCurrency,
		FromAmount:   fromAmount,
		ToAmount:     toAmount,
		Rate:         rate,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	create, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	action := &actions.CreateTransaction{Input: create}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, apiutil.MapError(err, "failed to create transaction")
	}

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   fromLedger(action.Result),
	}, nil
}
