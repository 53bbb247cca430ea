package recurring

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/logging"
	"github.com/mosslake/finledger/internal/operator/actions"
	"github.com/mosslake/finledger/internal/recurring"
)

// ExecuteTemplateBody is the request body for executing a template
// occurrence. All fields are optional overrides.
type ExecuteTemplateBody struct {
	DueDate     string `json:"dueDate,omitempty" format:"date-time" doc:"Occurrence date to execute, defaults to the template's next due date"`
	Amount      string `json:"amount,omitempty" doc:"Override the template amount for this occurrence"`
	Principal   string `json:"principal,omitempty" doc:"Override the derived principal portion, loans only"`
	Interest    string `json:"interest,omitempty" doc:"Override the derived interest portion, loans only"`
	Description string `json:"description,omitempty" doc:"Override the description for this occurrence"`
}

// ExecuteTemplateInput is the Huma input for executing a template occurrence.
type ExecuteTemplateInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	ID     string `path:"id" format:"uuid" doc:"Template UUID"`
	Body   ExecuteTemplateBody
}

// ExecutedTransaction is the API model for one ledger record an execution
// produced.
type ExecutedTransaction struct {
	ID             string `json:"id" doc:"Transaction UUID"`
	AccountID      string `json:"accountId" doc:"Account UUID"`
	Type           string `json:"type" doc:"expense, income, or transfer"`
	SignedAmount   string `json:"signedAmount" doc:"Signed decimal balance effect"`
	Category       string `json:"category,omitempty" doc:"Spending category"`
	RunningBalance string `json:"runningBalance,omitempty" doc:"Account balance after this record"`
	Date           string `json:"date" doc:"RFC3339 transaction date"`
}

// ExecuteTemplateResponseBody is the response body for executing a template.
type ExecuteTemplateResponseBody struct {
	Transactions []ExecutedTransaction `json:"transactions" doc:"Created ledger records, in insertion order"`
}

// ExecuteTemplateOutput is the Huma output for executing a template.
type ExecuteTemplateOutput struct {
	Status int
	Body   ExecuteTemplateResponseBody
}

// ExecuteTemplateHandler handles POST /v1/recurring/{id}/execute.
type ExecuteTemplateHandler struct {
	Operator processor
}

// NewExecuteTemplateHandler creates a new ExecuteTemplateHandler.
func NewExecuteTemplateHandler(op processor) *ExecuteTemplateHandler {
	return &ExecuteTemplateHandler{Operator: op}
}

// Register registers the execute template endpoint with the Huma API.
func (h *ExecuteTemplateHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "execute-recurring-template",
		Method:        http.MethodPost,
		Path:          "/v1/recurring/{id}/execute",
		Summary:       "Execute recurring occurrence",
		Description:   "Materializes ledger transactions for one occurrence and advances the template's cursor, atomically.",
		Tags:          []string{"Recurring"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func parseExecuteTemplateInput(input *ExecuteTemplateInput) (recurring.ExecuteInput, error) {
	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return recurring.ExecuteInput{}, err
	}
	id, err := apiutil.ParseID(input.ID, "id")
	if err != nil {
		return recurring.ExecuteInput{}, err
	}

	in := recurring.ExecuteInput{TemplateID: id, UserID: userID}

	if input.Body.DueDate != "" {
		dueDate, err := time.Parse(time.RFC3339, input.Body.DueDate)
		if err != nil {
			return recurring.ExecuteInput{}, huma.NewError(http.StatusBadRequest, "invalid dueDate", err)
		}
		in.DueDate = &dueDate
	}
	if input.Body.Amount != "" {
		amount, err := decimal.NewFromString(input.Body.Amount)
		if err != nil {
			return recurring.ExecuteInput{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
		}
		in.OverrideAmount = &amount
	}
	if input.Body.Principal != "" {
		principal, err := decimal.NewFromString(input.Body.Principal)
		if err != nil {
			return recurring.ExecuteInput{}, huma.NewError(http.StatusBadRequest, "invalid principal", err)
		}
		in.OverridePrincipal = &principal
	}
	if input.Body.Interest != "" {
		interest, err := decimal.NewFromString(input.Body.Interest)
		if err != nil {
			return recurring.ExecuteInput{}, huma.NewError(http.StatusBadRequest, "invalid interest", err)
		}
		in.OverrideInterest = &interest
	}
	if input.Body.Description != "" {
		description := input.Body.Description
		in.Description = &description
	}
	return in, nil
}

func fromExecuted(tx *ledger.Transaction) ExecutedTransaction {
	out := ExecutedTransaction{
		ID:           tx.ID.String(),
		AccountID:    tx.AccountID.String(),
		Type:         string(tx.Type),
		SignedAmount: tx.SignedAmount.String(),
		Category:     tx.Category,
		Date:         tx.Date.Format(time.RFC3339),
	}
	if tx.RunningBalance.Valid {
		out.RunningBalance = tx.RunningBalance.Decimal.String()
	}
	return out
}

func (h *ExecuteTemplateHandler) handle(ctx context.Context, input *ExecuteTemplateInput) (*ExecuteTemplateOutput, error) {
	logData := logging.GetLogData(ctx)

	in, err := parseExecuteTemplateInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("executeTemplateMs")
	}
	action := &actions.ExecuteTemplate{Input: in}
	err = h.Operator.Process(ctx, action)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apiutil.MapError(err, "failed to execute recurring template")
	}

	if logData != nil {
		logData.AddData("createdCount", len(action.Result))
	}

	resp := ExecuteTemplateResponseBody{
		Transactions: make([]ExecutedTransaction, len(action.Result)),
	}
	for i, tx := range action.Result {
		resp.Transactions[i] = fromExecuted(tx)
	}
	return &ExecuteTemplateOutput{Status: http.StatusCreated, Body: resp}, nil
}
