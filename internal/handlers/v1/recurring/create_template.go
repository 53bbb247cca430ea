package recurring

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/mosslake/finledger/internal/finmath"
	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/operator/actions"
	"github.com/mosslake/finledger/internal/recurring"
)

// CreateTemplateBody is the request body for creating a recurring template.
type CreateTemplateBody struct {
	Type         string       `json:"type" required:"true" enum:"expense,income,transfer" doc:"Transaction type"`
	Amount       string       `json:"amount" required:"true" doc:"Positive decimal amount per occurrence"`
	Currency     string       `json:"currency" required:"true" minLength:"3" maxLength:"3" doc:"ISO currency code"`
	AccountID    string       `json:"accountId" required:"true" format:"uuid" doc:"Source account UUID"`
	ToAccountID  string       `json:"toAccountId,omitempty" format:"uuid" doc:"Destination account UUID, transfers only"`
	Category     string       `json:"category,omitempty" doc:"Spending category"`
	Description  string       `json:"description,omitempty" doc:"Free-form description"`
	Frequency    string       `json:"frequency" required:"true" enum:"daily,weekly,biweekly,monthly,quarterly,semiannually,yearly,custom" doc:"Recurrence frequency"`
	Interval     int          `json:"interval,omitempty" minimum:"0" doc:"Custom interval length, custom frequency only"`
	IntervalUnit string       `json:"intervalUnit,omitempty" enum:",days,weeks,months" doc:"Custom interval unit"`
	StartDate    string       `json:"startDate" required:"true" format:"date-time" doc:"RFC3339 first occurrence date"`
	EndDate      string       `json:"endDate,omitempty" format:"date-time" doc:"RFC3339 last occurrence date"`
	Splits       []SplitPart  `json:"splits,omitempty" doc:"Split parts, must sum to amount"`
	Loan         *LoanDetails `json:"loan,omitempty" doc:"Loan amortization details"`
}

// CreateTemplateInput is the Huma input for creating a template.
type CreateTemplateInput struct {
	UserID string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	Body   CreateTemplateBody
}

// CreateTemplateOutput is the Huma output for creating a template.
type CreateTemplateOutput struct {
	Status int
	Body   Template
}

// CreateTemplateHandler handles POST /v1/recurring.
type CreateTemplateHandler struct {
	Operator processor
}

// NewCreateTemplateHandler creates a new CreateTemplateHandler.
func NewCreateTemplateHandler(op processor) *CreateTemplateHandler {
	return &CreateTemplateHandler{Operator: op}
}

// Register registers the create template endpoint with the Huma API.
func (h *CreateTemplateHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-recurring-template",
		Method:        http.MethodPost,
		Path:          "/v1/recurring",
		Summary:       "Create recurring template",
		Description:   "Creates a recurring-transaction template. The first due date is the start date.",
		Tags:          []string{"Recurring"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func parseCreateTemplateInput(input *CreateTemplateInput) (recurring.TemplateInput, error) {
	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return recurring.TemplateInput{}, err
	}
	accountID, err := apiutil.ParseID(input.Body.AccountID, "accountId")
	if err != nil {
		return recurring.TemplateInput{}, err
	}
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return recurring.TemplateInput{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	startDate, err := time.Parse(time.RFC3339, input.Body.StartDate)
	if err != nil {
		return recurring.TemplateInput{}, huma.NewError(http.StatusBadRequest, "invalid startDate", err)
	}

	in := recurring.TemplateInput{
		UserID:       userID,
		Type:         ledger.TransactionType(input.Body.Type),
		Amount:       amount,
		Currency:     input.Body.Currency,
		AccountID:    accountID,
		Category:     input.Body.Category,
		Description:  input.Body.Description,
		Frequency:    finmath.Frequency(input.Body.Frequency),
		Interval:     input.Body.Interval,
		IntervalUnit: finmath.IntervalUnit(input.Body.IntervalUnit),
		StartDate:    startDate,
	}

	if input.Body.ToAccountID != "" {
		toID, err := apiutil.ParseID(input.Body.ToAccountID, "toAccountId")
		if err != nil {
			return recurring.TemplateInput{}, err
		}
		in.ToAccountID = &toID
	}
	if input.Body.EndDate != "" {
		endDate, err := time.Parse(time.RFC3339, input.Body.EndDate)
		if err != nil {
			return recurring.TemplateInput{}, huma.NewError(http.StatusBadRequest, "invalid endDate", err)
		}
		in.EndDate = &endDate
	}
	if in.Splits, err = parseSplitParts(input.Body.Splits); err != nil {
		return recurring.TemplateInput{}, err
	}
	if in.Loan, err = parseLoanDetails(input.Body.Loan); err != nil {
		return recurring.TemplateInput{}, err
	}
	return in, nil
}

func (h *CreateTemplateHandler) handle(ctx context.Context, input *CreateTemplateInput) (*CreateTemplateOutput, error) {
	in, err := parseCreateTemplateInput(input)
	if err != nil {
		return nil, err
	}

	action := &actions.CreateTemplate{Input: in}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, apiutil.MapError(err, "failed to create recurring template")
	}

	return &CreateTemplateOutput{
		Status: http.StatusCreated,
		Body:   fromTemplate(action.Result),
	}, nil
}
