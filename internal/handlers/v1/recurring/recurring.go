package recurring

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
	"github.com/mosslake/finledger/internal/operator/actions"
	"github.com/mosslake/finledger/internal/recurring"
)

// SplitPart is the API model for one part of a split template.
type SplitPart struct {
	Kind        string `json:"kind" required:"true" enum:"expense,transfer" doc:"Ledger effect of this part"`
	Amount      string `json:"amount" required:"true" doc:"Decimal amount, parts must sum to the template amount"`
	Category    string `json:"category,omitempty" doc:"Spending category, expense parts only"`
	ToAccountID string `json:"toAccountId,omitempty" format:"uuid" doc:"Destination account, transfer parts only"`
}

// LoanDetails is the API model for a loan-amortization template.
type LoanDetails struct {
	Principal         string  `json:"principal" required:"true" doc:"Original loan principal"`
	AnnualRatePercent float64 `json:"annualRatePercent" required:"true" minimum:"0" doc:"Annual interest rate in percent"`
	TermMonths        int     `json:"termMonths" required:"true" minimum:"1" doc:"Loan term in months"`
	StartDate         string  `json:"startDate" required:"true" format:"date-time" doc:"First payment month"`
	CurrentBalance    string  `json:"currentBalance,omitempty" doc:"Remaining balance, defaults to principal"`
}

// Template is the API response model for a recurring template.
type Template struct {
	ID             string       `json:"id" doc:"Template UUID"`
	Type           string       `json:"type" doc:"expense, income, or transfer"`
	Amount         string       `json:"amount" doc:"Decimal amount per occurrence"`
	Currency       string       `json:"currency" doc:"ISO currency code"`
	AccountID      string       `json:"accountId" doc:"Source account UUID"`
	ToAccountID    string       `json:"toAccountId,omitempty" doc:"Destination account UUID for transfers"`
	Category       string       `json:"category,omitempty" doc:"Spending category"`
	Description    string       `json:"description,omitempty" doc:"Free-form description"`
	Frequency      string       `json:"frequency" doc:"Recurrence frequency"`
	Interval       int          `json:"interval,omitempty" doc:"Custom interval length"`
	IntervalUnit   string       `json:"intervalUnit,omitempty" doc:"Custom interval unit"`
	StartDate      string       `json:"startDate" doc:"RFC3339 first occurrence date"`
	NextDueDate    string       `json:"nextDueDate" doc:"RFC3339 next scheduled occurrence"`
	EndDate        string       `json:"endDate,omitempty" doc:"RFC3339 last occurrence date"`
	LastExecutedAt string       `json:"lastExecutedAt,omitempty" doc:"RFC3339 time of the latest execution"`
	SkipDates      []string     `json:"skipDates,omitempty" doc:"Occurrence dates marked skipped"`
	Split          bool         `json:"split" doc:"True when the payment decomposes into parts"`
	Splits         []SplitPart  `json:"splits,omitempty" doc:"Split parts, in execution order"`
	Loan           *LoanDetails `json:"loan,omitempty" doc:"Loan amortization details"`
	Active         bool         `json:"active" doc:"False once deleted"`
	CreatedAt      string       `json:"createdAt" doc:"RFC3339 creation time"`
}

// processor is the slice of the operator the write handlers need.
type processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

func fromTemplate(tpl *recurring.Template) Template {
	out := Template{
		ID:          tpl.ID.String(),
		Type:        string(tpl.Type),
		Amount:      tpl.Amount.String(),
		Currency:    tpl.Currency,
		AccountID:   tpl.AccountID.String(),
		Category:    tpl.Category,
		Description: tpl.Description,
		Frequency:   string(tpl.Frequency),
		Interval:    tpl.Interval,
		StartDate:   tpl.StartDate.Format(time.RFC3339),
		NextDueDate: tpl.NextDueDate.Format(time.RFC3339),
		Split:       tpl.Split,
		Active:      tpl.Active,
		CreatedAt:   tpl.CreatedAt.Format(time.RFC3339),
	}
	if tpl.IntervalUnit != "" {
		out.IntervalUnit = string(tpl.IntervalUnit)
	}
	if tpl.ToAccountID != nil {
		out.ToAccountID = tpl.ToAccountID.String()
	}
	if tpl.EndDate != nil {
		out.EndDate = tpl.EndDate.Format(time.RFC3339)
	}
	if tpl.LastExecutedAt != nil {
		out.LastExecutedAt = tpl.LastExecutedAt.Format(time.RFC3339)
	}
	for _, d := range tpl.SkipDates {
		out.SkipDates = append(out.SkipDates, d.Format(time.RFC3339))
	}
	for _, part := range tpl.Splits {
		apiPart := SplitPart{
			Kind:     string(part.Kind),
			Amount:   part.Amount.String(),
			Category: part.Category,
		}
		if part.ToAccountID != nil {
			apiPart.ToAccountID = part.ToAccountID.String()
		}
		out.Splits = append(out.Splits, apiPart)
	}
	if tpl.Loan != nil {
		out.Loan = &LoanDetails{
			Principal:         tpl.Loan.Principal.String(),
			AnnualRatePercent: tpl.Loan.AnnualRatePercent,
			TermMonths:        tpl.Loan.TermMonths,
			StartDate:         tpl.Loan.StartDate.Format(time.RFC3339),
			CurrentBalance:    tpl.Loan.CurrentBalance.String(),
		}
	}
	return out
}

func parseSplitParts(parts []SplitPart) ([]recurring.SplitPart, error) {
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]recurring.SplitPart, len(parts))
	for i, part := range parts {
		amount, err := decimal.NewFromString(part.Amount)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid split amount", err)
		}
		out[i] = recurring.SplitPart{
			Kind:     recurring.SplitKind(part.Kind),
			Amount:   amount,
			Category: part.Category,
		}
		if part.ToAccountID != "" {
			toID, err := apiutil.ParseID(part.ToAccountID, "splits.toAccountId")
			if err != nil {
				return nil, err
			}
			out[i].ToAccountID = &toID
		}
	}
	return out, nil
}

func parseLoanDetails(in *LoanDetails) (*recurring.LoanDetails, error) {
	if in == nil {
		return nil, nil
	}
	principal, err := decimal.NewFromString(in.Principal)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid loan principal", err)
	}
	startDate, err := time.Parse(time.RFC3339, in.StartDate)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid loan startDate", err)
	}
	loan := &recurring.LoanDetails{
		Principal:         principal,
		AnnualRatePercent: in.AnnualRatePercent,
		TermMonths:        in.TermMonths,
		StartDate:         startDate,
		CurrentBalance:    principal,
	}
	if in.CurrentBalance != "" {
		balance, err := decimal.NewFromString(in.CurrentBalance)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid loan currentBalance", err)
		}
		loan.CurrentBalance = balance
	}
	return loan, nil
}
