package transaction

import (
	"time"

	"github.com/mosslake/finledger/internal/ledger"
)

// Conversion is the API model for currency-conversion metadata on a transfer.
type Conversion struct {
	FromCurrency string `json:"fromCurrency" required:"true" doc:"Source account currency code"`
	ToCurrency   string `json:"toCurrency" required:"true" doc:"Destination account currency code"`
	FromAmount   string `json:"fromAmount" required:"true" doc:"Decimal amount debited from the source"`
	ToAmount     string `json:"toAmount" required:"true" doc:"Decimal amount credited to the destination"`
	Rate         string `json:"rate" required:"true" doc:"Conversion rate applied"`
}

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID               string      `json:"id" doc:"Transaction UUID"`
	AccountID        string      `json:"accountId" doc:"Account UUID"`
	ToAccountID      string      `json:"toAccountId,omitempty" doc:"Destination account UUID for transfers"`
	PairID           string      `json:"pairId,omitempty" doc:"UUID of the paired transfer half"`
	Type             string      `json:"type" doc:"expense, income, or transfer"`
	Direction        string      `json:"direction,omitempty" doc:"Transfer side, out or in"`
	Amount           string      `json:"amount" doc:"Decimal magnitude"`
	SignedAmount     string      `json:"signedAmount" doc:"Signed decimal balance effect"`
	Currency         string      `json:"currency" doc:"Account currency code"`
	Conversion       *Conversion `json:"conversion,omitempty" doc:"Conversion metadata for cross-currency transfers"`
	Category         string      `json:"category,omitempty" doc:"Spending category"`
	Description      string      `json:"description,omitempty" doc:"Free-form description"`
	Date             string      `json:"date" doc:"RFC3339 transaction date"`
	Status           string      `json:"status" doc:"pending, completed, or cancelled"`
	RunningBalance   string      `json:"runningBalance,omitempty" doc:"Account balance after this transaction, completed only"`
	RecurringID      string      `json:"recurringId,omitempty" doc:"Recurring template UUID this was generated from"`
	RecurringDueDate string      `json:"recurringDueDate,omitempty" doc:"Occurrence date this execution covered"`
	CreatedAt        string      `json:"createdAt" doc:"RFC3339 insertion time"`
}

func fromLedger(tx *ledger.Transaction) Transaction {
	out := Transaction{
		ID:           tx.ID.String(),
		AccountID:    tx.AccountID.String(),
		Type:         string(tx.Type),
		Direction:    string(tx.Direction),
		Amount:       tx.Amount.String(),
		SignedAmount: tx.SignedAmount.String(),
		Currency:     tx.Currency,
		Category:     tx.Category,
		Description:  tx.Description,
		Date:         tx.Date.Format(time.RFC3339),
		Status:       string(tx.Status),
		CreatedAt:    tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.ToAccountID != nil {
		out.ToAccountID = tx.ToAccountID.String()
	}
	if tx.PairID != nil {
		out.PairID = tx.PairID.String()
	}
	if tx.RunningBalance.Valid {
		out.RunningBalance = tx.RunningBalance.Decimal.String()
	}
	if tx.RecurringID != nil {
		out.RecurringID = tx.RecurringID.String()
	}
	if tx.RecurringDueDate != nil {
		out.RecurringDueDate = tx.RecurringDueDate.Format(time.RFC3339)
	}
	if tx.Conversion != nil {
		out.Conversion = &Conversion{
			FromCurrency: tx.Conversion.FromCurrency,
			ToCurrency:   tx.Conversion.ToCurrency,
			FromAmount:   tx.Conversion.FromAmount.String(),
			ToAmount:     tx.Conversion.ToAmount.String(),
			Rate:         tx.Conversion.Rate.String(),
		}
	}
	return out
}
