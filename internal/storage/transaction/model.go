package transaction

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/mosslake/finledger/internal/ledger"
)

// row mirrors the transactions table. Conversion metadata is a jsonb column.
type row struct {
	ID               uuid.UUID           `db:"id"`
	UserID           uuid.UUID           `db:"user_id"`
	AccountID        uuid.UUID           `db:"account_id"`
	ToAccountID      uuid.NullUUID       `db:"to_account_id"`
	PairID           uuid.NullUUID       `db:"pair_id"`
	Type             string              `db:"type"`
	Direction        string              `db:"direction"`
	Amount           decimal.Decimal     `db:"amount"`
	SignedAmount     decimal.Decimal     `db:"signed_amount"`
	Currency         string              `db:"currency"`
	Conversion       []byte              `db:"conversion"`
	Category         string              `db:"category"`
	Description      string              `db:"description"`
	Date             time.Time           `db:"date"`
	Status           string              `db:"status"`
	RunningBalance   decimal.NullDecimal `db:"running_balance"`
	RecurringID      uuid.NullUUID       `db:"recurring_id"`
	RecurringDueDate sql.NullTime        `db:"recurring_due_date"`
	CreatedAt        time.Time           `db:"created_at"`
}

// TransactionFilter narrows List and Count. Nil fields match everything.
type TransactionFilter struct {
	UserID    uuid.UUID
	AccountID *uuid.UUID
	Type      *ledger.TransactionType
	Category  *string
	Status    *ledger.TransactionStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	SortBy    string // date, amount, category, created_at
	SortDesc  bool
	Limit     int
	Offset    int
}

func rowToTransaction(r *row) (*ledger.Transaction, error) {
	tx := &ledger.Transaction{
		ID:             r.ID,
		UserID:         r.UserID,
		AccountID:      r.AccountID,
		Type:           ledger.TransactionType(r.Type),
		Direction:      ledger.TransferDirection(r.Direction),
		Amount:         r.Amount,
		SignedAmount:   r.SignedAmount,
		Currency:       r.Currency,
		Category:       r.Category,
		Description:    r.Description,
		Date:           r.Date,
		Status:         ledger.TransactionStatus(r.Status),
		RunningBalance: r.RunningBalance,
		CreatedAt:      r.CreatedAt,
	}
	if r.ToAccountID.Valid {
		id := r.ToAccountID.UUID
		tx.ToAccountID = &id
	}
	if r.PairID.Valid {
		id := r.PairID.UUID
		tx.PairID = &id
	}
	if r.RecurringID.Valid {
		id := r.RecurringID.UUID
		tx.RecurringID = &id
	}
	if r.RecurringDueDate.Valid {
		t := r.RecurringDueDate.Time
		tx.RecurringDueDate = &t
	}
	if len(r.Conversion) > 0 {
		var conv ledger.Conversion
		if err := json.Unmarshal(r.Conversion, &conv); err != nil {
			return nil, err
		}
		tx.Conversion = &conv
	}
	return tx, nil
}

func rowsToTransactions(rows []row) ([]*ledger.Transaction, error) {
	out := make([]*ledger.Transaction, len(rows))
	for i := range rows {
		tx, err := rowToTransaction(&rows[i])
		if err != nil {
			return nil, err
		}
		out[i] = tx
	}
	return out, nil
}

func conversionJSON(conv *ledger.Conversion) ([]byte, error) {
	if conv == nil {
		return nil, nil
	}
	return json.Marshal(conv)
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
