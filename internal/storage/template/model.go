package template

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/mosslake/finledger/internal/finmath"
	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/recurring"
)

// row mirrors the recurring_transactions table. Skip dates, split parts and
// loan details are jsonb columns.
type row struct {
	ID             uuid.UUID       `db:"id"`
	UserID         uuid.UUID       `db:"user_id"`
	Type           string          `db:"type"`
	Amount         decimal.Decimal `db:"amount"`
	Currency       string          `db:"currency"`
	AccountID      uuid.UUID       `db:"account_id"`
	ToAccountID    uuid.NullUUID   `db:"to_account_id"`
	Category       string          `db:"category"`
	Description    string          `db:"description"`
	Frequency      string          `db:"frequency"`
	Interval       int             `db:"interval"`
	IntervalUnit   string          `db:"interval_unit"`
	StartDate      time.Time       `db:"start_date"`
	NextDueDate    time.Time       `db:"next_due_date"`
	EndDate        sql.NullTime    `db:"end_date"`
	LastExecutedAt sql.NullTime    `db:"last_executed_at"`
	SkipDates      []byte          `db:"skip_dates"`
	Split          bool            `db:"split"`
	Splits         []byte          `db:"splits"`
	Loan           []byte          `db:"loan"`
	Active         bool            `db:"active"`
	CreatedAt      time.Time       `db:"created_at"`
}

// TemplateFilter narrows List. Nil fields match everything.
type TemplateFilter struct {
	UserID          uuid.UUID
	IncludeInactive bool
}

func rowToTemplate(r *row) (*recurring.Template, error) {
	tpl := &recurring.Template{
		ID:           r.ID,
		UserID:       r.UserID,
		Type:         ledger.TransactionType(r.Type),
		Amount:       r.Amount,
		Currency:     r.Currency,
		AccountID:    r.AccountID,
		Category:     r.Category,
		Description:  r.Description,
		Frequency:    finmath.Frequency(r.Frequency),
		Interval:     r.Interval,
		IntervalUnit: finmath.IntervalUnit(r.IntervalUnit),
		StartDate:    r.StartDate,
		NextDueDate:  r.NextDueDate,
		Split:        r.Split,
		Active:       r.Active,
		CreatedAt:    r.CreatedAt,
	}
	if r.ToAccountID.Valid {
		id := r.ToAccountID.UUID
		tpl.ToAccountID = &id
	}
	if r.EndDate.Valid {
		t := r.EndDate.Time
		tpl.EndDate = &t
	}
	if r.LastExecutedAt.Valid {
		t := r.LastExecutedAt.Time
		tpl.LastExecutedAt = &t
	}
	if len(r.SkipDates) > 0 {
		if err := json.Unmarshal(r.SkipDates, &tpl.SkipDates); err != nil {
			return nil, err
		}
	}
	if len(r.Splits) > 0 {
		if err := json.Unmarshal(r.Splits, &tpl.Splits); err != nil {
			return nil, err
		}
	}
	if len(r.Loan) > 0 {
		var loan recurring.LoanDetails
		if err := json.Unmarshal(r.Loan, &loan); err != nil {
			return nil, err
		}
		tpl.Loan = &loan
	}
	return tpl, nil
}

type encoded struct {
	toAccountID    uuid.NullUUID
	endDate        sql.NullTime
	lastExecutedAt sql.NullTime
	skipDates      []byte
	splits         []byte
	loan           []byte
}

func encodeTemplate(tpl *recurring.Template) (*encoded, error) {
	enc := &encoded{}
	if tpl.ToAccountID != nil {
		enc.toAccountID = uuid.NullUUID{UUID: *tpl.ToAccountID, Valid: true}
	}
	if tpl.EndDate != nil {
		enc.endDate = sql.NullTime{Time: *tpl.EndDate, Valid: true}
	}
	if tpl.LastExecutedAt != nil {
		enc.lastExecutedAt = sql.NullTime{Time: *tpl.LastExecutedAt, Valid: true}
	}
	var err error
	if len(tpl.SkipDates) > 0 {
		if enc.skipDates, err = json.Marshal(tpl.SkipDates); err != nil {
			return nil, err
		}
	}
	if len(tpl.Splits) > 0 {
		if enc.splits, err = json.Marshal(tpl.Splits); err != nil {
			return nil, err
		}
	}
	if tpl.Loan != nil {
		if enc.loan, err = json.Marshal(tpl.Loan); err != nil {
			return nil, err
		}
	}
	return enc, nil
}
