package recurring

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/mosslake/finledger/internal/finmath"
	"github.com/mosslake/finledger/internal/ledger"
)

// SplitKind tags one ledger effect of a split template.
type SplitKind string

const (
	SplitExpense  SplitKind = "expense"
	SplitTransfer SplitKind = "transfer"
)

// SplitPart is one part of a split template: a tagged union of the ledger
// effects a single payment decomposes into. Transfer parts may name their own
// destination; otherwise the template's destination applies.
type SplitPart struct {
	Kind        SplitKind       `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	ToAccountID *uuid.UUID      `json:"toAccountId,omitempty"`
}

// LoanDetails marks a template as loan amortization. Splits are then derived
// from the amortization schedule at execution time instead of being
// user-entered. CurrentBalance is a cache advanced on each execution.
type LoanDetails struct {
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent float64         `json:"annualRatePercent"`
	TermMonths        int             `json:"termMonths"`
	StartDate         time.Time       `json:"startDate"`
	CurrentBalance    decimal.Decimal `json:"currentBalance"`
}

// Template is a recurring-transaction template. NextDueDate is the template's
// own forward cursor, advanced by the engine on each execution. Templates are
// soft-deleted (Active cleared) so history stays queryable.
type Template struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Type           ledger.TransactionType
	Amount         decimal.Decimal
	Currency       string
	AccountID      uuid.UUID
	ToAccountID    *uuid.UUID
	Category       string
	Description    string
	Frequency      finmath.Frequency
	Interval       int
	IntervalUnit   finmath.IntervalUnit
	StartDate      time.Time
	NextDueDate    time.Time
	EndDate        *time.Time
	LastExecutedAt *time.Time
	SkipDates      []time.Time
	Split          bool
	Splits         []SplitPart
	Loan           *LoanDetails
	Active         bool
	CreatedAt      time.Time
}

// TemplateStore is template persistence.
type TemplateStore interface {
	// FindByID returns (nil, nil) when no such template exists.
	FindByID(ctx context.Context, id uuid.UUID) (*Template, error)
	Insert(ctx context.Context, tpl *Template) error
	Update(ctx context.Context, tpl *Template) error
}

// TransactionCreator is the slice of the ledger engine the recurring engine
// materializes transactions through.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, in ledger.CreateInput) (*ledger.Transaction, error)
}

// ExecutedLookup finds ledger transactions tagged with a recurring template.
type ExecutedLookup interface {
	ListByRecurring(ctx context.Context, userID uuid.UUID) ([]*ledger.Transaction, error)
}
