package ledger

import (
	"bytes"
	"errors"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound covers both genuinely missing records and records owned by
	// another user: ownership failures must not leak existence.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks validation and consistency failures rejected
	// before any mutation.
	ErrInvalidInput = errors.New("invalid input")
)

// TransactionType classifies a transaction's balance effect.
type TransactionType string

const (
	TypeExpense  TransactionType = "expense"
	TypeIncome   TransactionType = "income"
	TypeTransfer TransactionType = "transfer"
)

// Valid reports whether t is a recognized transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeExpense || t == TypeIncome || t == TypeTransfer
}

// TransactionStatus is the lifecycle state. Only completed transactions
// participate in balance chains.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusCancelled TransactionStatus = "cancelled"
)

// Valid reports whether s is a recognized status.
func (s TransactionStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted || s == StatusCancelled
}

// TransferDirection tags which half of a transfer pair a record is. It is a
// display hint only; chain math never consults it and derives direction from
// SignedAmount's sign when needed.
type TransferDirection string

const (
	DirectionOut TransferDirection = "out"
	DirectionIn  TransferDirection = "in"
)

// AccountType matches the account taxonomy exposed by the API.
type AccountType int8

const (
	AccountTypeCash AccountType = iota
	AccountTypeCreditCards
	AccountTypeInvestments
	AccountTypeLoans
	AccountTypeAssets
)

// Account is an account record. Balance is a cache kept authoritative by the
// ledger engine: it always equals the running balance of the account's last
// completed transaction in chain order, or zero when there is none. Nothing
// outside this package may write it.
type Account struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Name            string
	Type            AccountType
	Currency        string
	Balance         decimal.Decimal
	StartingBalance decimal.Decimal
	Active          bool
	CreatedAt       time.Time
}

// Conversion is optional currency-conversion metadata on a transfer,
// governing how much the destination side credits when the two accounts use
// different currencies. Absent, both sides move by the same amount.
type Conversion struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	FromAmount   decimal.Decimal `json:"fromAmount"`
	ToAmount     decimal.Decimal `json:"toAmount"`
	Rate         decimal.Decimal `json:"rate"`
}

// Transaction is a ledger record. A transfer is stored as two records, one
// per account, cross-linked through PairID, each with its own running balance
// in its own account's currency.
//
// SignedAmount is the single source of truth for balance math: positive
// credits, negative debits. Amount is the positive magnitude kept for
// display.
type Transaction struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	AccountID        uuid.UUID
	ToAccountID      *uuid.UUID
	PairID           *uuid.UUID
	Type             TransactionType
	Direction        TransferDirection
	Amount           decimal.Decimal
	SignedAmount     decimal.Decimal
	Currency         string
	Conversion       *Conversion
	Category         string
	Description      string
	Date             time.Time
	Status           TransactionStatus
	RunningBalance   decimal.NullDecimal
	RecurringID      *uuid.UUID
	RecurringDueDate *time.Time
	CreatedAt        time.Time
}

// chainOrderLess is the canonical chain ordering: date ascending, then record
// insertion time, then id. The id component only exists to keep the order
// deterministic when insertion timestamps collide.
func chainOrderLess(a, b *Transaction) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return bytes.Compare(a.ID.Bytes(), b.ID.Bytes()) < 0
}

// SortChain sorts transactions into canonical chain order in place.
func SortChain(transactions []*Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		return chainOrderLess(transactions[i], transactions[j])
	})
}
