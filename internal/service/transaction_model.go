package service

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/ledger"
)

// TransactionListInput narrows and pages a transaction listing.
type TransactionListInput struct {
	UserID    uuid.UUID
	AccountID *uuid.UUID
	Type      *ledger.TransactionType
	Category  *string
	Status    *ledger.TransactionStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	SortBy    string // date, amount, category, created_at
	SortOrder string // asc or desc
	Page      int    // 1-based
	PageSize  int
}

// TransactionPage is one page of results plus the totals the UI pages with.
type TransactionPage struct {
	Items      []*ledger.Transaction
	Total      int64
	Page       int
	TotalPages int
}
