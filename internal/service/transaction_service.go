package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/storage/transaction"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// TransactionReader is the read-side transaction storage the services work
// against.
type TransactionReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)
	List(ctx context.Context, filter *transaction.TransactionFilter) ([]*ledger.Transaction, error)
	Count(ctx context.Context, filter *transaction.TransactionFilter) (int64, error)
	ListByRecurring(ctx context.Context, userID uuid.UUID) ([]*ledger.Transaction, error)
}

// TransactionService handles transaction read paths.
type TransactionService struct {
	reader TransactionReader
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(reader TransactionReader) *TransactionService {
	return &TransactionService{reader: reader}
}

// Get returns one transaction. Records owned by another user read as not
// found.
func (s *TransactionService) Get(ctx context.Context, id, userID uuid.UUID) (*ledger.Transaction, error) {
	tx, err := s.reader.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil || tx.UserID != userID {
		return nil, fmt.Errorf("transaction %s: %w", id, ledger.ErrNotFound)
	}
	return tx, nil
}

// List returns a page of transactions with the filter's total alongside.
// Sorting defaults to newest first; pass SortOrder "asc" for oldest first.
func (s *TransactionService) List(ctx context.Context, in TransactionListInput) (*TransactionPage, error) {
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page := in.Page
	if page < 1 {
		page = 1
	}

	filter := &transaction.TransactionFilter{
		UserID:    in.UserID,
		AccountID: in.AccountID,
		Type:      in.Type,
		Category:  in.Category,
		Status:    in.Status,
		DateFrom:  in.DateFrom,
		DateTo:    in.DateTo,
		SortBy:    in.SortBy,
		SortDesc:  in.SortOrder != "asc",
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}

	items, err := s.reader.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.reader.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &TransactionPage{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}
