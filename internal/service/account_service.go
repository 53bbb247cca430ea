package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/storage/account"
)

// AccountReader is the read-side account storage the services work against.
type AccountReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error)
	List(ctx context.Context, filter *account.AccountFilter) ([]*ledger.Account, error)
}

// AccountService handles account read paths.
type AccountService struct {
	reader AccountReader
}

// NewAccountService creates a new AccountService.
func NewAccountService(reader AccountReader) *AccountService {
	return &AccountService{reader: reader}
}

// Get returns one account. Accounts owned by another user read as not found.
func (s *AccountService) Get(ctx context.Context, id, userID uuid.UUID) (*ledger.Account, error) {
	acc, err := s.reader.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil || acc.UserID != userID {
		return nil, fmt.Errorf("account %s: %w", id, ledger.ErrNotFound)
	}
	return acc, nil
}

// List returns the user's accounts, closed ones only on request.
func (s *AccountService) List(ctx context.Context, userID uuid.UUID, includeClosed bool) ([]*ledger.Account, error) {
	return s.reader.List(ctx, &account.AccountFilter{
		UserID:        userID,
		IncludeClosed: includeClosed,
	})
}
