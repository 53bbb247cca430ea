package service

import (
	"github.com/mosslake/finledger/internal/storage"
)

// Service holds all read-side business logic services. Writes go through the
// operator instead.
type Service struct {
	Transaction *TransactionService
	Account     *AccountService
	Recurring   *RecurringService
	Loan        *LoanService
}

// NewService creates a new Service with the given storage.
func NewService(store *storage.Storage) *Service {
	reader := store.Read()
	return &Service{
		Transaction: NewTransactionService(reader.Transactions),
		Account:     NewAccountService(reader.Accounts),
		Recurring:   NewRecurringService(reader.Templates, reader.Transactions),
		Loan:        NewLoanService(reader.Templates),
	}
}
