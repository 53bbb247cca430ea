package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/mosslake/finledger/internal/storage/account"
	"github.com/mosslake/finledger/internal/storage/template"
	"github.com/mosslake/finledger/internal/storage/transaction"
)

type Reader struct {
	Accounts     *account.Reader
	Transactions *transaction.Reader
	Templates    *template.Reader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Accounts:     account.NewReader(exec),
		Transactions: transaction.NewReader(exec),
		Templates:    template.NewReader(exec),
	}
}
