package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/mosslake/finledger/internal/storage/account"
	"github.com/mosslake/finledger/internal/storage/template"
	"github.com/mosslake/finledger/internal/storage/transaction"
)

type Writer struct {
	tx          bob.Tx
	Account     *account.Writer
	Transaction *transaction.Writer
	Template    *template.Writer
}

func NewWriter(tx bob.Tx) Writer {
	return Writer{
		tx:          tx,
		Account:     account.NewWriter(tx),
		Transaction: transaction.NewWriter(tx),
		Template:    template.NewWriter(tx),
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
