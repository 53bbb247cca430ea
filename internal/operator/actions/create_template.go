package actions

import (
	"context"

	"github.com/mosslake/finledger/internal/recurring"
	"github.com/mosslake/finledger/internal/storage"
)

type CreateTemplate struct {
	Input  recurring.TemplateInput
	Result *recurring.Template
}

func (a *CreateTemplate) Perform(ctx context.Context, writer *storage.Writer) error {
	tpl, err := recurringEngine(writer).CreateTemplate(ctx, a.Input)
	if err != nil {
		return err
	}
	a.Result = tpl
	return nil
}
