package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/recurring"
	"github.com/mosslake/finledger/internal/storage"
)

type UpdateTemplate struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Input  recurring.TemplateUpdate
	Result *recurring.Template
}

func (a *UpdateTemplate) Perform(ctx context.Context, writer *storage.Writer) error {
	tpl, err := recurringEngine(writer).UpdateTemplate(ctx, a.ID, a.UserID, a.Input)
	if err != nil {
		return err
	}
	a.Result = tpl
	return nil
}
