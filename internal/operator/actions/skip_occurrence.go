package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/recurring"
	"github.com/mosslake/finledger/internal/storage"
)

type SkipOccurrence struct {
	TemplateID uuid.UUID
	UserID     uuid.UUID
	Date       time.Time
	Result     *recurring.Template
}

func (a *SkipOccurrence) Perform(ctx context.Context, writer *storage.Writer) error {
	tpl, err := recurringEngine(writer).SkipOccurrence(ctx, a.TemplateID, a.UserID, a.Date)
	if err != nil {
		return err
	}
	a.Result = tpl
	return nil
}
