package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/storage"
)

// RebuildAccount replays the account's whole chain from zero. Maintenance
// escape hatch for a balance that drifted out from under the invariant.
type RebuildAccount struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (a *RebuildAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	acc, err := writer.Account.FindForUpdate(ctx, a.ID)
	if err != nil {
		return err
	}
	if acc == nil || acc.UserID != a.UserID {
		return fmt.Errorf("account %s: %w", a.ID, ledger.ErrNotFound)
	}
	return ledgerEngine(writer).RebuildAccount(ctx, a.ID)
}
