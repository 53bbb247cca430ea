package transaction

import (
	"context"

	"github.com/mosslake/finledger/internal/operator/actions"
)

// processor is the slice of the operator the write handlers need.
type processor interface {
	Process(ctx context.Context, action actions.IAction) error
}
