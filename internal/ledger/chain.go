package ledger

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Rebuild replays an account's running-balance chain from zero across all of
// its completed transactions. The input is sorted into chain order in place.
// It returns the records whose running balance actually changed and the final
// balance of the chain (zero when the chain is empty).
func Rebuild(completed []*Transaction) (changed []*Transaction, final decimal.Decimal) {
	SortChain(completed)

	running := decimal.Zero
	for _, tx := range completed {
		running = running.Add(tx.SignedAmount)
		if !tx.RunningBalance.Valid || !tx.RunningBalance.Decimal.Equal(running) {
			tx.RunningBalance = decimal.NewNullDecimal(running)
			changed = append(changed, tx)
		}
	}
	return changed, running
}

// RecomputeFrom walks the chain suffix starting at the transaction with the
// given id. The starting balance is the running balance of the immediately
// preceding transaction in chain order, or zero if there is none; every
// transaction at or after that position is re-accumulated. The input is
// sorted into chain order in place.
//
// Returns the records whose running balance changed and the final balance of
// the chain. The caller persists both under its unit of work.
func RecomputeFrom(completed []*Transaction, from uuid.UUID) (changed []*Transaction, final decimal.Decimal, err error) {
	SortChain(completed)

	start := -1
	for i, tx := range completed {
		if tx.ID == from {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, decimal.Zero, fmt.Errorf("transaction %s not in completed chain: %w", from, ErrNotFound)
	}

	running := decimal.Zero
	if start > 0 {
		prev := completed[start-1]
		if !prev.RunningBalance.Valid {
			// Predecessor never had its balance computed; fall back to a
			// full replay so the suffix doesn't chain off garbage.
			changed, final = Rebuild(completed)
			return changed, final, nil
		}
		running = prev.RunningBalance.Decimal
	}

	for _, tx := range completed[start:] {
		running = running.Add(tx.SignedAmount)
		if !tx.RunningBalance.Valid || !tx.RunningBalance.Decimal.Equal(running) {
			tx.RunningBalance = decimal.NewNullDecimal(running)
			changed = append(changed, tx)
		}
	}
	return changed, running, nil
}
