package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// AccountStore is the account persistence the engine mutates through. The
// engine is the sole writer of account balances.
type AccountStore interface {
	// FindForUpdate loads an account with a write lock for the remainder of
	// the unit of work. Returns (nil, nil) when no such account exists.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)
	// UpdateBalance sets the stored balance to an absolute value.
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	// ApplyBalanceDelta atomically adds a signed delta to the stored balance.
	ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

// TransactionStore is the transaction persistence the engine works against.
// All mutations issued through it must commit or roll back together with the
// triggering operation.
type TransactionStore interface {
	// FindByID returns (nil, nil) when no such transaction exists.
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Insert(ctx context.Context, tx *Transaction) error
	Update(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListCompletedForUpdate returns every completed transaction for the
	// account, locked for the unit of work. Order is not guaranteed; chain
	// code sorts canonically itself.
	ListCompletedForUpdate(ctx context.Context, accountID uuid.UUID) ([]*Transaction, error)
	SetRunningBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
}

// Engine owns the running-balance invariant: for every account, completed
// transactions in (date, insertion-time, id) order chain their running
// balances, and the account's stored balance equals the last link. Every
// mutation below holds that invariant on return.
type Engine struct {
	accounts     AccountStore
	transactions TransactionStore
	categories   CategoryValidator
}

// NewEngine creates an Engine over the given stores. Engines are cheap and
// typically constructed per unit of work.
func NewEngine(accounts AccountStore, transactions TransactionStore, categories CategoryValidator) *Engine {
	return &Engine{accounts: accounts, transactions: transactions, categories: categories}
}

// CreateInput is the input for creating a transaction.
type CreateInput struct {
	UserID           uuid.UUID
	AccountID        uuid.UUID
	ToAccountID      *uuid.UUID
	Type             TransactionType
	Amount           decimal.Decimal
	Category         string
	Description      string
	Date             time.Time
	Status           TransactionStatus
	Conversion       *Conversion
	RecurringID      *uuid.UUID
	RecurringDueDate *time.Time
}

// CreateTransaction validates the input, inserts the record (two records for
// a transfer, cross-linked), applies the balance delta and recomputes the
// chain suffix for every affected account. Returns the source-side record.
func (e *Engine) CreateTransaction(ctx context.Context, in CreateInput) (*Transaction, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("transaction type %q: %w", in.Type, ErrInvalidInput)
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount must be positive: %w", ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = StatusCompleted
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("status %q: %w", in.Status, ErrInvalidInput)
	}
	if in.Date.IsZero() {
		in.Date = time.Now().UTC()
	}

	account, err := e.findOwnedAccount(ctx, in.AccountID, in.UserID)
	if err != nil {
		return nil, err
	}

	var destination *Account
	if in.Type == TypeTransfer {
		if in.ToAccountID == nil {
			return nil, fmt.Errorf("transfer requires a destination account: %w", ErrInvalidInput)
		}
		if *in.ToAccountID == in.AccountID {
			return nil, fmt.Errorf("transfer source and destination must differ: %w", ErrInvalidInput)
		}
		destination, err = e.findOwnedAccount(ctx, *in.ToAccountID, in.UserID)
		if err != nil {
			return nil, err
		}
	} else if err := e.categories.Validate(ctx, in.UserID, in.Category); err != nil {
		return nil, err
	}

	srcID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	src := &Transaction{
		ID:               srcID,
		UserID:           in.UserID,
		AccountID:        in.AccountID,
		Type:             in.Type,
		Amount:           in.Amount,
		Currency:         account.Currency,
		Conversion:       in.Conversion,
		Category:         in.Category,
		Description:      in.Description,
		Date:             in.Date,
		Status:           in.Status,
		RecurringID:      in.RecurringID,
		RecurringDueDate: in.RecurringDueDate,
		CreatedAt:        now,
	}

	var mirror *Transaction
	switch in.Type {
	case TypeIncome:
		src.SignedAmount = in.Amount
	case TypeExpense:
		src.SignedAmount = in.Amount.Neg()
	case TypeTransfer:
		src.SignedAmount = in.Amount.Neg()
		src.Direction = DirectionOut
		src.ToAccountID = in.ToAccountID

		inAmount := in.Amount
		if in.Conversion != nil {
			inAmount = in.Conversion.ToAmount
		}
		mirrorID, err := uuid.NewV4()
		if err != nil {
			return nil, err
		}
		mirror = &Transaction{
			ID:               mirrorID,
			UserID:           in.UserID,
			AccountID:        *in.ToAccountID,
			ToAccountID:      &in.AccountID,
			PairID:           &src.ID,
			Type:             TypeTransfer,
			Direction:        DirectionIn,
			Amount:           inAmount,
			SignedAmount:     inAmount,
			Currency:         destination.Currency,
			Conversion:       in.Conversion,
			Category:         in.Category,
			Description:      in.Description,
			Date:             in.Date,
			Status:           in.Status,
			RecurringID:      in.RecurringID,
			RecurringDueDate: in.RecurringDueDate,
			CreatedAt:        now,
		}
		src.PairID = &mirror.ID
	}

	if err := e.transactions.Insert(ctx, src); err != nil {
		return nil, err
	}
	if mirror != nil {
		if err := e.transactions.Insert(ctx, mirror); err != nil {
			return nil, err
		}
	}

	if src.Status == StatusCompleted {
		// Apply the delta first, then recompute the suffix: a backdated
		// insert shifts every later link by exactly this signed amount, and
		// the recompute leaves the stored balance equal to the last link.
		if err := e.accounts.ApplyBalanceDelta(ctx, src.AccountID, src.SignedAmount); err != nil {
			return nil, err
		}
		if err := e.recomputeFrom(ctx, src.AccountID, src.ID); err != nil {
			return nil, err
		}
		if mirror != nil {
			if err := e.accounts.ApplyBalanceDelta(ctx, mirror.AccountID, mirror.SignedAmount); err != nil {
				return nil, err
			}
			if err := e.recomputeFrom(ctx, mirror.AccountID, mirror.ID); err != nil {
				return nil, err
			}
		}
	}

	return src, nil
}

// UpdateInput is the set of transaction fields that can change. Nil fields
// are left untouched.
type UpdateInput struct {
	Amount      *decimal.Decimal
	Type        *TransactionType
	Category    *string
	Description *string
	Date        *time.Time
	Status      *TransactionStatus
	AccountID   *uuid.UUID
	ToAccountID *uuid.UUID
}

// UpdateTransaction applies the updates and restores the balance invariant.
// A date, account, or status change can move the record's position in the
// chain, so those force a full rebuild of every affected account (including
// the previous account on reassignment); an amount-only change keeps the
// position and only the suffix is recomputed. Transfer mirrors are kept in
// sync for amount, date, status, source reassignment, and destination
// changes; a destination change moves the mirror to the new account.
// ToAccountID is only accepted on the source half of a transfer.
func (e *Engine) UpdateTransaction(ctx context.Context, id, userID uuid.UUID, in UpdateInput) (*Transaction, error) {
	tx, err := e.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil || tx.UserID != userID {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	wasCompleted := tx.Status == StatusCompleted
	oldAccountID := tx.AccountID

	var amountChanged, typeChanged, dateChanged, statusChanged, accountChanged bool

	if in.Type != nil && *in.Type != tx.Type {
		if !in.Type.Valid() {
			return nil, fmt.Errorf("transaction type %q: %w", *in.Type, ErrInvalidInput)
		}
		if tx.Type == TypeTransfer || *in.Type == TypeTransfer {
			return nil, fmt.Errorf("cannot change a transaction to or from transfer: %w", ErrInvalidInput)
		}
		tx.Type = *in.Type
		typeChanged = true
	}
	if in.Amount != nil && !in.Amount.Equal(tx.Amount) {
		if in.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("amount must be positive: %w", ErrInvalidInput)
		}
		tx.Amount = *in.Amount
		amountChanged = true
	}
	if in.Category != nil && *in.Category != tx.Category {
		if tx.Type != TypeTransfer {
			if err := e.categories.Validate(ctx, userID, *in.Category); err != nil {
				return nil, err
			}
		}
		tx.Category = *in.Category
	}
	if in.Description != nil {
		tx.Description = *in.Description
	}
	if in.Date != nil && !in.Date.Equal(tx.Date) {
		tx.Date = *in.Date
		dateChanged = true
	}
	if in.Status != nil && *in.Status != tx.Status {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("status %q: %w", *in.Status, ErrInvalidInput)
		}
		if tx.Status != StatusPending {
			return nil, fmt.Errorf("cannot change status of a %s transaction: %w", tx.Status, ErrInvalidInput)
		}
		tx.Status = *in.Status
		statusChanged = true
	}
	if in.AccountID != nil && *in.AccountID != tx.AccountID {
		account, err := e.findOwnedAccount(ctx, *in.AccountID, userID)
		if err != nil {
			return nil, err
		}
		if tx.ToAccountID != nil && *tx.ToAccountID == account.ID {
			return nil, fmt.Errorf("transfer source and destination must differ: %w", ErrInvalidInput)
		}
		tx.AccountID = account.ID
		tx.Currency = account.Currency
		accountChanged = true
	}

	var destChanged bool
	var destCurrency string
	if in.ToAccountID != nil {
		if tx.Type != TypeTransfer {
			return nil, fmt.Errorf("destination applies only to transfers: %w", ErrInvalidInput)
		}
		if !tx.SignedAmount.IsNegative() {
			return nil, fmt.Errorf("destination changes go through the source half: %w", ErrInvalidInput)
		}
		if tx.ToAccountID == nil || *in.ToAccountID != *tx.ToAccountID {
			dest, err := e.findOwnedAccount(ctx, *in.ToAccountID, userID)
			if err != nil {
				return nil, err
			}
			if dest.ID == tx.AccountID {
				return nil, fmt.Errorf("transfer source and destination must differ: %w", ErrInvalidInput)
			}
			destID := dest.ID
			tx.ToAccountID = &destID
			destCurrency = dest.Currency
			destChanged = true
		}
	}

	// SignedAmount is recomputed from type and magnitude; for transfer
	// halves the existing sign is the side marker.
	switch tx.Type {
	case TypeIncome:
		tx.SignedAmount = tx.Amount
	case TypeExpense:
		tx.SignedAmount = tx.Amount.Neg()
	case TypeTransfer:
		if tx.SignedAmount.IsNegative() {
			tx.SignedAmount = tx.Amount.Neg()
		} else {
			tx.SignedAmount = tx.Amount
		}
	}

	var pair *Transaction
	var oldPairAccountID uuid.UUID
	pairTouched := false
	if tx.PairID != nil && (amountChanged || dateChanged || statusChanged || accountChanged || destChanged) {
		pair, err = e.transactions.FindByID(ctx, *tx.PairID)
		if err != nil {
			return nil, err
		}
		if pair != nil {
			oldPairAccountID = pair.AccountID
			if amountChanged {
				pair.Amount = mirrorAmount(tx)
				if pair.SignedAmount.IsNegative() {
					pair.SignedAmount = pair.Amount.Neg()
				} else {
					pair.SignedAmount = pair.Amount
				}
				syncConversion(tx, pair)
			}
			if dateChanged {
				pair.Date = tx.Date
			}
			if statusChanged {
				pair.Status = tx.Status
			}
			if accountChanged {
				srcID := tx.AccountID
				pair.ToAccountID = &srcID
			}
			if destChanged {
				pair.AccountID = *tx.ToAccountID
				pair.Currency = destCurrency
			}
			pairTouched = true
		}
	}

	if err := e.transactions.Update(ctx, tx); err != nil {
		return nil, err
	}
	if pairTouched {
		if err := e.transactions.Update(ctx, pair); err != nil {
			return nil, err
		}
	}

	if !wasCompleted && tx.Status != StatusCompleted {
		return tx, nil
	}

	affected := map[uuid.UUID]struct{}{tx.AccountID: {}}
	if accountChanged {
		affected[oldAccountID] = struct{}{}
	}
	if pairTouched {
		affected[pair.AccountID] = struct{}{}
		if destChanged {
			affected[oldPairAccountID] = struct{}{}
		}
	}

	if dateChanged || accountChanged || statusChanged || destChanged {
		for accountID := range affected {
			if err := e.RebuildAccount(ctx, accountID); err != nil {
				return nil, err
			}
		}
		return tx, nil
	}

	if amountChanged || typeChanged {
		if err := e.recomputeFrom(ctx, tx.AccountID, tx.ID); err != nil {
			return nil, err
		}
		if pairTouched {
			if err := e.recomputeFrom(ctx, pair.AccountID, pair.ID); err != nil {
				return nil, err
			}
		}
	}
	return tx, nil
}

// DeleteTransaction removes the record (both halves of a transfer pair) and
// fully rebuilds every affected account: removing a middle link changes the
// predecessor of every later link.
func (e *Engine) DeleteTransaction(ctx context.Context, id, userID uuid.UUID) error {
	tx, err := e.transactions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if tx == nil || tx.UserID != userID {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	affected := map[uuid.UUID]struct{}{tx.AccountID: {}}
	if tx.PairID != nil {
		pair, err := e.transactions.FindByID(ctx, *tx.PairID)
		if err != nil {
			return err
		}
		if pair != nil {
			affected[pair.AccountID] = struct{}{}
			if err := e.transactions.Delete(ctx, pair.ID); err != nil {
				return err
			}
		}
	}
	if err := e.transactions.Delete(ctx, tx.ID); err != nil {
		return err
	}

	for accountID := range affected {
		if err := e.RebuildAccount(ctx, accountID); err != nil {
			return err
		}
	}
	return nil
}

// RebuildAccount replays the account's whole chain from zero and stores the
// final balance (zero when the account has no completed transactions).
func (e *Engine) RebuildAccount(ctx context.Context, accountID uuid.UUID) error {
	completed, err := e.transactions.ListCompletedForUpdate(ctx, accountID)
	if err != nil {
		return err
	}
	changed, final := Rebuild(completed)
	for _, tx := range changed {
		if err := e.transactions.SetRunningBalance(ctx, tx.ID, tx.RunningBalance.Decimal); err != nil {
			return err
		}
	}
	return e.accounts.UpdateBalance(ctx, accountID, final)
}

// recomputeFrom re-chains the suffix starting at the given transaction and
// stores the final balance.
func (e *Engine) recomputeFrom(ctx context.Context, accountID, txID uuid.UUID) error {
	completed, err := e.transactions.ListCompletedForUpdate(ctx, accountID)
	if err != nil {
		return err
	}
	changed, final, err := RecomputeFrom(completed, txID)
	if err != nil {
		return err
	}
	for _, tx := range changed {
		if err := e.transactions.SetRunningBalance(ctx, tx.ID, tx.RunningBalance.Decimal); err != nil {
			return err
		}
	}
	return e.accounts.UpdateBalance(ctx, accountID, final)
}

func (e *Engine) findOwnedAccount(ctx context.Context, id, userID uuid.UUID) (*Account, error) {
	account, err := e.accounts.FindForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil || account.UserID != userID || !account.Active {
		return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	return account, nil
}

// mirrorAmount is what the paired record's magnitude becomes after an amount
// edit, honoring conversion metadata when present. The sign of SignedAmount
// marks which half was edited.
func mirrorAmount(tx *Transaction) decimal.Decimal {
	if tx.Conversion == nil || tx.Conversion.Rate.IsZero() {
		return tx.Amount
	}
	if tx.SignedAmount.IsNegative() {
		// Out half edited; the in half receives the converted amount.
		return tx.Amount.Mul(tx.Conversion.Rate)
	}
	return tx.Amount.Div(tx.Conversion.Rate)
}

// syncConversion rewrites the stored conversion amounts on both halves after
// an amount edit so the metadata keeps matching the records it describes.
// Each half carries its own copy.
func syncConversion(edited, pair *Transaction) {
	if edited.Conversion == nil {
		return
	}
	conv := *edited.Conversion
	if edited.SignedAmount.IsNegative() {
		conv.FromAmount = edited.Amount
		conv.ToAmount = pair.Amount
	} else {
		conv.FromAmount = pair.Amount
		conv.ToAmount = edited.Amount
	}
	pairConv := conv
	edited.Conversion = &conv
	pair.Conversion = &pairConv
}
