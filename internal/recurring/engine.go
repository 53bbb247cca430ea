package recurring

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/mosslake/finledger/internal/finmath"
	"github.com/mosslake/finledger/internal/ledger"
)

// categoryLoanPayment and categoryInterest tag the two halves of an
// auto-generated loan payment.
const (
	categoryLoanPayment = "loan-payment"
	categoryInterest    = "interest"
)

// Engine owns recurring templates: it materializes ledger transactions from
// the schedule without double-executing an occurrence, and advances each
// template's due-date cursor.
type Engine struct {
	templates TemplateStore
	creator   TransactionCreator
	executed  ExecutedLookup

	now func() time.Time
}

// NewEngine creates a recurring engine. Like the ledger engine it is cheap
// and typically constructed per unit of work.
func NewEngine(templates TemplateStore, creator TransactionCreator, executed ExecutedLookup) *Engine {
	return &Engine{
		templates: templates,
		creator:   creator,
		executed:  executed,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// TemplateInput is the input for creating a template.
type TemplateInput struct {
	UserID       uuid.UUID
	Type         ledger.TransactionType
	Amount       decimal.Decimal
	Currency     string
	AccountID    uuid.UUID
	ToAccountID  *uuid.UUID
	Category     string
	Description  string
	Frequency    finmath.Frequency
	Interval     int
	IntervalUnit finmath.IntervalUnit
	StartDate    time.Time
	EndDate      *time.Time
	Splits       []SplitPart
	Loan         *LoanDetails
}

// CreateTemplate validates and stores a new active template. The first due
// date is the start date itself, so a past start date immediately shows as
// overdue.
func (e *Engine) CreateTemplate(ctx context.Context, in TemplateInput) (*Template, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("transaction type %q: %w", in.Type, ledger.ErrInvalidInput)
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("amount must be positive: %w", ledger.ErrInvalidInput)
	}
	if !in.Frequency.Valid() {
		return nil, fmt.Errorf("frequency %q: %w", in.Frequency, ledger.ErrInvalidInput)
	}
	if in.Frequency == finmath.FrequencyCustom && in.Interval <= 0 {
		return nil, fmt.Errorf("custom frequency requires a positive interval: %w", ledger.ErrInvalidInput)
	}
	if in.StartDate.IsZero() {
		return nil, fmt.Errorf("start date is required: %w", ledger.ErrInvalidInput)
	}
	if err := validateSplits(in.Splits, in.Amount); err != nil {
		return nil, err
	}
	if in.Loan != nil {
		if in.Loan.Principal.LessThanOrEqual(decimal.Zero) || in.Loan.TermMonths <= 0 {
			return nil, fmt.Errorf("loan details require a positive principal and term: %w", ledger.ErrInvalidInput)
		}
		if in.ToAccountID == nil {
			return nil, fmt.Errorf("loan template requires the loan account as destination: %w", ledger.ErrInvalidInput)
		}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	tpl := &Template{
		ID:           id,
		UserID:       in.UserID,
		Type:         in.Type,
		Amount:       in.Amount,
		Currency:     in.Currency,
		AccountID:    in.AccountID,
		ToAccountID:  in.ToAccountID,
		Category:     in.Category,
		Description:  in.Description,
		Frequency:    in.Frequency,
		Interval:     in.Interval,
		IntervalUnit: in.IntervalUnit,
		StartDate:    in.StartDate,
		NextDueDate:  finmath.InitialNextDueDate(in.StartDate),
		EndDate:      in.EndDate,
		Splits:       in.Splits,
		Split:        len(in.Splits) > 0 || in.Loan != nil,
		Loan:         in.Loan,
		Active:       true,
		CreatedAt:    e.now(),
	}
	if err := e.templates.Insert(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// TemplateUpdate is the set of template fields that can change.
type TemplateUpdate struct {
	Amount      *decimal.Decimal
	Category    *string
	Description *string
	Frequency   *finmath.Frequency
	Interval    *int
	EndDate     *time.Time
	Splits      []SplitPart
}

// UpdateTemplate applies the updates. Split amounts are revalidated against
// the (possibly new) total.
func (e *Engine) UpdateTemplate(ctx context.Context, id, userID uuid.UUID, in TemplateUpdate) (*Template, error) {
	tpl, err := e.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.Amount != nil {
		if in.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("amount must be positive: %w", ledger.ErrInvalidInput)
		}
		tpl.Amount = *in.Amount
	}
	if in.Category != nil {
		tpl.Category = *in.Category
	}
	if in.Description != nil {
		tpl.Description = *in.Description
	}
	if in.Frequency != nil {
		if !in.Frequency.Valid() {
			return nil, fmt.Errorf("frequency %q: %w", *in.Frequency, ledger.ErrInvalidInput)
		}
		tpl.Frequency = *in.Frequency
	}
	if in.Interval != nil {
		tpl.Interval = *in.Interval
	}
	if in.EndDate != nil {
		tpl.EndDate = in.EndDate
	}
	if in.Splits != nil {
		if err := validateSplits(in.Splits, tpl.Amount); err != nil {
			return nil, err
		}
		tpl.Splits = in.Splits
		tpl.Split = true
	} else if tpl.Split && tpl.Loan == nil {
		if err := validateSplits(tpl.Splits, tpl.Amount); err != nil {
			return nil, err
		}
	}

	if err := e.templates.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// DeleteTemplate soft-deletes: the active flag clears, history stays.
func (e *Engine) DeleteTemplate(ctx context.Context, id, userID uuid.UUID) error {
	tpl, err := e.findOwned(ctx, id, userID)
	if err != nil {
		return err
	}
	tpl.Active = false
	return e.templates.Update(ctx, tpl)
}

// ExecuteInput drives one execution of a template. DueDate defaults to the
// template's cursor; the overrides let the caller nudge the generated
// amounts before confirming (loan principal/interest in particular).
type ExecuteInput struct {
	TemplateID        uuid.UUID
	UserID            uuid.UUID
	DueDate           *time.Time
	OverrideAmount    *decimal.Decimal
	OverridePrincipal *decimal.Decimal
	OverrideInterest  *decimal.Decimal
	Description       *string
}

// Execute materializes ledger transactions for one occurrence: one record
// for a plain template, one per part for a split template (sequentially, so
// the source account's chain reflects each part in order), and a derived
// principal-transfer plus interest-expense pair for a loan template. It then
// advances NextDueDate and records the execution time.
func (e *Engine) Execute(ctx context.Context, in ExecuteInput) ([]*ledger.Transaction, error) {
	tpl, err := e.findOwned(ctx, in.TemplateID, in.UserID)
	if err != nil {
		return nil, err
	}

	dueDate := tpl.NextDueDate
	if in.DueDate != nil {
		dueDate = *in.DueDate
	}
	description := tpl.Description
	if in.Description != nil {
		description = *in.Description
	}

	var created []*ledger.Transaction
	switch {
	case tpl.Loan != nil:
		created, err = e.executeLoanPayment(ctx, tpl, dueDate, description, in)
	case tpl.Split:
		if len(tpl.Splits) == 0 {
			return nil, fmt.Errorf("split template %s has no parts: %w", tpl.ID, ledger.ErrInvalidInput)
		}
		created, err = e.executeSplits(ctx, tpl, dueDate, description)
	default:
		amount := tpl.Amount
		if in.OverrideAmount != nil {
			amount = *in.OverrideAmount
		}
		var tx *ledger.Transaction
		tx, err = e.creator.CreateTransaction(ctx, ledger.CreateInput{
			UserID:           tpl.UserID,
			AccountID:        tpl.AccountID,
			ToAccountID:      tpl.ToAccountID,
			Type:             tpl.Type,
			Amount:           amount,
			Category:         tpl.Category,
			Description:      description,
			Date:             dueDate,
			RecurringID:      &tpl.ID,
			RecurringDueDate: &dueDate,
		})
		created = []*ledger.Transaction{tx}
	}
	if err != nil {
		return nil, err
	}

	now := e.now()
	tpl.NextDueDate = finmath.NextDueDate(tpl.NextDueDate, tpl.Frequency, tpl.Interval, tpl.IntervalUnit)
	tpl.LastExecutedAt = &now
	if err := e.templates.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return created, nil
}

func (e *Engine) executeSplits(ctx context.Context, tpl *Template, dueDate time.Time, description string) ([]*ledger.Transaction, error) {
	created := make([]*ledger.Transaction, 0, len(tpl.Splits))
	for _, part := range tpl.Splits {
		in := ledger.CreateInput{
			UserID:           tpl.UserID,
			AccountID:        tpl.AccountID,
			Amount:           part.Amount,
			Category:         part.Category,
			Description:      description,
			Date:             dueDate,
			RecurringID:      &tpl.ID,
			RecurringDueDate: &dueDate,
		}
		switch part.Kind {
		case SplitTransfer:
			in.Type = ledger.TypeTransfer
			in.ToAccountID = part.ToAccountID
			if in.ToAccountID == nil {
				in.ToAccountID = tpl.ToAccountID
			}
		case SplitExpense:
			in.Type = ledger.TypeExpense
		default:
			return nil, fmt.Errorf("split kind %q: %w", part.Kind, ledger.ErrInvalidInput)
		}
		tx, err := e.creator.CreateTransaction(ctx, in)
		if err != nil {
			return nil, err
		}
		created = append(created, tx)
	}
	return created, nil
}

// executeLoanPayment derives the occurrence's splits from the amortization
// schedule: principal is a transfer into the loan account, interest an
// expense. Caller-supplied overrides take precedence over the computed
// breakdown.
func (e *Engine) executeLoanPayment(ctx context.Context, tpl *Template, dueDate time.Time, description string, in ExecuteInput) ([]*ledger.Transaction, error) {
	loan := tpl.Loan

	var cached *decimal.Decimal
	if loan.CurrentBalance.GreaterThan(decimal.Zero) {
		cached = &loan.CurrentBalance
	}
	breakdown := finmath.NextBreakdown(loan.Principal, loan.AnnualRatePercent, loan.TermMonths, loan.StartDate, cached, e.now())

	principal := breakdown.Principal
	interest := breakdown.Interest
	if in.OverridePrincipal != nil {
		principal = *in.OverridePrincipal
	}
	if in.OverrideInterest != nil {
		interest = *in.OverrideInterest
	}

	var created []*ledger.Transaction
	principalTx, err := e.creator.CreateTransaction(ctx, ledger.CreateInput{
		UserID:           tpl.UserID,
		AccountID:        tpl.AccountID,
		ToAccountID:      tpl.ToAccountID,
		Type:             ledger.TypeTransfer,
		Amount:           principal,
		Category:         categoryLoanPayment,
		Description:      description,
		Date:             dueDate,
		RecurringID:      &tpl.ID,
		RecurringDueDate: &dueDate,
	})
	if err != nil {
		return nil, err
	}
	created = append(created, principalTx)

	if interest.GreaterThan(decimal.Zero) {
		interestTx, err := e.creator.CreateTransaction(ctx, ledger.CreateInput{
			UserID:           tpl.UserID,
			AccountID:        tpl.AccountID,
			Type:             ledger.TypeExpense,
			Amount:           interest,
			Category:         categoryInterest,
			Description:      description,
			Date:             dueDate,
			RecurringID:      &tpl.ID,
			RecurringDueDate: &dueDate,
		})
		if err != nil {
			return nil, err
		}
		created = append(created, interestTx)
	}

	balance := loan.CurrentBalance
	if cached == nil {
		balance = loan.Principal
	}
	loan.CurrentBalance = balance.Sub(principal)
	if loan.CurrentBalance.IsNegative() {
		loan.CurrentBalance = decimal.Zero
	}
	return created, nil
}

// SkipOccurrence records a date the template will never execute, without
// touching the ledger or the due-date cursor. Adding an already-skipped date
// is a no-op.
func (e *Engine) SkipOccurrence(ctx context.Context, templateID, userID uuid.UUID, date time.Time) (*Template, error) {
	tpl, err := e.findOwned(ctx, templateID, userID)
	if err != nil {
		return nil, err
	}
	for _, existing := range tpl.SkipDates {
		if sameDay(existing, date) {
			return tpl, nil
		}
	}
	tpl.SkipDates = append(tpl.SkipDates, date)
	if err := e.templates.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// ExecutedDates aggregates every ledger transaction tagged with a template,
// grouped by template. The tagged due date is preferred; records predating
// that tag fall back to their own transaction date.
func (e *Engine) ExecutedDates(ctx context.Context, userID uuid.UUID) (map[uuid.UUID][]time.Time, error) {
	tagged, err := e.executed.ListByRecurring(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ExecutedDatesOf(tagged), nil
}

// ExecutedDatesOf groups tagged transactions into execution dates per
// template. The tagged due date is preferred; records predating that tag fall
// back to their own transaction date.
func ExecutedDatesOf(tagged []*ledger.Transaction) map[uuid.UUID][]time.Time {
	out := make(map[uuid.UUID][]time.Time)
	for _, tx := range tagged {
		if tx.RecurringID == nil {
			continue
		}
		date := tx.Date
		if tx.RecurringDueDate != nil {
			date = *tx.RecurringDueDate
		}
		out[*tx.RecurringID] = append(out[*tx.RecurringID], date)
	}
	return out
}

func (e *Engine) findOwned(ctx context.Context, id, userID uuid.UUID) (*Template, error) {
	tpl, err := e.templates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil || tpl.UserID != userID || !tpl.Active {
		return nil, fmt.Errorf("recurring template %s: %w", id, ledger.ErrNotFound)
	}
	return tpl, nil
}

func validateSplits(splits []SplitPart, total decimal.Decimal) error {
	if len(splits) == 0 {
		return nil
	}
	sum := decimal.Zero
	for _, part := range splits {
		if part.Kind != SplitExpense && part.Kind != SplitTransfer {
			return fmt.Errorf("split kind %q: %w", part.Kind, ledger.ErrInvalidInput)
		}
		if part.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("split amounts must be positive: %w", ledger.ErrInvalidInput)
		}
		sum = sum.Add(part.Amount)
	}
	if !sum.Equal(total) {
		return fmt.Errorf("split amounts sum to %s, template total is %s: %w", sum, total, ledger.ErrInvalidInput)
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
