package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/mosslake/finledger/internal/finmath"
	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/recurring"
)

// LoanService projects amortization views for loan templates.
type LoanService struct {
	templates TemplateReader
}

// NewLoanService creates a new LoanService.
func NewLoanService(templates TemplateReader) *LoanService {
	return &LoanService{templates: templates}
}

// LoanProgress summarizes how far along a loan is.
type LoanProgress struct {
	Principal         decimal.Decimal
	CurrentBalance    decimal.Decimal
	PaidPrincipal     decimal.Decimal
	MonthlyPayment    decimal.Decimal
	PaymentsMade      int
	PaymentsRemaining int
	TermMonths        int
}

// Schedule returns the loan's full amortization schedule.
func (s *LoanService) Schedule(ctx context.Context, templateID, userID uuid.UUID) ([]finmath.ScheduleEntry, error) {
	loan, err := s.findLoan(ctx, templateID, userID)
	if err != nil {
		return nil, err
	}
	return finmath.Schedule(loan.Principal, loan.AnnualRatePercent, loan.TermMonths, loan.StartDate), nil
}

// NextPayment returns the breakdown of the loan's next payment.
func (s *LoanService) NextPayment(ctx context.Context, templateID, userID uuid.UUID, asOf time.Time) (finmath.PaymentBreakdown, error) {
	loan, err := s.findLoan(ctx, templateID, userID)
	if err != nil {
		return finmath.PaymentBreakdown{}, err
	}
	var cached *decimal.Decimal
	if loan.CurrentBalance.GreaterThan(decimal.Zero) {
		cached = &loan.CurrentBalance
	}
	return finmath.NextBreakdown(loan.Principal, loan.AnnualRatePercent, loan.TermMonths, loan.StartDate, cached, asOf), nil
}

// Progress returns the loan's payoff progress as of the given time.
func (s *LoanService) Progress(ctx context.Context, templateID, userID uuid.UUID, asOf time.Time) (*LoanProgress, error) {
	loan, err := s.findLoan(ctx, templateID, userID)
	if err != nil {
		return nil, err
	}

	paymentsMade := finmath.PaymentsElapsed(loan.StartDate, asOf, finmath.FrequencyMonthly)
	if paymentsMade > loan.TermMonths {
		paymentsMade = loan.TermMonths
	}

	balance := loan.CurrentBalance
	if balance.LessThanOrEqual(decimal.Zero) {
		balance = finmath.CurrentBalance(loan.Principal, loan.AnnualRatePercent, loan.TermMonths, paymentsMade)
	}

	return &LoanProgress{
		Principal:         loan.Principal,
		CurrentBalance:    balance,
		PaidPrincipal:     loan.Principal.Sub(balance),
		MonthlyPayment:    finmath.MonthlyPayment(loan.Principal, loan.AnnualRatePercent, loan.TermMonths),
		PaymentsMade:      paymentsMade,
		PaymentsRemaining: loan.TermMonths - paymentsMade,
		TermMonths:        loan.TermMonths,
	}, nil
}

func (s *LoanService) findLoan(ctx context.Context, templateID, userID uuid.UUID) (*recurring.LoanDetails, error) {
	tpl, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tpl == nil || tpl.UserID != userID {
		return nil, fmt.Errorf("recurring template %s: %w", templateID, ledger.ErrNotFound)
	}
	if tpl.Loan == nil {
		return nil, fmt.Errorf("template %s is not a loan: %w", templateID, ledger.ErrInvalidInput)
	}
	return tpl.Loan, nil
}
