package finmath

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentBreakdown is the principal/interest decomposition of a single
// scheduled loan payment.
type PaymentBreakdown struct {
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	TotalPayment     decimal.Decimal
	RemainingBalance decimal.Decimal
}

// ScheduleEntry is one row of an amortization schedule.
type ScheduleEntry struct {
	Period           int
	Date             time.Time
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	Payment          decimal.Decimal
	RemainingBalance decimal.Decimal
}

// MonthlyPayment returns the fixed payment for an annuity loan:
// P*r(1+r)^n / ((1+r)^n - 1) with r = annualRatePercent/1200.
// A zero rate degrades to principal/termMonths. Returns zero for
// non-positive principal or term.
//
// The (1+r)^n factor is computed in float64; the monetary multiply stays in
// decimal. Intermediate values are never rounded, only display formatting
// rounds.
func MonthlyPayment(principal decimal.Decimal, annualRatePercent float64, termMonths int) decimal.Decimal {
	if termMonths <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	monthlyRate := annualRatePercent / 1200
	if monthlyRate == 0 {
		return principal.Div(decimal.NewFromInt(int64(termMonths)))
	}
	factor := math.Pow(1+monthlyRate, float64(termMonths))
	return principal.Mul(decimal.NewFromFloat(monthlyRate * factor / (factor - 1)))
}

// Breakdown computes the split of payment number paymentNumber (1-based).
// When currentBalance is nil the balance entering the payment is derived by
// replaying payments 1..paymentNumber-1 from the original amount, so the
// result matches the schedule generator's rounding behavior exactly.
//
// Principal is capped at the outstanding balance so the final payment never
// overshoots, and the remaining balance never goes negative.
func Breakdown(originalAmount decimal.Decimal, annualRatePercent float64, termMonths, paymentNumber int, currentBalance *decimal.Decimal) PaymentBreakdown {
	if paymentNumber < 1 {
		paymentNumber = 1
	}

	balance := originalAmount
	if currentBalance != nil {
		balance = *currentBalance
	} else {
		for i := 1; i < paymentNumber; i++ {
			step := breakdownStep(originalAmount, annualRatePercent, termMonths, balance)
			balance = step.RemainingBalance
		}
	}

	step := breakdownStep(originalAmount, annualRatePercent, termMonths, balance)
	if paymentNumber >= termMonths {
		// Terminal payment absorbs the whole remaining balance, same as the
		// last row of Schedule, so no float residue survives the term.
		step.Principal = balance
		step.TotalPayment = step.Principal.Add(step.Interest)
		step.RemainingBalance = decimal.Zero
	}
	return step
}

func breakdownStep(originalAmount decimal.Decimal, annualRatePercent float64, termMonths int, balance decimal.Decimal) PaymentBreakdown {
	monthlyRate := decimal.NewFromFloat(annualRatePercent / 1200)
	payment := MonthlyPayment(originalAmount, annualRatePercent, termMonths)

	interest := balance.Mul(monthlyRate)
	principal := payment.Sub(interest)
	if principal.GreaterThan(balance) {
		principal = balance
	}
	remaining := balance.Sub(principal)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return PaymentBreakdown{
		Principal:        principal,
		Interest:         interest,
		TotalPayment:     principal.Add(interest),
		RemainingBalance: remaining,
	}
}

// CurrentBalance returns the outstanding balance after paymentsMade payments.
// Deliberately iterative rather than closed-form so the result agrees with
// Schedule and Breakdown payment by payment.
func CurrentBalance(originalAmount decimal.Decimal, annualRatePercent float64, termMonths, paymentsMade int) decimal.Decimal {
	if paymentsMade <= 0 {
		return originalAmount
	}
	if paymentsMade >= termMonths {
		return decimal.Zero
	}
	balance := originalAmount
	for i := 0; i < paymentsMade; i++ {
		step := breakdownStep(originalAmount, annualRatePercent, termMonths, balance)
		balance = step.RemainingBalance
	}
	return balance
}

// Schedule generates the full amortization schedule. Row i is dated
// startDate plus i months. The final scheduled payment absorbs the whole
// remaining balance so the schedule always ends at exactly zero; the loop
// stops early if the balance hits zero before the term is up.
func Schedule(originalAmount decimal.Decimal, annualRatePercent float64, termMonths int, startDate time.Time) []ScheduleEntry {
	if termMonths <= 0 || originalAmount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	entries := make([]ScheduleEntry, 0, termMonths)
	balance := originalAmount
	for period := 1; period <= termMonths; period++ {
		step := breakdownStep(originalAmount, annualRatePercent, termMonths, balance)
		if period == termMonths {
			step.Principal = balance
			step.TotalPayment = step.Principal.Add(step.Interest)
			step.RemainingBalance = decimal.Zero
		}
		entries = append(entries, ScheduleEntry{
			Period:           period,
			Date:             startDate.AddDate(0, period, 0),
			Principal:        step.Principal,
			Interest:         step.Interest,
			Payment:          step.TotalPayment,
			RemainingBalance: step.RemainingBalance,
		})
		balance = step.RemainingBalance
		if balance.IsZero() {
			break
		}
	}
	return entries
}

// PaymentsElapsed counts whole payment periods between loanStart and asOf.
// Monthly uses day-adjusted calendar-month difference; weekly and biweekly
// divide the day difference. Returns 0 when asOf is not after loanStart.
func PaymentsElapsed(loanStart, asOf time.Time, frequency Frequency) int {
	if !asOf.After(loanStart) {
		return 0
	}
	switch frequency {
	case FrequencyWeekly:
		return daysBetween(loanStart, asOf) / 7
	case FrequencyBiweekly:
		return daysBetween(loanStart, asOf) / 14
	default:
		months := (asOf.Year()-loanStart.Year())*12 + int(asOf.Month()) - int(loanStart.Month())
		if asOf.Day() < loanStart.Day() {
			months--
		}
		if months < 0 {
			return 0
		}
		return months
	}
}

// NextBreakdown computes the split of the payment that is due next, i.e.
// payments elapsed since the loan start plus one, capped at the term. A
// cached balance, when supplied, takes precedence over replaying history.
func NextBreakdown(originalAmount decimal.Decimal, annualRatePercent float64, termMonths int, loanStart time.Time, cachedBalance *decimal.Decimal, asOf time.Time) PaymentBreakdown {
	paymentNumber := PaymentsElapsed(loanStart, asOf, FrequencyMonthly) + 1
	if paymentNumber > termMonths {
		paymentNumber = termMonths
	}
	return Breakdown(originalAmount, annualRatePercent, termMonths, paymentNumber, cachedBalance)
}
