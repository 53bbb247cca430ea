// Package loan exposes read-only amortization views over loan templates.
package loan

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/finmath"
	"github.com/mosslake/finledger/internal/service"
)

// loanReader is the service slice the loan handlers need.
type loanReader interface {
	Schedule(ctx context.Context, templateID, userID uuid.UUID) ([]finmath.ScheduleEntry, error)
	NextPayment(ctx context.Context, templateID, userID uuid.UUID, asOf time.Time) (finmath.PaymentBreakdown, error)
	Progress(ctx context.Context, templateID, userID uuid.UUID, asOf time.Time) (*service.LoanProgress, error)
}
