package ledger

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
)

// CategoryValidator checks a category against the known set or the caller's
// saved custom categories. Category management itself lives outside this
// package.
type CategoryValidator interface {
	Validate(ctx context.Context, userID uuid.UUID, category string) error
}

// knownCategories is the built-in category set accepted for every user.
var knownCategories = map[string]struct{}{
	"groceries":      {},
	"dining":         {},
	"rent":           {},
	"utilities":      {},
	"transport":      {},
	"entertainment":  {},
	"health":         {},
	"insurance":      {},
	"shopping":       {},
	"travel":         {},
	"education":      {},
	"salary":         {},
	"investment":     {},
	"interest":       {},
	"loan-payment":   {},
	"gifts":          {},
	"subscriptions":  {},
	"other":          {},
}

// StaticCategoryValidator accepts the built-in category set and, when Lookup
// is set, the user's custom categories.
type StaticCategoryValidator struct {
	Lookup func(ctx context.Context, userID uuid.UUID, category string) (bool, error)
}

func (v *StaticCategoryValidator) Validate(ctx context.Context, userID uuid.UUID, category string) error {
	if category == "" {
		return fmt.Errorf("category is required: %w", ErrInvalidInput)
	}
	if _, ok := knownCategories[category]; ok {
		return nil
	}
	if v.Lookup != nil {
		ok, err := v.Lookup(ctx, userID, category)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("unknown category %q: %w", category, ErrInvalidInput)
}
