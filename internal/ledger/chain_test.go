package ledger

import (
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func chainTx(idByte byte, date, created time.Time, signed string) *Transaction {
	var id uuid.UUID
	id[15] = idByte
	amount := d(signed)
	return &Transaction{
		ID:           id,
		Status:       StatusCompleted,
		Date:         date,
		CreatedAt:    created,
		Amount:       amount.Abs(),
		SignedAmount: amount,
	}
}

func TestRebuild_ChainsFromZero(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	txs := []*Transaction{
		chainTx(1, base, base, "100"),
		chainTx(2, base.AddDate(0, 0, 1), base.AddDate(0, 0, 1), "-30"),
		chainTx(3, base.AddDate(0, 0, 2), base.AddDate(0, 0, 2), "-50"),
	}

	changed, final := Rebuild(txs)

	assert.Len(t, changed, 3)
	assert.True(t, final.Equal(d("20")), "final %s", final)
	assert.True(t, txs[0].RunningBalance.Decimal.Equal(d("100")))
	assert.True(t, txs[1].RunningBalance.Decimal.Equal(d("70")))
	assert.True(t, txs[2].RunningBalance.Decimal.Equal(d("20")))
}

func TestRebuild_EmptyChainIsZero(t *testing.T) {
	changed, final := Rebuild(nil)
	assert.Empty(t, changed)
	assert.True(t, final.IsZero())
}

func TestRebuild_OnlyChangedRecordsReturned(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a := chainTx(1, base, base, "100")
	a.RunningBalance = decimal.NewNullDecimal(d("100"))
	b := chainTx(2, base.AddDate(0, 0, 1), base.AddDate(0, 0, 1), "-30")

	changed, final := Rebuild([]*Transaction{a, b})

	assert.Len(t, changed, 1)
	assert.Equal(t, b.ID, changed[0].ID)
	assert.True(t, final.Equal(d("70")))
}

func TestRebuild_SortsByDateThenInsertionThenID(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	later := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)

	// Same date: insertion time breaks the tie; same insertion time: id does.
	first := chainTx(5, date, earlier, "10")
	second := chainTx(1, date, later, "10")
	third := chainTx(2, date, later, "10")

	txs := []*Transaction{third, second, first}
	Rebuild(txs)

	assert.Equal(t, first.ID, txs[0].ID)
	assert.Equal(t, second.ID, txs[1].ID)
	assert.Equal(t, third.ID, txs[2].ID)
	assert.True(t, first.RunningBalance.Decimal.Equal(d("10")))
	assert.True(t, second.RunningBalance.Decimal.Equal(d("20")))
	assert.True(t, third.RunningBalance.Decimal.Equal(d("30")))
}

func TestRebuild_MonotonicChainInvariant(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []*Transaction{
		chainTx(1, base, base, "250.75"),
		chainTx(2, base.AddDate(0, 0, 3), base, "-99.99"),
		chainTx(3, base.AddDate(0, 1, 0), base, "-0.01"),
		chainTx(4, base.AddDate(0, 2, 0), base, "1000"),
	}
	Rebuild(txs)

	for i := 1; i < len(txs); i++ {
		want := txs[i-1].RunningBalance.Decimal.Add(txs[i].SignedAmount)
		assert.True(t, txs[i].RunningBalance.Decimal.Equal(want),
			"link %d: %s want %s", i, txs[i].RunningBalance.Decimal, want)
	}
}

func TestRecomputeFrom_SuffixOnly(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a := chainTx(1, base, base, "100")
	a.RunningBalance = decimal.NewNullDecimal(d("100"))
	b := chainTx(2, base.AddDate(0, 0, 5), base, "-40")
	c := chainTx(3, base.AddDate(0, 0, 9), base, "-10")

	changed, final, err := RecomputeFrom([]*Transaction{a, b, c}, b.ID)

	require.NoError(t, err)
	assert.Len(t, changed, 2, "predecessor untouched")
	assert.True(t, final.Equal(d("50")))
	assert.True(t, b.RunningBalance.Decimal.Equal(d("60")))
	assert.True(t, c.RunningBalance.Decimal.Equal(d("50")))
}

func TestRecomputeFrom_BackdatedInsertShiftsSuffix(t *testing.T) {
	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	first := chainTx(1, d1, d1, "100")
	first.RunningBalance = decimal.NewNullDecimal(d("100"))
	last := chainTx(3, d3, d1, "-20")
	last.RunningBalance = decimal.NewNullDecimal(d("80"))
	inserted := chainTx(2, d2, d3, "40")

	_, final, err := RecomputeFrom([]*Transaction{first, last, inserted}, inserted.ID)

	require.NoError(t, err)
	// D1 untouched, D3 shifted by exactly the inserted signed amount.
	assert.True(t, first.RunningBalance.Decimal.Equal(d("100")))
	assert.True(t, inserted.RunningBalance.Decimal.Equal(d("140")))
	assert.True(t, last.RunningBalance.Decimal.Equal(d("120")))
	assert.True(t, final.Equal(d("120")))
}

func TestRecomputeFrom_UnknownTransaction(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	txs := []*Transaction{chainTx(1, base, base, "10")}

	_, _, err := RecomputeFrom(txs, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecomputeFrom_UncomputedPredecessorFallsBackToRebuild(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a := chainTx(1, base, base, "100")
	b := chainTx(2, base.AddDate(0, 0, 1), base, "-30")

	changed, final, err := RecomputeFrom([]*Transaction{a, b}, b.ID)

	require.NoError(t, err)
	assert.Len(t, changed, 2)
	assert.True(t, a.RunningBalance.Decimal.Equal(d("100")))
	assert.True(t, final.Equal(d("70")))
}
