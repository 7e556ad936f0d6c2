package posync

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/farxc/vendas_sync/internal/source"
	"github.com/farxc/vendas_sync/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncExpenses(t *testing.T) {
	spent := testNow.Add(-48 * time.Hour)
	src := &fakeSource{expenses: []source.ExpenseRow{
		{ID: 10, SpentAt: nullTime(spent), Description: nullString("Gás"), Amount: nullDecimal(40), Note: nullString("botija"), Operator: nullString("ana")},
		{ID: 11, SpentAt: nullTime(spent)},
	}}
	dest := newMemDest()

	count, err := newTestSyncer(src, dest).SyncExpenses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, testNow.Add(-30*24*time.Hour), src.sinces["expenses"])

	gas := dest.expenses["10"]
	assert.Equal(t, "Gás", *gas.ExpenseType)
	assert.Equal(t, "botija", *gas.Description)
	assert.Equal(t, "ana", *gas.OperatorName)
	assert.True(t, gas.Amount.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, spent, *gas.SpentAt)

	bare := dest.expenses["11"]
	assert.True(t, bare.Amount.IsZero())
	assert.Nil(t, bare.ExpenseType)
	dest.balanced(t)
}

func TestSyncCashMovements_FanOut(t *testing.T) {
	closed := testNow.Add(-time.Hour)
	src := &fakeSource{shifts: []source.ShiftRow{
		{ID: 7, OpenedAt: nullTime(closed.Add(-8 * time.Hour)), ClosedAt: nullTime(closed), TotalPaid: nullDecimal(100), CashExpense: nullDecimal(40)},
	}}
	dest := newMemDest()

	count, err := newTestSyncer(src, dest).SyncCashMovements(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, testNow.Add(-30*24*time.Hour), src.sinces["cash"])
	require.Len(t, dest.cash, 2)

	in := dest.cash["MCX-7-IN"]
	assert.Equal(t, store.MovementIn, in.MovementType)
	assert.Equal(t, "Total pago (turno)", in.Reason)
	assert.True(t, in.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, closed, in.MovedAt)

	out := dest.cash["MCX-7-OUT"]
	assert.Equal(t, store.MovementOut, out.MovementType)
	assert.Equal(t, "Despesa caixa (turno)", out.Reason)
	assert.True(t, out.Amount.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, closed, out.MovedAt)
}

func TestCashMovementsFrom_MovedAtFallbacks(t *testing.T) {
	opened := testNow.Add(-3 * time.Hour)
	closed := testNow.Add(-time.Hour)

	tests := []struct {
		name string
		row  source.ShiftRow
		want time.Time
	}{
		{"closed shift", source.ShiftRow{ID: 1, OpenedAt: nullTime(opened), ClosedAt: nullTime(closed)}, closed},
		{"open shift", source.ShiftRow{ID: 2, OpenedAt: nullTime(opened)}, opened},
		{"no timestamps", source.ShiftRow{ID: 3, ClosedAt: sql.NullTime{}}, testNow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movements := cashMovementsFrom(tt.row, testNow)
			for _, m := range movements {
				assert.Equal(t, tt.want, m.MovedAt)
				assert.True(t, m.Amount.IsZero())
			}
		})
	}
}

func TestSyncCashMovements_RerunUpdatesSameRows(t *testing.T) {
	src := &fakeSource{shifts: []source.ShiftRow{{ID: 7, TotalPaid: nullDecimal(100)}}}
	dest := newMemDest()
	syncer := newTestSyncer(src, dest)

	_, err := syncer.SyncCashMovements(context.Background())
	require.NoError(t, err)
	src.shifts[0].TotalPaid = nullDecimal(180)
	_, err = syncer.SyncCashMovements(context.Background())
	require.NoError(t, err)

	require.Len(t, dest.cash, 2)
	assert.True(t, dest.cash["MCX-7-IN"].Amount.Equal(decimal.NewFromInt(180)))
}
