package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/kora/internal/pkg/pkgerror"
	"github.com/shandysiswandi/kora/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/kora/internal/wallet/entity"
	"github.com/shandysiswandi/kora/internal/wallet/store"
)

func pay(t *testing.T, f *fixture, peer, amount string) {
	t.Helper()
	ctx := context.Background()
	if peer != "" {
		require.NoError(t, f.ctrl.SimulateScan(ctx, peer))
	}
	require.NoError(t, f.ctrl.SetPayAmount(ctx, amount))
	require.NoError(t, f.ctrl.ConfirmPayment(ctx))
}

func TestConfirmPayment_EmmaWatson(t *testing.T) {
	f := newFixture(t, instantClock{})
	ctx := context.Background()

	f.ctrl.Restore(ctx)
	require.NoError(t, f.ctrl.Navigate(ctx, entity.ViewScan))
	pay(t, f, "Emma Watson", "50.00")
	require.NoError(t, f.runner.Wait())

	state := f.ctrl.Snapshot()
	assert.True(t, state.User.Balance.Equal(decimal.RequireFromString("4230.50")), "balance %s", state.User.Balance)
	require.Len(t, state.Transactions, 5)

	tx := state.Transactions[0]
	assert.Equal(t, "tx-new-1", tx.ID)
	assert.Equal(t, entity.TxTypeSend, tx.Type)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, "Emma Watson", tx.PeerName)
	assert.Equal(t, "KORA-REC-1", tx.PeerID)
	assert.Equal(t, entity.TxStatusCompleted, tx.Status)
	assert.Equal(t, entity.CategoryPersonal, tx.Category)
	assert.Equal(t, testNow, tx.Timestamp)
	assert.Equal(t, "tx-1", state.Transactions[1].ID)

	assert.Equal(t, entity.PaymentStatusIdle, state.PaymentStatus)
	assert.Nil(t, state.ScanResult)
	assert.Empty(t, state.PayAmount)
	assert.Equal(t, entity.ViewDashboard, state.ActiveView)
	assert.False(t, state.CameraActive)

	storedTxs, storedUser := f.repo.stored()
	require.Len(t, storedTxs, 5)
	assert.Equal(t, "tx-new-1", storedTxs[0].ID)
	require.NotNil(t, storedUser)
	assert.True(t, storedUser.Balance.Equal(decimal.RequireFromString("4230.50")))

	open, _ := f.camera.counts()
	assert.Zero(t, open)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.ctrl.metrics.payments))
	assert.Equal(t, 50.0, testutil.ToFloat64(f.ctrl.metrics.amountSent))
}

func TestConfirmPayment_StateSequence(t *testing.T) {
	clock := newManualClock()
	f := newFixture(t, clock)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Navigate(ctx, entity.ViewScan))
	pay(t, f, "Startup Corp", "12.5")

	state := f.ctrl.Snapshot()
	assert.Equal(t, entity.PaymentStatusProcessing, state.PaymentStatus)
	assert.Len(t, state.Transactions, 4)
	assert.False(t, state.CanConfirm())

	clock.waitForTimer(t)
	clock.Advance(ProcessingDelay - time.Millisecond)
	assert.Equal(t, entity.PaymentStatusProcessing, f.ctrl.Snapshot().PaymentStatus)

	clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool {
		return f.ctrl.Snapshot().PaymentStatus == entity.PaymentStatusSuccess
	}, 2*time.Second, 5*time.Millisecond)

	state = f.ctrl.Snapshot()
	assert.Equal(t, "RCPT1", state.ReceiptID)
	assert.Len(t, state.Transactions, 5)
	assert.Equal(t, entity.ViewScan, state.ActiveView)
	require.NotNil(t, state.ScanResult)
	assert.Equal(t, "Startup Corp", *state.ScanResult)

	clock.waitForTimer(t)
	clock.Advance(SettleDelay)
	require.NoError(t, f.runner.Wait())

	state = f.ctrl.Snapshot()
	assert.Equal(t, entity.PaymentStatusIdle, state.PaymentStatus)
	assert.Equal(t, entity.ViewDashboard, state.ActiveView)
	assert.Empty(t, state.ReceiptID)
	assert.Nil(t, state.ScanResult)
}

func TestConfirmPayment_NotReentrant(t *testing.T) {
	clock := newManualClock()
	f := newFixture(t, clock)
	ctx := context.Background()

	pay(t, f, "Emma Watson", "10")
	err := f.ctrl.ConfirmPayment(ctx)
	require.Error(t, err)
	var perr *pkgerror.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, pkgerror.CodeConflict, perr.Code())

	clock.waitForTimer(t)
	clock.Advance(ProcessingDelay)
	clock.waitForTimer(t)
	require.ErrorAs(t, f.ctrl.ConfirmPayment(ctx), &perr)
	clock.Advance(SettleDelay)
	require.NoError(t, f.runner.Wait())

	state := f.ctrl.Snapshot()
	assert.Len(t, state.Transactions, 5)
	assert.True(t, state.User.Balance.Equal(decimal.RequireFromString("4270.50")))
}

func TestConfirmPayment_RejectsInvalidAmount(t *testing.T) {
	for _, amount := range []string{"", "   ", "0", "0.00", "-5", "abc", "12abc"} {
		t.Run(amount, func(t *testing.T) {
			f := newFixture(t, instantClock{})
			ctx := context.Background()

			require.NoError(t, f.ctrl.SimulateScan(ctx, "Emma Watson"))
			require.NoError(t, f.ctrl.SetPayAmount(ctx, amount))
			before := f.ctrl.Snapshot()

			err := f.ctrl.ConfirmPayment(ctx)
			require.Error(t, err)
			var perr *pkgerror.Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, pkgerror.CodeInvalidInput, perr.Code())

			require.NoError(t, f.runner.Wait())
			assert.Equal(t, before, f.ctrl.Snapshot())
		})
	}
}

func TestConfirmPayment_DefaultPeer(t *testing.T) {
	for name, peer := range map[string]*string{"no scan": nil, "empty scan": new(string)} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, instantClock{})
			ctx := context.Background()

			if peer != nil {
				require.NoError(t, f.ctrl.SimulateScan(ctx, *peer))
			}
			require.NoError(t, f.ctrl.SetPayAmount(ctx, "1"))
			require.NoError(t, f.ctrl.ConfirmPayment(ctx))
			require.NoError(t, f.runner.Wait())

			assert.Equal(t, "Recipient", f.ctrl.Snapshot().Transactions[0].PeerName)
		})
	}
}

func TestConfirmPayment_BalanceIsInitialMinusSends(t *testing.T) {
	f := newFixture(t, instantClock{})
	ctx := context.Background()
	f.ctrl.Restore(ctx)

	amounts := []string{"0.10", "0.20", "99.99", "1000", "3.333"}
	want := decimal.RequireFromString("4280.50")
	for _, a := range amounts {
		pay(t, f, "Emma Watson", a)
		require.NoError(t, f.runner.Wait())
		want = want.Sub(decimal.RequireFromString(a))
	}

	state := f.ctrl.Snapshot()
	assert.True(t, state.User.Balance.Equal(want), "got %s want %s", state.User.Balance, want)
	assert.Len(t, state.Transactions, 4+len(amounts))
	for i, a := range amounts {
		tx := state.Transactions[len(amounts)-1-i]
		assert.True(t, tx.Amount.Equal(decimal.RequireFromString(a)))
	}
}

func TestConfirmPayment_MissingIDGenerator(t *testing.T) {
	ctrl := New(Dependency{Clock: instantClock{}})

	require.NoError(t, ctrl.SetPayAmount(context.Background(), "5"))
	err := ctrl.ConfirmPayment(context.Background())
	require.Error(t, err)
	assert.Equal(t, entity.PaymentStatusIdle, ctrl.Snapshot().PaymentStatus)
}

func TestConfirmPayment_StoreFailureKeepsState(t *testing.T) {
	f := newFixture(t, instantClock{})
	f.repo.saveErr = errBoom

	pay(t, f, "Emma Watson", "80.50")
	require.NoError(t, f.runner.Wait())

	state := f.ctrl.Snapshot()
	assert.True(t, state.User.Balance.Equal(decimal.RequireFromString("4200")))
	assert.Len(t, state.Transactions, 5)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.ctrl.metrics.storeWrites.WithLabelValues("transactions", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.ctrl.metrics.storeWrites.WithLabelValues("user", "error")))
}

// nanoClock reports an instant with sub-millisecond digits and fires timers immediately.
type nanoClock struct{ now time.Time }

func (c nanoClock) Now() time.Time { return c.now }

func (c nanoClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func TestConfirmPayment_ReloadedStateMatches(t *testing.T) {
	ctx := context.Background()
	clock := nanoClock{now: time.Date(2026, 5, 10, 9, 0, 0, 123456789, time.UTC)}
	repo := store.NewRepository(store.NewMemoryKV())
	runner := pkgroutine.NewManager(10)

	ctrl := New(Dependency{
		Repository: repo,
		Runner:     runner,
		Clock:      clock,
		TxID:       &seqID{prefix: "tx-new-"},
		ReceiptID:  &seqID{prefix: "RCPT"},
	})
	t.Cleanup(func() { _ = ctrl.Close(ctx) })

	ctrl.Restore(ctx)
	require.NoError(t, ctrl.SimulateScan(ctx, "Emma Watson"))
	require.NoError(t, ctrl.SetPayAmount(ctx, "50.00"))
	require.NoError(t, ctrl.ConfirmPayment(ctx))
	require.NoError(t, runner.Wait())

	state := ctrl.Snapshot()
	require.Len(t, state.Transactions, 5)
	assert.Equal(t, clock.now.Truncate(time.Millisecond), state.Transactions[0].Timestamp)

	reloaded := New(Dependency{Repository: repo, Clock: clock})
	reloaded.Restore(ctx)
	got := reloaded.Snapshot()

	require.Len(t, got.Transactions, len(state.Transactions))
	for i := range state.Transactions {
		want, have := state.Transactions[i], got.Transactions[i]
		assert.Equal(t, want.ID, have.ID)
		assert.True(t, want.Timestamp.Equal(have.Timestamp), "transaction %d: %s vs %s", i, want.Timestamp, have.Timestamp)
		assert.True(t, want.Amount.Equal(have.Amount))
	}
	assert.True(t, got.User.Balance.Equal(state.User.Balance))

	want := decimal.RequireFromString("4280.50").Add(got.Transactions[0].SignedAmount())
	assert.True(t, got.User.Balance.Equal(want), "balance %s", got.User.Balance)
}
