package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/kora/internal/pkg/pkgerror"
	"github.com/shandysiswandi/kora/internal/wallet/entity"
	"github.com/shandysiswandi/kora/internal/wallet/event"
)

// Restore replaces the in-memory values with what storage holds. A missing or
// unreadable value falls back to the seed data, which is then written back.
func (c *Controller) Restore(ctx context.Context) {
	_ = c.update(func() error {
		now := c.clock.Now()

		txs := entity.SeedTransactions(now)
		user := entity.SeedUser()

		if c.repo != nil {
			if stored, err := c.repo.LoadTransactions(ctx); err == nil {
				txs = stored
			} else {
				logLoadFailure(ctx, "transactions", err)
			}

			if stored, err := c.repo.LoadUser(ctx); err == nil {
				user = stored
			} else {
				logLoadFailure(ctx, "user", err)
			}
		}

		c.state.Transactions = txs
		c.state.User = user
		c.persistTransactions(ctx)
		c.persistUser(ctx)
		c.transactionsChanged()
		c.changed(ctx, "restore")

		return nil
	})
}

func logLoadFailure(ctx context.Context, value string, err error) {
	if errors.Is(err, pkgerror.ErrNotFound) {
		slog.InfoContext(ctx, "no stored value, using seed data", "value", value)
		return
	}
	slog.WarnContext(ctx, "stored value unreadable, using seed data", "value", value, "error", err)
}

// Navigate switches the active view and runs the enter/leave effects of both views.
func (c *Controller) Navigate(ctx context.Context, view entity.View) error {
	if !slices.Contains(entity.Views(), view) {
		return pkgerror.NewInvalidInput(errors.New("unknown view " + string(view)))
	}

	return c.update(func() error {
		if c.navigate(ctx, view) {
			c.changed(ctx, "navigate")
		}
		return nil
	})
}

func (c *Controller) navigate(ctx context.Context, view entity.View) bool {
	from := c.state.ActiveView
	if from == view {
		return false
	}

	switch from {
	case entity.ViewScan:
		c.closeCamera(ctx)
	case entity.ViewInsights:
		c.cancelTips()
	}

	c.state.ActiveView = view

	switch view {
	case entity.ViewScan:
		c.openCamera(ctx)
	case entity.ViewInsights:
		c.requestTips()
	}

	return true
}

// SimulateScan stands in for decoding a QR code; any peer text is accepted.
func (c *Controller) SimulateScan(ctx context.Context, peer string) error {
	return c.update(func() error {
		c.state.ScanResult = &peer
		c.changed(ctx, "scan")
		return nil
	})
}

// CancelScan drops the scanned peer and the typed amount.
func (c *Controller) CancelScan(ctx context.Context) error {
	return c.update(func() error {
		if c.state.PaymentStatus != entity.PaymentStatusIdle {
			return pkgerror.NewBusiness("payment in progress", pkgerror.CodeConflict)
		}

		c.state.ScanResult = nil
		c.state.PayAmount = ""
		c.changed(ctx, "scan_cancel")
		return nil
	})
}

func (c *Controller) SetPayAmount(ctx context.Context, text string) error {
	return c.update(func() error {
		c.state.PayAmount = text
		c.changed(ctx, "pay_amount")
		return nil
	})
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Controller) Subscribe(buffer int) (<-chan event.StateChanged, func()) {
	return c.notifier.Subscribe(buffer)
}

// Close cancels outstanding collaborator calls and releases the camera.
func (c *Controller) Close(ctx context.Context) error {
	return c.update(func() error {
		c.cancelTips()
		c.cancelAdvice()
		c.closeCamera(ctx)
		return nil
	})
}

func (c *Controller) changed(ctx context.Context, reason string) {
	c.state.Version++

	err := c.notifier.Publish(context.WithoutCancel(ctx), event.StateChanged{
		Version: c.state.Version,
		View:    c.state.ActiveView,
		Reason:  reason,
	})
	if err != nil && !errors.Is(err, event.ErrBusClosed) {
		slog.WarnContext(ctx, "failed to publish state change", "version", c.state.Version, "error", err)
	}
}

// transactionsChanged re-requests tips while Insights is showing.
func (c *Controller) transactionsChanged() {
	if c.state.ActiveView == entity.ViewInsights {
		c.requestTips()
	}
}

func (c *Controller) persistTransactions(ctx context.Context) {
	if c.repo == nil {
		return
	}

	err := c.repo.SaveTransactions(context.WithoutCancel(ctx), c.state.Transactions)
	c.metrics.storeWrite("transactions", err)
	if err != nil {
		slog.ErrorContext(ctx, "failed to persist transactions", "count", len(c.state.Transactions), "error", err)
	}
}

func (c *Controller) persistUser(ctx context.Context) {
	if c.repo == nil {
		return
	}

	err := c.repo.SaveUser(context.WithoutCancel(ctx), c.state.User)
	c.metrics.storeWrite("user", err)
	if err != nil {
		slog.ErrorContext(ctx, "failed to persist user", "user_id", c.state.User.ID, "error", err)
	}
}

func (c *Controller) openCamera(ctx context.Context) {
	if c.camera == nil || c.capture != nil {
		return
	}

	capture, err := c.camera.Open(ctx)
	if err != nil {
		slog.WarnContext(ctx, "camera unavailable", "error", err)
		c.state.CameraActive = false
		return
	}

	c.capture = capture
	c.state.CameraActive = true
	c.metrics.cameraOpen.Set(1)
}

func (c *Controller) closeCamera(ctx context.Context) {
	if c.capture == nil {
		return
	}

	if err := c.capture.Close(); err != nil {
		slog.WarnContext(ctx, "failed to release camera", "error", err)
	}

	c.capture = nil
	c.state.CameraActive = false
	c.metrics.cameraOpen.Set(0)
}
