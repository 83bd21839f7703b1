package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shandysiswandi/kora/internal/pkg/pkgerror"
	"github.com/shandysiswandi/kora/internal/wallet/entity"
)

const (
	ProcessingDelay = 1500 * time.Millisecond
	SettleDelay     = 2000 * time.Millisecond

	defaultPeerName = "Recipient"
	defaultPeerID   = "KORA-REC-1"
)

// ConfirmPayment starts the simulated payment flow for the current amount and
// scanned peer. It is rejected without any state change unless the flow is
// idle and the amount is a positive number.
func (c *Controller) ConfirmPayment(ctx context.Context) error {
	return c.update(func() error {
		if c.state.PaymentStatus != entity.PaymentStatusIdle {
			return pkgerror.NewBusiness("payment already in progress", pkgerror.CodeConflict)
		}

		amount, ok := parseAmount(c.state.PayAmount)
		if !ok {
			return pkgerror.NewInvalidInput(errors.New("pay amount must be a positive number"))
		}

		if c.txID == nil || c.receiptID == nil {
			return pkgerror.NewServer(errors.New("missing dependency"))
		}

		peer := defaultPeerName
		if c.state.ScanResult != nil && *c.state.ScanResult != "" {
			peer = *c.state.ScanResult
		}

		c.state.PaymentStatus = entity.PaymentStatusProcessing
		c.state.ReceiptID = ""
		c.changed(ctx, "payment_processing")

		c.schedule(c.rootCtx, func(ctx context.Context) error {
			return c.runPayment(ctx, amount, peer)
		})

		return nil
	})
}

func (c *Controller) runPayment(ctx context.Context, amount decimal.Decimal, peer string) error {
	if err := c.sleep(ctx, ProcessingDelay); err != nil {
		slog.WarnContext(ctx, "payment interrupted while processing", "peer", peer, "error", err)
		return err
	}

	_ = c.update(func() error {
		c.settlePayment(ctx, amount, peer)
		return nil
	})

	if err := c.sleep(ctx, SettleDelay); err != nil {
		slog.WarnContext(ctx, "payment interrupted before reset", "peer", peer, "error", err)
		return err
	}

	return c.update(func() error {
		c.finishPayment(ctx)
		return nil
	})
}

func (c *Controller) settlePayment(ctx context.Context, amount decimal.Decimal, peer string) {
	tx := entity.Transaction{
		ID:        c.txID.Generate(),
		Type:      entity.TxTypeSend,
		Amount:    amount,
		PeerName:  peer,
		PeerID:    defaultPeerID,
		Timestamp: c.clock.Now().Truncate(time.Millisecond),
		Status:    entity.TxStatusCompleted,
		Category:  entity.CategoryPersonal,
	}

	txs := make([]entity.Transaction, 0, len(c.state.Transactions)+1)
	c.state.Transactions = append(append(txs, tx), c.state.Transactions...)
	c.state.User.Balance = c.state.User.Balance.Add(tx.SignedAmount())
	c.state.PaymentStatus = entity.PaymentStatusSuccess
	c.state.ReceiptID = c.receiptID.Generate()

	c.persistTransactions(ctx)
	c.persistUser(ctx)
	c.metrics.paymentSettled(amount)
	c.transactionsChanged()

	slog.InfoContext(ctx, "payment settled", "tx_id", tx.ID, "peer", peer, "amount", amount.String(), "receipt_id", c.state.ReceiptID)

	c.changed(ctx, "payment_settled")
}

func (c *Controller) finishPayment(ctx context.Context) {
	c.state.PaymentStatus = entity.PaymentStatusIdle
	c.state.ScanResult = nil
	c.state.PayAmount = ""
	c.state.ReceiptID = ""
	c.navigate(ctx, entity.ViewDashboard)
	c.changed(ctx, "payment_finished")
}
