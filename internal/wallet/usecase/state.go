package usecase

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shandysiswandi/kora/internal/wallet/entity"
)

// State is a point-in-time copy of everything the screens render.
type State struct {
	ActiveView    entity.View
	Transactions  []entity.Transaction
	User          entity.UserProfile
	AIResponse    string
	IsAILoading   bool
	SpendingTips  []string
	TipsLoading   bool
	ScanResult    *string
	PayAmount     string
	PaymentStatus entity.PaymentStatus
	ReceiptID     string
	CameraActive  bool
	Version       uint64
}

func initialState(now time.Time) State {
	return State{
		ActiveView:    entity.ViewDashboard,
		Transactions:  entity.SeedTransactions(now),
		User:          entity.SeedUser(),
		PaymentStatus: entity.PaymentStatusIdle,
	}
}

func (s State) clone() State {
	out := s
	out.Transactions = slices.Clone(s.Transactions)
	out.SpendingTips = slices.Clone(s.SpendingTips)
	if s.ScanResult != nil {
		peer := *s.ScanResult
		out.ScanResult = &peer
	}
	return out
}

// CanConfirm reports whether ConfirmPayment would be accepted right now.
func (s State) CanConfirm() bool {
	_, ok := parseAmount(s.PayAmount)
	return ok && s.PaymentStatus == entity.PaymentStatusIdle
}

// parseAmount accepts only strictly positive decimal text.
func parseAmount(text string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, false
	}
	return amount, true
}
