// Package advisor produces spending advice for a wallet's transaction history.
//
// Implementations only read the transactions they are given. Failures are
// returned as errors; the caller decides which fallback text to show.
package advisor

import (
	"context"

	"github.com/shandysiswandi/kora/internal/wallet/entity"
)

const (
	// ApologyMessage replaces the answer when advice cannot be produced.
	ApologyMessage = "I'm having a bit of trouble connecting to my neural net. Could you try asking me again in a moment?"
	// NoAdviceMessage replaces an empty answer.
	NoAdviceMessage = "No advice found."
)

// FallbackTips are shown when tips cannot be produced.
func FallbackTips() []string {
	return []string{
		"Limit your small, frequent purchases.",
		"Check for recurring subscriptions you don't use.",
		"Consider setting a budget for the 'Food' category.",
	}
}

type Advisor interface {
	GetAdvice(ctx context.Context, txs []entity.Transaction, query string) (string, error)
	GetSpendingTips(ctx context.Context, txs []entity.Transaction) ([]string, error)
}
