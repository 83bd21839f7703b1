package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a simulated money movement. ID and Timestamp are fixed at insertion.
type Transaction struct {
	ID        string          `json:"id"`
	Type      TxType          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	PeerName  string          `json:"peerName"`
	PeerID    string          `json:"peerId"`
	Timestamp time.Time       `json:"timestamp"`
	Status    TxStatus        `json:"status"`
	Category  Category        `json:"category"`
}

// SignedAmount is the effect of the transaction on the balance once completed.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TxTypeSend {
		return t.Amount.Neg()
	}
	return t.Amount
}
