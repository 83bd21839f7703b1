package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeedUser is the profile used when storage holds no usable user.
func SeedUser() UserProfile {
	return UserProfile{
		ID:         "KORA-8822-991",
		Name:       "Alex Rivera",
		Email:      "alex@kora.finance",
		Avatar:     "https://picsum.photos/seed/alex/200/200",
		Balance:    decimal.RequireFromString("4280.50"),
		QRCodeData: "KORA-8822-991",
	}
}

// SeedTransactions is the history used when storage holds no usable list,
// newest first and dated relative to now at millisecond precision.
func SeedTransactions(now time.Time) []Transaction {
	now = now.Truncate(time.Millisecond)

	return []Transaction{
		{
			ID:        "tx-1",
			Type:      TxTypeSend,
			Amount:    decimal.RequireFromString("120.00"),
			PeerName:  "Emma Watson",
			PeerID:    "KORA-001",
			Timestamp: now.Add(-2 * time.Hour),
			Status:    TxStatusCompleted,
			Category:  CategoryFood,
		},
		{
			ID:        "tx-2",
			Type:      TxTypeReceive,
			Amount:    decimal.RequireFromString("850.00"),
			PeerName:  "Startup Corp",
			PeerID:    "KORA-CORP-9",
			Timestamp: now.Add(-24 * time.Hour),
			Status:    TxStatusCompleted,
			Category:  CategoryPersonal,
		},
		{
			ID:        "tx-3",
			Type:      TxTypeSend,
			Amount:    decimal.RequireFromString("45.50"),
			PeerName:  "Uber Technologies",
			PeerID:    "KORA-UBER-1",
			Timestamp: now.Add(-48 * time.Hour),
			Status:    TxStatusCompleted,
			Category:  CategoryTransport,
		},
		{
			ID:        "tx-4",
			Type:      TxTypeSend,
			Amount:    decimal.RequireFromString("310.00"),
			PeerName:  "Apple Store",
			PeerID:    "KORA-APPLE-X",
			Timestamp: now.Add(-72 * time.Hour),
			Status:    TxStatusCompleted,
			Category:  CategoryShopping,
		},
	}
}
