package entity

import "github.com/shopspring/decimal"

// UserProfile is the wallet owner. QRCodeData always equals ID.
type UserProfile struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Avatar     string          `json:"avatar"`
	Balance    decimal.Decimal `json:"balance"`
	QRCodeData string          `json:"qrCodeData"`
}
