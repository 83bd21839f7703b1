package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shandysiswandi/kora/internal/wallet/entity"
)

// ErrCorrupt marks a stored value that exists but cannot be decoded.
var ErrCorrupt = errors.New("stored value is corrupt")

// Timestamps are ISO-8601 in UTC with millisecond precision. Sub-millisecond
// instants keep all nine digits so a load returns the same instant.
const (
	timestampLayout     = "2006-01-02T15:04:05.000Z07:00"
	timestampLayoutNano = "2006-01-02T15:04:05.000000000Z07:00"
)

type transactionRecord struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Amount    json.Number `json:"amount"`
	PeerName  string      `json:"peerName"`
	PeerID    string      `json:"peerId"`
	Timestamp string      `json:"timestamp"`
	Status    string      `json:"status"`
	Category  string      `json:"category"`
}

type userRecord struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Avatar     string      `json:"avatar"`
	Balance    json.Number `json:"balance"`
	QRCodeData string      `json:"qrCodeData"`
}

// Repository reads and writes the wallet values as JSON over a KV.
type Repository struct {
	kv KV
}

func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

func (r *Repository) LoadTransactions(ctx context.Context) ([]entity.Transaction, error) {
	raw, err := r.load(ctx, KeyTransactions)
	if err != nil {
		return nil, err
	}

	var records []transactionRecord
	if err := decode(raw, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, fmt.Errorf("%w: %s is null", ErrCorrupt, KeyTransactions)
	}

	txs := make([]entity.Transaction, 0, len(records))
	for i, rec := range records {
		tx, err := rec.toEntity()
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %v", ErrCorrupt, i, err)
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

func (rec transactionRecord) toEntity() (entity.Transaction, error) {
	txType, err := entity.ParseTxType(rec.Type)
	if err != nil {
		return entity.Transaction{}, err
	}
	status, err := entity.ParseTxStatus(rec.Status)
	if err != nil {
		return entity.Transaction{}, err
	}
	category, err := entity.ParseCategory(rec.Category)
	if err != nil {
		return entity.Transaction{}, err
	}

	amount, err := decimal.NewFromString(rec.Amount.String())
	if err != nil {
		return entity.Transaction{}, fmt.Errorf("amount: %w", err)
	}
	if !amount.IsPositive() {
		return entity.Transaction{}, fmt.Errorf("amount %s is not positive", amount)
	}

	ts, err := time.Parse(time.RFC3339Nano, rec.Timestamp)
	if err != nil {
		return entity.Transaction{}, fmt.Errorf("timestamp: %w", err)
	}

	return entity.Transaction{
		ID:        rec.ID,
		Type:      txType,
		Amount:    amount,
		PeerName:  rec.PeerName,
		PeerID:    rec.PeerID,
		Timestamp: ts,
		Status:    status,
		Category:  category,
	}, nil
}

func formatTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()%int(time.Millisecond) != 0 {
		return t.Format(timestampLayoutNano)
	}
	return t.Format(timestampLayout)
}

func (r *Repository) SaveTransactions(ctx context.Context, txs []entity.Transaction) error {
	records := make([]transactionRecord, 0, len(txs))
	for _, tx := range txs {
		records = append(records, transactionRecord{
			ID:        tx.ID,
			Type:      string(tx.Type),
			Amount:    json.Number(tx.Amount.String()),
			PeerName:  tx.PeerName,
			PeerID:    tx.PeerID,
			Timestamp: formatTimestamp(tx.Timestamp),
			Status:    string(tx.Status),
			Category:  string(tx.Category),
		})
	}

	return r.save(ctx, KeyTransactions, records)
}

func (r *Repository) LoadUser(ctx context.Context) (entity.UserProfile, error) {
	raw, err := r.load(ctx, KeyUser)
	if err != nil {
		return entity.UserProfile{}, err
	}

	var rec *userRecord
	if err := decode(raw, &rec); err != nil {
		return entity.UserProfile{}, err
	}
	if rec == nil {
		return entity.UserProfile{}, fmt.Errorf("%w: %s is null", ErrCorrupt, KeyUser)
	}

	balance, err := decimal.NewFromString(rec.Balance.String())
	if err != nil {
		return entity.UserProfile{}, fmt.Errorf("%w: user balance: %v", ErrCorrupt, err)
	}

	return entity.UserProfile{
		ID:         rec.ID,
		Name:       rec.Name,
		Email:      rec.Email,
		Avatar:     rec.Avatar,
		Balance:    balance,
		QRCodeData: rec.QRCodeData,
	}, nil
}

func (r *Repository) SaveUser(ctx context.Context, user entity.UserProfile) error {
	return r.save(ctx, KeyUser, userRecord{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Avatar:     user.Avatar,
		Balance:    json.Number(user.Balance.String()),
		QRCodeData: user.QRCodeData,
	})
}

// load reports an empty value as corrupt.
func (r *Repository) load(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrCorrupt, key)
	}
	return raw, nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return r.kv.Put(ctx, key, raw)
}

func decode(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return nil
}
