package advisor

import (
	"context"
	"errors"

	"github.com/shandysiswandi/kora/internal/pkg/pkgerror"
	"github.com/shandysiswandi/kora/internal/wallet/entity"
)

var ErrNotConfigured = errors.New("advisor api key is not configured")

// Unavailable stands in when no model is configured. Every call fails.
type Unavailable struct{}

func (Unavailable) GetAdvice(context.Context, []entity.Transaction, string) (string, error) {
	return "", pkgerror.NewExternal("advisor", ErrNotConfigured)
}

func (Unavailable) GetSpendingTips(context.Context, []entity.Transaction) ([]string, error) {
	return nil, pkgerror.NewExternal("advisor", ErrNotConfigured)
}
