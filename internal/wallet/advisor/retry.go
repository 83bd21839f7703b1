package advisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/kora/internal/wallet/entity"
)

type RetryConfig struct {
	MaxRetries  int
	BaseBackoff time.Duration
}

// Retrying repeats failed calls with exponential backoff until the budget or ctx runs out.
type Retrying struct {
	next        Advisor
	maxRetries  int
	baseBackoff time.Duration
}

func NewRetrying(next Advisor, cfg RetryConfig) *Retrying {
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 200 * time.Millisecond
	}

	return &Retrying{
		next:        next,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
	}
}

func (r *Retrying) GetAdvice(ctx context.Context, txs []entity.Transaction, query string) (string, error) {
	var out string
	err := r.do(ctx, "advice", func(ctx context.Context) error {
		var err error
		out, err = r.next.GetAdvice(ctx, txs, query)
		return err
	})
	return out, err
}

func (r *Retrying) GetSpendingTips(ctx context.Context, txs []entity.Transaction) ([]string, error) {
	var out []string
	err := r.do(ctx, "tips", func(ctx context.Context) error {
		var err error
		out, err = r.next.GetSpendingTips(ctx, txs)
		return err
	})
	return out, err
}

func (r *Retrying) do(ctx context.Context, kind string, call func(ctx context.Context) error) error {
	backoff := r.baseBackoff
	for attempt := 0; ; attempt++ {
		err := call(ctx)
		if err == nil {
			return nil
		}

		if attempt == r.maxRetries || ctx.Err() != nil {
			slog.WarnContext(ctx, "advisor call failed", "kind", kind, "attempts", attempt+1, "error", err)
			return err
		}

		if err := sleepBackoff(ctx, backoff); err != nil {
			return err
		}
		backoff *= 2
	}
}

func sleepBackoff(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
