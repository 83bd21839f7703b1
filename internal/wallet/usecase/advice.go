package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/kora/internal/wallet/advisor"
)

// AskAdvice sends query to the advisor in the background. Blank queries are ignored.
// A newer question supersedes one still in flight.
func (c *Controller) AskAdvice(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	return c.update(func() error {
		c.cancelAdvice()
		c.adviceGen++
		gen := c.adviceGen

		reqCtx, cancel := context.WithCancel(c.rootCtx)
		c.adviceCancel = cancel

		c.state.IsAILoading = true
		c.state.AIResponse = ""
		c.changed(ctx, "advice_requested")

		txs := c.state.clone().Transactions
		c.schedule(reqCtx, func(ctx context.Context) error {
			defer cancel()

			answer, err := c.advisor.GetAdvice(ctx, txs, query)
			outcome := outcomeOK
			switch {
			case err != nil:
				slog.WarnContext(ctx, "advice request failed", "error", err)
				answer = advisor.ApologyMessage
				outcome = outcomeFallback
			case strings.TrimSpace(answer) == "":
				answer = advisor.NoAdviceMessage
				outcome = outcomeEmpty
			}

			return c.update(func() error {
				if gen != c.adviceGen {
					c.metrics.advisorCall("advice", outcomeDiscarded)
					return nil
				}

				c.metrics.advisorCall("advice", outcome)
				c.adviceCancel = nil
				c.state.AIResponse = answer
				c.state.IsAILoading = false
				c.changed(ctx, "advice")
				return nil
			})
		})

		return nil
	})
}

// requestTips supersedes any tips request in flight.
func (c *Controller) requestTips() {
	c.cancelTips()
	c.tipsGen++
	gen := c.tipsGen

	reqCtx, cancel := context.WithCancel(c.rootCtx)
	c.tipsCancel = cancel
	c.state.TipsLoading = true

	txs := c.state.clone().Transactions
	c.schedule(reqCtx, func(ctx context.Context) error {
		defer cancel()

		tips, err := c.advisor.GetSpendingTips(ctx, txs)
		outcome := outcomeOK
		if err != nil || len(tips) == 0 {
			slog.WarnContext(ctx, "spending tips request failed", "error", err)
			tips = advisor.FallbackTips()
			outcome = outcomeFallback
		}

		return c.update(func() error {
			if gen != c.tipsGen {
				c.metrics.advisorCall("tips", outcomeDiscarded)
				return nil
			}

			c.metrics.advisorCall("tips", outcome)
			c.tipsCancel = nil
			c.state.SpendingTips = tips
			c.state.TipsLoading = false
			c.changed(ctx, "tips")
			return nil
		})
	})
}

func (c *Controller) cancelTips() {
	c.tipsGen++
	if c.tipsCancel != nil {
		c.tipsCancel()
		c.tipsCancel = nil
	}
	c.state.TipsLoading = false
}

func (c *Controller) cancelAdvice() {
	c.adviceGen++
	if c.adviceCancel != nil {
		c.adviceCancel()
		c.adviceCancel = nil
	}
}
