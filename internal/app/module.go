package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/shandysiswandi/kora/internal/wallet"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.wallet.enabled") {
		closer, err := wallet.New(wallet.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Registry:  a.registry,
			Context:   a.ctx,
		})
		if err != nil {
			slog.Error("failed to init module wallet", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Wallet"] = closer
		}
	}
}
