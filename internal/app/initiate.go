package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/shandysiswandi/kora/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/kora/internal/pkg/pkglog"
	"github.com/shandysiswandi/kora/internal/pkg/pkgmetrics"
	"github.com/shandysiswandi/kora/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/kora/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/kora/internal/pkg/pkguid"
)

func (a *App) initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}

	cfg, err := pkgconfig.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	cfg.SetDefault("log.format", "json")
	cfg.SetDefault("log.level", "info")
	cfg.SetDefault("server.address.http", ":8080")
	cfg.SetDefault("server.cors.allowed_origins", "*")
	cfg.SetDefault("storage.driver", "memory")
	cfg.SetDefault("storage.sqlite.path", "./data/kora.db")

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	pkglog.Setup(cfg.GetString("log.format"), cfg.GetString("log.level"))

	a.config = cfg
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100)
	a.uuid = pkguid.NewUUID()
	a.registry = pkgmetrics.NewRegistry()
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)
	a.router.Handle(http.MethodGet, "/metrics", pkgmetrics.Handler(a.registry))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("server.cors.allowed_origins"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

//nolint:unparam // is always nil
func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn["HTTP Server"] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
}
