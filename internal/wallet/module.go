package wallet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/shandysiswandi/kora/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/kora/internal/pkg/pkgmetrics"
	"github.com/shandysiswandi/kora/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/kora/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/kora/internal/pkg/pkguid"
	"github.com/shandysiswandi/kora/internal/wallet/advisor"
	"github.com/shandysiswandi/kora/internal/wallet/device"
	"github.com/shandysiswandi/kora/internal/wallet/event"
	"github.com/shandysiswandi/kora/internal/wallet/inbound"
	"github.com/shandysiswandi/kora/internal/wallet/store"
	"github.com/shandysiswandi/kora/internal/wallet/usecase"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Registry  prometheus.Registerer
	Context   context.Context
}

type kvCloser interface {
	store.KV
	Close() error
}

func New(dep Dependency) (func(context.Context) error, error) {
	kv, err := openStorage(dep.Context, dep.Config)
	if err != nil {
		return nil, err
	}

	adv, err := newAdvisor(dep.Context, dep.Config)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	sf, err := pkguid.NewSnowflake()
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("failed to create id generator: %w", err)
	}

	bus := event.NewBus()
	camera := device.NewSimulated()
	camera.Deny(dep.Config.GetBool("device.camera.deny"))
	registerResourceMetrics(dep.Registry, bus, camera)

	ctrl := usecase.New(usecase.Dependency{
		Repository: store.NewRepository(kv),
		Advisor:    adv,
		Camera: usecase.CameraFunc(func(ctx context.Context) (io.Closer, error) {
			capture, err := camera.Open(ctx)
			if err != nil {
				return nil, err
			}
			return capture, nil
		}),
		Notifier:   bus,
		Runner:     dep.Goroutine,
		TxID:       pkguid.NewPrefixed("tx-", sf),
		ReceiptID:  pkguid.NewBase36(9, sf),
		Registerer: dep.Registry,
		RootCtx:    dep.Context,
	})
	ctrl.Restore(dep.Context)

	inbound.RegisterHTTPEndpoint(dep.Router, ctrl)

	// open event streams end once the application starts shutting down
	context.AfterFunc(dep.Context, bus.Close)

	return func(ctx context.Context) error {
		err := ctrl.Close(ctx)
		bus.Close()
		return errors.Join(err, kv.Close())
	}, nil
}

func openStorage(ctx context.Context, cfg pkgconfig.Config) (kvCloser, error) {
	driver := cfg.GetString("storage.driver")

	switch driver {
	case "", "memory":
		slog.Warn("wallet storage is in memory, state is lost on restart")
		return store.NewMemoryKV(), nil
	case "sqlite":
		kv, err := store.OpenSQLite(ctx, cfg.GetString("storage.sqlite.path"))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return kv, nil
	case "postgres":
		kv, err := store.OpenPostgres(ctx, cfg.GetString("storage.postgres.dsn"))
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres storage: %w", err)
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func newAdvisor(ctx context.Context, cfg pkgconfig.Config) (usecase.Advisor, error) {
	apiKey := cfg.GetString("advisor.api_key")
	if apiKey == "" {
		slog.Warn("advisor api key is empty, fallback answers only")
		return advisor.Unavailable{}, nil
	}

	gemini, err := advisor.NewGemini(ctx, advisor.GeminiConfig{
		APIKey:      apiKey,
		Model:       cfg.GetString("advisor.model"),
		Temperature: cfg.GetFloat("advisor.temperature"),
		Timeout:     cfg.GetDuration("advisor.timeout"),
	})
	if err != nil {
		return nil, err
	}

	return advisor.NewRetrying(gemini, advisor.RetryConfig{
		MaxRetries:  int(cfg.GetInt("advisor.max_retries")),
		BaseBackoff: cfg.GetDuration("advisor.base_backoff"),
	}), nil
}

// registerResourceMetrics exposes the bus and camera counters. A nil reg leaves them unregistered.
func registerResourceMetrics(reg prometheus.Registerer, bus *event.Bus, camera *device.Simulated) {
	f := promauto.With(reg)

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: pkgmetrics.Namespace,
		Subsystem: "wallet",
		Name:      "event_subscribers",
		Help:      "Listeners currently attached to the state change stream.",
	}, func() float64 { return float64(bus.Subscribers()) })

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: pkgmetrics.Namespace,
		Subsystem: "wallet",
		Name:      "camera_captures_active",
		Help:      "Camera captures opened and not yet released.",
	}, func() float64 { return float64(camera.Active()) })

	f.NewCounterFunc(prometheus.CounterOpts{
		Namespace: pkgmetrics.Namespace,
		Subsystem: "wallet",
		Name:      "camera_opens_total",
		Help:      "Camera captures ever opened.",
	}, func() float64 { return float64(camera.Opened()) })
}
