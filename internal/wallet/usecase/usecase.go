package usecase

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shandysiswandi/kora/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/kora/internal/pkg/pkguid"
	"github.com/shandysiswandi/kora/internal/wallet/advisor"
	"github.com/shandysiswandi/kora/internal/wallet/entity"
	"github.com/shandysiswandi/kora/internal/wallet/event"
)

type Repository interface {
	LoadTransactions(ctx context.Context) ([]entity.Transaction, error)
	SaveTransactions(ctx context.Context, txs []entity.Transaction) error
	LoadUser(ctx context.Context) (entity.UserProfile, error)
	SaveUser(ctx context.Context, user entity.UserProfile) error
}

type Advisor interface {
	GetAdvice(ctx context.Context, txs []entity.Transaction, query string) (string, error)
	GetSpendingTips(ctx context.Context, txs []entity.Transaction) ([]string, error)
}

// Camera hands out a capture that stays open until closed.
type Camera interface {
	Open(ctx context.Context) (io.Closer, error)
}

type CameraFunc func(ctx context.Context) (io.Closer, error)

func (f CameraFunc) Open(ctx context.Context) (io.Closer, error) {
	return f(ctx)
}

type Notifier interface {
	Publish(ctx context.Context, event event.StateChanged) error
	Subscribe(buffer int) (<-chan event.StateChanged, func())
}

type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
}

type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type Dependency struct {
	Repository Repository
	Advisor    Advisor
	Camera     Camera
	Notifier   Notifier
	Runner     Runner
	Clock      Clock
	TxID       pkguid.StringID
	ReceiptID  pkguid.StringID
	Registerer prometheus.Registerer
	RootCtx    context.Context
}

// Controller owns the wallet state. Every operation runs to completion under
// one lock; background work is started only after the lock is released.
type Controller struct {
	mu      sync.Mutex
	state   State
	capture io.Closer
	pending []job

	tipsGen      uint64
	tipsCancel   context.CancelFunc
	adviceGen    uint64
	adviceCancel context.CancelFunc

	repo      Repository
	advisor   Advisor
	camera    Camera
	notifier  Notifier
	runner    Runner
	clock     Clock
	txID      pkguid.StringID
	receiptID pkguid.StringID
	metrics   *metrics
	rootCtx   context.Context
}

type job struct {
	ctx context.Context
	fn  func(ctx context.Context) error
}

func New(dep Dependency) *Controller {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	adv := dep.Advisor
	if adv == nil {
		adv = advisor.Unavailable{}
	}

	notifier := dep.Notifier
	if notifier == nil {
		notifier = event.NewBus()
	}

	runner := dep.Runner
	if runner == nil {
		runner = pkgroutine.NewManager(pkgroutine.DefaultMaxGoroutine)
	}

	return &Controller{
		state:     initialState(clock.Now()),
		repo:      dep.Repository,
		advisor:   adv,
		camera:    dep.Camera,
		notifier:  notifier,
		runner:    runner,
		clock:     clock,
		txID:      dep.TxID,
		receiptID: dep.ReceiptID,
		metrics:   newMetrics(dep.Registerer),
		rootCtx:   root,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// update runs fn under the lock and then starts whatever background jobs fn queued.
func (c *Controller) update(fn func() error) error {
	c.mu.Lock()
	err := fn()
	jobs := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, j := range jobs {
		c.runner.Go(j.ctx, j.fn)
	}

	return err
}

func (c *Controller) schedule(ctx context.Context, fn func(ctx context.Context) error) {
	c.pending = append(c.pending, job{ctx: ctx, fn: fn})
}

func (c *Controller) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-c.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
