package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shandysiswandi/kora/internal/pkg/pkgerror"
	"github.com/shandysiswandi/kora/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/kora/internal/wallet/entity"
)

var testNow = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

type testRepo struct {
	mu       sync.Mutex
	txs      []entity.Transaction
	user     *entity.UserProfile
	txErr    error
	userErr  error
	saveErr  error
	txSaves  int
	usrSaves int
}

func (r *testRepo) LoadTransactions(ctx context.Context) ([]entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.txErr != nil {
		return nil, r.txErr
	}
	if r.txs == nil {
		return nil, pkgerror.ErrNotFound
	}
	return append([]entity.Transaction(nil), r.txs...), nil
}

func (r *testRepo) SaveTransactions(ctx context.Context, txs []entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txSaves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.txs = append([]entity.Transaction(nil), txs...)
	return nil
}

func (r *testRepo) LoadUser(ctx context.Context) (entity.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.userErr != nil {
		return entity.UserProfile{}, r.userErr
	}
	if r.user == nil {
		return entity.UserProfile{}, pkgerror.ErrNotFound
	}
	return *r.user, nil
}

func (r *testRepo) SaveUser(ctx context.Context, user entity.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usrSaves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.user = &user
	return nil
}

func (r *testRepo) stored() ([]entity.Transaction, *entity.UserProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.Transaction(nil), r.txs...), r.user
}

// testAdvisor answers from fixed values. When gate is set, calls wait for it to close.
type testAdvisor struct {
	mu         sync.Mutex
	answers    []string
	answerErr  error
	tips       []string
	tipsErr    error
	gate       chan struct{}
	adviceSeen []string
	tipsCalls  int
}

func (a *testAdvisor) GetAdvice(ctx context.Context, txs []entity.Transaction, query string) (string, error) {
	a.mu.Lock()
	a.adviceSeen = append(a.adviceSeen, query)
	n := len(a.adviceSeen)
	gate := a.gate
	a.mu.Unlock()

	if gate != nil && n == 1 {
		<-gate
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.answerErr != nil {
		return "", a.answerErr
	}
	if len(a.answers) == 0 {
		return "", nil
	}
	return a.answers[(n-1)%len(a.answers)], nil
}

func (a *testAdvisor) GetSpendingTips(ctx context.Context, txs []entity.Transaction) ([]string, error) {
	a.mu.Lock()
	a.tipsCalls++
	gate := a.gate
	a.mu.Unlock()

	if gate != nil {
		<-gate
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tips, a.tipsErr
}

func (a *testAdvisor) calls() (advice []string, tips int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.adviceSeen...), a.tipsCalls
}

type testCamera struct {
	mu     sync.Mutex
	err    error
	open   int
	opened int
}

type testCapture struct {
	cam  *testCamera
	once sync.Once
}

func (c *testCamera) Open(ctx context.Context) (io.Closer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	c.open++
	c.opened++
	return &testCapture{cam: c}, nil
}

func (c *testCapture) Close() error {
	c.once.Do(func() {
		c.cam.mu.Lock()
		c.cam.open--
		c.cam.mu.Unlock()
	})
	return nil
}

func (c *testCamera) counts() (open, opened int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open, c.opened
}

type seqID struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (s *seqID) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s%d", s.prefix, s.n)
}

// instantClock fires every timer immediately.
type instantClock struct{}

func (instantClock) Now() time.Time {
	return testNow
}

func (instantClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- testNow
	return ch
}

type clockWaiter struct {
	at time.Time
	ch chan time.Time
}

// manualClock fires timers only when Advance passes their deadline.
type manualClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []clockWaiter
	started chan struct{}
}

func newManualClock() *manualClock {
	return &manualClock{now: testNow, started: make(chan struct{}, 16)}
}

func (m *manualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualClock) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	ch := make(chan time.Time, 1)
	m.waiters = append(m.waiters, clockWaiter{at: m.now.Add(d), ch: ch})
	m.mu.Unlock()

	m.started <- struct{}{}
	return ch
}

func (m *manualClock) waitForTimer(t *testing.T) {
	t.Helper()
	select {
	case <-m.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("timer was never started")
	}
}

func (m *manualClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.now.Add(d)
	kept := m.waiters[:0]
	for _, w := range m.waiters {
		if !w.at.After(m.now) {
			w.ch <- m.now
			continue
		}
		kept = append(kept, w)
	}
	m.waiters = kept
}

type fixture struct {
	ctrl    *Controller
	repo    *testRepo
	advisor *testAdvisor
	camera  *testCamera
	runner  *pkgroutine.Manager
	reg     *prometheus.Registry
}

func newFixture(t *testing.T, clock Clock) *fixture {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	f := &fixture{
		repo:    &testRepo{},
		advisor: &testAdvisor{},
		camera:  &testCamera{},
		runner:  pkgroutine.NewManager(10),
		reg:     prometheus.NewRegistry(),
	}

	f.ctrl = New(Dependency{
		Repository: f.repo,
		Advisor:    f.advisor,
		Camera:     f.camera,
		Runner:     f.runner,
		Clock:      clock,
		TxID:       &seqID{prefix: "tx-new-"},
		ReceiptID:  &seqID{prefix: "RCPT"},
		Registerer: f.reg,
		RootCtx:    ctx,
	})

	t.Cleanup(func() {
		_ = f.ctrl.Close(context.Background())
		cancel()
		_ = f.runner.Wait()
	})

	return f
}

var errBoom = errors.New("boom")
