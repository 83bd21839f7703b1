package inbound

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/kora/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/kora/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/kora/internal/pkg/pkguid"
	"github.com/shandysiswandi/kora/internal/wallet/advisor"
	"github.com/shandysiswandi/kora/internal/wallet/device"
	"github.com/shandysiswandi/kora/internal/wallet/store"
	"github.com/shandysiswandi/kora/internal/wallet/usecase"
)

type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type instantClock struct{}

func (instantClock) Now() time.Time { return time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC) }

func (c instantClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.Now()
	return ch
}

type testServer struct {
	router *pkgrouter.Router
	runner *pkgroutine.Manager
	camera *device.Simulated
	ctrl   *usecase.Controller
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	sf, err := pkguid.NewSnowflakeNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	runner := pkgroutine.NewManager(10)
	camera := device.NewSimulated()
	ctrl := usecase.New(usecase.Dependency{
		Repository: store.NewRepository(store.NewMemoryKV()),
		Advisor:    advisor.Unavailable{},
		Camera: usecase.CameraFunc(func(ctx context.Context) (io.Closer, error) {
			capture, err := camera.Open(ctx)
			if err != nil {
				return nil, err
			}
			return capture, nil
		}),
		Runner:    runner,
		Clock:     instantClock{},
		TxID:      pkguid.NewPrefixed("tx-", sf),
		ReceiptID: pkguid.NewBase36(9, sf),
	})
	ctrl.Restore(context.Background())

	router := pkgrouter.NewRouter(pkguid.NewUUID())
	RegisterHTTPEndpoint(router, ctrl)

	t.Cleanup(func() {
		_ = ctrl.Close(context.Background())
		_ = runner.Wait()
	})

	return &testServer{router: router, runner: runner, camera: camera, ctrl: ctrl}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var env envelope[T]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env.Data
}

func TestPaymentFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/wallet/views/scan", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("navigate status: %d body=%s", rec.Code, rec.Body.String())
	}
	state := decode[StateResponse](t, rec)
	if state.ActiveView != "SCAN" || !state.CameraActive {
		t.Fatalf("unexpected state after navigate: %+v", state)
	}
	if srv.camera.Active() != 1 {
		t.Fatalf("expected open camera, got %d", srv.camera.Active())
	}

	if rec := srv.do(t, http.MethodPost, "/wallet/scan", `{"peer":"Emma Watson"}`); rec.Code != http.StatusOK {
		t.Fatalf("scan status: %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodPost, "/wallet/pay-amount", `{"amount":"50.00"}`); rec.Code != http.StatusOK {
		t.Fatalf("pay-amount status: %d", rec.Code)
	}

	rec = srv.do(t, http.MethodPost, "/wallet/payments", "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("payment status: %d body=%s", rec.Code, rec.Body.String())
	}
	if err := srv.runner.Wait(); err != nil {
		t.Fatalf("runner wait: %v", err)
	}

	state = decode[StateResponse](t, srv.do(t, http.MethodGet, "/wallet/state", ""))
	if state.User.Balance != "4230.50" {
		t.Fatalf("unexpected balance %s", state.User.Balance)
	}
	if len(state.Transactions) != 5 {
		t.Fatalf("expected 5 transactions, got %d", len(state.Transactions))
	}
	tx := state.Transactions[0]
	if tx.PeerName != "Emma Watson" || tx.Amount != "50.00" || tx.Type != "send" || tx.Status != "completed" || tx.Category != "Personal" {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if !strings.HasPrefix(tx.ID, "tx-") {
		t.Fatalf("unexpected transaction id %s", tx.ID)
	}
	if state.ActiveView != "DASHBOARD" || state.PaymentStatus != "idle" || state.ScanResult != nil {
		t.Fatalf("flow did not reset: %+v", state)
	}
	if srv.camera.Active() != 0 {
		t.Fatalf("camera left open")
	}
}

func TestRejectedRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "unknown view", method: http.MethodPost, path: "/wallet/views/settings", status: http.StatusUnprocessableEntity},
		{name: "payment without amount", method: http.MethodPost, path: "/wallet/payments", status: http.StatusUnprocessableEntity},
		{name: "scan bad body", method: http.MethodPost, path: "/wallet/scan", body: `{"peer":`, status: http.StatusBadRequest},
		{name: "scan unknown field", method: http.MethodPost, path: "/wallet/scan", body: `{"who":"x"}`, status: http.StatusBadRequest},
		{name: "amount as number", method: http.MethodPost, path: "/wallet/pay-amount", body: `{"amount":5}`, status: http.StatusBadRequest},
		{name: "blank question", method: http.MethodPost, path: "/wallet/advice", body: `{"query":"  "}`, status: http.StatusUnprocessableEntity},
		{name: "wrong method", method: http.MethodGet, path: "/wallet/payments", status: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d body=%s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}

	if got := srv.ctrl.Snapshot(); len(got.Transactions) != 4 || got.PaymentStatus != "idle" {
		t.Fatalf("rejected requests changed state: %+v", got)
	}
}

func TestScreensOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	if rec := srv.do(t, http.MethodPost, "/wallet/views/INSIGHTS", ""); rec.Code != http.StatusOK {
		t.Fatalf("navigate status: %d", rec.Code)
	}
	if err := srv.runner.Wait(); err != nil {
		t.Fatalf("runner wait: %v", err)
	}

	type insights struct {
		Kind string     `json:"kind"`
		Bars []ChartBar `json:"bars"`
		Tips []string   `json:"tips"`
	}
	screen := decode[struct {
		Nav    []NavItem `json:"nav"`
		Screen insights  `json:"screen"`
	}](t, srv.do(t, http.MethodGet, "/wallet/screen", ""))

	if screen.Screen.Kind != "INSIGHTS" {
		t.Fatalf("unexpected screen kind %s", screen.Screen.Kind)
	}
	if len(screen.Screen.Bars) != 4 || screen.Screen.Bars[0].Name != "T1" || screen.Screen.Bars[0].Value != "310.00" {
		t.Fatalf("unexpected bars %+v", screen.Screen.Bars)
	}
	if len(screen.Screen.Tips) != 3 || screen.Screen.Tips[0] != advisor.FallbackTips()[0] {
		t.Fatalf("expected fallback tips, got %v", screen.Screen.Tips)
	}
	if len(screen.Nav) != 5 || !screen.Nav[3].Active || screen.Nav[3].Label != "Insights" {
		t.Fatalf("unexpected nav %+v", screen.Nav)
	}
}

func TestAdviceOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/wallet/advice", `{"query":"Where does my money go?"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("advice status: %d", rec.Code)
	}
	if err := srv.runner.Wait(); err != nil {
		t.Fatalf("runner wait: %v", err)
	}

	state := decode[StateResponse](t, srv.do(t, http.MethodGet, "/wallet/state", ""))
	if state.AIResponse != advisor.ApologyMessage || state.IsAILoading {
		t.Fatalf("expected apology, got %+v", state)
	}
}

func TestEventStream(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/wallet/events", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	events := make(chan StateResponse, 4)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var state StateResponse
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &state); err == nil {
				events <- state
			}
		}
		close(events)
	}()

	next := func() StateResponse {
		t.Helper()
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatalf("stream ended")
			}
			return ev
		case <-time.After(2 * time.Second):
			t.Fatalf("no event received")
		}
		return StateResponse{}
	}

	first := next()
	if first.ActiveView != "DASHBOARD" {
		t.Fatalf("unexpected initial view %s", first.ActiveView)
	}

	if rec := srv.do(t, http.MethodPost, "/wallet/views/receive", ""); rec.Code != http.StatusOK {
		t.Fatalf("navigate status: %d", rec.Code)
	}

	second := next()
	if second.ActiveView != "RECEIVE" || second.Version <= first.Version {
		t.Fatalf("unexpected pushed state %+v", second)
	}
}
