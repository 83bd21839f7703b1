package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/kora/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/kora/internal/wallet/entity"
	"github.com/shandysiswandi/kora/internal/wallet/event"
	"github.com/shandysiswandi/kora/internal/wallet/usecase"
)

type uc interface {
	Snapshot() usecase.State
	Screen() usecase.Frame
	Navigate(ctx context.Context, view entity.View) error
	SimulateScan(ctx context.Context, peer string) error
	CancelScan(ctx context.Context) error
	SetPayAmount(ctx context.Context, text string) error
	ConfirmPayment(ctx context.Context) error
	AskAdvice(ctx context.Context, query string) error
	Subscribe(buffer int) (<-chan event.StateChanged, func())
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/wallet/state", end.State)
	r.GET("/wallet/screen", end.Screen)

	r.POST("/wallet/views/:view", end.Navigate)
	r.POST("/wallet/scan", end.Scan)
	r.POST("/wallet/scan/cancel", end.CancelScan)
	r.POST("/wallet/pay-amount", end.PayAmount)
	r.POST("/wallet/payments", end.ConfirmPayment)
	r.POST("/wallet/advice", end.AskAdvice)

	r.Handle(http.MethodGet, "/wallet/events", &StreamEndpoint{uc: uc, keepAlive: defaultKeepAlive})
}
