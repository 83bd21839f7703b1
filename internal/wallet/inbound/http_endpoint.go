package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/shandysiswandi/kora/internal/pkg/pkgerror"
	"github.com/shandysiswandi/kora/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/kora/internal/wallet/entity"
	"github.com/shandysiswandi/kora/internal/wallet/usecase"
)

const maxBodyBytes = 64 << 10

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) State(ctx context.Context, r *http.Request) (any, error) {
	return toStateResponse(h.uc.Snapshot()), nil
}

func (h *HTTPEndpoint) Screen(ctx context.Context, r *http.Request) (any, error) {
	return toScreenResponse(h.uc.Screen()), nil
}

func (h *HTTPEndpoint) Navigate(ctx context.Context, r *http.Request) (any, error) {
	view, err := entity.ParseView(strings.ToUpper(strings.TrimSpace(pkgrouter.GetParam(ctx, "view"))))
	if err != nil {
		return nil, pkgerror.NewInvalidInput(err)
	}

	if err := h.uc.Navigate(ctx, view); err != nil {
		return nil, err
	}

	return toStateResponse(h.uc.Snapshot()), nil
}

func (h *HTTPEndpoint) Scan(ctx context.Context, r *http.Request) (any, error) {
	var req ScanRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	if err := h.uc.SimulateScan(ctx, req.Peer); err != nil {
		return nil, err
	}

	return toStateResponse(h.uc.Snapshot()), nil
}

func (h *HTTPEndpoint) CancelScan(ctx context.Context, r *http.Request) (any, error) {
	if err := h.uc.CancelScan(ctx); err != nil {
		return nil, err
	}

	return toStateResponse(h.uc.Snapshot()), nil
}

func (h *HTTPEndpoint) PayAmount(ctx context.Context, r *http.Request) (any, error) {
	var req PayAmountRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	if err := h.uc.SetPayAmount(ctx, req.Amount); err != nil {
		return nil, err
	}

	return toStateResponse(h.uc.Snapshot()), nil
}

func (h *HTTPEndpoint) ConfirmPayment(ctx context.Context, r *http.Request) (any, error) {
	if err := h.uc.ConfirmPayment(ctx); err != nil {
		return nil, err
	}

	return accepted(h.uc.Snapshot(), "payment accepted"), nil
}

func (h *HTTPEndpoint) AskAdvice(ctx context.Context, r *http.Request) (any, error) {
	var req AdviceRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Query) == "" {
		return nil, pkgerror.NewInvalidInput(errors.New("query is required"))
	}

	if err := h.uc.AskAdvice(ctx, req.Query); err != nil {
		return nil, err
	}

	return accepted(h.uc.Snapshot(), "question accepted"), nil
}

func accepted(s usecase.State, msg string) AcceptedResponse {
	return AcceptedResponse{
		Version:       s.Version,
		PaymentStatus: s.PaymentStatus,
		IsAILoading:   s.IsAILoading,
		message:       msg,
	}
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return pkgerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return pkgerror.NewInvalidFormat()
	}

	return nil
}
