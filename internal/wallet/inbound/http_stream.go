package inbound

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultKeepAlive = 15 * time.Second
	streamBuffer     = 16
)

// StreamEndpoint pushes the full state as a server-sent event whenever it changes.
type StreamEndpoint struct {
	uc        uc
	keepAlive time.Duration
}

func (s *StreamEndpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc := http.NewResponseController(w)

	changes, unsubscribe := s.uc.Subscribe(streamBuffer)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := s.writeState(w, rc); err != nil {
		slog.WarnContext(ctx, "event stream closed", "error", err)
		return
	}

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			if err := s.writeState(w, rc); err != nil {
				slog.WarnContext(ctx, "event stream closed", "error", err)
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

// writeState sends the latest snapshot, so dropped notifications never leave a client behind.
func (s *StreamEndpoint) writeState(w http.ResponseWriter, rc *http.ResponseController) error {
	state := toStateResponse(s.uc.Snapshot())

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "id: %d\nevent: state\ndata: %s\n\n", state.Version, data); err != nil {
		return err
	}

	return rc.Flush()
}
