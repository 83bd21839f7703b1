package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/shandysiswandi/kora/internal/pkg/pkgmetrics"
)

const (
	outcomeOK        = "ok"
	outcomeEmpty     = "empty"
	outcomeFallback  = "fallback"
	outcomeDiscarded = "discarded"
)

type metrics struct {
	payments    prometheus.Counter
	amountSent  prometheus.Counter
	advisor     *prometheus.CounterVec
	storeWrites *prometheus.CounterVec
	cameraOpen  prometheus.Gauge
}

// newMetrics registers the wallet collectors on reg. A nil reg leaves them unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)

	return &metrics{
		payments: f.NewCounter(prometheus.CounterOpts{
			Namespace: pkgmetrics.Namespace,
			Subsystem: "wallet",
			Name:      "payments_total",
			Help:      "Simulated payments that reached success.",
		}),
		amountSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: pkgmetrics.Namespace,
			Subsystem: "wallet",
			Name:      "amount_sent_total",
			Help:      "Sum of settled payment amounts.",
		}),
		advisor: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: pkgmetrics.Namespace,
			Subsystem: "wallet",
			Name:      "advisor_requests_total",
			Help:      "Advisor results by kind and how they were applied.",
		}, []string{"kind", "outcome"}),
		storeWrites: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: pkgmetrics.Namespace,
			Subsystem: "wallet",
			Name:      "store_writes_total",
			Help:      "Write-through attempts by value and result.",
		}, []string{"value", "outcome"}),
		cameraOpen: f.NewGauge(prometheus.GaugeOpts{
			Namespace: pkgmetrics.Namespace,
			Subsystem: "wallet",
			Name:      "camera_open",
			Help:      "1 while the scan screen holds the camera.",
		}),
	}
}

func (m *metrics) paymentSettled(amount decimal.Decimal) {
	m.payments.Inc()
	m.amountSent.Add(amount.InexactFloat64())
}

func (m *metrics) advisorCall(kind, outcome string) {
	m.advisor.WithLabelValues(kind, outcome).Inc()
}

func (m *metrics) storeWrite(value string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.storeWrites.WithLabelValues(value, outcome).Inc()
}
