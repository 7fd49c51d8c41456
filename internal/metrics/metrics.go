package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics exposed by the service.
type Metrics struct {
	Redemptions        *prometheus.CounterVec
	RedemptionFailures *prometheus.CounterVec
	DiscountGranted    prometheus.Counter
	ActiveCampaigns    prometheus.Gauge
	SweepExpired       prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Redemptions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "redemptions_total",
				Help:      "Total successful code redemptions",
			},
			[]string{"code"},
		),
		RedemptionFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "redemption_failures_total",
				Help:      "Rejected redemption attempts by reason",
			},
			[]string{"reason"},
		),
		DiscountGranted: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "discount_granted_total",
				Help:      "Total monetary discount granted",
			},
		),
		ActiveCampaigns: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_campaigns",
				Help:      "Number of campaigns currently active",
			},
		),
		SweepExpired: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sweep_expired_total",
				Help:      "Campaigns expired by the periodic sweep",
			},
		),
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRedemption records a successful redemption.
func (m *Metrics) RecordRedemption(code string, discount float64) {
	m.Redemptions.WithLabelValues(code).Inc()
	if discount > 0 {
		m.DiscountGranted.Add(discount)
	}
}

// RecordRedemptionFailure records a rejected redemption attempt.
func (m *Metrics) RecordRedemptionFailure(reason string) {
	m.RedemptionFailures.WithLabelValues(reason).Inc()
}

// RecordSweep records the outcome of an expiry sweep.
func (m *Metrics) RecordSweep(expired int) {
	if expired > 0 {
		m.SweepExpired.Add(float64(expired))
	}
}

// SetActiveCampaigns updates the active campaign gauge.
func (m *Metrics) SetActiveCampaigns(n int) {
	m.ActiveCampaigns.Set(float64(n))
}
