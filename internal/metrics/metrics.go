package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Metrics holds the collectors of the rewards engine. A nil *Metrics is valid and records nothing.
type Metrics struct {
	watchOutcomes  *prometheus.CounterVec
	securityScores prometheus.Histogram
	ledgerCredits  *prometheus.CounterVec
	ledgerAmount   *prometheus.CounterVec
	bonusClamps    *prometheus.CounterVec
	referralPaid   *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		watchOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rewards_watch_outcomes_total",
				Help: "Video watch submissions by final state and reason",
			},
			[]string{"state", "reason"},
		),
		securityScores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rewards_watch_security_score",
				Help:    "Anti-cheat security score of watch submissions",
				Buckets: []float64{0, 25, 50, 60, 70, 80, 90, 100},
			},
		),
		ledgerCredits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rewards_ledger_entries_total",
				Help: "Ledger entries by transaction type and result",
			},
			[]string{"type", "result"},
		),
		ledgerAmount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rewards_ledger_amount_total",
				Help: "Sum of posted ledger amounts by transaction type",
			},
			[]string{"type"},
		),
		bonusClamps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rewards_management_bonus_clamped_total",
				Help: "Management bonus payouts reduced by daily or monthly caps",
			},
			[]string{"level"},
		),
		referralPaid: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rewards_referral_triggers_total",
				Help: "Referral trigger evaluations by event and result",
			},
			[]string{"trigger", "result"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_time_seconds",
				Help:    "Histogram of response times",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.watchOutcomes,
		m.securityScores,
		m.ledgerCredits,
		m.ledgerAmount,
		m.bonusClamps,
		m.referralPaid,
		m.httpRequests,
		m.httpDuration,
	)

	return m
}

func (m *Metrics) RecordWatch(state, reason string, securityScore int) {
	if m == nil {
		return
	}
	m.watchOutcomes.WithLabelValues(state, reason).Inc()
	m.securityScores.Observe(float64(securityScore))
}

func (m *Metrics) RecordLedgerEntry(txType string, amount decimal.Decimal, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ledgerCredits.WithLabelValues(txType, "failed").Inc()
		return
	}
	m.ledgerCredits.WithLabelValues(txType, "posted").Inc()
	m.ledgerAmount.WithLabelValues(txType).Add(amount.InexactFloat64())
}

func (m *Metrics) RecordBonusClamp(level string) {
	if m == nil {
		return
	}
	m.bonusClamps.WithLabelValues(level).Inc()
}

func (m *Metrics) RecordReferralTrigger(trigger string, paid bool) {
	if m == nil {
		return
	}
	result := "skipped"
	if paid {
		result = "paid"
	}
	m.referralPaid.WithLabelValues(trigger, result).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Handler serves the registry this Metrics was created with.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
