package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics - счетчики диалога регистрации.
// Все методы допускают nil-получатель, чтобы метрики можно было не подключать.
type Metrics struct {
	UpdatesHandled     *prometheus.CounterVec
	UpdateDuration     prometheus.Histogram
	FieldRejected      *prometheus.CounterVec
	FieldAccepted      *prometheus.CounterVec
	CodesSent          *prometheus.CounterVec
	VerificationFailed prometheus.Counter
	RegistrationsTotal prometheus.Counter
	AccountsBlocked    prometheus.Counter
	ConversationsSwept prometheus.Counter
}

// New регистрирует метрики в reg. Для nil используется реестр по умолчанию.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		UpdatesHandled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regbot_updates_handled_total",
			Help: "Total number of Telegram updates handled, by kind and result",
		}, []string{"kind", "result"}),
		UpdateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "regbot_update_duration_seconds",
			Help:    "Duration of a single update handling",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		FieldRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regbot_field_rejected_total",
			Help: "Rejected field submissions, by field and reason",
		}, []string{"field", "reason"}),
		FieldAccepted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regbot_field_accepted_total",
			Help: "Accepted field submissions, by field",
		}, []string{"field"}),
		CodesSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "regbot_verification_codes_total",
			Help: "Verification code deliveries, by channel and result",
		}, []string{"channel", "result"}),
		VerificationFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "regbot_verification_failed_total",
			Help: "Wrong verification codes submitted",
		}),
		RegistrationsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "regbot_registrations_completed_total",
			Help: "Completed registrations",
		}),
		AccountsBlocked: f.NewCounter(prometheus.CounterOpts{
			Name: "regbot_accounts_blocked_total",
			Help: "Accounts blocked after exhausting verification attempts",
		}),
		ConversationsSwept: f.NewCounter(prometheus.CounterOpts{
			Name: "regbot_conversations_swept_total",
			Help: "Abandoned conversations removed by the janitor",
		}),
	}
}

func (m *Metrics) ObserveUpdate(kind string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.UpdatesHandled.WithLabelValues(kind, result).Inc()
	m.UpdateDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncFieldRejected(field, reason string) {
	if m == nil {
		return
	}
	m.FieldRejected.WithLabelValues(field, reason).Inc()
}

func (m *Metrics) IncFieldAccepted(field string) {
	if m == nil {
		return
	}
	m.FieldAccepted.WithLabelValues(field).Inc()
}

func (m *Metrics) IncCodeSent(channel string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.CodesSent.WithLabelValues(channel, result).Inc()
}

func (m *Metrics) IncVerificationFailed() {
	if m == nil {
		return
	}
	m.VerificationFailed.Inc()
}

func (m *Metrics) IncRegistration() {
	if m == nil {
		return
	}
	m.RegistrationsTotal.Inc()
}

func (m *Metrics) IncBlocked() {
	if m == nil {
		return
	}
	m.AccountsBlocked.Inc()
}

func (m *Metrics) AddSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ConversationsSwept.Add(float64(n))
}
