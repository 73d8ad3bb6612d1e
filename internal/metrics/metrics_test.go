package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncFieldRejected("contact", "duplicate")
	m.IncFieldRejected("contact", "duplicate")
	m.IncCodeSent("sms", nil)
	m.IncCodeSent("sms", errors.New("boom"))
	m.IncBlocked()
	m.AddSwept(3)
	m.AddSwept(0)
	m.ObserveUpdate("message", time.Now(), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FieldRejected.WithLabelValues("contact", "duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CodesSent.WithLabelValues("sms", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CodesSent.WithLabelValues("sms", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccountsBlocked))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ConversationsSwept))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpdatesHandled.WithLabelValues("message", "ok")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncFieldAccepted("name")
		m.IncRegistration()
		m.IncVerificationFailed()
		m.ObserveUpdate("callback", time.Now(), errors.New("x"))
	})
}
