package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/dunamismax/folio/internal/domain"
	"github.com/dunamismax/folio/internal/notify"
	"github.com/dunamismax/folio/internal/queue"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	enabled bool
	err     error
	events  []string
	bodies  []any
}

func (f *fakeNotifier) Enabled() bool { return f.enabled }

func (f *fakeNotifier) Send(_ context.Context, event string, payload any) error {
	f.events = append(f.events, event)
	f.bodies = append(f.bodies, payload)
	return f.err
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func contactTask(t *testing.T) *asynq.Task {
	t.Helper()
	task, err := queue.NewContactNotifyTask(queue.ContactNotifyPayload{
		Message: domain.ContactMessage{ID: "msg-1", Name: "Grace", Email: "grace@example.com", Subject: "Hi", Message: "Hello"},
	})
	require.NoError(t, err)
	return task
}

func TestHandleContactNotifyDelivers(t *testing.T) {
	n := &fakeNotifier{enabled: true}
	s := newServer(nil, n)

	require.NoError(t, s.handleContactNotify(context.Background(), contactTask(t)))

	require.Equal(t, []string{notify.EventContactReceived}, n.events)
	body := n.bodies[0].(map[string]any)
	assert.Equal(t, "msg-1", body["id"])
	assert.Equal(t, "grace@example.com", body["email"])
	assert.Equal(t, 1.0, counterValue(t, s.metrics.notificationsTotal.WithLabelValues(outcomeDelivered)))
	assert.Equal(t, 0.0, gaugeValue(t, s.metrics.activeTasks))
}

func TestHandleContactNotifySkipsWithoutEndpoint(t *testing.T) {
	n := &fakeNotifier{enabled: false}
	s := newServer(nil, n)

	require.NoError(t, s.handleContactNotify(context.Background(), contactTask(t)))
	assert.Empty(t, n.events)
	assert.Equal(t, 1.0, counterValue(t, s.metrics.notificationsTotal.WithLabelValues(outcomeSkipped)))
}

func TestHandleContactNotifyReturnsDeliveryError(t *testing.T) {
	n := &fakeNotifier{enabled: true, err: errors.New("boom")}
	s := newServer(nil, n)

	err := s.handleContactNotify(context.Background(), contactTask(t))
	require.Error(t, err)
	assert.Equal(t, 1.0, counterValue(t, s.metrics.notificationsTotal.WithLabelValues(outcomeFailed)))
}

func TestHandleContactNotifyBadPayloadSkipsRetry(t *testing.T) {
	s := newServer(nil, &fakeNotifier{enabled: true})

	err := s.handleContactNotify(context.Background(), asynq.NewTask(queue.TypeContactNotify, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
