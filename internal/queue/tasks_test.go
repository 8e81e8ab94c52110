package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dunamismax/folio/internal/domain"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactNotifyTaskRoundTrip(t *testing.T) {
	payload := ContactNotifyPayload{
		Message: domain.ContactMessage{
			ID:      "01jbz7k3m0r8y2w4d6f8h0j2k4",
			Name:    "Grace",
			Email:   "grace@example.com",
			Subject: "Hello",
			Message: "Loved the network project.",
		},
		RequestedAt: time.Now().UTC(),
	}

	task, err := NewContactNotifyTask(payload)
	require.NoError(t, err)
	assert.Equal(t, TypeContactNotify, task.Type())

	parsed, err := ParseContactNotifyPayload(task)
	require.NoError(t, err)
	assert.Equal(t, payload.Message.ID, parsed.Message.ID)
	assert.Equal(t, payload.Message.Subject, parsed.Message.Subject)
}

func TestContactNotifyTaskRequiresID(t *testing.T) {
	_, err := NewContactNotifyTask(ContactNotifyPayload{})
	require.Error(t, err)

	_, err = ParseContactNotifyPayload(asynq.NewTask(TypeContactNotify, []byte(`{"message":{}}`)))
	require.Error(t, err)
}

func TestEnqueueContactNotification(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewClient(asynq.RedisClientOpt{Addr: mr.Addr()}, "notifications")
	t.Cleanup(func() { _ = c.Close() })

	info, err := c.EnqueueContactNotification(context.Background(), ContactNotifyPayload{
		Message: domain.ContactMessage{ID: "msg-1", Name: "Grace"},
	})
	require.NoError(t, err)
	assert.Equal(t, "notifications", info.Queue)
	assert.Equal(t, "msg-1", info.ID)
	assert.Equal(t, TypeContactNotify, info.Type)
}
