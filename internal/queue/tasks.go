package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dunamismax/folio/internal/domain"
	"github.com/hibiken/asynq"
)

const TypeContactNotify = "contact:notify"

// ContactNotifyPayload carries a stored contact message to the notifier.
type ContactNotifyPayload struct {
	Message     domain.ContactMessage `json:"message"`
	RequestedAt time.Time             `json:"requested_at"`
}

func NewContactNotifyTask(payload ContactNotifyPayload) (*asynq.Task, error) {
	if payload.Message.ID == "" {
		return nil, fmt.Errorf("contact message id is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal contact payload: %w", err)
	}
	return asynq.NewTask(TypeContactNotify, body), nil
}

func ParseContactNotifyPayload(task *asynq.Task) (ContactNotifyPayload, error) {
	var payload ContactNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ContactNotifyPayload{}, fmt.Errorf("unmarshal contact payload: %w", err)
	}
	if payload.Message.ID == "" {
		return ContactNotifyPayload{}, fmt.Errorf("contact payload is missing message id")
	}
	return payload, nil
}
