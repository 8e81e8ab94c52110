package queue

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
)

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(redisOpt asynq.RedisClientOpt, queueName string) *Client {
	return &Client{
		client: asynq.NewClient(redisOpt),
		queue:  queueName,
	}
}

func (c *Client) Queue() string {
	return c.queue
}

// EnqueueContactNotification schedules delivery of a contact message. The
// message id doubles as the task id so a retried request cannot notify twice.
func (c *Client) EnqueueContactNotification(ctx context.Context, payload ContactNotifyPayload) (*asynq.TaskInfo, error) {
	task, err := NewContactNotifyTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(
		ctx,
		task,
		asynq.Queue(c.queue),
		asynq.TaskID(payload.Message.ID),
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
	)
}

func (c *Client) Close() error {
	return c.client.Close()
}
