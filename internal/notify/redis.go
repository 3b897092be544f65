package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tgienger/teamboard/internal/tasks"
)

// Message is the JSON payload published on a user's channel
type Message struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"user_id"`
	InstanceID string    `json:"instance_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Link       string    `json:"link"`
	TaskID     int64     `json:"task_id"`
	TaskCode   string    `json:"task_code,omitempty"`
	Status     string    `json:"status"`
	At         time.Time `json:"at"`
}

// publisher is the part of *redis.Client the Publisher needs
type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher fans events out over Redis pub/sub so other instances and
// connected clients can refresh early instead of waiting for the next poll
type Publisher struct {
	client     publisher
	instanceID string
}

// NewRedisClient connects to redisURL and verifies the connection
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewPublisher creates a publisher over client
func NewPublisher(client publisher) *Publisher {
	return &Publisher{client: client, instanceID: uuid.New().String()}
}

// InstanceID identifies this process in published messages
func (p *Publisher) InstanceID() string { return p.instanceID }

// Channel returns the pub/sub channel of a user
func Channel(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10) + ":events"
}

// Emit publishes one message per affected user. Every publish is attempted;
// failures are joined.
func (p *Publisher) Emit(ctx context.Context, events []tasks.Event) error {
	var errs []error
	for _, ev := range events {
		title, message := Compose(ev)
		for _, userID := range ev.Affected {
			data, err := json.Marshal(Message{
				Type:       string(ev.Type),
				UserID:     userID,
				InstanceID: p.instanceID,
				Title:      title,
				Message:    message,
				Link:       Link(ev.Task.ID),
				TaskID:     ev.Task.ID,
				TaskCode:   ev.Task.CodeString(),
				Status:     string(ev.Task.Status),
				At:         ev.At,
			})
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if err := p.client.Publish(ctx, Channel(userID), data).Err(); err != nil {
				errs = append(errs, fmt.Errorf("publish to %s: %w", Channel(userID), err))
			}
		}
	}
	return errors.Join(errs...)
}
