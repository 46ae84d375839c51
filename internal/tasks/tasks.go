package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/vishu8474/prokhoz-backend/internal/config"
	"github.com/vishu8474/prokhoz-backend/internal/email"
)

// Task type identifiers.
const (
	TypeEmailDelivery = "email:deliver"
)

// EmailDeliveryPayload is the payload of a TypeEmailDelivery task.
type EmailDeliveryPayload struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// NewEmailDeliveryTask builds an email-delivery task for the default queue.
func NewEmailDeliveryTask(to []string, subject, body string) (*asynq.Task, error) {
	payload, err := json.Marshal(EmailDeliveryPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email delivery payload: %w", err)
	}
	return asynq.NewTask(TypeEmailDelivery, payload), nil
}

// NewClient creates an asynq client on the same Redis the cache uses.
func NewClient(rdb *redis.Client) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	})
}

// TaskProcessor handles the processing of background tasks.
type TaskProcessor struct {
	cfg         *config.Config
	emailSender email.Sender
}

// NewTaskProcessor creates a TaskProcessor.
func NewTaskProcessor(cfg *config.Config, emailSender email.Sender) *TaskProcessor {
	return &TaskProcessor{cfg: cfg, emailSender: emailSender}
}

// HandleEmailDeliveryTask delivers one queued email through the configured
// sender. Returning an error lets asynq retry with backoff.
func (p *TaskProcessor) HandleEmailDeliveryTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailDeliveryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email delivery payload: %v: %w", err, asynq.SkipRetry)
	}
	if len(payload.To) == 0 {
		return fmt.Errorf("email delivery task without recipients: %w", asynq.SkipRetry)
	}

	raw := email.BuildMessage(p.cfg.SmtpFromAddress, payload.To, payload.Subject, payload.Body)
	if err := p.emailSender.Send(ctx, payload.To, payload.Subject, raw); err != nil {
		return fmt.Errorf("email delivery failed: %w", err)
	}

	log.Printf("Delivered queued email to %v (Subject: %s)", payload.To, payload.Subject)
	return nil
}

// SetupServer configures an asynq server with the task handlers registered.
func SetupServer(rdb *redis.Client, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     rdb.Options().Addr,
			Password: rdb.Options().Password,
			DB:       rdb.Options().DB,
		},
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				fmt.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v\n", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDelivery, processor.HandleEmailDeliveryTask)

	return srv, mux
}
