package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishu8474/prokhoz-backend/internal/config"
)

// recordingSender captures sent emails instead of delivering them.
type recordingSender struct {
	to      []string
	subject string
	raw     []byte
	err     error
}

func (s *recordingSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	s.to = to
	s.subject = subject
	s.raw = rawMessage
	return s.err
}

func TestNewEmailDeliveryTask(t *testing.T) {
	task, err := NewEmailDeliveryTask([]string{"a@example.com"}, "Hello", "Body text")
	require.NoError(t, err)
	assert.Equal(t, TypeEmailDelivery, task.Type())

	var payload EmailDeliveryPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, []string{"a@example.com"}, payload.To)
	assert.Equal(t, "Hello", payload.Subject)
	assert.Equal(t, "Body text", payload.Body)
}

func TestHandleEmailDeliveryTask(t *testing.T) {
	sender := &recordingSender{}
	processor := NewTaskProcessor(&config.Config{SmtpFromAddress: "no-reply@prokhoz.example"}, sender)

	task, err := NewEmailDeliveryTask([]string{"buyer@example.com"}, "New inquiry", "You have a new inquiry.")
	require.NoError(t, err)

	err = processor.HandleEmailDeliveryTask(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, []string{"buyer@example.com"}, sender.to)
	assert.Equal(t, "New inquiry", sender.subject)
	assert.Contains(t, string(sender.raw), "From: no-reply@prokhoz.example")
	assert.Contains(t, string(sender.raw), "You have a new inquiry.")
}

func TestHandleEmailDeliveryTask_SenderFailureIsRetryable(t *testing.T) {
	sender := &recordingSender{err: fmt.Errorf("smtp timeout")}
	processor := NewTaskProcessor(&config.Config{}, sender)

	task, err := NewEmailDeliveryTask([]string{"x@example.com"}, "s", "b")
	require.NoError(t, err)

	err = processor.HandleEmailDeliveryTask(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry), "transient delivery failures should be retried")
}

func TestHandleEmailDeliveryTask_BadPayloadSkipsRetry(t *testing.T) {
	processor := NewTaskProcessor(&config.Config{}, &recordingSender{})

	bad := asynq.NewTask(TypeEmailDelivery, []byte("not json"))
	err := processor.HandleEmailDeliveryTask(context.Background(), bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)

	empty, _ := NewEmailDeliveryTask(nil, "s", "b")
	err = processor.HandleEmailDeliveryTask(context.Background(), empty)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
