package messagequeue

import (
	"context"
	"fmt"
	"sync"

	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Service publishes JSON messages to durable RabbitMQ queues and waits for the broker to
// confirm each one.
type Service struct {
	ch              *amqp.Channel
	log             *zap.Logger
	deadLetterQueue string
	confirms        chan amqp.Confirmation
	mu              sync.Mutex
}

// NewService opens a channel, declares every queue in queueNames as durable, and puts the
// channel in confirm mode. deadLetterQueue is declared as well and used by PublishDeadLetter.
func NewService(conn *amqp.Connection, log *zap.Logger, deadLetterQueue string, queueNames ...string) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	for _, name := range append([]string{deadLetterQueue}, queueNames...) {
		_, err = ch.QueueDeclare(
			name,  // name
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			return nil, err
		}
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &Service{
		ch:              ch,
		log:             log,
		deadLetterQueue: deadLetterQueue,
		confirms:        ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

// Publish sends message to queueName with persistence and waits for the confirm.
func (s *Service) Publish(ctx context.Context, queueName string, message interface{}) error {
	requestID := utils.GetRequestID(ctx)
	s.log.Info("messageQueue.Publish called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueNameKey, queueName),
	)

	body, err := json.Marshal(message)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    requestID,
	}

	if err := s.ch.PublishWithContext(ctx, "", queueName, false, false, msg); err != nil {
		s.log.Error("messageQueue.Publish error publishing message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueNameKey, queueName),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQPublishMessage(err, queueName)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queueName)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queueName)
	}

	s.log.Info("messageQueue.Publish succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueNameKey, queueName),
	)
	return nil
}

func (s *Service) PublishDeadLetter(ctx context.Context, message interface{}) error {
	return s.Publish(ctx, s.deadLetterQueue, message)
}

func (s *Service) Close() error {
	return s.ch.Close()
}
