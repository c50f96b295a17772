// This file contains the implementation of AMPQService. This service publishes a "scene ready" message to an AMPQ
// message broker every time a sample scene has been downloaded completely, so that a downstream importer can pick it up.
//
// This service expects an AMPQ 0.9.1 broker (e.g. RabbitMQ) reachable at the configured URL. The queue is declared durable
// on connect and messages are published as persistent JSON. The message format is:
//
//	{
//	    "id": string ("<category>/<scene>"),
//	    "target": {
//	        "scene_id": string,
//	        "category": string,
//	        "dir": string (local directory)
//	    },
//	    "source_url": string (url),
//	    "obj_num": int,
//	    "files": [string, ...],
//	    "downloaded_at": string (RFC 3339)
//	}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/log"
	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/models/scene"
)

type AMPQService struct {
	queueName  string
	connection *amqp.Connection
	channel    *amqp.Channel
	logger     *log.Logger
}

// NewAMPQService connects to the broker at url and declares queueName.
func NewAMPQService(url, queueName string, logger *log.Logger) (*AMPQService, error) {
	service := &AMPQService{
		queueName: queueName,
		logger:    logger,
	}

	if err := service.connect(url); err != nil {
		return nil, err
	}
	return service, nil
}

// connect establishes a connection to the AMPQ message broker and declares the queue
func (s *AMPQService) connect(url string) error {
	var err error

	s.connection, err = amqp.DialConfig(url, amqp.Config{
		Dial: amqp.DefaultDial(10 * time.Second),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to message broker: %w", err)
	}

	s.channel, err = s.connection.Channel()
	if err != nil {
		s.connection.Close()
		return fmt.Errorf("failed to open a channel: %w", err)
	}

	_, err = s.channel.QueueDeclare(s.queueName, true, false, false, false, nil)
	if err != nil {
		s.connection.Close()
		return fmt.Errorf("failed to declare queue %s: %w", s.queueName, err)
	}

	s.logger.Infof("Publishing scene notifications to queue %s", s.queueName)
	return nil
}

// RecordScene publishes a "scene ready" message for the downloaded scene.
func (s *AMPQService) RecordScene(ctx context.Context, record *scene.DownloadRecord) error {
	body, err := sceneReadyMessage(record)
	if err != nil {
		return err
	}

	err = s.channel.PublishWithContext(ctx, "", s.queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    record.DownloadedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish scene notification: %w", err)
	}

	s.logger.Debugf("Scene notification published for %s", record.ID)
	return nil
}

// Shutdown closes the channel and the connection to the broker
func (s *AMPQService) Shutdown() {
	s.logger.Debug("Shutting down AMQP service...")
	if s.channel != nil {
		s.channel.Close()
	}
	if s.connection != nil {
		s.connection.Close()
	}
}

func sceneReadyMessage(record *scene.DownloadRecord) ([]byte, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scene notification: %w", err)
	}
	return body, nil
}
