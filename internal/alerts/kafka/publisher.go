// Package kafka publishes alert events to the broker that downstream
// notification services consume from. The topic is the delivery boundary:
// SMS/push/email fan-out happens outside the engine.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"fundline/internal/alerts"
	dErrors "fundline/pkg/domain-errors"
)

// Publisher writes one JSON record per event, keyed by lender so a lender's
// alerts stay ordered within a partition.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// payload is the wire shape; field names are part of the contract with the
// notification consumers.
type payload struct {
	LenderID      string   `json:"lender_id"`
	Type          string   `json:"type"`
	Priority      string   `json:"priority"`
	Title         string   `json:"title"`
	Message       string   `json:"message"`
	RelatedEntity string   `json:"related_entity,omitempty"`
	Channels      []string `json:"channels,omitempty"`
	Timestamp     string   `json:"timestamp"`
}

// New connects to the brokers and ensures the topic exists.
func New(brokers []string, topic string) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	// Ensure the topic up front so the first alert does not race topic
	// creation. Already-exists responses are fine.
	admin := kadm.NewClient(client)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	resp, err := admin.CreateTopic(ctx, 3, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ensure alert topic: %w", err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		client.Close()
		return nil, fmt.Errorf("ensure alert topic %q: %w", topic, resp.Err)
	}

	return &Publisher{client: client, topic: topic}, nil
}

// Emit implements alerts.Publisher.
func (p *Publisher) Emit(ctx context.Context, event alerts.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	value, err := json.Marshal(payload{
		LenderID:      event.LenderID.String(),
		Type:          string(event.Type),
		Priority:      string(event.Priority),
		Title:         event.Title,
		Message:       event.Message,
		RelatedEntity: event.RelatedEntity,
		Channels:      event.Channels,
		Timestamp:     event.Timestamp.Format(time.RFC3339Nano),
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal alert payload")
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.LenderID.String()),
		Value: value,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeDependency, "produce alert record")
	}
	return nil
}

// Close flushes and closes the underlying client.
func (p *Publisher) Close() {
	p.client.Close()
}
