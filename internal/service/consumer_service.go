package service

import (
	"context"
	"encoding/json"
	"log"

	"document-bot-be/pkg/analytics"
	"document-bot-be/pkg/events"
	"document-bot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process analytics bus and forwards events to
// NATS. Forwarding is optional; with no publisher configured events stay
// local (the analytics log still has them).
type consumerService struct {
	pubSub    *gochannel.GoChannel
	publisher *nats.Publisher
}

func NewConsumerService(pubSub *gochannel.GoChannel, publisher *nats.Publisher) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		publisher: publisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, analytics.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	if cs.publisher == nil {
		msg.Ack()
		return
	}

	eventType := msg.Metadata.Get("event_type")
	if eventType == "" {
		log.Printf("[WARN] Analytics message %s has no event_type, dropping", msg.UUID)
		msg.Ack()
		return
	}

	var props map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &props); err != nil {
		log.Printf("[ERROR] Failed to unmarshal analytics payload: %v", err)
		msg.Ack() // malformed, retrying will not help
		return
	}

	event := events.New(eventType, props)
	if err := cs.publisher.Publish(ctx, event); err != nil {
		log.Printf("[ERROR] Failed to forward analytics event %s to NATS: %v", eventType, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
