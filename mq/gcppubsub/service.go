package gcppubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"

	"jeongsan/mq/mq"
)

const (
	tripIDAttribute = "tripId"
	deliverTimeout  = 2 * time.Second
)

type subscriptionInfo struct {
	gcpSubscription *pubsub.Subscription
	cancel          context.CancelFunc
}

// GenericPubSubService publishes M to one topic and hands out filtered,
// per-subscriber GCP subscriptions keyed on the message topic.
type GenericPubSubService[M mq.TopicProvider] struct {
	client              *pubsub.Client
	topic               *pubsub.Topic
	activeSubscriptions map[uuid.UUID]*subscriptionInfo
	subscriptionsMutex  sync.Mutex
	ctx                 context.Context
}

// NewGenericPubSubService makes sure topicID exists, creating it if needed.
func NewGenericPubSubService[M mq.TopicProvider](ctx context.Context, client *pubsub.Client, topicID string) (*GenericPubSubService[M], error) {
	if client == nil {
		return nil, errors.New("GCP Pub/Sub client is nil")
	}

	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existence of topic %s: %w", topicID, err)
	}
	if !exists {
		topic, err = client.CreateTopic(ctx, topicID)
		if err != nil {
			return nil, fmt.Errorf("failed to create topic %s: %w", topicID, err)
		}
		slog.Info("created Pub/Sub topic", "topic", topicID)
	}

	return &GenericPubSubService[M]{
		client:              client,
		topic:               topic,
		activeSubscriptions: make(map[uuid.UUID]*subscriptionInfo),
		ctx:                 ctx,
	}, nil
}

func typeName[M any]() string {
	return reflect.TypeOf(*new(M)).Name()
}

func topicFilter(topic uuid.UUID) string {
	return fmt.Sprintf("attributes.%s = \"%s\"", tripIDAttribute, topic.String())
}

// Publish sends msg with its topic as the tripId attribute and waits for the
// server ack.
func (s *GenericPubSubService[M]) Publish(msg M) error {
	name := typeName[M]()
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	result := s.topic.Publish(s.ctx, &pubsub.Message{
		Data: body,
		Attributes: map[string]string{
			tripIDAttribute: msg.GetTopic().String(),
		},
	})
	if _, err := result.Get(s.ctx); err != nil {
		return fmt.Errorf("failed to publish %s to topic %s: %w", name, s.topic.ID(), err)
	}
	return nil
}

// Subscribe creates a filtered GCP subscription that lives until DeSubscribe.
func (s *GenericPubSubService[M]) Subscribe(topic uuid.UUID) (uuid.UUID, <-chan M, error) {
	subscriptionID := uuid.New()
	name := typeName[M]()
	gcpSubName := fmt.Sprintf("sub-%s-%s-%s", name, topic.String(), subscriptionID.String())

	gcpSub, err := s.client.CreateSubscription(s.ctx, gcpSubName, pubsub.SubscriptionConfig{
		Topic:            s.topic,
		Filter:           topicFilter(topic),
		ExpirationPolicy: 24 * time.Hour,
		AckDeadline:      10 * time.Second,
	})
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to create GCP subscription %s for %s: %w", gcpSubName, name, err)
	}

	msgChan := make(chan M, 5)
	receiveCtx, cancel := context.WithCancel(s.ctx)

	s.subscriptionsMutex.Lock()
	s.activeSubscriptions[subscriptionID] = &subscriptionInfo{gcpSubscription: gcpSub, cancel: cancel}
	s.subscriptionsMutex.Unlock()

	go func() {
		defer func() {
			s.subscriptionsMutex.Lock()
			delete(s.activeSubscriptions, subscriptionID)
			s.subscriptionsMutex.Unlock()

			if err := gcpSub.Delete(context.Background()); err != nil {
				slog.Warn("delete GCP subscription", "subscription", gcpSub.ID(), "error", err)
			}
			close(msgChan)
		}()

		err := gcpSub.Receive(receiveCtx, func(ctx context.Context, pubsubMsg *pubsub.Message) {
			pubsubMsg.Ack()

			var msg M
			if err := json.Unmarshal(pubsubMsg.Data, &msg); err != nil {
				slog.Warn("unmarshal Pub/Sub message", "type", name, "subscription", subscriptionID, "error", err)
				return
			}

			select {
			case msgChan <- msg:
			case <-time.After(deliverTimeout):
				slog.Warn("timeout delivering Pub/Sub message", "type", name, "subscription", subscriptionID)
			case <-receiveCtx.Done():
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Pub/Sub receive loop", "type", name, "subscription", subscriptionID, "error", err)
		}
	}()

	return subscriptionID, msgChan, nil
}

// DeSubscribe cancels the receiver; the GCP subscription is deleted when it exits.
func (s *GenericPubSubService[M]) DeSubscribe(id uuid.UUID) error {
	s.subscriptionsMutex.Lock()
	info, ok := s.activeSubscriptions[id]
	if ok {
		info.cancel()
	}
	s.subscriptionsMutex.Unlock()

	if !ok {
		return fmt.Errorf("subscription ID %s not found for %s service", id, typeName[M]())
	}
	return nil
}

// Close cancels every active subscription.
func (s *GenericPubSubService[M]) Close() {
	s.subscriptionsMutex.Lock()
	defer s.subscriptionsMutex.Unlock()
	for _, info := range s.activeSubscriptions {
		info.cancel()
	}
}
