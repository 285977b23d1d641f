package gcppubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"

	"jeongsan/mq/mq"
)

const dashboardTopicID = "trip-dashboard"

// DashboardQueue implements mq.DashboardMessageQueue on GCP Pub/Sub.
type DashboardQueue struct {
	client  *pubsub.Client
	service *GenericPubSubService[mq.DashboardMessage]
}

var _ mq.DashboardMessageQueue = (*DashboardQueue)(nil)

// NewDashboardQueue connects to projectID and ensures the dashboard topic.
func NewDashboardQueue(ctx context.Context, projectID string) (*DashboardQueue, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP Pub/Sub client for project %s: %w", projectID, err)
	}
	service, err := NewGenericPubSubService[mq.DashboardMessage](ctx, client, dashboardTopicID)
	if err != nil {
		client.Close()
		return nil, err
	}
	return &DashboardQueue{client: client, service: service}, nil
}

func (q *DashboardQueue) Publish(msg mq.DashboardMessage) error {
	return q.service.Publish(msg)
}

func (q *DashboardQueue) Subscribe(tripID uuid.UUID) (uuid.UUID, <-chan mq.DashboardMessage, error) {
	return q.service.Subscribe(tripID)
}

func (q *DashboardQueue) DeSubscribe(id uuid.UUID) error {
	return q.service.DeSubscribe(id)
}

func (q *DashboardQueue) Close() error {
	q.service.Close()
	return q.client.Close()
}
