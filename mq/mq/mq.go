package mq

import "github.com/google/uuid"

// TopicProvider 定義了一個可以提供 Topic ID 的介面
type TopicProvider interface {
	GetTopic() uuid.UUID
}

// DashboardMessageQueue distributes dashboards to subscribers of a trip.
type DashboardMessageQueue interface {
	Publish(msg DashboardMessage) error
	Subscribe(tripID uuid.UUID) (uuid.UUID, <-chan DashboardMessage, error)
	DeSubscribe(id uuid.UUID) error
	Close() error
}
