package goch

import (
	"github.com/google/uuid"

	"jeongsan/mq/mq"
)

// DashboardQueue is the in-process mq.DashboardMessageQueue.
type DashboardQueue struct {
	core *fanOutQueueCore[mq.DashboardMessage]
}

var _ mq.DashboardMessageQueue = (*DashboardQueue)(nil)

// NewDashboardQueue creates an in-process queue. bufferSize applies to the
// publish channel and to every subscriber channel.
func NewDashboardQueue(bufferSize int) *DashboardQueue {
	return &DashboardQueue{core: newFanOutQueueCore[mq.DashboardMessage](bufferSize)}
}

func (q *DashboardQueue) Publish(msg mq.DashboardMessage) error {
	return q.core.Publish(msg)
}

func (q *DashboardQueue) Subscribe(tripID uuid.UUID) (uuid.UUID, <-chan mq.DashboardMessage, error) {
	return q.core.Subscribe(tripID)
}

func (q *DashboardQueue) DeSubscribe(id uuid.UUID) error {
	return q.core.DeSubscribe(id)
}

func (q *DashboardQueue) Close() error {
	q.core.Stop()
	return nil
}
