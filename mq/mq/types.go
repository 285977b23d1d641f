package mq

import (
	"github.com/google/uuid"

	"jeongsan/api"
)

// Mode selects the message queue backend.
type Mode string

const (
	ModeGoChan    Mode = "go_chan"
	ModeRabbitMQ  Mode = "rabbitmq"
	ModeGCPPubSub Mode = "gcp_pub_sub"
)

// Valid reports whether m names a known backend.
func (m Mode) Valid() bool {
	switch m {
	case ModeGoChan, ModeRabbitMQ, ModeGCPPubSub:
		return true
	}
	return false
}

// DashboardMessage carries a freshly polled dashboard for one trip. Seq grows
// with every poll the message was built from; Changes lists the paths that
// differ from the previously published dashboard.
type DashboardMessage struct {
	TripID    uuid.UUID     `json:"trip_id"`
	Seq       uint64        `json:"seq"`
	Changes   []string      `json:"changes,omitempty"`
	Dashboard api.Dashboard `json:"dashboard"`
}

func (m DashboardMessage) GetTopic() uuid.UUID {
	return m.TripID
}
