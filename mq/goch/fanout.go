package goch

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"jeongsan/mq/mq"
)

// deliverTimeout bounds how long the fan-out routine waits on one subscriber.
// A subscriber that does not read in time is dropped.
const deliverTimeout = 100 * time.Millisecond

type subscriber[M any] struct {
	topic uuid.UUID
	ch    chan M
}

// fanOutQueueCore delivers every published message to the subscribers of
// its topic. Publishing never blocks.
type fanOutQueueCore[M mq.TopicProvider] struct {
	publishChan chan M
	subscribers map[uuid.UUID]*subscriber[M]
	mu          sync.RWMutex
	quit        chan struct{}
	done        chan struct{}
	stopOnce    sync.Once
	bufferSize  int
}

func newFanOutQueueCore[M mq.TopicProvider](bufferSize int) *fanOutQueueCore[M] {
	if bufferSize < 0 {
		bufferSize = 0
	}
	core := &fanOutQueueCore[M]{
		publishChan: make(chan M, bufferSize),
		subscribers: make(map[uuid.UUID]*subscriber[M]),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		bufferSize:  bufferSize,
	}
	go core.fanOutRoutine()
	return core
}

func (c *fanOutQueueCore[M]) fanOutRoutine() {
	defer close(c.done)
	for {
		select {
		case <-c.quit:
			return
		case msg := <-c.publishChan:
			c.deliver(msg)
		}
	}
}

func (c *fanOutQueueCore[M]) deliver(msg M) {
	topic := msg.GetTopic()

	// the read lock is held while sending so a concurrent DeSubscribe cannot
	// close a channel mid-send
	var blocked []uuid.UUID
	c.mu.RLock()
	for id, sub := range c.subscribers {
		if sub.topic != topic {
			continue
		}
		timer := time.NewTimer(deliverTimeout)
		select {
		case sub.ch <- msg:
		case <-timer.C:
			blocked = append(blocked, id)
		case <-c.quit:
		}
		timer.Stop()
	}
	c.mu.RUnlock()

	for _, id := range blocked {
		slog.Warn("goch: dropping blocked subscriber", "subscriber", id, "topic", topic)
		c.remove(id)
	}
}

// Publish hands msg to the fan-out routine and returns ErrQueueFull instead
// of waiting when it is busy.
func (c *fanOutQueueCore[M]) Publish(msg M) error {
	select {
	case <-c.quit:
		return ErrQueueStopped
	default:
	}
	select {
	case c.publishChan <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (c *fanOutQueueCore[M]) Subscribe(topic uuid.UUID) (uuid.UUID, <-chan M, error) {
	select {
	case <-c.quit:
		return uuid.Nil, nil, ErrQueueStopped
	default:
	}

	id := uuid.New()
	sub := &subscriber[M]{topic: topic, ch: make(chan M, c.bufferSize)}

	c.mu.Lock()
	c.subscribers[id] = sub
	c.mu.Unlock()
	return id, sub.ch, nil
}

func (c *fanOutQueueCore[M]) DeSubscribe(id uuid.UUID) error {
	if !c.remove(id) {
		return fmt.Errorf("goch: subscriber with ID '%s' not found", id)
	}
	return nil
}

func (c *fanOutQueueCore[M]) remove(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub, ok := c.subscribers[id]
	if !ok {
		return false
	}
	delete(c.subscribers, id)
	close(sub.ch)
	return true
}

// Stop ends the fan-out routine. Subscriber channels stay open until their
// owners de-subscribe.
func (c *fanOutQueueCore[M]) Stop() {
	c.stopOnce.Do(func() {
		close(c.quit)
		<-c.done
	})
}

type QueueError string

func (e QueueError) Error() string {
	return string(e)
}

const (
	ErrQueueFull    QueueError = "message queue is full"
	ErrQueueStopped QueueError = "message queue is stopped"
)
