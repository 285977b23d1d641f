package poll

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"jeongsan/mq/mq"
)

type entry struct {
	poller *Poller
	refs   int
}

// Manager runs at most one Poller per trip and stops it when the last
// viewer releases it.
type Manager struct {
	ctx    context.Context
	source DashboardSource
	queue  mq.DashboardMessageQueue
	cfg    Config

	mu      sync.Mutex
	pollers map[uuid.UUID]*entry
}

func NewManager(ctx context.Context, source DashboardSource, queue mq.DashboardMessageQueue, cfg Config) *Manager {
	return &Manager{
		ctx:     ctx,
		source:  source,
		queue:   queue,
		cfg:     cfg.withDefaults(),
		pollers: make(map[uuid.UUID]*entry),
	}
}

// Acquire starts polling tripID if needed and takes a reference.
func (m *Manager) Acquire(tripID uuid.UUID) *Poller {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.pollers[tripID]
	if !ok {
		e = &entry{poller: NewPoller(tripID, m.source, m.queue, m.cfg)}
		m.pollers[tripID] = e
		e.poller.Start(m.ctx)
	}
	e.refs++
	return e.poller
}

// Release drops a reference and stops the poller at zero.
func (m *Manager) Release(tripID uuid.UUID) {
	m.mu.Lock()
	e, ok := m.pollers[tripID]
	if !ok {
		m.mu.Unlock()
		return
	}
	e.refs--
	if e.refs > 0 {
		m.mu.Unlock()
		return
	}
	delete(m.pollers, tripID)
	m.mu.Unlock()

	e.poller.Stop()
}

// Refresh triggers an immediate poll when tripID is being watched.
func (m *Manager) Refresh(tripID uuid.UUID) {
	m.mu.Lock()
	e, ok := m.pollers[tripID]
	m.mu.Unlock()
	if ok {
		e.poller.Refresh(m.ctx)
	}
}

// Active reports the number of trips being polled.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pollers)
}

// Close stops every poller.
func (m *Manager) Close() {
	m.mu.Lock()
	pollers := make([]*Poller, 0, len(m.pollers))
	for id, e := range m.pollers {
		pollers = append(pollers, e.poller)
		delete(m.pollers, id)
	}
	m.mu.Unlock()

	for _, p := range pollers {
		p.Stop()
	}
}
