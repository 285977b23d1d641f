// Package poll keeps trip dashboards fresh. A Poller fetches one trip's
// dashboard on an interval and publishes changed dashboards to the message
// queue; the Manager shares one Poller between all viewers of a trip.
package poll

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"jeongsan/api"
	"jeongsan/libs/diff"
	"jeongsan/mq/mq"
)

const (
	DefaultInterval = 5 * time.Second
	DefaultPageSize = 20
)

// DashboardSource is the part of the backend client a Poller needs.
type DashboardSource interface {
	GetTripDashboardByUUID(ctx context.Context, tripUUID string, limit, offset int, cacheBust int64) (*api.Dashboard, error)
}

type Config struct {
	Interval time.Duration
	PageSize int
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	return c
}

// Poller polls one trip. Every poll takes a sequence number when it starts;
// a response is applied only if no later poll has been applied already.
type Poller struct {
	tripID uuid.UUID
	source DashboardSource
	queue  mq.DashboardMessageQueue
	cfg    Config

	issued atomic.Uint64

	mu      sync.Mutex
	applied uint64
	last    *api.Dashboard
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewPoller(tripID uuid.UUID, source DashboardSource, queue mq.DashboardMessageQueue, cfg Config) *Poller {
	return &Poller{
		tripID: tripID,
		source: source,
		queue:  queue,
		cfg:    cfg.withDefaults(),
	}
}

// Start polls immediately and then on every interval until Stop or ctx ends.
// Calling Start on a running Poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(p.cfg.Interval)
		defer ticker.Stop()

		for {
			if _, err := p.PollOnce(ctx); err != nil && ctx.Err() == nil {
				slog.Warn("poll dashboard", "trip", p.tripID, "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop cancels the in-flight poll and waits for the loop to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Refresh runs one extra poll outside the interval, e.g. after a payment was
// recorded. It may overlap the regular poll; the sequence guard orders them.
func (p *Poller) Refresh(ctx context.Context) {
	go func() {
		if _, err := p.PollOnce(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("refresh dashboard", "trip", p.tripID, "error", err)
		}
	}()
}

// PollOnce fetches the dashboard and applies it. It reports whether a
// message was published.
func (p *Poller) PollOnce(ctx context.Context) (bool, error) {
	seq := p.issued.Add(1)
	d, err := p.source.GetTripDashboardByUUID(ctx, p.tripID.String(), p.cfg.PageSize, 0, time.Now().UnixMilli())
	if err != nil {
		return false, fmt.Errorf("fetch dashboard %s: %w", p.tripID, err)
	}
	return p.apply(seq, d)
}

func (p *Poller) apply(seq uint64, d *api.Dashboard) (bool, error) {
	if d == nil {
		return false, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if seq <= p.applied {
		slog.Debug("drop stale dashboard", "trip", p.tripID, "seq", seq, "applied", p.applied)
		return false, nil
	}
	p.applied = seq

	var changes []string
	if p.last != nil {
		var err error
		changes, err = diff.Changes(*p.last, *d)
		if err != nil {
			return false, fmt.Errorf("diff dashboard %s: %w", p.tripID, err)
		}
		if len(changes) == 0 {
			return false, nil
		}
	}
	p.last = d

	msg := mq.DashboardMessage{TripID: p.tripID, Seq: seq, Changes: changes, Dashboard: *d}
	if err := p.queue.Publish(msg); err != nil {
		return false, fmt.Errorf("publish dashboard %s: %w", p.tripID, err)
	}
	return true, nil
}

// Latest returns the last applied dashboard and its sequence number.
func (p *Poller) Latest() (*api.Dashboard, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.applied
}
