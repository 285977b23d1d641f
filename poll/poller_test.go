package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jeongsan/api"
	"jeongsan/mq/goch"
	"jeongsan/mq/mq"
)

type fakeSource struct {
	mu        sync.Mutex
	dashboard api.Dashboard
	err       error
	calls     int
	lastLimit int
}

func (f *fakeSource) GetTripDashboardByUUID(_ context.Context, _ string, limit, _ int, _ int64) (*api.Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	d := f.dashboard
	return &d, nil
}

func (f *fakeSource) set(remaining int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dashboard.PublicWallet.RemainingForeign = decimal.NewFromInt(remaining)
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func dashboard(remaining int64) *api.Dashboard {
	return &api.Dashboard{
		Currency:     "JPY",
		PublicWallet: api.PublicWallet{RemainingForeign: decimal.NewFromInt(remaining)},
	}
}

func subscribe(t *testing.T, q mq.DashboardMessageQueue, tripID uuid.UUID) <-chan mq.DashboardMessage {
	t.Helper()
	id, ch, err := q.Subscribe(tripID)
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.DeSubscribe(id) })
	return ch
}

func next(t *testing.T, ch <-chan mq.DashboardMessage) mq.DashboardMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no dashboard published")
		return mq.DashboardMessage{}
	}
}

func TestPollOncePublishesOnlyChanges(t *testing.T) {
	q := goch.NewDashboardQueue(8)
	defer q.Close()
	tripID := uuid.New()
	ch := subscribe(t, q, tripID)

	src := &fakeSource{dashboard: *dashboard(100)}
	p := NewPoller(tripID, src, q, Config{PageSize: 5})

	published, err := p.PollOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, published)
	first := next(t, ch)
	assert.Equal(t, uint64(1), first.Seq)
	assert.Empty(t, first.Changes)
	assert.Equal(t, 5, src.lastLimit)

	published, err = p.PollOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, published, "unchanged dashboard is not republished")

	src.set(80)
	published, err = p.PollOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, published)
	third := next(t, ch)
	assert.Equal(t, uint64(3), third.Seq)
	assert.Equal(t, []string{"PublicWallet.RemainingForeign"}, third.Changes)

	latest, seq := p.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, uint64(3), seq)
	assert.True(t, latest.PublicWallet.RemainingForeign.Equal(decimal.NewFromInt(80)))
}

func TestApplyDropsStaleResponses(t *testing.T) {
	q := goch.NewDashboardQueue(8)
	defer q.Close()
	tripID := uuid.New()
	p := NewPoller(tripID, &fakeSource{}, q, Config{})

	// poll 2 answers before poll 1
	published, err := p.apply(2, dashboard(50))
	require.NoError(t, err)
	assert.True(t, published)

	published, err = p.apply(1, dashboard(90))
	require.NoError(t, err)
	assert.False(t, published)

	latest, seq := p.Latest()
	assert.Equal(t, uint64(2), seq)
	assert.True(t, latest.PublicWallet.RemainingForeign.Equal(decimal.NewFromInt(50)))
}

func TestPollOnceError(t *testing.T) {
	q := goch.NewDashboardQueue(1)
	defer q.Close()
	src := &fakeSource{err: &api.Error{Status: 500, Message: "boom"}}
	p := NewPoller(uuid.New(), src, q, Config{})

	_, err := p.PollOnce(context.Background())
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.Status)
}

func TestStartStop(t *testing.T) {
	q := goch.NewDashboardQueue(8)
	defer q.Close()
	tripID := uuid.New()
	ch := subscribe(t, q, tripID)

	src := &fakeSource{dashboard: *dashboard(100)}
	p := NewPoller(tripID, src, q, Config{Interval: 20 * time.Millisecond})
	p.Start(context.Background())
	p.Start(context.Background())

	next(t, ch)
	src.set(70)
	msg := next(t, ch)
	assert.True(t, msg.Dashboard.PublicWallet.RemainingForeign.Equal(decimal.NewFromInt(70)))

	p.Stop()
	calls := src.callCount()
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, calls, src.callCount(), "no polls after Stop")
	p.Stop()
}
