package websocket

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/home-services-backend/internal/core/domain"
)

func newTestRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func drain(c *Client) []domain.Event {
	var events []domain.Event
	for {
		select {
		case e, ok := <-c.Send:
			if !ok {
				return events
			}
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestRegistry_BusinessFanOut(t *testing.T) {
	r := newTestRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a1 := NewBusinessClient(r, nil, 1, logger)
	a2 := NewBusinessClient(r, nil, 1, logger)
	b := NewBusinessClient(r, nil, 2, logger)

	r.registerClient(a1)
	r.registerClient(a2)
	r.registerClient(b)

	r.broadcastEvent(domain.NewJobStatusEvent(&domain.Job{ID: 5, BusinessID: 1}))

	assert.Len(t, drain(a1), 1)
	assert.Len(t, drain(a2), 1)
	assert.Empty(t, drain(b))
}

func TestRegistry_UnregisterStopsDelivery(t *testing.T) {
	r := newTestRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := NewBusinessClient(r, nil, 1, logger)
	r.registerClient(c)
	require.Equal(t, 1, r.BusinessConnectionCount(1))

	r.unregisterClient(c)
	assert.Equal(t, 0, r.BusinessConnectionCount(1))

	r.broadcastEvent(domain.NewJobStatusEvent(&domain.Job{ID: 5, BusinessID: 1}))

	// Send must be closed and carry nothing.
	_, ok := <-c.Send
	assert.False(t, ok)
}

func TestRegistry_UnregisterIsIdempotent(t *testing.T) {
	r := newTestRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := NewBusinessClient(r, nil, 1, logger)
	r.registerClient(c)

	r.unregisterClient(c)
	assert.NotPanics(t, func() {
		r.unregisterClient(c)
	})
	assert.Equal(t, 0, r.ClientCount())
}

func TestRegistry_VisitorLastConnectionWins(t *testing.T) {
	r := newTestRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	first := NewVisitorClient(r, nil, "visitor-abc", logger)
	second := NewVisitorClient(r, nil, "visitor-abc", logger)

	r.registerClient(first)
	r.registerClient(second)

	require.Equal(t, 1, r.VisitorCount())

	// The displaced connection's Send is closed.
	_, ok := <-first.Send
	assert.False(t, ok)

	r.broadcastEvent(domain.NewChatMessageEvent(1, 3, &domain.Message{ID: 9}))
	assert.Len(t, drain(second), 1)
}

func TestRegistry_VisitorUnregisterAfterDisplacementKeepsNewConnection(t *testing.T) {
	r := newTestRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	first := NewVisitorClient(r, nil, "visitor-abc", logger)
	second := NewVisitorClient(r, nil, "visitor-abc", logger)

	r.registerClient(first)
	r.registerClient(second)

	// The stale connection's read pump reports its own teardown; the live
	// mapping must survive it.
	r.unregisterClient(first)

	assert.True(t, r.IsVisitorConnected("visitor-abc"))
}

func TestRegistry_ChatMessagesReachVisitors(t *testing.T) {
	r := newTestRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dashboard := NewBusinessClient(r, nil, 1, logger)
	otherDashboard := NewBusinessClient(r, nil, 2, logger)
	visitor := NewVisitorClient(r, nil, "visitor-abc", logger)

	r.registerClient(dashboard)
	r.registerClient(otherDashboard)
	r.registerClient(visitor)

	r.broadcastEvent(domain.NewChatMessageEvent(1, 3, &domain.Message{ID: 9}))

	assert.Len(t, drain(dashboard), 1)
	assert.Len(t, drain(visitor), 1)
	assert.Empty(t, drain(otherDashboard))
}

func TestRegistry_NonChatEventsSkipVisitors(t *testing.T) {
	r := newTestRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	visitor := NewVisitorClient(r, nil, "visitor-abc", logger)
	r.registerClient(visitor)

	r.broadcastEvent(domain.NewReviewEvent(&domain.Review{ID: 4, BusinessID: 1}))

	assert.Empty(t, drain(visitor))
}

func TestRegistry_BroadcastQueuesWithoutBlocking(t *testing.T) {
	r := newTestRegistry()

	for i := 0; i < 300; i++ {
		err := r.Broadcast(domain.NewReviewEvent(&domain.Review{ID: int64(i), BusinessID: 1}))
		assert.NoError(t, err)
	}
}

func TestRegistry_SlowConsumerIsDroppedWithoutStallingFanOut(t *testing.T) {
	r := newTestRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	slow := NewBusinessClient(r, nil, 1, logger)
	healthy := NewBusinessClient(r, nil, 1, logger)

	r.registerClient(slow)
	r.registerClient(healthy)

	// Fill the slow client's buffer so the next fan-out cannot queue to it.
	for slow.TrySend(domain.NewReviewEvent(&domain.Review{BusinessID: 1})) {
	}

	event := domain.NewJobStatusEvent(&domain.Job{ID: 5, BusinessID: 1})
	r.broadcastEvent(event)

	assert.Equal(t, 1, r.BusinessConnectionCount(1))
	assert.Len(t, drain(healthy), 1)

	// The dropped connection's Send is closed after its queue drains.
	events := drain(slow)
	assert.NotEmpty(t, events)
	_, ok := <-slow.Send
	assert.False(t, ok)
}

func TestRegistry_RunLoopSurvivesSlowConsumer(t *testing.T) {
	r := newTestRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	go r.Run()

	slow := NewBusinessClient(r, nil, 1, logger)
	select {
	case r.Register <- slow:
	case <-time.After(time.Second):
		t.Fatal("registry did not accept the first registration")
	}

	// Feed events until the undrained connection overflows and is dropped.
	event := domain.NewReviewEvent(&domain.Review{BusinessID: 1})
	deadline := time.Now().Add(5 * time.Second)
	for r.BusinessConnectionCount(1) > 0 {
		require.True(t, time.Now().Before(deadline), "slow client was never dropped")
		require.NoError(t, r.Broadcast(event))
	}

	// The loop must still accept registrations afterwards.
	fresh := NewBusinessClient(r, nil, 1, logger)
	select {
	case r.Register <- fresh:
	case <-time.After(time.Second):
		t.Fatal("registry stopped accepting registrations")
	}
}

func TestRegistry_SendToClientAfterUnregisterDoesNotPanic(t *testing.T) {
	r := newTestRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := NewBusinessClient(r, nil, 1, logger)
	r.registerClient(c)
	r.unregisterClient(c)

	assert.NotPanics(t, func() {
		r.SendToClient(c, domain.NewInitialStatsEvent(1, domain.BusinessStats{}))
	})
}

func TestRegistry_SendToClient(t *testing.T) {
	r := newTestRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := NewBusinessClient(r, nil, 1, logger)
	r.registerClient(c)

	r.SendToClient(c, domain.NewInitialStatsEvent(1, domain.BusinessStats{ActiveCustomers: 12}))

	events := drain(c)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventInitialStats, events[0].Type)
}
