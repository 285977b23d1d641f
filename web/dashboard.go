package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"jeongsan/api"
	"jeongsan/mq/mq"
	"jeongsan/view"
)

const (
	wsPingInterval = 10 * time.Second
	wsPongWait     = 2 * wsPingInterval
	wsWriteWait    = 5 * time.Second
)

func (s *Server) meetingDashboard(c *gin.Context) {
	id, ok := meetingIDParam(c)
	if !ok {
		return
	}
	limit, offset, ok := s.pageParams(c)
	if !ok {
		return
	}
	d, err := s.backend.GetTripDashboard(c.Request.Context(), id, limit, offset)
	if err != nil {
		renderError(c, err)
		return
	}
	success(c, view.BuildDashboardView(*d))
}

// publicDashboard loads a shared dashboard. The client's ?_t=Date.now() is
// forwarded as the cache buster; without it the current time is used.
func (s *Server) publicDashboard(c *gin.Context) {
	id, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}
	limit, offset, ok := s.pageParams(c)
	if !ok {
		return
	}
	cacheBust := time.Now().UnixMilli()
	if raw := c.Query("_t"); raw != "" {
		ts, err := ParseJSTimestampString(raw)
		if err != nil {
			badRequest(c, "invalid _t")
			return
		}
		cacheBust = ts.UnixMilli()
	}

	d, err := s.backend.GetTripDashboardByUUID(c.Request.Context(), id.String(), limit, offset, cacheBust)
	if err != nil {
		renderError(c, err)
		return
	}
	success(c, view.BuildDashboardView(*d))
}

// StreamFrame is one websocket message of the dashboard stream.
type StreamFrame struct {
	Type      string             `json:"type"`
	Seq       uint64             `json:"seq"`
	Changes   []string           `json:"changes,omitempty"`
	Dashboard view.DashboardView `json:"dashboard"`
}

const frameDashboard = "dashboard"

type clientFrame struct {
	Type string `json:"type"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	u := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	if s.cfg.IsDev {
		// allow all origins for WebSocket connections in dev
		u.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return u
}

// dashboardStream pushes the trip dashboard over a websocket whenever the
// shared poller sees it change. A {"type":"refresh"} frame from the client
// asks for an immediate poll.
func (s *Server) dashboardStream(c *gin.Context) {
	tripID, ok := uuidParam(c, "uuid")
	if !ok {
		return
	}
	if s.queue == nil || s.pollers == nil {
		fail(c, http.StatusServiceUnavailable, CodeServerErr, "dashboard stream unavailable")
		return
	}

	conn, err := s.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already replied to the client
		slog.Warn("websocket upgrade", "trip", tripID, "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	poller := s.pollers.Acquire(tripID)
	defer s.pollers.Release(tripID)

	var lastSent atomic.Uint64
	frames := make(chan StreamFrame, 4)
	transform := func(msg mq.DashboardMessage) (StreamFrame, bool, error) {
		if msg.Seq <= lastSent.Load() {
			return StreamFrame{}, true, nil
		}
		return newFrame(msg.Seq, msg.Changes, msg.Dashboard), false, nil
	}
	// subscribe before reading the latest dashboard so no update falls between
	var out chan<- StreamFrame = frames
	if err := mq.SubscribeProcessor(tripID, ctx, s.queue, transform, out); err != nil {
		slog.Error("subscribe dashboard", "trip", tripID, "error", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe failed"),
			time.Now().Add(wsWriteWait))
		return
	}

	if d, seq := poller.Latest(); d != nil {
		if err := writeFrame(conn, newFrame(seq, nil, *d)); err != nil {
			return
		}
		lastSent.Store(seq)
	}

	go s.readClient(ctx, cancel, conn, tripID)

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteWait))
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			if frame.Seq <= lastSent.Load() {
				continue
			}
			if err := writeFrame(conn, frame); err != nil {
				slog.Debug("write dashboard frame", "trip", tripID, "error", err)
				return
			}
			lastSent.Store(frame.Seq)
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

// readClient consumes client frames until the connection drops, then cancels
// the stream.
func (s *Server) readClient(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, tripID uuid.UUID) {
	defer cancel()
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		var msg clientFrame
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("websocket closed", "trip", tripID, "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		if msg.Type == "refresh" && ctx.Err() == nil {
			s.pollers.Refresh(tripID)
		}
	}
}

func newFrame(seq uint64, changes []string, d api.Dashboard) StreamFrame {
	return StreamFrame{
		Type:      frameDashboard,
		Seq:       seq,
		Changes:   changes,
		Dashboard: view.BuildDashboardView(d),
	}
}

func writeFrame(conn *websocket.Conn, frame StreamFrame) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(frame)
}
