// Package web is the HTTP surface of the service: trip creation, wizard
// drafts, dashboards with a websocket stream, payments and settlement
// results, all backed by the settlement backend.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jeongsan/api"
	dbt "jeongsan/db/db"
	"jeongsan/mq/mq"
	"jeongsan/poll"
)

// Backend is the part of the settlement backend the handlers call.
type Backend interface {
	CreateTripWithContributions(ctx context.Context, req api.CreateTripRequest) (int64, error)
	GetTripDashboard(ctx context.Context, meetingID int64, limit, offset int) (*api.Dashboard, error)
	GetTripDashboardByUUID(ctx context.Context, tripUUID string, limit, offset int, cacheBust int64) (*api.Dashboard, error)
	GetTripSettlementResult(ctx context.Context, meetingID int64) (*api.SettlementResult, error)
	GetPublicTripResult(ctx context.Context, tripUUID string) (*api.SettlementResult, error)
	CreatePayment(ctx context.Context, meetingID int64, req api.PaymentRequest) (*api.Payment, error)
	UpdatePayment(ctx context.Context, meetingID, paymentID int64, req api.PaymentRequest) error
	DeletePayment(ctx context.Context, meetingID, paymentID int64) error
	GetExchangeRate(ctx context.Context, currencyCode, date string) (*api.ExchangeRate, error)
	AddBudget(ctx context.Context, meetingID int64, req api.AddBudgetRequest) error
}

type ServiceConfig struct {
	IsDev            bool
	Port             string
	RateLimitPerHour int64
	PageSize         int
}

// Server wires the handlers to their dependencies.
type Server struct {
	cfg     ServiceConfig
	backend Backend
	drafts  dbt.DraftDBWrapper
	queue   mq.DashboardMessageQueue
	pollers *poll.Manager
}

func NewServer(cfg ServiceConfig, backend Backend, drafts dbt.DraftDBWrapper, queue mq.DashboardMessageQueue, pollers *poll.Manager) *Server {
	if cfg.PageSize <= 0 {
		cfg.PageSize = poll.DefaultPageSize
	}
	return &Server{
		cfg:     cfg,
		backend: backend,
		drafts:  drafts,
		queue:   queue,
		pollers: pollers,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	setupMiddlewares(r, s.cfg)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g := r.Group("/api")
	g.POST("/trips", s.createTrip)

	g.POST("/drafts", s.createDraft)
	g.GET("/drafts", s.listDrafts)
	g.GET("/drafts/:id", s.getDraft)
	g.PUT("/drafts/:id", s.updateDraft)
	g.DELETE("/drafts/:id", s.deleteDraft)
	g.POST("/drafts/:id/mode", s.switchDraftMode)
	g.POST("/drafts/:id/submit", s.submitDraft)

	g.GET("/meetings/:id/result", s.meetingResult)
	g.GET("/meetings/:id/dashboard", s.meetingDashboard)
	g.POST("/meetings/:id/payments", s.createPayment)
	g.PUT("/meetings/:id/payments/:paymentId", s.updatePayment)
	g.DELETE("/meetings/:id/payments/:paymentId", s.deletePayment)
	g.POST("/meetings/:id/budget", s.addBudget)

	g.GET("/trips/:uuid/result", s.publicResult)
	g.GET("/trips/:uuid/dashboard", s.publicDashboard)
	g.GET("/trips/:uuid/dashboard/ws", s.dashboardStream)

	g.GET("/exchange-rate", s.exchangeRate)
	g.GET("/format", s.format)

	return r
}

// Serve listens on the configured port until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("web server listening", "addr", srv.Addr, "dev", s.cfg.IsDev)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
