package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"jeongsan/api"
	"jeongsan/config"
	dbt "jeongsan/db/db"
	"jeongsan/db/mem"
	"jeongsan/db/pg"
	"jeongsan/mq/gcppubsub"
	"jeongsan/mq/goch"
	"jeongsan/mq/mq"
	"jeongsan/mq/rabbit"
	"jeongsan/poll"
	"jeongsan/web"
)

const gochBufferSize = 64

func serverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  `This command starts the web server: REST routes for trips, drafts, payments and results, and the live dashboard websocket.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), appConfig)
		},
	}

	cmd.Flags().Bool("dev", true, "Run in development mode")
	cmd.Flags().String("port", "8080", "Port to run the web server on")
	cmd.Flags().String("mq", string(mq.ModeGoChan), "Message queue mode (go_chan, rabbitmq, gcp_pub_sub)")
	cmd.Flags().String("db", config.DatabaseMem, "Draft storage (mem, pg)")
	cmd.Flags().String("backend", "", "Base url of the settlement backend")

	bindFlag(v, "server.dev", cmd.Flags().Lookup("dev"))
	bindFlag(v, "server.port", cmd.Flags().Lookup("port"))
	bindFlag(v, "mq.mode", cmd.Flags().Lookup("mq"))
	bindFlag(v, "database.mode", cmd.Flags().Lookup("db"))
	bindFlag(v, "backend.base_url", cmd.Flags().Lookup("backend"))

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.Server.Dev {
		gin.SetMode(gin.ReleaseMode)
	}

	backend, err := api.NewClient(cfg.Backend.BaseURL, api.WithTimeout(cfg.Backend.Timeout))
	if err != nil {
		return err
	}

	drafts, closeDrafts, err := openDrafts(cfg.Database)
	if err != nil {
		return err
	}
	defer closeDrafts()

	queue, err := openQueue(ctx, cfg.MQ)
	if err != nil {
		return err
	}
	defer func() {
		if err := queue.Close(); err != nil {
			slog.Warn("close message queue", "error", err)
		}
	}()

	pollers := poll.NewManager(ctx, backend, queue, poll.Config{
		Interval: cfg.Poll.Interval,
		PageSize: cfg.Poll.PageSize,
	})
	defer pollers.Close()

	srv := web.NewServer(web.ServiceConfig{
		IsDev:            cfg.Server.Dev,
		Port:             cfg.Server.Port,
		RateLimitPerHour: cfg.Server.RateLimit,
		PageSize:         cfg.Poll.PageSize,
	}, backend, drafts, queue, pollers)
	return srv.Serve(ctx)
}

func openDrafts(cfg config.DatabaseConfig) (dbt.DraftDBWrapper, func(), error) {
	switch cfg.Mode {
	case config.DatabasePG:
		gdb, err := pg.InitPostgresGORM(pg.CreateDSN(cfg.URL))
		if err != nil {
			return nil, nil, err
		}
		slog.Info("draft storage", "mode", cfg.Mode)
		return pg.NewGORMDraftDBWrapper(gdb), func() { pg.CloseGORM(gdb) }, nil
	case config.DatabaseMem, "":
		slog.Info("draft storage", "mode", config.DatabaseMem)
		return mem.NewInMemoryDraftDBWrapper(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown database mode %q", cfg.Mode)
	}
}

func openQueue(ctx context.Context, cfg config.MQConfig) (mq.DashboardMessageQueue, error) {
	mode := mq.Mode(cfg.Mode)
	slog.Info("message queue", "mode", mode)
	switch mode {
	case mq.ModeGoChan, "":
		return goch.NewDashboardQueue(gochBufferSize), nil
	case mq.ModeRabbitMQ:
		conn, err := rabbit.NewRabbitConnection(rabbit.CreateAmqpURL(cfg.RabbitURL))
		if err != nil {
			return nil, err
		}
		q, err := rabbit.NewDashboardQueue(conn)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		return q, nil
	case mq.ModeGCPPubSub:
		projectID, err := gcppubsub.GetGCPProjectID(cfg.GCPProjectID)
		if err != nil {
			return nil, err
		}
		return gcppubsub.NewDashboardQueue(ctx, projectID)
	default:
		return nil, fmt.Errorf("unknown message queue mode %q", cfg.Mode)
	}
}
