package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"jobmate/application-tracker/internal/config"
	"jobmate/application-tracker/internal/db"
	"jobmate/application-tracker/internal/events"
	"jobmate/application-tracker/internal/grpcserver"
	"jobmate/application-tracker/internal/logging"
	"jobmate/application-tracker/internal/metrics"
	"jobmate/application-tracker/internal/scheduler"
	"jobmate/application-tracker/internal/store"
	"jobmate/application-tracker/internal/tracker"
)

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers and the reminder scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.New(cfg.Log.Level, cfg.Log.Format)

	if migrate {
		if _, err := db.Migrate(ctx, cfg.Database.URL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	slog.Info("connecting to PostgreSQL")
	pool, err := db.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	// ── Redis ────────────────────────────────────────────────────────────────
	slog.Info("connecting to Redis")
	rdb, err := db.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rdb.Close()

	// ── Events ───────────────────────────────────────────────────────────────
	publisher, closePublisher, err := newPublisher(cfg.Events, rdb)
	if err != nil {
		return err
	}
	defer closePublisher()

	// ── Wiring ───────────────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	st := store.New(pool)
	svc := tracker.NewService(st, publisher,
		tracker.NewRedisDismissals(rdb, cfg.Reminders.DismissTTL),
		tracker.WithLocation(cfg.Server.Location),
		tracker.WithObserver(m),
	)

	if cfg.Reminders.SchedulerEnabled {
		digest := scheduler.NewDigest(st, publisher, m, time.Now, cfg.Server.Location)
		sched := scheduler.New(digest, cfg.Reminders.IntervalHours)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", m.Handler())
	tracker.NewHandler(svc, m).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// ── gRPC server ──────────────────────────────────────────────────────────
	grpcSrv := grpc.NewServer()
	grpcserver.RegisterTrackerServiceServer(grpcSrv, grpcserver.NewServer(svc))
	lis, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("http listening", "port", cfg.Server.Port, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		slog.Info("grpc listening", "port", cfg.Server.GRPCPort)
		if err := grpcSrv.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", "err", err)
	}
	grpcSrv.GracefulStop()
	slog.Info("stopped")
	return runErr
}

// newPublisher selects the event backend. The returned func releases it.
func newPublisher(cfg config.EventsConfig, rdb *redis.Client) (events.Publisher, func(), error) {
	switch strings.ToLower(cfg.Backend) {
	case "nats":
		nc, err := db.NewNATSConn(cfg.NATSURL)
		if err != nil {
			return nil, nil, fmt.Errorf("nats: %w", err)
		}
		return events.NewNATSPublisher(nc), func() { _ = nc.Drain() }, nil
	case "none":
		return events.Nop{}, func() {}, nil
	default:
		return events.NewRedisPublisher(rdb), func() {}, nil
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "application-tracker",
		"version": version,
	})
}
