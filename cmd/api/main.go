package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/aka-Harsh/Events-Booking-Applications/internal/app"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/clock"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/config"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/ledger"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/notify"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/obs"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/storage/memory"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/storage/postgres"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/storage/sqlite"
	"github.com/aka-Harsh/Events-Booking-Applications/internal/token"
	transporthttp "github.com/aka-Harsh/Events-Booking-Applications/internal/transport/http"
	"github.com/aka-Harsh/Events-Booking-Applications/migrations"
)

type backend struct {
	catalog  app.EventRepository
	ledger   ledger.Ledger
	bookings app.BookingRepository
	close    func()
}

func main() {
	logger := obs.NewLogger()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to load .env", "error", err)
	}
	cfg := config.Load()

	startupCtx, cancel := context.WithTimeout(context.Background(), config.StartupTimeout)
	defer cancel()

	store, err := openBackend(startupCtx, cfg)
	if err != nil {
		logger.Error("open storage", "error", err)
		os.Exit(1)
	}
	defer store.close()

	issuer, err := token.NewIssuer([]byte(cfg.TokenSecret))
	if err != nil {
		logger.Error("token issuer", "error", err)
		os.Exit(1)
	}

	var notifier notify.Publisher = notify.Noop{}
	if cfg.BrokerURL != "" {
		amqpPub, err := notify.NewAMQPPublisher(cfg.BrokerURL)
		if err != nil {
			logger.Error("connect to broker", "error", err)
			os.Exit(1)
		}
		defer amqpPub.Close()
		notifier = amqpPub
	}

	clk := clock.NewSystem()
	eventSvc := app.NewEventService(store.catalog, clk)
	bookingSvc := app.NewBookingService(store.catalog, store.ledger, store.bookings, issuer, notifier, clk, logger)

	router := transporthttp.NewRouter(bookingSvc, eventSvc)
	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, router), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	logger.Info("api listening", "port", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}

// openBackend selects the storage implementation from the DSN: a Postgres
// URL, a SQLite file path, or in-memory when DATABASE_URL is unset.
func openBackend(ctx context.Context, cfg config.Config) (backend, error) {
	switch {
	case strings.HasPrefix(cfg.DatabaseURL, "postgres://"), strings.HasPrefix(cfg.DatabaseURL, "postgresql://"):
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return backend{}, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return backend{}, err
		}
		if err := migrations.Apply(ctx, pool); err != nil {
			pool.Close()
			return backend{}, err
		}
		return backend{
			catalog:  postgres.NewEventRepository(pool),
			ledger:   postgres.NewInventoryRepository(pool),
			bookings: postgres.NewBookingRepository(pool),
			close:    pool.Close,
		}, nil
	case cfg.DatabaseURL != "":
		store, err := sqlite.Open(strings.TrimPrefix(cfg.DatabaseURL, "sqlite://"))
		if err != nil {
			return backend{}, err
		}
		return backend{
			catalog:  store,
			ledger:   store,
			bookings: store,
			close:    func() { _ = store.Close() },
		}, nil
	default:
		store := memory.NewStore()
		return backend{
			catalog:  store,
			ledger:   store,
			bookings: store,
			close:    func() {},
		}, nil
	}
}
