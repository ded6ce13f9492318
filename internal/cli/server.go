package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"spacify/internal/broker"
	intconfig "spacify/internal/config"
	"spacify/internal/domain"
	"spacify/internal/domain/models"
	router "spacify/internal/http"
	h "spacify/internal/http/handlers"
	"spacify/internal/repositories"
	"spacify/internal/services"
)

// DemoPassword is the password of the seeded demo account.
const DemoPassword = "password123"

// NewServer wires the backend from env. Stores that are not configured
// fall back to in-memory implementations. The returned cleanup closes
// every connection that was opened.
func NewServer(ctx context.Context, env intconfig.Env) (*http.Server, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	stores := map[string]h.Pinger{}

	demo, err := services.DemoAccount(DemoPassword, 0)
	if err != nil {
		return nil, cleanup, err
	}

	var users services.UserStore
	if env.PostgresDSN != "" {
		pool, err := intconfig.ConnectPostgres(ctx, env.PostgresDSN)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, pool.Close)
		repo := repositories.PgUserRepository{Pool: pool}
		if err := repo.EnsureSchema(ctx); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("ensure users schema: %w", err)
		}
		if err := seedDemo(ctx, repo, demo); err != nil {
			cleanup()
			return nil, func() {}, err
		}
		users = repo
		stores["postgres"] = pool.Ping
	} else {
		users = repositories.NewMemoryUserRepository(demo)
	}

	var bookings services.BookingStore
	if env.MySQLDSN != "" {
		db, err := intconfig.ConnectDB(env.MySQLDSN)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, intconfig.CloseDB)
		repo := repositories.BookingRepository{DB: db}
		if err := repo.EnsureTable(); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("ensure parking_bookings: %w", err)
		}
		bookings = repo
		stores["mysql"] = db.PingContext
	} else {
		bookings = repositories.NewMemoryBookingRepository()
	}

	var events services.EventPublisher = services.NoopPublisher{}
	if env.AMQPURL != "" {
		pub, err := broker.Dial(env.AMQPURL)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, func() { _ = pub.Close() })
		events = pub
	}

	if env.RedisURL != "" {
		rc, err := repositories.NewRedisClient(env.RedisURL)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, func() { _ = rc.Close() })
		stores["redis"] = func(ctx context.Context) error { return rc.Ping(ctx).Err() }
	}

	spots := repositories.NewSpotRepository()
	hd := &h.Handler{
		Auth: services.AuthService{
			Users:    users,
			Secret:   []byte(env.JWTSecret),
			TokenTTL: env.TokenTTL,
		},
		Bookings: services.BookingService{
			Store:      bookings,
			Spots:      spots,
			Events:     events,
			HourlyRate: env.HourlyRate,
		},
		Spots:  services.SpotService{Catalog: spots},
		Stores: stores,
	}

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           router.NewRouter(env, hd),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, cleanup, nil
}

// seedDemo creates the demo account unless it already exists.
func seedDemo(ctx context.Context, users services.UserStore, demo models.Account) error {
	_, err := users.GetByEmail(ctx, demo.Email)
	if err == nil {
		return nil
	}
	if !domain.IsNotFound(err) {
		return fmt.Errorf("lookup demo account: %w", err)
	}
	if err := users.Create(ctx, demo); err != nil && !domain.IsConflict(err) {
		return fmt.Errorf("seed demo account: %w", err)
	}
	log.Printf("seeded demo account %s", demo.Email)
	return nil
}
