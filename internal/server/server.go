// Package server is the composition root. It loads configuration,
// connects every backing service, wires the workflow layer onto the
// router and runs the HTTP server until the process is told to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shashiranjanraj/savannah/app/controllers"
	"github.com/shashiranjanraj/savannah/app/notifications"
	"github.com/shashiranjanraj/savannah/app/routes"
	"github.com/shashiranjanraj/savannah/app/services"
	"github.com/shashiranjanraj/savannah/config"
	"github.com/shashiranjanraj/savannah/pkg/auth"
	"github.com/shashiranjanraj/savannah/pkg/cache"
	"github.com/shashiranjanraj/savannah/pkg/database"
	"github.com/shashiranjanraj/savannah/pkg/event"
	"github.com/shashiranjanraj/savannah/pkg/logger"
	"github.com/shashiranjanraj/savannah/pkg/metrics"
	"github.com/shashiranjanraj/savannah/pkg/middleware"
	"github.com/shashiranjanraj/savannah/pkg/queue"
	"github.com/shashiranjanraj/savannah/pkg/reqid"
	"github.com/shashiranjanraj/savannah/pkg/router"
	"github.com/shashiranjanraj/savannah/pkg/sms"
	"github.com/shashiranjanraj/savannah/pkg/storage"
	"github.com/shashiranjanraj/savannah/pkg/ws"
	"gorm.io/gorm"
)

const (
	queueWorkers    = 4
	shutdownTimeout = 10 * time.Second
	rateLimitMax    = 120
	rateLimitWindow = time.Minute
)

// App holds everything a running server needs. Build one with New and
// drive it with Run; the CLI also uses it to list routes without
// serving.
type App struct {
	cfg      *config.Config
	log      *slog.Logger
	closeLog func()
	db       *gorm.DB
	cache    *cache.Cache
	queue    *queue.Manager
	feed     *ws.Hub
	router   *router.Router
}

// New wires the full application from environment configuration.
// Redis being down is not fatal: caching is disabled and the
// notification queue falls back to the in-process driver.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, closeLog := logger.New(cfg)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("server: connect database: %w", err)
	}

	store, err := cache.Connect(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, caching disabled and queue running in-process", "error", err)
		store = cache.Disabled()
	}

	var driver queue.Driver
	if client := store.Client(); client != nil {
		driver = queue.NewRedisDriver(client, "")
	} else {
		driver = queue.NewMemoryDriver()
	}
	q := queue.NewManager(driver, log)

	m := metrics.New()
	gateway := sms.NewClient(cfg.SMS, nil)
	notifier := notifications.NewNotifier(q, gateway, cfg.SMS.SenderID, log, m)

	bus := event.NewBus()
	feed := ws.NewHub(log)
	broadcast := func(payload any) {
		if e, ok := payload.(services.OrderEvent); ok {
			feed.Broadcast(e.JSON())
		}
	}
	bus.Subscribe(services.EventOrderCreated, broadcast)
	bus.Subscribe(services.EventOrderStatusChanged, broadcast)

	disk, err := storage.Connect(cfg.Storage)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("server: connect storage: %w", err)
	}

	customers := services.NewCustomerService(db, store, log)
	orders := services.NewOrderService(db, store, notifier, bus, m, log)

	gql, err := controllers.NewGraphQLController(customers, orders)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("server: build graphql schema: %w", err)
	}

	r := router.New()
	r.Use(
		m.Middleware(),
		reqid.Middleware(),
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(middleware.NewLimiter(rateLimitMax, rateLimitWindow)),
	)

	routes.RegisterAPI(r, routes.Controllers{
		Health:    controllers.NewHealthController(db),
		Customers: controllers.NewCustomerController(customers),
		Orders:    controllers.NewOrderController(orders),
		Export:    controllers.NewExportController(orders, disk),
		GraphQL:   gql,
	}, auth.NewVerifier(cfg.OIDC), m, feed)

	return &App{
		cfg:      cfg,
		log:      log,
		closeLog: closeLog,
		db:       db,
		cache:    store,
		queue:    q,
		feed:     feed,
		router:   r,
	}, nil
}

// DB exposes the connection for CLI commands (migrate, seed).
func (a *App) DB() *gorm.DB { return a.db }

// Logger exposes the configured logger for CLI commands.
func (a *App) Logger() *slog.Logger { return a.log }

// Routes lists every registered route for route:list.
func (a *App) Routes() []router.Route { return a.router.Routes() }

// Run serves HTTP until ctx is cancelled, then drains the queue and
// shuts the listener down gracefully.
func (a *App) Run(ctx context.Context) error {
	go a.feed.Run(ctx)
	a.queue.Start(ctx, queueWorkers)

	srv := &http.Server{
		Addr:              ":" + a.cfg.App.Port,
		Handler:           a.router.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server listening", "addr", srv.Addr, "env", a.cfg.App.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		a.Close()
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if errors.Is(err, context.DeadlineExceeded) {
		a.log.Warn("shutdown deadline exceeded, closing connections")
	}
	a.Close()
	return err
}

// Close releases everything New opened. Safe after a failed Run.
func (a *App) Close() {
	a.queue.Stop()
	if err := a.cache.Close(); err != nil {
		a.log.Warn("closing redis", "error", err)
	}
	a.closeLog()
}
