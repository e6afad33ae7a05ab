package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"galleria/pkg/config"
	"galleria/pkg/contracts"
	"galleria/pkg/logger"
	"galleria/pkg/middleware"
)

const rateLimitWindow = time.Minute

// Application owns the HTTP server lifecycle: router setup, the middleware
// stack, and graceful shutdown.
type Application struct {
	cfg              *config.Config
	log              *logger.Logger
	server           *http.Server
	idempotencyStore *middleware.InMemoryIdempotencyStore
	rateLimiter      *middleware.ClientRateLimiter
	healthHandler    http.Handler
	appHTTPHandler   http.Handler
}

// NewApplication wires the health and application handlers into a server.
// Health endpoints get minimal middleware so probes stay cheap; application
// endpoints get the full stack.
func NewApplication(cfg *config.Config, log *logger.Logger, healthHandler contracts.Handler, appHandlers ...contracts.Handler) *Application {
	a := &Application{
		cfg: cfg,
		log: log,
	}
	a.setHealthHandler(healthHandler)
	a.setAppHandler(appHandlers)
	a.setAppServer()
	return a
}

func (a *Application) setHealthHandler(h contracts.Handler) {
	healthRouter := httprouter.New()
	h.RegisterRoutes(healthRouter)

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(a.log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(a.log)(healthHTTPHandler)
	a.healthHandler = healthHTTPHandler
}

func (a *Application) setAppHandler(handlers []contracts.Handler) {
	appRouter := httprouter.New()
	for _, h := range handlers {
		h.RegisterRoutes(appRouter)
	}

	a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
	a.rateLimiter = middleware.NewClientRateLimiter(
		a.cfg.RateLimitPerMinute,
		rateLimitWindow,
		middleware.ClientIPExtractor,
		a.log,
	)

	var appHTTPHandler http.Handler = appRouter
	appHTTPHandler = middleware.Idempotency(a.idempotencyStore, "Idempotency-Key")(appHTTPHandler)
	appHTTPHandler = middleware.RequestTimeout(a.cfg.RequestTimeout)(appHTTPHandler)
	appHTTPHandler = middleware.RateLimit(a.rateLimiter)(appHTTPHandler)
	appHTTPHandler = middleware.ContentTypeValidation(a.log)(appHTTPHandler)
	appHTTPHandler = middleware.MaxRequestSize(a.cfg.MaxRequestSize)(appHTTPHandler)
	appHTTPHandler = middleware.RequestLogging(a.log)(appHTTPHandler)
	appHTTPHandler = middleware.Recovery(a.log)(appHTTPHandler)
	a.appHTTPHandler = appHTTPHandler
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/", a.appHTTPHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}
}

// Run starts the server and blocks until it fails or a shutdown signal
// arrives.
func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		a.log.Info("Shutdown signal received", "signal", sig.String())
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.log.Info("Starting graceful shutdown")

	a.idempotencyStore.Stop()
	a.rateLimiter.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.log.Fatal("Could not stop server gracefully", "error", err)
		}
	}

	a.log.Info("Server stopped gracefully")
}
