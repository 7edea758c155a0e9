package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/guruqool/gurukul/internal/infrastructure/configs"
	"github.com/guruqool/gurukul/internal/infrastructure/json"
	"github.com/guruqool/gurukul/internal/infrastructure/logging"
	"github.com/guruqool/gurukul/internal/infrastructure/metrics"
	"github.com/guruqool/gurukul/internal/infrastructure/ratelimiter"
	chatHandler "github.com/guruqool/gurukul/internal/presentation/handler/chat"
	healthHandler "github.com/guruqool/gurukul/internal/presentation/handler/health"
	paymentsHandler "github.com/guruqool/gurukul/internal/presentation/handler/payments"
	transactionsHandler "github.com/guruqool/gurukul/internal/presentation/handler/transactions"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DelegatedPrefixes are the API areas served by sibling services. Each is
// mounted behind a pluggable handler so a deployment can swap in a real
// backend without touching the router.
var DelegatedPrefixes = []string{
	"/api/auth",
	"/api/guru",
	"/api/student",
	"/api/review",
	"/api/content",
	"/api/session",
}

type Application struct {
	config              configs.Config
	paymentsHandler     *paymentsHandler.Handler
	chatHandler         *chatHandler.Handler
	transactionsHandler *transactionsHandler.Handler
	healthHandler       *healthHandler.Handler
	logger              logging.Logger
	ratelimiter         ratelimiter.Limiter
	mounts              map[string]http.Handler
}

func NewApplication(
	config configs.Config,
	paymentsHandler *paymentsHandler.Handler,
	chatHandler *chatHandler.Handler,
	transactionsHandler *transactionsHandler.Handler,
	healthHandler *healthHandler.Handler,
	logger logging.Logger,
	ratelimiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:              config,
		paymentsHandler:     paymentsHandler,
		chatHandler:         chatHandler,
		transactionsHandler: transactionsHandler,
		healthHandler:       healthHandler,
		logger:              logger,
		ratelimiter:         ratelimiter,
		mounts:              make(map[string]http.Handler),
	}
}

// MountDelegate installs a handler for one of the delegated API prefixes,
// replacing the default not-implemented stub.
func (app *Application) MountDelegate(prefix string, h http.Handler) {
	app.mounts[prefix] = h
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(app.securityHeaders)
	r.Use(app.enableCors)
	r.Use(app.rateLimiterMiddleware)
	r.Use(app.loggerMiddleware)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "Welcome to Gurukul API")
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/payment", func(r chi.Router) {
			r.Post("/create-order", app.paymentsHandler.CreateOrderHandler)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Get("/{chatId}/presence", app.chatHandler.GetPresenceHandler)
		})

		r.Get("/transaction", app.transactionsHandler.ListTransactionsHandler)

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)

		for _, prefix := range DelegatedPrefixes {
			h, ok := app.mounts[prefix]
			if !ok {
				h = notImplementedHandler(prefix)
			}
			r.Mount(strings.TrimPrefix(prefix, "/api"), h)
		}
	})

	r.Get("/ws", app.chatHandler.ServeWS)

	r.Handle("/metrics", metrics.Handler())

	if app.config.HTTP.UploadsDir != "" {
		app.serveStatic(r, "/uploads", app.config.HTTP.UploadsDir)
	}
	// Catch-all for the public assets; registered routes above win.
	if app.config.HTTP.PublicDir != "" {
		app.serveStatic(r, "", app.config.HTTP.PublicDir)
	}

	return r
}

// serveStatic mounts a read-only file server under the given URL prefix.
func (app *Application) serveStatic(r chi.Router, prefix, dir string) {
	root, err := filepath.Abs(dir)
	if err != nil {
		app.logger.Warn(logging.IO, logging.Startup, "skipping static mount", map[logging.ExtraKey]any{
			"dir":                dir,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(root)))
	r.Get(prefix+"/*", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "..") {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}

func notImplementedHandler(prefix string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.Write(w, http.StatusNotImplemented, map[string]any{
			"success": false,
			"message": fmt.Sprintf("%s is not served by this instance", prefix),
		})
	})
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      otelhttp.NewHandler(mux, "gurukul-api"),
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		healthHandler.SetUnhealthy()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.Internal, logging.Shutdown, "signal caught", map[logging.ExtraKey]any{
			"signal": s.String(),
		})

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(logging.Internal, logging.Startup, "server has started", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Info(logging.Internal, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	return nil
}
