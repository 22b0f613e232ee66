package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sobriety/internal/controllers"
	"sobriety/internal/providers"
	"sobriety/internal/services"
	"sobriety/internal/storage/interfaces"
	"sobriety/internal/structures"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server

	service services.AddictionServiceInterface
	store   interfaces.StoreInterface
	logger  providers.Logger
	conf    *structures.Config
}

func NewApp(healthController *controllers.HealthController, service services.AddictionServiceInterface, store interfaces.StoreInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Wrap API routes with metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, logger, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service: service,
		store:   store,
		logger:  logger,
		conf:    conf,
	}
}

// Run restores the records, serves HTTP until SIGINT or SIGTERM and then
// shuts down gracefully. Every mutation is already persisted, so shutdown
// only closes the store and the logger. Both are closed on every return path.
func (app *App) Run() error {
	logger := app.logger
	logger.Infof(providers.TypeApp, "Starting %s", app.conf.AppName)
	if err := app.service.Restore(); err != nil {
		app.release()
		return fmt.Errorf("restore: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", app.WebServer.Addr)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		app.release()
		return fmt.Errorf("server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.WebServer.Shutdown(ctx); err != nil {
		app.release()
		return err
	}
	err := app.store.Close()
	if err == nil {
		logger.Infof(providers.TypeApp, "gracefully stopped")
	}
	logger.Close()
	return err
}

func (app *App) release() {
	if err := app.store.Close(); err != nil {
		app.logger.Errorf(providers.TypeStore, "Close error: %s", err)
	}
	app.logger.Close()
}
