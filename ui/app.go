package ui

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pricebook/app"
	"pricebook/domain/pricebook"
	"pricebook/internal"
	"pricebook/internal/errors"
)

// App serves the converted pricebook for local previewing
type App struct {
	router    *chi.Mux
	converter *app.ConversionService
	query     *app.QueryService
	summary   *app.SummaryService
	request   app.ConversionRequest
	port      string
	logger    *internal.Logger

	mu   sync.RWMutex
	last app.Outcome
}

// Config holds UI application configuration
type Config struct {
	Port    string // defaults to 8080
	Request app.ConversionRequest
}

// NewApp creates the preview application; call Refresh to run the first conversion
func NewApp(config Config, converter *app.ConversionService, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	port := config.Port
	if port == "" {
		port = "8080"
	}
	a := &App{
		router:    chi.NewRouter(),
		converter: converter,
		query:     app.NewQueryService(),
		summary:   app.NewSummaryService(),
		request:   config.Request,
		port:      port,
		logger:    logger,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/api", func(r chi.Router) {
		r.Get("/records", a.handleRecords)
		r.Get("/query", a.handleQuery)
		r.Get("/summary", a.handleSummary)
		r.Get("/status", a.handleStatus)
		r.Post("/convert", a.handleConvert)
	})
}

// Handler exposes the router, mainly for tests
func (a *App) Handler() http.Handler {
	return a.router
}

// Refresh reruns the conversion and replaces the served records on success
func (a *App) Refresh(ctx context.Context) app.Outcome {
	outcome := a.converter.Convert(ctx, a.request)

	a.mu.Lock()
	defer a.mu.Unlock()
	if outcome.Success || a.last.RunID == "" {
		a.last = outcome
	}
	return outcome
}

func (a *App) snapshot() app.Outcome {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// Addr is the listen address built from the configured port
func (a *App) Addr() string {
	return ":" + a.port
}

// Start serves on the configured port until ctx is cancelled
func (a *App) Start(ctx context.Context) error {
	addr := a.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting pricebook preview server on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// handleRecords returns the current records; query parameters filter by exact field value
func (a *App) handleRecords(w http.ResponseWriter, r *http.Request) {
	last := a.snapshot()
	if !last.Success {
		writeError(w, http.StatusServiceUnavailable, last.Message)
		return
	}

	match := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			match[key] = values[0]
		}
	}
	writeDocument(w, http.StatusOK, app.Filter(last.Records, match))
}

func (a *App) handleQuery(w http.ResponseWriter, r *http.Request) {
	last := a.snapshot()
	if !last.Success {
		writeError(w, http.StatusServiceUnavailable, last.Message)
		return
	}

	result, err := a.query.QueryRecords(last.Records, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(result.Raw))
}

func (a *App) handleSummary(w http.ResponseWriter, r *http.Request) {
	last := a.snapshot()
	if !last.Success {
		writeError(w, http.StatusServiceUnavailable, last.Message)
		return
	}

	summaries, err := a.summary.Summarize(last.Records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (a *App) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.snapshot())
}

func (a *App) handleConvert(w http.ResponseWriter, r *http.Request) {
	outcome := a.Refresh(r.Context())
	if !outcome.Success {
		writeJSON(w, http.StatusInternalServerError, outcome)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeDocument writes records with the same encoding as the output file
func writeDocument(w http.ResponseWriter, status int, records []pricebook.Record) {
	data, err := pricebook.MarshalDocument(records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}
