// Command sawtd runs the conversation orchestration core as an HTTP
// service, grounded on the teacher's cmd/hector entrypoint pattern:
// resolve config, build the wired core, serve over go-chi.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sawtai/sawt/internal/config"
	"github.com/sawtai/sawt/internal/logging"
	"github.com/sawtai/sawt/internal/metrics"
	"github.com/sawtai/sawt/pkg/sawt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(logging.ParseLevel(os.Getenv("SAWT_LOG_LEVEL")))
	comp := logging.Component(logger, "sawtd")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	core, err := sawt.Build(ctx, cfg, comp)
	if err != nil {
		comp.Error("build core", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Post("/sessions/{id}/messages", handleMessage(core, m, comp))
	router.Handle("/metrics", m.Handler())

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	comp.Info("listening", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		comp.Error("server exited", "error", err)
		os.Exit(1)
	}
}

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Reply string `json:"reply"`
}

func handleMessage(core *sawt.Core, m *metrics.Metrics, logger interface {
	Error(msg string, args ...any)
}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "id")

		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		start := time.Now()
		reply, err := core.Handle(r.Context(), sessionID, req.Text)
		m.TurnDuration.WithLabelValues("unknown").Observe(time.Since(start).Seconds())
		if err != nil {
			logger.Error("handle turn", "session", sessionID, "error", err)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(messageResponse{Reply: reply})
	}
}
