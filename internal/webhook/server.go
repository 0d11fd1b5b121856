// Package webhook exposes the dispatcher over HTTP: one POST endpoint for
// GitHub deliveries plus a liveness probe.
package webhook

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"issuerelay/internal/dispatch"
	"issuerelay/internal/github"
	"issuerelay/internal/log"
)

// maxBodySize caps webhook request bodies. A GitHub issues payload is a few
// KB; anything near this limit is not a legitimate delivery.
const maxBodySize = 1 << 20 // 1 MiB

const healthBody = "OK - issue relay running (webhook mode)"

// Processor handles one webhook delivery end to end.
type Processor interface {
	Process(ctx context.Context, del dispatch.Delivery) dispatch.Outcome
}

// Server is the webhook HTTP surface.
type Server struct {
	listen    string
	processor Processor
	logger    *slog.Logger
	server    *http.Server
}

// New creates a Server listening on addr.
func New(addr string, processor Processor) *Server {
	return &Server{
		listen:    addr,
		processor: processor,
		logger:    log.WithComponent("webhook"),
	}
}

// Start runs the HTTP server until ctx is cancelled (blocking).
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.listen,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server starting", "listen", s.listen)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// Routes configures the HTTP router.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Post("/webhook", s.handleWebhook)
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleHealth)

	return r
}

// loggingMiddleware logs HTTP requests (never the body, which may carry a
// payload we have not yet authenticated).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// handleWebhook receives a GitHub delivery and maps the dispatch outcome to
// an HTTP status. The sender is told 200 even for skipped or failed
// deliveries: GitHub's retry mechanism would only re-derive the same result.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	limited := io.LimitReader(r.Body, maxBodySize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		s.respond(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if int64(len(body)) > maxBodySize {
		s.respond(w, http.StatusRequestEntityTooLarge, "Payload Too Large")
		return
	}

	deliveryID := r.Header.Get(github.DeliveryHeader)
	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}

	outcome := s.processor.Process(r.Context(), dispatch.Delivery{
		Body:       body,
		Signature:  r.Header.Get(github.SignatureHeader),
		Event:      r.Header.Get(github.EventHeader),
		DeliveryID: deliveryID,
	})

	switch outcome {
	case dispatch.OutcomeUnauthorized:
		s.respond(w, http.StatusUnauthorized, "Unauthorized")
	case dispatch.OutcomeMalformed:
		s.respond(w, http.StatusBadRequest, "Invalid JSON")
	case dispatch.OutcomePing:
		s.respond(w, http.StatusOK, "Pong")
	case dispatch.OutcomeInternalError:
		s.respond(w, http.StatusInternalServerError, "Internal Server Error")
	default:
		s.respond(w, http.StatusOK, "OK")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, healthBody)
}

func (s *Server) respond(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}
