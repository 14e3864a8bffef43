// Package server exposes the advisory pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/finclarity/advisor/internal/advisor"
	"github.com/finclarity/advisor/internal/auth"
)

// Server serves one advisory pipeline. Each request runs an
// independent turn; there is no cross-request state beyond the shared
// session credential.
type Server struct {
	runner     advisor.Runner
	credential auth.Credential
	logger     *zap.Logger
	markdown   goldmark.Markdown
}

func New(runner advisor.Runner, credential auth.Credential, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		runner:     runner,
		credential: credential,
		logger:     logger,
		markdown:   goldmark.New(),
	}
}

type adviceRequest struct {
	Query string `json:"query"`
}

type adviceResponse struct {
	Status      string   `json:"status"`
	TurnID      string   `json:"turn_id,omitempty"`
	Content     string   `json:"content,omitempty"`
	MissingInfo []string `json:"missing_info,omitempty"`
	Revisions   int      `json:"revisions,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(s.requestLogger)

	router.Get("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte("ok"))
	})
	router.Post("/v1/advice", s.handleAdvice)
	return router
}

func (s *Server) handleAdvice(writer http.ResponseWriter, request *http.Request) {
	var payload adviceRequest
	if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
		writeJSON(writer, http.StatusBadRequest, adviceResponse{Status: "error", Error: "invalid request body"})
		return
	}
	query := strings.TrimSpace(payload.Query)
	if query == "" {
		writeJSON(writer, http.StatusBadRequest, adviceResponse{Status: "error", Error: "query is required"})
		return
	}

	result, err := s.runner.Run(request.Context(), s.credential, query)
	if err != nil {
		status, kind := classify(err)
		s.logger.Error("advice turn failed", zap.String("kind", kind), zap.Error(err))
		writeJSON(writer, status, adviceResponse{Status: "error", Error: kind})
		return
	}

	if result.State == advisor.StateHalted {
		writeJSON(writer, http.StatusUnprocessableEntity, adviceResponse{
			Status:      "needs_more_info",
			TurnID:      result.TurnID,
			Content:     result.Content,
			MissingInfo: result.MissingInfo,
		})
		return
	}

	if wantsHTML(request) {
		var rendered strings.Builder
		if err := s.markdown.Convert([]byte(result.Content), &rendered); err != nil {
			writeJSON(writer, http.StatusInternalServerError, adviceResponse{Status: "error", Error: "render failed"})
			return
		}
		writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte(rendered.String()))
		return
	}

	writeJSON(writer, http.StatusOK, adviceResponse{
		Status:    "published",
		TurnID:    result.TurnID,
		Content:   result.Content,
		Revisions: result.Revisions,
	})
}

// classify maps advisor error kinds onto HTTP statuses. Everything is
// surfaced; nothing retries here.
func classify(err error) (int, string) {
	var revisionLimit *advisor.RevisionLimitError
	if errors.As(err, &revisionLimit) {
		return http.StatusInternalServerError, "revision_limit_exceeded"
	}
	if errors.Is(err, advisor.ErrUnrecognizedMessage) {
		return http.StatusInternalServerError, "unrecognized_message"
	}
	var stageErr *advisor.StageError
	if errors.As(err, &stageErr) {
		return http.StatusBadGateway, "stage_failure"
	}
	return http.StatusInternalServerError, "internal"
}

func wantsHTML(request *http.Request) bool {
	return strings.Contains(request.Header.Get("Accept"), "text/html")
}

func writeJSON(writer http.ResponseWriter, status int, payload adviceResponse) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		started := time.Now()
		wrapped := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)
		next.ServeHTTP(wrapped, request)
		s.logger.Info("http request",
			zap.String("method", request.Method),
			zap.String("path", request.URL.Path),
			zap.Int("status", wrapped.Status()),
			zap.Duration("elapsed", time.Since(started)))
	})
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, address string) error {
	httpServer := &http.Server{
		Addr:              address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	s.logger.Info("advisor server listening", zap.String("address", address))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
