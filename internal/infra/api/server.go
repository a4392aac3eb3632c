package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-captcha-gate/internal/domain/model"
)

// ChannelReader exposes the registered channel.
type ChannelReader interface {
	Current() model.ChannelRegistration
}

// SessionCounter reports how many captcha sessions are live.
type SessionCounter interface {
	ActiveSessions() int
}

// Server is the admin HTTP surface: health, metrics and a read-only status view.
type Server struct {
	channel  ChannelReader
	sessions SessionCounter
	apiKey   string
	timeout  time.Duration
	log      *zerolog.Logger
}

func NewServer(channel ChannelReader, sessions SessionCounter, apiKey string, logger *zerolog.Logger) *Server {
	l := logger.With().Str("component", "AdminAPI").Logger()
	return &Server{channel: channel, sessions: sessions, apiKey: apiKey, timeout: 5 * time.Second, log: &l}
}

// ChannelStatus is the body of GET /api/v1/channel.
type ChannelStatus struct {
	Configured     bool   `json:"configured"`
	ChannelID      *int64 `json:"channel_id"`
	ActiveSessions int    `json:"active_sessions"`
}

// Router builds the chi mux with the middleware chain applied.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log), Timeout(s.timeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerKey(s.apiKey))
		r.Get("/channel", s.handleChannel)
	})
	return r
}

func (s *Server) handleChannel(w http.ResponseWriter, _ *http.Request) {
	reg := s.channel.Current()
	writeJSON(w, http.StatusOK, ChannelStatus{
		Configured:     reg.Configured(),
		ChannelID:      reg.ChannelID,
		ActiveSessions: s.sessions.ActiveSessions(),
	})
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("admin http listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
