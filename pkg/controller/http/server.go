package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/introbridge/pkg/service/slack"
	"github.com/secmon-lab/introbridge/pkg/utils/errutil"
	"github.com/secmon-lab/introbridge/pkg/utils/logging"
	"github.com/secmon-lab/introbridge/pkg/utils/safe"
)

type Server struct {
	router              *chi.Mux
	slackService        slack.Service
	slackWebhookHandler *SlackWebhookHandler
	slackSigningSecret  string
	enableMetrics       bool
}

type Options func(*Server)

func WithSlackWebhook(handler *SlackWebhookHandler, signingSecret string) Options {
	return func(s *Server) {
		s.slackWebhookHandler = handler
		s.slackSigningSecret = signingSecret
	}
}

func WithSlackService(svc slack.Service) Options {
	return func(s *Server) {
		s.slackService = svc
	}
}

// WithMetrics toggles the /metrics endpoint. Enabled by default.
func WithMetrics(enabled bool) Options {
	return func(s *Server) {
		s.enableMetrics = enabled
	}
}

func New(opts ...Options) (*Server, error) {
	r := chi.NewRouter()

	s := &Server{
		router:        r,
		enableMetrics: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.slackWebhookHandler != nil && s.slackSigningSecret == "" {
		return nil, goerr.New("slack signing secret is required for the webhook endpoint")
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/health", healthHandler)
	r.Get("/channels", channelsHandler(s.slackService))

	if s.enableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Slack webhook endpoint uses signature verification instead of auth
	if s.slackWebhookHandler != nil {
		r.Route("/slack", func(r chi.Router) {
			r.Use(SlackSignatureMiddleware(s.slackSigningSecret))
			r.Post("/events", s.slackWebhookHandler.ServeHTTP)
		})
	}

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.From(r.Context()).With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, []byte("ok"))
}

type errorResponse struct {
	Error string `json:"error"`
}

// channelsHandler lists the public channels visible to the bot
func channelsHandler(svc slack.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			err := goerr.New("slack service is not configured")
			errutil.Handle(ctx, err, "failed to list channels")
			writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		channels, err := svc.ListChannels(ctx)
		if err != nil {
			errutil.Handle(ctx, err, "failed to list channels")
			writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		if channels == nil {
			channels = []slack.Channel{}
		}

		writeJSON(ctx, w, http.StatusOK, channels)
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, buf.Bytes())
}
