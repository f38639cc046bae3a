package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/secmon-lab/introbridge/pkg/usecase"
)

const (
	gateRejected  = "rejected"
	gateChallenge = "challenge"
	gateMalformed = "malformed"
	gateIgnored   = "ignored"
	gateAccepted  = "accepted"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// status is left out to keep the histogram small
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	gateDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "introbridge_slack_events_total",
			Help: "Slack event deliveries by gate decision.",
		},
		[]string{"decision"},
	)

	joinOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "introbridge_channel_joins_total",
			Help: "Channel admission attempts by outcome.",
		},
		[]string{"status"},
	)

	recordOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "introbridge_contact_records_total",
			Help: "Contact record attempts by outcome.",
		},
		[]string{"status"},
	)

	replyOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "introbridge_replies_total",
			Help: "Thread replies by outcome.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		httpReqs, httpLat, httpInflight,
		gateDecisions, joinOutcomes, recordOutcomes, replyOutcomes,
	)

	// Expose every decision from the start so rate() sees a zero baseline
	for _, d := range []string{gateRejected, gateChallenge, gateMalformed, gateIgnored, gateAccepted} {
		gateDecisions.WithLabelValues(d)
	}
}

// observeIntro counts the outcome of one message event
func observeIntro(result *usecase.IntroResult) {
	if result == nil || !result.Qualified {
		gateDecisions.WithLabelValues(gateIgnored).Inc()
		return
	}

	gateDecisions.WithLabelValues(gateAccepted).Inc()
	joinOutcomes.WithLabelValues(result.Join.String()).Inc()
	if result.Record != nil {
		recordOutcomes.WithLabelValues(result.Record.Status.String()).Inc()
	}
	replyOutcomes.WithLabelValues(result.Reply.String()).Inc()
}

// metricsMiddleware records request count, latency and in-flight requests.
// The path label is the chi route pattern, or the raw path when no route
// matched.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpReqs.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		httpLat.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
