package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	slackmodel "github.com/secmon-lab/introbridge/pkg/domain/model/slack"
	"github.com/secmon-lab/introbridge/pkg/usecase"
	"github.com/secmon-lab/introbridge/pkg/utils/logging"
	"github.com/secmon-lab/introbridge/pkg/utils/safe"
	"github.com/slack-go/slack/slackevents"
)

const (
	// maxSlackBodySize bounds the webhook body read before verification
	maxSlackBodySize = 1 << 20

	signatureMaxAge = 5 * time.Minute
)

// verifySlackSignature verifies the Slack request signature
// This is a pure function that can be used independently for testing
func verifySlackSignature(signingSecret, timestamp, signature string, body []byte) error {
	return verifySlackSignatureAt(signingSecret, timestamp, signature, body, time.Now())
}

func verifySlackSignatureAt(signingSecret, timestamp, signature string, body []byte, now time.Time) error {
	if timestamp == "" {
		return goerr.New("missing timestamp")
	}

	if signature == "" {
		return goerr.New("missing signature")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp")
	}

	// Both directions: stale requests and clocks far in the future
	age := now.Sub(time.Unix(ts, 0))
	if age > signatureMaxAge || age < -signatureMaxAge {
		return goerr.New("timestamp out of range", goerr.V("timestamp", timestamp), goerr.V("now", now.Unix()))
	}

	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	mac := hmac.New(sha256.New, []byte(signingSecret))
	if _, err := mac.Write([]byte(baseString)); err != nil {
		return goerr.Wrap(err, "failed to compute HMAC")
	}
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

// SlackSignatureMiddleware rejects requests whose Slack signature does not
// verify. Rejected requests get 403 and never reach the next handler.
func SlackSignatureMiddleware(signingSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := logging.From(ctx)

			body, err := io.ReadAll(io.LimitReader(r.Body, maxSlackBodySize))
			safe.Close(ctx, r.Body)
			if err != nil {
				logger.Warn("failed to read slack request body", "error", err.Error())
				gateDecisions.WithLabelValues(gateRejected).Inc()
				http.Error(w, "Invalid request", http.StatusForbidden)
				return
			}

			timestamp := r.Header.Get("X-Slack-Request-Timestamp")
			signature := r.Header.Get("X-Slack-Signature")

			if err := verifySlackSignature(signingSecret, timestamp, signature, body); err != nil {
				logger.Warn("slack signature verification failed",
					"error", err.Error(),
					"remote", r.RemoteAddr,
				)
				gateDecisions.WithLabelValues(gateRejected).Inc()
				http.Error(w, "Invalid request", http.StatusForbidden)
				return
			}

			if retry := r.Header.Get("X-Slack-Retry-Num"); retry != "" {
				logger.Info("slack delivery retry",
					"retry_num", retry,
					"retry_reason", r.Header.Get("X-Slack-Retry-Reason"),
				)
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

// retryNum reads X-Slack-Retry-Num. A missing or malformed header counts as
// a first delivery.
func retryNum(r *http.Request) int {
	n, err := strconv.Atoi(r.Header.Get("X-Slack-Retry-Num"))
	if err != nil {
		return 0
	}
	return n
}

// challengeResponse echoes the challenge token byte for byte
type challengeResponse struct {
	Challenge json.RawMessage `json:"challenge"`
}

// SlackWebhookHandler handles Slack Events API webhook requests. Every
// verified request is answered with 200; processing failures are logged.
type SlackWebhookHandler struct {
	intro *usecase.IntroUseCase
}

// NewSlackWebhookHandler creates a new Slack webhook handler
func NewSlackWebhookHandler(intro *usecase.IntroUseCase) *SlackWebhookHandler {
	return &SlackWebhookHandler{
		intro: intro,
	}
}

// ServeHTTP handles Slack webhook requests
func (h *SlackWebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.From(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Warn("failed to read slack event body", "error", err.Error())
		gateDecisions.WithLabelValues(gateMalformed).Inc()
		w.WriteHeader(http.StatusOK)
		return
	}

	// ParseEvent also fails for inner event types it does not know; those
	// are acknowledged like any other event we do not handle.
	apiEvent, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		logger.Info("ignoring unparsable slack event", "error", err.Error())
		gateDecisions.WithLabelValues(gateMalformed).Inc()
		w.WriteHeader(http.StatusOK)
		return
	}

	ev := slackmodel.NewEvent(&apiEvent).WithRetryNum(retryNum(r))
	switch ev.Kind() {
	case slackmodel.EventKindURLVerification:
		var challenge challengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil || len(challenge.Challenge) == 0 {
			logger.Warn("failed to decode url_verification", "error", err)
			gateDecisions.WithLabelValues(gateMalformed).Inc()
			w.WriteHeader(http.StatusOK)
			return
		}
		gateDecisions.WithLabelValues(gateChallenge).Inc()
		writeJSON(ctx, w, http.StatusOK, challenge)
		return

	case slackmodel.EventKindMessage:
		result := h.intro.HandleEvent(ctx, ev)
		observeIntro(result)

	default:
		logger.Debug("ignoring slack event", "type", apiEvent.Type, "inner_type", apiEvent.InnerEvent.Type)
		gateDecisions.WithLabelValues(gateIgnored).Inc()
	}

	w.WriteHeader(http.StatusOK)
}
