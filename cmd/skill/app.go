package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bitbucket.org/sotavant/alexa-skill/internal/dispatcher"
	"bitbucket.org/sotavant/alexa-skill/internal/logger"
	"bitbucket.org/sotavant/alexa-skill/internal/metrics"
	"bitbucket.org/sotavant/alexa-skill/internal/parser"
)

// maxBodySize bounds the decoded request body.
const maxBodySize = 1 << 20

type app struct {
	dispatcher *dispatcher.Dispatcher
	metrics    *metrics.Metrics
	parser     *parser.Parser
	timeout    time.Duration
	limiter    *rate.Limiter
}

// newApp builds the HTTP front of d. A nil limiter lets every request through.
func newApp(d *dispatcher.Dispatcher, m *metrics.Metrics, timeout time.Duration, limiter *rate.Limiter) *app {
	return &app{
		dispatcher: d,
		metrics:    m,
		parser:     parser.New(),
		timeout:    timeout,
		limiter:    limiter,
	}
}

func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func (a *app) routes() http.Handler {
	router := httprouter.New()
	router.Handler(http.MethodPost, "/", gzipMiddleware(a.webhook))
	router.GET("/ping", a.ping)
	router.Handler(http.MethodGet, "/metrics", a.metrics.Handler())

	return logger.RequestLogger(router)
}

func (a *app) ping(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	_, _ = io.WriteString(w, "pong")
}

// webhook serves POST /. Other methods are answered with 405 by the router.
func (a *app) webhook(w http.ResponseWriter, r *http.Request) {
	if a.limiter != nil && !a.limiter.Allow() {
		logger.Log.Debug("rate limit exceeded", zap.String("remoteAddr", r.RemoteAddr))

		w.WriteHeader(http.StatusTooManyRequests)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		logger.Log.Debug("cannot read request body", zap.Error(err))

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.timeout)
	defer cancel()

	start := time.Now()
	out, err := a.dispatcher.Dispatch(ctx, body)
	a.metrics.Observe(a.requestType(body), start, err)

	if err != nil {
		logger.Log.Debug("cannot dispatch request", zap.Error(err))

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		logger.Log.Debug("error writing response", zap.Error(err))
		return
	}
	logger.Log.Debug("sending HTTP 200 response")
}

// requestType labels a request for metrics; unparseable ones are "invalid".
func (a *app) requestType(body []byte) string {
	kind, err := a.parser.Classify(body)
	if err != nil {
		return "invalid"
	}
	return kind.String()
}
