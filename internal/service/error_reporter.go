package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Filtered replaces redacted values in reported events.
const Filtered = "[FILTERED]"

// strippedHeaders never leave the process.
var strippedHeaders = []string{"Authorization", "Cookie", "X-Api-Token", "X-Xsrf-Token"}

// RequestInfo is the part of a failed request attached to an event.
type RequestInfo struct {
	Method  string
	URL     string
	Headers http.Header
}

// ErrorEvent is the payload posted to the tracker.
type ErrorEvent struct {
	EventID     string            `json:"event_id,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Exception   string            `json:"exception"`
	Message     string            `json:"message"`
	Environment string            `json:"environment"`
	Release     string            `json:"release,omitempty"`
	Request     *EventRequest     `json:"request,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
}

type EventRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Data    string            `json:"data"`
}

// ErrorReporterConfig configures the tracker client. An empty DSN disables
// reporting.
type ErrorReporterConfig struct {
	DSN         string
	Environment string
	Release     string
	SampleRate  float64
}

// ErrorReporter posts unexpected failures to the error tracker. Sending is
// best-effort and never retried.
type ErrorReporter struct {
	cfg    ErrorReporterConfig
	client *resty.Client
	logger *zap.Logger
	sample func() float64

	inflight sync.WaitGroup
}

func NewErrorReporter(cfg ErrorReporterConfig, logger *zap.Logger) *ErrorReporter {
	client := resty.New().
		SetTimeout(5*time.Second).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &ErrorReporter{cfg: cfg, client: client, logger: logger, sample: rand.Float64}
}

// Enabled reports whether events are sent at all.
func (r *ErrorReporter) Enabled() bool {
	return r != nil && r.cfg.DSN != "" && r.cfg.SampleRate > 0
}

// Reportable is false for the expected failures: validation, business rule,
// not found and authentication errors.
func Reportable(err error) bool {
	if err == nil {
		return false
	}
	var (
		v *ValidationError
		b *BusinessError
	)
	switch {
	case errors.As(err, &v), errors.As(err, &b),
		errors.Is(err, ErrNotFound), errors.Is(err, ErrUnauthenticated),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}

// RedactHeaders copies h without the credential headers, one value per key.
func RedactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if isStripped(k) {
			continue
		}
		out[k] = strings.Join(v, ", ")
	}
	return out
}

func isStripped(name string) bool {
	for _, s := range strippedHeaders {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}

// RedactURL keeps the path and query keys of raw and filters every query
// value, since listing searches carry names.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return Filtered
	}
	if u.RawQuery == "" {
		return u.String()
	}
	q := u.Query()
	for k := range q {
		q[k] = []string{Filtered}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// BuildEvent turns err and the request into a redacted event.
func (r *ErrorReporter) BuildEvent(err error, req *RequestInfo) ErrorEvent {
	ev := ErrorEvent{
		EventID:     strings.ReplaceAll(uuid.NewString(), "-", ""),
		Timestamp:   time.Now().UTC(),
		Exception:   fmt.Sprintf("%T", unwrapAll(err)),
		Message:     err.Error(),
		Environment: r.cfg.Environment,
		Release:     r.cfg.Release,
	}
	if req != nil {
		ev.Request = &EventRequest{
			Method:  req.Method,
			URL:     RedactURL(req.URL),
			Headers: RedactHeaders(req.Headers),
			Data:    Filtered,
		}
	}
	return ev
}

func unwrapAll(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func (r *ErrorReporter) admit(err error) bool {
	if !r.Enabled() || !Reportable(err) {
		return false
	}
	return r.cfg.SampleRate >= 1 || r.sample() < r.cfg.SampleRate
}

// Report sends err when it is reportable and the sample admits it. It
// returns whether an event was delivered.
func (r *ErrorReporter) Report(ctx context.Context, err error, req *RequestInfo) bool {
	if !r.admit(err) {
		return false
	}
	return r.send(ctx, r.BuildEvent(err, req))
}

// Enqueue is Report without waiting for the tracker: the event is built
// before returning and posted in the background. It returns whether an
// event was queued.
func (r *ErrorReporter) Enqueue(ctx context.Context, err error, req *RequestInfo) bool {
	if !r.admit(err) {
		return false
	}
	ev := r.BuildEvent(err, req)
	ctx = context.WithoutCancel(ctx)
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		r.send(ctx, ev)
	}()
	return true
}

// Flush waits for queued events until ctx is done. It returns false when
// events were still in flight.
func (r *ErrorReporter) Flush(ctx context.Context) bool {
	if r == nil {
		return true
	}
	done := make(chan struct{})
	go func() {
		r.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

func (r *ErrorReporter) send(ctx context.Context, ev ErrorEvent) bool {
	resp, sendErr := r.client.R().
		SetContext(context.WithoutCancel(ctx)).
		SetBody(ev).
		Post(r.cfg.DSN)
	if sendErr != nil {
		r.logger.Warn("Failed to send error event", zap.Error(sendErr))
		return false
	}
	if resp.IsError() {
		r.logger.Warn("Error tracker rejected event",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("exception", ev.Exception),
		)
		return false
	}
	return true
}
