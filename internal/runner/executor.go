package runner

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kvload/internal/workload"
)

// Executor issues exactly one request and reports how it went. Failures
// are carried in the Outcome; implementations must not panic on them.
type Executor interface {
	Execute(ctx context.Context, req workload.Request) Outcome
}

// ExecutorFactory builds the executor for one worker. Executors are never
// shared between workers.
type ExecutorFactory func(workerID int) Executor

// HTTPExecutor talks to the key/value target over its own connection pool.
type HTTPExecutor struct {
	client *http.Client
	base   string
}

func NewHTTPExecutor(cfg Config) *HTTPExecutor {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 4
	t.MaxIdleConnsPerHost = 4

	return &HTTPExecutor{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: t,
		},
		base: cfg.BaseURL(),
	}
}

func (e *HTTPExecutor) Execute(ctx context.Context, r workload.Request) Outcome {
	req, err := e.newRequest(ctx, r)
	if err != nil {
		return Outcome{Err: err}
	}

	start := time.Now()
	resp, err := e.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return Outcome{Latency: latency, Err: err}
	}

	// Drain so the keep-alive connection goes back to the pool.
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return Outcome{
		Succeeded: resp.StatusCode == http.StatusOK,
		Latency:   latency,
		Status:    resp.StatusCode,
	}
}

func (e *HTTPExecutor) newRequest(ctx context.Context, r workload.Request) (*http.Request, error) {
	switch r.Op {
	case workload.Create:
		form := url.Values{"key": {r.Key}, "value": {r.Value}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.base+"/create", strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	case workload.Delete:
		return http.NewRequestWithContext(ctx, http.MethodDelete, e.base+"/delete?key="+url.QueryEscape(r.Key), nil)
	default:
		return http.NewRequestWithContext(ctx, http.MethodGet, e.base+"/read?key="+url.QueryEscape(r.Key), nil)
	}
}

// Close releases idle connections held by this worker's transport.
func (e *HTTPExecutor) Close() error {
	e.client.CloseIdleConnections()
	return nil
}
