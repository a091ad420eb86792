// Package webhook triggers n8n workflows over HTTP.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/pkg/apperror"
)

const DefaultRetryBackoff = 2 * time.Second

// Response is the body of the attempt that succeeded.
type Response struct {
	StatusCode int
	Body       []byte
	Attempts   int
}

// JSON decodes the workflow's reply into v.
func (r *Response) JSON(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// AttemptError is one failed attempt. StatusCode is 0 for network failures.
type AttemptError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AttemptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("workflow responded %d: %s", e.StatusCode, e.Body)
}

func (e *AttemptError) Unwrap() error {
	return e.Err
}

// Client makes at most two attempts per trigger: one, then one retry after
// a fixed backoff. No idempotency key is sent, so a workflow may run twice.
type Client struct {
	httpClient *http.Client
	backoff    time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewClient(httpClient *http.Client, backoff time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if backoff <= 0 {
		backoff = DefaultRetryBackoff
	}
	return &Client{httpClient: httpClient, backoff: backoff, sleep: sleepCtx}
}

// Trigger posts payload as JSON to url.
func (c *Client) Trigger(ctx context.Context, workflow, url string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return c.withRetry(ctx, workflow, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
}

// SubmitForm sends values as a multipart form. The i-th value goes in the
// field named names[i]; the names are agreed with the workflow author.
func (c *Client) SubmitForm(ctx context.Context, workflow, url string, names, values []string) (*Response, error) {
	if len(values) > len(names) {
		return nil, apperror.ValidationError(fmt.Sprintf("form has %d values but only %d field names", len(values), len(names)))
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for i, value := range values {
		if err := writer.WriteField(names[i], value); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form: %w", err)
	}
	body := buf.Bytes()
	contentType := writer.FormDataContentType()

	return c.withRetry(ctx, workflow, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
}

func (c *Client) withRetry(ctx context.Context, workflow string, build func() (*http.Request, error)) (*Response, error) {
	var last error
	for attempt := 1; attempt <= 2; attempt++ {
		if attempt == 2 {
			logger.GetLogger().WithError(last).WithField("workflow", workflow).Warn("Workflow trigger failed, retrying once")
			if err := c.sleep(ctx, c.backoff); err != nil {
				return nil, &apperror.WorkflowUnavailable{Workflow: workflow, Cause: err}
			}
		}

		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			resp.Attempts = attempt
			return resp, nil
		}
		last = err
	}

	logger.GetLogger().WithError(last).WithField("workflow", workflow).Error("Workflow unavailable after retry")
	return nil, &apperror.WorkflowUnavailable{Workflow: workflow, Cause: last}
}

func (c *Client) do(req *http.Request) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AttemptError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AttemptError{StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &AttemptError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
