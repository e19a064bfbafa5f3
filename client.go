package captcha

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client solves CAPTCHAs through a task-based solving service. It implements
// Solver. A Client is stateless between calls and safe for concurrent use;
// independent Solve calls never share a task.
type Client struct {
	cfg ClientConfig
}

// NewClient creates a solve client. APIKey is the only required field.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("captcha: APIKey is required")
	}
	cfg.defaults()
	return &Client{cfg: cfg}, nil
}

// Solve submits the challenge to createTask and polls getTaskResult until the
// task reaches a terminal status or the attempt ceiling runs out.
//
// The task-creation request is never retried here: a creation failure is
// surfaced immediately and retrying it is the caller's call. Poll requests
// are strictly sequential; in a fault-free run Solve issues exactly one
// createTask request plus one getTaskResult request per poll attempt, with
// at most one warn-only getBalance probe up front (see BalanceWarnLevel).
func (c *Client) Solve(ctx context.Context, siteKey, pageURL string) (string, error) {
	if siteKey == "" {
		return "", errors.New("captcha: empty siteKey")
	}
	if pageURL == "" {
		return "", errors.New("captcha: empty pageURL")
	}

	start := time.Now()

	// Warn-only balance check; a failed check never blocks the solve.
	if c.cfg.BalanceWarnLevel >= 0 {
		if bal, balErr := c.Balance(ctx); balErr == nil && bal < c.cfg.BalanceWarnLevel {
			slog.Warn("solving-service balance low", slog.Float64("balance", bal))
		}
	}

	createReq := createTaskRequest{
		ClientKey: c.cfg.APIKey,
		Task: taskPayload{
			Type:       c.cfg.TaskType,
			WebsiteURL: pageURL,
			WebsiteKey: siteKey,
		},
	}
	var createResp createTaskResponse
	raw, err := c.post(ctx, "/createTask", createReq, &createResp)
	if err != nil {
		return "", c.requestErr("createTask", 0, start, err)
	}
	if createResp.ErrorID != 0 || createResp.TaskID == "" {
		return "", &Error{
			Kind: KindCreation,
			Op:   "createTask",
			Code: createResp.ErrorCode,
			Raw:  raw,
			Err:  creationReason(createResp),
		}
	}

	id := string(createResp.TaskID)
	slog.Info("captcha task created", slog.String("taskId", id))

	resultReq := taskResultRequest{ClientKey: c.cfg.APIKey, TaskID: id}

	for attempt := 1; attempt <= c.cfg.MaxPollAttempts; attempt++ {
		// Cancellation is checked before the delay and again before the
		// request, so an abandoned solve never waits out the full ceiling.
		select {
		case <-ctx.Done():
			return "", c.requestErr("getTaskResult", attempt-1, start, ctx.Err())
		case <-time.After(c.cfg.PollInterval):
		}
		if ctx.Err() != nil {
			return "", c.requestErr("getTaskResult", attempt-1, start, ctx.Err())
		}

		raw, res, err := c.pollOnce(ctx, resultReq)
		if err != nil {
			return "", c.requestErr("getTaskResult", attempt-1, start, err)
		}

		if res.ErrorID != 0 {
			return "", &Error{
				Kind:     KindSolve,
				Op:       "getTaskResult",
				Code:     res.ErrorCode,
				Raw:      raw,
				Attempts: attempt,
				Elapsed:  time.Since(start),
				Err:      solveReason(*res),
			}
		}

		switch res.Status {
		case statusReady:
			token := res.Solution.token()
			if token == "" {
				return "", &Error{
					Kind:     KindSolve,
					Op:       "getTaskResult",
					Raw:      raw,
					Attempts: attempt,
					Elapsed:  time.Since(start),
					Err:      errors.New("ready status with empty solution"),
				}
			}
			slog.Info("captcha solved",
				slog.String("taskId", id),
				slog.Int("attempts", attempt),
				slog.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
			return token, nil

		case statusFailed:
			return "", &Error{
				Kind:     KindSolve,
				Op:       "getTaskResult",
				Raw:      raw,
				Attempts: attempt,
				Elapsed:  time.Since(start),
				Err:      solveReason(*res),
			}

		case statusProcessing:
			// next attempt

		default:
			// unrecognized statuses poll through like processing
		}
	}

	return "", &Error{
		Kind:     KindTimeout,
		Op:       "getTaskResult",
		Attempts: c.cfg.MaxPollAttempts,
		Elapsed:  time.Since(start),
	}
}

// Balance returns the account balance in USD.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	var resp balanceResponse
	raw, err := c.post(ctx, "/getBalance", balanceRequest{ClientKey: c.cfg.APIKey}, &resp)
	if err != nil {
		return 0, c.requestErr("getBalance", 0, time.Now(), err)
	}
	if resp.ErrorID != 0 {
		return 0, fmt.Errorf("captcha getBalance error %s: %s", resp.ErrorCode, truncateBytes(raw, 200))
	}
	return resp.Balance, nil
}

// pollOnce issues one getTaskResult request, retrying in place on transport
// faults per TransportBackoff. Retries do not consume poll attempts.
func (c *Client) pollOnce(ctx context.Context, req taskResultRequest) (json.RawMessage, *taskResultResponse, error) {
	var lastErr error
	for try := 0; try <= c.cfg.TransportBackoff.MaxRetries; try++ {
		if try > 0 {
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(c.cfg.TransportBackoff.Duration(try - 1)):
			}
			slog.Debug("retrying poll request", slog.String("taskId", req.TaskID), slog.Int("try", try+1))
		}

		var res taskResultResponse
		raw, err := c.post(ctx, "/getTaskResult", req, &res)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, err
			}
			lastErr = err
			continue
		}
		return raw, &res, nil
	}
	return nil, nil, lastErr
}

// post sends a JSON POST request to the service and decodes the response.
func (c *Client) post(ctx context.Context, path string, payload, result any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncateBytes(data, 200))
	}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return data, nil
}

// requestErr wraps a transport-level failure, downgrading to KindCancelled
// when the caller's context caused it.
func (c *Client) requestErr(op string, attempts int, start time.Time, err error) *Error {
	kind := KindTransport
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = KindCancelled
	}
	return &Error{Kind: kind, Op: op, Attempts: attempts, Elapsed: time.Since(start), Err: err}
}

func creationReason(r createTaskResponse) error {
	if r.ErrorDescription != "" {
		return errors.New(r.ErrorDescription)
	}
	return errors.New("no taskId in response")
}

func solveReason(r taskResultResponse) error {
	if r.ErrorDescription != "" {
		return errors.New(r.ErrorDescription)
	}
	return fmt.Errorf("status %q", r.Status)
}

func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
