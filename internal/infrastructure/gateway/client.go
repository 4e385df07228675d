// internal/infrastructure/gateway/client.go
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go"
	"github.com/sirupsen/logrus"
	"github.com/your-org/course-registration/internal/config"
	"github.com/your-org/course-registration/internal/domain/catalog"
	"github.com/your-org/course-registration/internal/domain/order"
	"github.com/your-org/course-registration/internal/domain/payment"
	"github.com/your-org/course-registration/internal/metrics"
)

// maxResponseSize bounds how much of a backend response is read
const maxResponseSize = 4 << 20

// envelope is the response shape of every backend action
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	OrderID string          `json:"order_id"`
}

// Client talks to the backend over HTTP GET with the payload in the query
// string, which keeps browser-style callers free of CORS preflights.
type Client struct {
	baseURL    string
	token      string
	origin     string
	timeout    time.Duration
	attempts   uint
	delay      time.Duration
	maxDelay   time.Duration
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a backend client
func NewClient(cfg config.GatewayConfig, logger *logrus.Logger) *Client {
	attempts := cfg.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}
	return &Client{
		baseURL:    cfg.URL,
		token:      cfg.Token,
		origin:     cfg.Origin,
		timeout:    cfg.Timeout,
		attempts:   attempts,
		delay:      cfg.RetryDelay,
		maxDelay:   cfg.RetryMaxDelay,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// GetCourses fetches the full catalog with remaining seats
func (c *Client) GetCourses(ctx context.Context) ([]catalog.CourseOffering, error) {
	var courses []catalog.CourseOffering
	err := c.read(ctx, ActionGetCourses, struct{}{}, func(env *envelope) error {
		return decodeData(env, &courses)
	})
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []catalog.CourseOffering{}
	}
	return courses, nil
}

// CheckQuota fetches the live remaining seats of one session
func (c *Client) CheckQuota(ctx context.Context, sessionID string) (int, error) {
	var quota struct {
		Remaining int `json:"remaining"`
	}
	err := c.read(ctx, ActionCheckQuota, map[string]string{"session_id": sessionID}, func(env *envelope) error {
		return decodeData(env, &quota)
	})
	if err != nil {
		return 0, err
	}
	return quota.Remaining, nil
}

// SubmitOrder sends an order. It is never retried: the wire carries no
// idempotency key, so a repeat could book seats twice.
func (c *Client) SubmitOrder(ctx context.Context, sub *order.Submission) (*order.SubmitResult, error) {
	env, err := c.call(ctx, ActionSubmitOrder, sub)
	if err != nil {
		return nil, err
	}
	return &order.SubmitResult{OrderID: env.OrderID}, nil
}

// SubmitPayment sends a payment report. It is never retried.
func (c *Client) SubmitPayment(ctx context.Context, report *payment.Report) error {
	_, err := c.call(ctx, ActionSubmitPayment, report)
	return err
}

// read performs an idempotent action, retrying temporary failures.
func (c *Client) read(ctx context.Context, action string, data interface{}, decode func(*envelope) error) error {
	return retry.Do(
		func() error {
			env, err := c.call(ctx, action, data)
			if err != nil {
				return err
			}
			return decode(env)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.MaxDelay(c.maxDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsTemporary),
		retry.OnRetry(func(n uint, err error) {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"action":  action,
				"attempt": n + 1,
			}).Warn("Retrying gateway call")
		}),
	)
}

// call performs exactly one backend request.
func (c *Client) call(ctx context.Context, action string, data interface{}) (env *envelope, err error) {
	start := time.Now()
	defer func() {
		metrics.GatewayLatency.WithLabelValues(action).Observe(time.Since(start).Seconds())
		metrics.GatewayRequests.WithLabelValues(action, outcome(err)).Inc()
	}()

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", action, err)
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway url: %w", err)
	}
	query := endpoint.Query()
	query.Set("token", c.token)
	query.Set("action", action)
	query.Set("data", string(payload))
	query.Set("referer", c.origin)
	endpoint.RawQuery = query.Encode()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", action, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Action: action, Message: FallbackMessage, Temporary: true, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &Error{Action: action, Message: FallbackMessage, StatusCode: resp.StatusCode, Temporary: true, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Action:     action,
			Message:    FallbackMessage,
			StatusCode: resp.StatusCode,
			Temporary:  resp.StatusCode >= 500,
			Err:        fmt.Errorf("http error: status %d", resp.StatusCode),
		}
	}

	env = &envelope{}
	if err := json.Unmarshal(body, env); err != nil {
		return nil, &Error{Action: action, Message: FallbackMessage, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed response: %w", err)}
	}
	if !env.Success {
		message := env.Error
		if message == "" {
			message = FallbackMessage
		}
		return nil, &Error{Action: action, Message: message, StatusCode: resp.StatusCode}
	}

	return env, nil
}

func decodeData(env *envelope, dest interface{}) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return &Error{Message: FallbackMessage, Err: fmt.Errorf("malformed response data: %w", err)}
	}
	return nil
}

func outcome(err error) string {
	var gerr *Error
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &gerr) && gerr.StatusCode == 0 && gerr.Temporary:
		return "transport_error"
	case errors.As(err, &gerr) && gerr.Err == nil:
		return "rejected"
	default:
		return "error"
	}
}
