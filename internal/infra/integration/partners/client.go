package partners

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/xavierca1/partners-miniapp/internal/entity"
)

const (
	ProfileEndpoint = "/api/user/profile"
	LeadsEndpoint   = "/api/leads"

	// ConnectionErrorMessage is what the host shows on any wrapper failure.
	ConnectionErrorMessage = "Ошибка соединения с сервером"

	userIDHeader = "X-Telegram-User-Id"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partners_requests_total",
			Help: "Total number of requests sent to the partners backend",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "partners_request_duration_seconds",
			Help:    "Duration of partners backend requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// Alerter is the host primitive the wrapper reports failures through.
type Alerter interface {
	ShowAlert(ctx context.Context, message string) error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	alerter    Alerter
	userID     int64
	logger     *zap.Logger
}

// NewClient builds a client for baseURL. A zero timeout means requests wait
// until the backend answers or ctx is cancelled.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// WithAlerter returns a copy that reports failures through a.
func (c *Client) WithAlerter(a Alerter) *Client {
	cp := *c
	cp.alerter = a
	return &cp
}

// WithUser returns a copy that tags every request with the host user id.
func (c *Client) WithUser(id int64) *Client {
	cp := *c
	cp.userID = id
	return &cp
}

// Request sends a JSON request and decodes the JSON answer into out (when
// out is non-nil). Every failure is alerted through the host before it is
// returned.
func (c *Client) Request(ctx context.Context, endpoint, method string, body, out any) error {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut:
	default:
		return fmt.Errorf("partners: unsupported method %q", method)
	}

	err := c.do(ctx, endpoint, method, body, out)
	if err != nil {
		c.logger.Error("API request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		c.alert(ctx)
	}
	return err
}

func (c *Client) do(ctx context.Context, endpoint, method string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Method: method, Endpoint: endpoint, Err: fmt.Errorf("encode body: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return &NetworkError{Method: method, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.userID != 0 {
		req.Header.Set(userIDHeader, strconv.FormatInt(c.userID, 10))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(method, endpoint, "error").Inc()
		return &NetworkError{Method: method, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: method, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkError{
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP error! status: %d", resp.StatusCode),
		}
	}

	if out == nil {
		if len(bytes.TrimSpace(respBody)) == 0 {
			return nil
		}
		var discard json.RawMessage
		if err := json.Unmarshal(respBody, &discard); err != nil {
			return &DecodeError{Method: method, Endpoint: endpoint, Err: err}
		}
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &DecodeError{Method: method, Endpoint: endpoint, Err: err}
	}
	return nil
}

func (c *Client) alert(ctx context.Context) {
	if c.alerter == nil {
		return
	}
	if err := c.alerter.ShowAlert(ctx, ConnectionErrorMessage); err != nil {
		c.logger.Warn("failed to show connection alert", zap.Error(err))
	}
}

// GetProfile fetches the dashboard snapshot. The wrapper only requires a
// JSON body; a body that is JSON but not a snapshot is reported as a
// DecodeError without a connection alert.
func (c *Client) GetProfile(ctx context.Context) (*entity.ProfileSnapshot, error) {
	var raw json.RawMessage
	if err := c.Request(ctx, ProfileEndpoint, http.MethodGet, nil, &raw); err != nil {
		return nil, err
	}

	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, &DecodeError{Method: http.MethodGet, Endpoint: ProfileEndpoint, Err: ErrEmptySnapshot}
	}

	var snapshot entity.ProfileSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, &DecodeError{Method: http.MethodGet, Endpoint: ProfileEndpoint, Err: err}
	}
	return &snapshot, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update entity.ProfileUpdate) error {
	return c.Request(ctx, ProfileEndpoint, http.MethodPut, update, nil)
}

// CreateLead succeeds on any 2xx JSON answer. The echoed lead is decoded on
// a best effort basis and is zero valued when the body is not a lead.
func (c *Client) CreateLead(ctx context.Context, lead entity.LeadRequest) (*entity.Lead, error) {
	var raw json.RawMessage
	if err := c.Request(ctx, LeadsEndpoint, http.MethodPost, lead, &raw); err != nil {
		return nil, err
	}

	var created entity.Lead
	if err := json.Unmarshal(raw, &created); err != nil {
		c.logger.Debug("lead response is not a lead", zap.ByteString("body", raw), zap.Error(err))
		created = entity.Lead{}
	}
	return &created, nil
}
