package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/p2pdesk/internal/domain/errors"
	"github.com/polkiloo/p2pdesk/internal/domain/model"
)

const defaultRetryAfter = 5 * time.Second

// Client exposes the exchange operations consumed by the order engine.
type Client interface {
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	AcceptOrder(ctx context.Context, orderID string) error
	DeclineOrder(ctx context.Context, orderID string) error
	CancelOrder(ctx context.Context, orderID string, as model.CancelParty) error
	MarkPaymentMade(ctx context.Context, orderID, proof string) error
	MarkPaymentReceived(ctx context.Context, orderID string, confirmed bool) error
	SubmitReview(ctx context.Context, orderID string, reviewType model.ReviewType, comment string) error
}

type credentialKey struct{}

// WithCredential attaches the viewer's exchange credential to ctx.
func WithCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, credentialKey{}, credential)
}

func credentialFrom(ctx context.Context) string {
	v, _ := ctx.Value(credentialKey{}).(string)
	return v
}

// HTTPClient implements Client via the exchange REST API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates exchange client. timeout <= 0 falls back to 10s.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse exchange url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("exchange url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// GetOrder fetches the authoritative order state.
func (c *HTTPClient) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	var payload orderPayload
	if err := c.do(ctx, "get order", orderID, http.MethodGet, c.orderPath(orderID), nil, &payload); err != nil {
		return nil, err
	}
	order, err := payload.toModel()
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	if order.ID == "" {
		order.ID = orderID
	}
	return order, nil
}

// AcceptOrder accepts a pending order as the vendor.
func (c *HTTPClient) AcceptOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, "accept order", orderID, http.MethodPost, c.orderPath(orderID, "accept"), nil, nil)
}

// DeclineOrder declines a pending order as the vendor.
func (c *HTTPClient) DeclineOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, "decline order", orderID, http.MethodPost, c.orderPath(orderID, "decline"), nil, nil)
}

// CancelOrder cancels through the endpoint matching the viewer's party.
func (c *HTTPClient) CancelOrder(ctx context.Context, orderID string, as model.CancelParty) error {
	p := c.orderPath(orderID, "cancel")
	if as == model.CancelAsVendor {
		p = path.Join("/api/p2p/vendor/orders", orderID, "cancel")
	}
	return c.do(ctx, "cancel order", orderID, http.MethodPost, p, nil, nil)
}

// MarkPaymentMade reports the fiat payment with optional proof reference.
func (c *HTTPClient) MarkPaymentMade(ctx context.Context, orderID, proof string) error {
	return c.do(ctx, "mark payment made", orderID, http.MethodPost, c.orderPath(orderID, "payment-made"), paymentMadeRequest{Proof: proof}, nil)
}

// MarkPaymentReceived confirms receipt; the server releases coins on success.
func (c *HTTPClient) MarkPaymentReceived(ctx context.Context, orderID string, confirmed bool) error {
	return c.do(ctx, "mark payment received", orderID, http.MethodPost, c.orderPath(orderID, "payment-received"), paymentReceivedRequest{Confirmed: confirmed}, nil)
}

// SubmitReview posts the post-trade review.
func (c *HTTPClient) SubmitReview(ctx context.Context, orderID string, reviewType model.ReviewType, comment string) error {
	return c.do(ctx, "submit review", orderID, http.MethodPost, c.orderPath(orderID, "review"), reviewRequest{Type: string(reviewType), Comment: comment}, nil)
}

func (c *HTTPClient) orderPath(orderID string, suffix ...string) string {
	parts := append([]string{"/api/p2p/orders", orderID}, suffix...)
	return path.Join(parts...)
}

func (c *HTTPClient) do(ctx context.Context, op, orderID, method, p string, body, out any) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, p)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential := credentialFrom(ctx); credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return &domainErrors.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domainErrors.NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
			return nil
		}
		data, _ := unwrap(respBody)
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
		return nil
	}

	_, message := unwrap(respBody)
	if message == "" {
		message = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &domainErrors.AuthError{Op: op, Err: errors.New(message)}
	case http.StatusBadRequest, http.StatusConflict, http.StatusPreconditionFailed, http.StatusUnprocessableEntity:
		return &domainErrors.ConflictError{OrderID: orderID, Op: op, Reason: message}
	case http.StatusNotFound:
		return fmt.Errorf("%s: order %s: %w", op, orderID, domainErrors.ErrNotFound)
	case http.StatusTooManyRequests:
		return &domainErrors.NetworkError{Op: op, Err: errors.New(message), RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		c.logger.Error("exchange request failed",
			slog.String("op", op),
			slog.String("order", orderID),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(respBody)),
		)
		return &domainErrors.NetworkError{Op: op, Err: fmt.Errorf("exchange error: %s", resp.Status)}
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return defaultRetryAfter
}
