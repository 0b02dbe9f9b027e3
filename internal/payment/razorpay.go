package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Razorpay implements the Gateway interface against the Razorpay REST API.
// Credentials are injected at construction; they never live in source.
type Razorpay struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Client    *http.Client
}

// NewRazorpay constructs a Razorpay gateway client with a traced transport.
func NewRazorpay(keyID, keySecret, baseURL string, timeout time.Duration) *Razorpay {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Razorpay{
		KeyID:     keyID,
		KeySecret: keySecret,
		BaseURL:   baseURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Endpoint returns the gateway base URL in use.
func (rz *Razorpay) Endpoint() string {
	host := strings.TrimRight(strings.TrimSpace(rz.BaseURL), "/")
	if host == "" {
		return "https://api.razorpay.com"
	}
	return host
}

// CreateOrder opens a payment intent with the gateway.
func (rz *Razorpay) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	var order Order
	if err := rz.post(ctx, rz.Endpoint()+"/v1/orders", req, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// CapturePayment finalises fund transfer for an authorised payment.
func (rz *Razorpay) CapturePayment(ctx context.Context, paymentID string, amount int64, currency string) (Capture, error) {
	if strings.TrimSpace(paymentID) == "" {
		return Capture{}, errors.New("payment id is required")
	}
	endpoint := fmt.Sprintf("%s/v1/payments/%s/capture", rz.Endpoint(), url.PathEscape(paymentID))
	body := map[string]any{"amount": amount, "currency": currency}
	var capture Capture
	if err := rz.post(ctx, endpoint, body, &capture); err != nil {
		return Capture{}, err
	}
	return capture, nil
}

func (rz *Razorpay) post(ctx context.Context, endpoint string, payload any, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode gateway request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(rz.KeyID, rz.KeySecret)

	client := rz.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read gateway response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeGatewayError(resp.StatusCode, body)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode gateway response: %w", err)
		}
	}
	return nil
}

// decodeGatewayError maps the provider's nested error body onto GatewayError.
// Unparseable bodies still yield a structured error carrying the HTTP status.
func decodeGatewayError(status int, body []byte) error {
	var wrapper struct {
		Error struct {
			Code        string `json:"code"`
			Reason      string `json:"reason"`
			Description string `json:"description"`
		} `json:"error"`
	}
	gwErr := &GatewayError{HTTPStatus: status}
	if err := json.Unmarshal(body, &wrapper); err == nil {
		gwErr.Code = wrapper.Error.Code
		gwErr.Reason = wrapper.Error.Reason
		gwErr.Description = wrapper.Error.Description
	}
	return gwErr
}
