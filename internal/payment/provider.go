package payment

import (
	"context"
	"fmt"
)

// OrderRequest carries the information sent to the gateway when opening a payment intent.
type OrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Order is the gateway-side payment intent. The gateway owns the record; the
// merchant holds a read-only copy for correlation.
type Order struct {
	ID        string `json:"id"`
	Entity    string `json:"entity,omitempty"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

// Capture is the gateway's view of a finalised payment.
type Capture struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// Gateway abstracts the two upstream operations this service depends on so
// both can be exercised against a stub without a live network dependency.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (Order, error)
	CapturePayment(ctx context.Context, paymentID string, amount int64, currency string) (Capture, error)
}

// GatewayError is the structured rejection shape surfaced by the gateway.
// Raw provider error bodies are decoded into this type at the client boundary
// so downstream logic never inspects provider-specific payloads.
type GatewayError struct {
	HTTPStatus  int
	Code        string
	Reason      string
	Description string
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("gateway rejected request: code=%s reason=%s http_status=%d", e.Code, e.Reason, e.HTTPStatus)
}

// AlreadyCaptured reports whether the gateway rejected a capture because the
// funds were already captured, i.e. its own auto-capture raced ahead of this
// call. Classification relies on the machine-readable reason code, never on
// the human-readable description.
func (e *GatewayError) AlreadyCaptured() bool {
	if e == nil {
		return false
	}
	switch e.Reason {
	case "payment_already_captured", "order_already_paid":
		return true
	}
	return false
}
