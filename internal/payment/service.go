package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/payment-bridge/internal/obs"
)

// Status classifies a successful verification outcome.
type Status string

const (
	// StatusCaptured marks a capture confirmed by this call.
	StatusCaptured Status = "captured"
	// StatusAlreadyCaptured marks funds the gateway had captured before this
	// call arrived. The client-facing shape is identical to StatusCaptured;
	// the distinction exists for audit logs and metrics only.
	StatusAlreadyCaptured Status = "already_captured"
)

// CaptureRequest is a claimed completed payment presented for verification.
// It lives only for the duration of one call and is never persisted.
type CaptureRequest struct {
	OrderID   string
	PaymentID string
	Signature string
	Amount    int64
}

// Result reports a verified and captured payment.
type Result struct {
	Status    Status
	OrderID   string
	PaymentID string
}

// ErrSignatureMismatch is returned when the claimed signature does not match
// the digest derived from the order/payment pair. Capture is never attempted
// for such requests.
var ErrSignatureMismatch = errors.New("signature verification failed")

// Service implements order initiation and payment verification against a
// gateway. It holds no mutable per-request state; concurrent calls share
// nothing beyond the gateway client.
type Service struct {
	Gateway         Gateway
	KeySecret       string
	CaptureCurrency string
	Receipts        *ReceiptGenerator
}

var defaultReceipts ReceiptGenerator

// CreateOrder opens a payment intent for the given minor-unit amount and
// returns the gateway's order record. One outbound call, no retry; retry
// policy belongs to the transport layer wrapping this service.
func (s *Service) CreateOrder(ctx context.Context, amount int64, currency string) (Order, error) {
	var zero Order
	if s == nil || s.Gateway == nil {
		return zero, errors.New("payment service not configured")
	}
	ctx, span := otel.Tracer("payment.Service").Start(ctx, "PaymentService.CreateOrder")
	defer span.End()

	start := time.Now()
	currencyLabel := normaliseLabel(currency)
	result := "error"
	defer func() {
		span.SetAttributes(
			attribute.String("order.currency", currencyLabel),
			attribute.Float64("order.create.duration_ms", obs.DurationMillis(time.Since(start))),
			attribute.String("order.create.result", result),
		)
		if obs.OrderCreateTotal != nil {
			obs.OrderCreateTotal.WithLabelValues(currencyLabel, result).Inc()
		}
	}()

	if amount <= 0 {
		return zero, fmt.Errorf("amount must be a positive minor-unit integer, got %d", amount)
	}
	if strings.TrimSpace(currency) == "" {
		return zero, errors.New("currency is required")
	}

	receipts := s.Receipts
	if receipts == nil {
		receipts = &defaultReceipts
	}
	order, err := s.Gateway.CreateOrder(ctx, OrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipts.Next(),
	})
	if err != nil {
		span.RecordError(err)
		return zero, fmt.Errorf("create order: %w", err)
	}
	if strings.TrimSpace(order.ID) == "" {
		return zero, errors.New("gateway returned no order")
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	result = "created"
	return order, nil
}

// VerifyAndCapture validates the claimed signature for req and, only if it
// verifies, asks the gateway to capture the funds. A structured
// already-captured rejection from the gateway is a success: the funds are
// confirmed held, the merchant's capture simply lost the race against the
// gateway's own auto-capture.
func (s *Service) VerifyAndCapture(ctx context.Context, req CaptureRequest) (Result, error) {
	var zero Result
	if s == nil || s.Gateway == nil {
		return zero, errors.New("payment service not configured")
	}
	ctx, span := otel.Tracer("payment.Service").Start(ctx, "PaymentService.VerifyAndCapture")
	defer span.End()

	start := time.Now()
	result := "gateway_error"
	defer func() {
		span.SetAttributes(
			attribute.String("payment.verify.result", result),
			attribute.Float64("payment.verify.duration_ms", obs.DurationMillis(time.Since(start))),
		)
		if obs.PaymentVerifyTotal != nil {
			obs.PaymentVerifyTotal.WithLabelValues(result).Inc()
		}
	}()

	if !validSignature(s.KeySecret, req.OrderID, req.PaymentID, req.Signature) {
		result = "signature_mismatch"
		return zero, ErrSignatureMismatch
	}

	currency := strings.TrimSpace(s.CaptureCurrency)
	if currency == "" {
		currency = "INR"
	}
	span.SetAttributes(
		attribute.String("order.id", req.OrderID),
		attribute.String("payment.id", req.PaymentID),
		attribute.String("payment.capture.currency", currency),
	)

	if _, err := s.Gateway.CapturePayment(ctx, req.PaymentID, req.Amount, currency); err != nil {
		var gwErr *GatewayError
		if errors.As(err, &gwErr) && gwErr.AlreadyCaptured() {
			result = "already_captured"
			return Result{Status: StatusAlreadyCaptured, OrderID: req.OrderID, PaymentID: req.PaymentID}, nil
		}
		span.RecordError(err)
		return zero, fmt.Errorf("capture payment: %w", err)
	}

	result = "captured"
	return Result{Status: StatusCaptured, OrderID: req.OrderID, PaymentID: req.PaymentID}, nil
}

func normaliseLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
