package payment

import (
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/payment-bridge/internal/common"
)

// Handler exposes the order-creation and payment-verification endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
	Logger   zerolog.Logger
}

type createOrderReq struct {
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	Currency string `json:"currency" validate:"required,iso4217"`
}

type verifyPaymentReq struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required,hexadecimal"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
}

type verifyPaymentResp struct {
	Status    string `json:"status"`
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
}

type failureResp struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CreateOrder handles POST /create-order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_NOT_CONFIGURED", "payment handler unavailable", nil)
		return
	}
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body", nil)
		return
	}
	if err := h.validate(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "amount must be a positive minor-unit integer and currency a valid ISO 4217 code", nil)
		return
	}
	order, err := h.Svc.CreateOrder(r.Context(), req.Amount, req.Currency)
	if err != nil {
		h.Logger.Error().Err(err).Int64("amount", req.Amount).Str("currency", req.Currency).Msg("create order")
		common.JSONError(w, http.StatusInternalServerError, "ORDER_CREATE_FAILED", "error creating order", nil)
		return
	}
	common.JSON(w, http.StatusOK, order)
}

// VerifyPayment handles POST /verify-payment. Captured and already-captured
// outcomes share one success shape; only the signature-mismatch failure names
// its reason to the client, every other failure stays opaque.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil {
		common.JSON(w, http.StatusInternalServerError, failureResp{Status: "failure", Message: "payment handler unavailable"})
		return
	}
	var req verifyPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSON(w, http.StatusBadRequest, failureResp{Status: "failure", Message: "invalid body"})
		return
	}
	if err := h.validate(req); err != nil {
		common.JSON(w, http.StatusBadRequest, failureResp{Status: "failure", Message: "missing or malformed fields"})
		return
	}
	res, err := h.Svc.VerifyAndCapture(r.Context(), CaptureRequest{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		Amount:    req.Amount,
	})
	if err != nil {
		if errors.Is(err, ErrSignatureMismatch) {
			h.Logger.Warn().Str("order_id", req.OrderID).Str("payment_id", req.PaymentID).Msg("signature mismatch")
			common.JSON(w, http.StatusBadRequest, failureResp{Status: "failure", Message: "signature verification failed"})
			return
		}
		h.Logger.Error().Err(err).Str("order_id", req.OrderID).Str("payment_id", req.PaymentID).Msg("capture failed")
		common.JSON(w, http.StatusInternalServerError, failureResp{Status: "failure", Message: "internal server error"})
		return
	}
	if res.Status == StatusAlreadyCaptured {
		h.Logger.Info().Str("order_id", res.OrderID).Str("payment_id", res.PaymentID).Msg("payment already captured by gateway")
	}
	common.JSON(w, http.StatusOK, verifyPaymentResp{Status: "success", OrderID: res.OrderID, PaymentID: res.PaymentID})
}

func (h *Handler) validate(v any) error {
	if h == nil || h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(v)
}
