package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/payment-bridge/internal/payment"
)

func TestRazorpayCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_test_key", user)
		require.Equal(t, "rzp_test_secret", pass)

		var req payment.OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, int64(50000), req.Amount)
		require.Equal(t, "INR", req.Currency)
		require.NotEmpty(t, req.Receipt)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payment.Order{
			ID:       "order_DBJOWzybf0sJbb",
			Entity:   "order",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer server.Close()

	rz := payment.NewRazorpay("rzp_test_key", "rzp_test_secret", server.URL, time.Second)
	order, err := rz.CreateOrder(context.Background(), payment.OrderRequest{Amount: 50000, Currency: "INR", Receipt: "receipt_order_1"})
	require.NoError(t, err)
	require.Equal(t, "order_DBJOWzybf0sJbb", order.ID)
	require.Equal(t, int64(50000), order.Amount)
}

func TestRazorpayCapturePayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payments/pay_29QQoUBi66xm2f/capture", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.EqualValues(t, 50000, body["amount"])
		require.Equal(t, "INR", body["currency"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payment.Capture{
			ID:       "pay_29QQoUBi66xm2f",
			OrderID:  "order_DBJOWzybf0sJbb",
			Amount:   50000,
			Currency: "INR",
			Status:   "captured",
		})
	}))
	defer server.Close()

	rz := payment.NewRazorpay("rzp_test_key", "rzp_test_secret", server.URL, time.Second)
	capture, err := rz.CapturePayment(context.Background(), "pay_29QQoUBi66xm2f", 50000, "INR")
	require.NoError(t, err)
	require.Equal(t, "captured", capture.Status)
}

func TestRazorpayCaptureAlreadyCaptured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"This payment has already been captured","reason":"payment_already_captured"}}`))
	}))
	defer server.Close()

	rz := payment.NewRazorpay("rzp_test_key", "rzp_test_secret", server.URL, time.Second)
	_, err := rz.CapturePayment(context.Background(), "pay_29QQoUBi66xm2f", 50000, "INR")
	require.Error(t, err)

	var gwErr *payment.GatewayError
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, http.StatusBadRequest, gwErr.HTTPStatus)
	require.Equal(t, "BAD_REQUEST_ERROR", gwErr.Code)
	require.True(t, gwErr.AlreadyCaptured())
}

func TestRazorpayErrorWithUnparseableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("Bad Gateway"))
	}))
	defer server.Close()

	rz := payment.NewRazorpay("rzp_test_key", "rzp_test_secret", server.URL, time.Second)
	_, err := rz.CapturePayment(context.Background(), "pay_29QQoUBi66xm2f", 50000, "INR")

	var gwErr *payment.GatewayError
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, http.StatusBadGateway, gwErr.HTTPStatus)
	require.Empty(t, gwErr.Code)
	require.False(t, gwErr.AlreadyCaptured())
}

func TestRazorpayCaptureRequiresPaymentID(t *testing.T) {
	rz := payment.NewRazorpay("rzp_test_key", "rzp_test_secret", "http://127.0.0.1:0", time.Second)
	_, err := rz.CapturePayment(context.Background(), "  ", 50000, "INR")
	require.Error(t, err)
}
