package mercadopago

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreatePayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payments" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}

		var req PaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.TransactionAmount != 80 || req.ExternalReference != "order-1" {
			t.Errorf("unexpected payload: %+v", req)
		}

		json.NewEncoder(w).Encode(Payment{
			ID:                "123456",
			Status:            "pending",
			ExternalReference: req.ExternalReference,
		})
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	payment, err := client.CreatePayment(context.Background(), 80, "Pedido #ABC12345", "ana@example.com", "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status != "pending" || payment.ExternalReference != "order-1" {
		t.Errorf("unexpected payment: %+v", payment)
	}
}

func TestGetPayment_NumericID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/123456" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		// The live API returns the id as a JSON number.
		w.Write([]byte(`{"id": 123456, "status": "approved", "external_reference": "order-1"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	payment, err := client.GetPayment(context.Background(), "123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.ID.String() != "123456" || payment.Status != "approved" {
		t.Errorf("unexpected payment: %+v", payment)
	}
}

func TestErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("bad-token", server.URL)
	if _, err := client.GetPayment(context.Background(), "1"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
