package whatsapp

import (
	"net/url"
	"strings"
	"testing"

	"github.com/mauroere/cafia/internal/orders"
)

func testOrder() *orders.Order {
	return &orders.Order{
		ID:            "11111111-2222-3333-4444-555555555555",
		ShortID:       "11111111",
		Status:        orders.StatusConfirmed,
		Type:          orders.TypeTakeaway,
		TotalAmount:   80,
		CustomerPhone: "+54 9 11 1234-5678",
		Items: []orders.OrderItem{
			{Name: "Cafe", Quantity: 2, UnitPrice: 15},
			{Name: "Medialunas", Quantity: 1, UnitPrice: 50},
		},
	}
}

func TestOrderNotificationURL(t *testing.T) {
	svc := NewService("+54 (911) 9999-8888")
	got := svc.OrderNotificationURL(testOrder(), "Ana")

	if !strings.HasPrefix(got, "https://wa.me/5491199998888?text=") {
		t.Fatalf("unexpected link prefix: %s", got)
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("link is not a valid URL: %v", err)
	}
	text := u.Query().Get("text")
	for _, want := range []string{"#11111111", "Ana", "Take Away", "2x Cafe", "Total: $80.00", "Sin notas"} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q:\n%s", want, text)
		}
	}
}

func TestStatusUpdateURL(t *testing.T) {
	svc := NewService("5491199998888")
	got := svc.StatusUpdateURL(testOrder())

	if !strings.HasPrefix(got, "https://wa.me/5491112345678?text=") {
		t.Fatalf("status link must target the customer phone: %s", got)
	}
	u, _ := url.Parse(got)
	if text := u.Query().Get("text"); !strings.Contains(text, "CONFIRMED") {
		t.Errorf("message missing status: %s", text)
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	if got := formatPhoneNumber("+54 (11) 1234-5678"); got != "541112345678" {
		t.Errorf("formatPhoneNumber = %q, want 541112345678", got)
	}
}
