// Package whatsapp builds wa.me deep links used to notify vendors of new
// orders and customers of status changes. No message is sent from the
// server; the link opens a prefilled chat on the client.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mauroere/cafia/internal/orders"
)

type Service struct {
	phoneNumber string
}

func NewService(phoneNumber string) *Service {
	return &Service{phoneNumber: phoneNumber}
}

// formatPhoneNumber strips everything but digits; wa.me links take the
// number in international format without punctuation.
func formatPhoneNumber(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func link(phone, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", formatPhoneNumber(phone), url.QueryEscape(message))
}

// OrderNotificationURL is the link the vendor taps to see a new order.
func (s *Service) OrderNotificationURL(o *orders.Order, customerName string) string {
	var items strings.Builder
	for _, item := range o.Items {
		fmt.Fprintf(&items, "- %dx %s ($%.2f)\n", item.Quantity, item.Name, item.UnitPrice)
	}

	orderType := "Take Away"
	address := "Retira en local"
	if o.Type == orders.TypeDelivery {
		orderType = "Delivery"
		address = o.DeliveryAddress
	}
	notes := o.Notes
	if notes == "" {
		notes = "Sin notas"
	}

	message := fmt.Sprintf("Nuevo pedido #%s\n\nCliente: %s\nTipo: %s\nDireccion: %s\nTelefono: %s\n\nProductos:\n%s\nTotal: $%.2f\n\nNotas: %s",
		o.ShortID, customerName, orderType, address, o.CustomerPhone, items.String(), o.TotalAmount, notes)
	return link(s.phoneNumber, message)
}

// CustomerContactURL opens a chat with the vendor about an existing order.
func (s *Service) CustomerContactURL(o *orders.Order) string {
	message := fmt.Sprintf("Hola, sobre mi pedido #%s...", o.ShortID)
	return link(s.phoneNumber, message)
}

// StatusUpdateURL opens a chat with the customer announcing the new status.
func (s *Service) StatusUpdateURL(o *orders.Order) string {
	message := fmt.Sprintf("Tu pedido #%s ha sido actualizado a: %s", o.ShortID, o.Status)
	return link(o.CustomerPhone, message)
}
