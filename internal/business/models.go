package business

import "time"

// Business is a vendor's storefront. A vendor owns exactly one business;
// orders, products and categories hang off it.
type Business struct {
	ID                string    `json:"id"`
	OwnerID           string    `json:"owner_id"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	Description       string    `json:"description,omitempty"`
	LogoURL           string    `json:"logo_url,omitempty"`
	Address           string    `json:"address,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	WhatsappNumber    string    `json:"whatsapp_number,omitempty"`
	IsActive          bool      `json:"is_active"`
	IsOpen            bool      `json:"is_open"`
	EnableDelivery    bool      `json:"enable_delivery"`
	EnableTakeaway    bool      `json:"enable_takeaway"`
	DeliveryFee       float64   `json:"delivery_fee"`
	EstimatedPrepTime int       `json:"estimated_prep_time"`
	MPAccessToken     string    `json:"-"` // Mercado Pago credential, never serialized
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewBusiness is the payload for registering a storefront.
type NewBusiness struct {
	Name           string  `json:"name" validate:"required,min=1"`
	Description    string  `json:"description"`
	Address        string  `json:"address"`
	Phone          string  `json:"phone"`
	WhatsappNumber string  `json:"whatsapp_number"`
	EnableDelivery bool    `json:"enable_delivery"`
	EnableTakeaway bool    `json:"enable_takeaway"`
	DeliveryFee    float64 `json:"delivery_fee" validate:"min=0"`
}

// Settings is the PATCH payload for the vendor settings screen. Pointer
// fields distinguish "not sent" from zero values.
type Settings struct {
	Name              *string  `json:"name" validate:"omitempty,min=1"`
	Description       *string  `json:"description"`
	LogoURL           *string  `json:"logo_url" validate:"omitempty,url"`
	Address           *string  `json:"address"`
	Phone             *string  `json:"phone"`
	WhatsappNumber    *string  `json:"whatsapp_number"`
	IsActive          *bool    `json:"is_active"`
	IsOpen            *bool    `json:"is_open"`
	EnableDelivery    *bool    `json:"enable_delivery"`
	EnableTakeaway    *bool    `json:"enable_takeaway"`
	DeliveryFee       *float64 `json:"delivery_fee" validate:"omitempty,min=0,max=100"`
	EstimatedPrepTime *int     `json:"estimated_prep_time" validate:"omitempty,min=5,max=120"`
}
