package products

import "time"

// Product is one menu entry of a business. Its current price is only a
// display value; orders snapshot the price at order time.
type Product struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"business_id"`
	CategoryID  string    `json:"category_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type NewProduct struct {
	Name        string  `json:"name" validate:"required,min=1"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"min=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	CategoryID  string  `json:"category_id"`
	IsAvailable *bool   `json:"is_available"`
}

// UpdateProduct carries the PATCH payload; nil means "leave as is".
type UpdateProduct struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,url"`
	CategoryID  *string  `json:"category_id"`
	IsAvailable *bool    `json:"is_available"`
}
