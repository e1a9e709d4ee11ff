package inventory

import (
	"github.com/google/uuid"

	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
)

// ProductFilters describe the supported filter knobs for the stock listing.
type ProductFilters struct {
	BelowThreshold bool   `json:"below_threshold,omitempty"`
	Query          string `json:"q,omitempty"`
}

// ProductList wraps a page of products plus the next page cursor.
type ProductList struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// ReservationRequest asks for qty units of a product to be taken off the shelf.
type ReservationRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Qty       int       `json:"qty"`
}

// Shortfall reports a product that could not cover a reservation request.
type Shortfall struct {
	ProductID uuid.UUID `json:"product_id"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
}

// CreateProductInput carries the fields needed to register a product.
type CreateProductInput struct {
	Name             string `json:"name" validate:"required"`
	Quantity         int    `json:"quantity" validate:"gte=0"`
	ReorderThreshold int    `json:"reorder_threshold" validate:"gte=0"`
}
