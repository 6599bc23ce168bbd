package dto

import (
	"time"

	"github.com/emmaus-school/talent-api/internal/models"
)

// PurchaseRequest spends a student's talents on a store product.
type PurchaseRequest struct {
	StudentID    uint   `json:"student_id" validate:"required"`
	ProductID    uint   `json:"product_id" validate:"required"`
	Quantity     int    `json:"quantity" validate:"required,min=1"`
	Requirements string `json:"requirements" validate:"max=500"`
}

// PurchaseResponse reports the recorded purchase and the remaining balances.
type PurchaseResponse struct {
	PurchaseID       uint      `json:"purchase_id"`
	ProductID        uint      `json:"product_id"`
	Quantity         int       `json:"quantity"`
	TotalPrice       int       `json:"total_price"`
	RemainingBalance int       `json:"remaining_balance"`
	RemainingStock   int       `json:"remaining_stock"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// ProductResponse is one catalog item.
type ProductResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
	IsAvailable bool   `json:"is_available"`
	ImageURL    string `json:"image_url,omitempty"`
}

// NewProductResponseSlice maps catalog rows to the API shape.
func NewProductResponseSlice(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Stock:       p.Stock,
			IsAvailable: p.IsAvailable,
			ImageURL:    p.ImageURL,
		})
	}
	return out
}
