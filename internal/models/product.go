package models

import "time"

// Product is an item in the reward store.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Price       int       `gorm:"not null" json:"price"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	ImageURL    string    `gorm:"size:512" json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	// PurchaseStatusRequested indicates the purchase has been recorded but not handed out.
	PurchaseStatusRequested = "requested"
	// PurchaseStatusFulfilled indicates the item has been handed to the student.
	PurchaseStatusFulfilled = "fulfilled"
)

// Purchase records one store purchase request. The talent and stock movement
// it caused live in the student's history and the product row.
type Purchase struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StudentID    uint      `gorm:"not null;index" json:"student_id"`
	ProductID    uint      `gorm:"not null;index" json:"product_id"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	TotalPrice   int       `gorm:"not null" json:"total_price"`
	Requirements string    `gorm:"type:text" json:"requirements"`
	Status       string    `gorm:"size:32;not null" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
