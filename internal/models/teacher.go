package models

import "time"

// Teacher represents a class teacher with their own talent balance.
type Teacher struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Class     string    `gorm:"size:64;index" json:"class"`
	Talents   int       `gorm:"not null;default:0" json:"talents"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
