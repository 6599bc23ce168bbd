package models

import "time"

// Student represents an enrolled child with a talent balance.
//
// TeacherName is a denormalized back-reference kept as plain text, not a
// foreign key; the roster data does not guarantee a matching Teacher row.
type Student struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Class       string    `gorm:"size:64;index" json:"class"`
	TeacherName string    `gorm:"size:255" json:"teacher_name"`
	Phone       string    `gorm:"size:32" json:"phone"`
	Talents     int       `gorm:"not null;default:0" json:"talents"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
