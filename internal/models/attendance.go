package models

import (
	"time"

	"gorm.io/datatypes"
)

// AttendanceStatus represents the status stored on an attendance record.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	default:
		return false
	}
}

// AttendanceRecord is the per (student, date) attendance row. Created on the
// first status write for a date and updated in place afterwards; the comment
// carries no talent effect.
type AttendanceRecord struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	StudentID uint             `gorm:"not null;uniqueIndex:idx_attendance_student_date" json:"student_id"`
	Date      datatypes.Date   `gorm:"not null;uniqueIndex:idx_attendance_student_date" json:"date"`
	Status    AttendanceStatus `gorm:"size:16;not null" json:"status"`
	Comment   string           `gorm:"type:text" json:"comment"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
