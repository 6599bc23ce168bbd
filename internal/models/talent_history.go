package models

import "time"

// HistoryType tags the category of a balance change.
type HistoryType string

const (
	HistoryAttendance HistoryType = "attendance"
	HistoryActivity   HistoryType = "activity"
	HistoryManual     HistoryType = "manual"
	HistoryTransfer   HistoryType = "transfer"
	HistoryPurchase   HistoryType = "purchase"
	HistoryDelete     HistoryType = "delete"
	HistoryCorrection HistoryType = "correction"
)

// TalentHistory is an append-only record of one student balance change.
// Rows are never updated or deleted; a reversal appends a new row.
// AfterBalance must always equal BeforeBalance + Amount.
type TalentHistory struct {
	ID                 uint        `gorm:"primaryKey" json:"id"`
	StudentID          uint        `gorm:"not null;index" json:"student_id"`
	Amount             int         `gorm:"not null" json:"amount"`
	BeforeBalance      int         `gorm:"not null" json:"before_balance"`
	AfterBalance       int         `gorm:"not null" json:"after_balance"`
	Reason             string      `gorm:"size:512" json:"reason"`
	Type               HistoryType `gorm:"size:32;not null;index" json:"type"`
	CreatedByTeacherID *uint       `gorm:"index" json:"created_by_teacher_id,omitempty"`
	AttendanceRecordID *uint       `gorm:"index" json:"attendance_record_id,omitempty"`
	CreatedAt          time.Time   `gorm:"index" json:"created_at"`
}

// TeacherTalentHistory is the teacher-side counterpart of TalentHistory.
type TeacherTalentHistory struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	TeacherID     uint        `gorm:"not null;index" json:"teacher_id"`
	Amount        int         `gorm:"not null" json:"amount"`
	BeforeBalance int         `gorm:"not null" json:"before_balance"`
	AfterBalance  int         `gorm:"not null" json:"after_balance"`
	Reason        string      `gorm:"size:512" json:"reason"`
	Type          HistoryType `gorm:"size:32;not null;index" json:"type"`
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`
}
