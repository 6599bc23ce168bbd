package dto

import (
	"time"

	"github.com/emmaus-school/talent-api/internal/models"
)

// AdjustRequest applies the same signed amount to each listed student.
type AdjustRequest struct {
	StudentIDs []uint `json:"student_ids" validate:"required,min=1,dive,required"`
	Amount     int    `json:"amount" validate:"required"`
	Reason     string `json:"reason" validate:"max=255"`
}

// AdjustEntryResponse is the per-student outcome of a bulk adjustment.
type AdjustEntryResponse struct {
	StudentID uint   `json:"student_id"`
	Success   bool   `json:"success"`
	Before    int    `json:"before,omitempty"`
	After     int    `json:"after,omitempty"`
	Error     string `json:"error,omitempty"`
}

// GrantRequest either grants talents on a teacher's behalf (capped weekly)
// or transfers from the teacher's own balance when UseOwnBalance is set.
type GrantRequest struct {
	TeacherID     uint   `json:"teacher_id" validate:"required"`
	StudentID     uint   `json:"student_id" validate:"required"`
	Amount        int    `json:"amount" validate:"required"`
	Reason        string `json:"reason" validate:"max=255"`
	UseOwnBalance bool   `json:"use_own_balance"`
}

// GrantResponse reports before/after balances for the affected sides.
type GrantResponse struct {
	Transfer      bool `json:"transfer"`
	StudentBefore int  `json:"student_before"`
	StudentAfter  int  `json:"student_after"`
	TeacherBefore int  `json:"teacher_before,omitempty"`
	TeacherAfter  int  `json:"teacher_after,omitempty"`
}

// HistoryEntryResponse is one row of a talent history listing, newest first.
type HistoryEntryResponse struct {
	ID            uint      `json:"id"`
	Amount        int       `json:"amount"`
	BeforeBalance int       `json:"before_balance"`
	AfterBalance  int       `json:"after_balance"`
	Reason        string    `json:"reason"`
	Type          string    `json:"type"`
	CreatedAt     time.Time `json:"created_at"`
}

// HistoryResponse wraps a history page with its total row count.
type HistoryResponse struct {
	EntityKind string                 `json:"entity_kind"`
	EntityID   uint                   `json:"entity_id"`
	Total      int64                  `json:"total"`
	Entries    []HistoryEntryResponse `json:"entries"`
}

// NewStudentHistoryResponse maps student history rows to the API shape.
func NewStudentHistoryResponse(studentID uint, rows []models.TalentHistory, total int64) HistoryResponse {
	entries := make([]HistoryEntryResponse, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, HistoryEntryResponse{
			ID:            row.ID,
			Amount:        row.Amount,
			BeforeBalance: row.BeforeBalance,
			AfterBalance:  row.AfterBalance,
			Reason:        row.Reason,
			Type:          string(row.Type),
			CreatedAt:     row.CreatedAt,
		})
	}
	return HistoryResponse{EntityKind: "student", EntityID: studentID, Total: total, Entries: entries}
}

// NewTeacherHistoryResponse maps teacher history rows to the API shape.
func NewTeacherHistoryResponse(teacherID uint, rows []models.TeacherTalentHistory, total int64) HistoryResponse {
	entries := make([]HistoryEntryResponse, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, HistoryEntryResponse{
			ID:            row.ID,
			Amount:        row.Amount,
			BeforeBalance: row.BeforeBalance,
			AfterBalance:  row.AfterBalance,
			Reason:        row.Reason,
			Type:          string(row.Type),
			CreatedAt:     row.CreatedAt,
		})
	}
	return HistoryResponse{EntityKind: "teacher", EntityID: teacherID, Total: total, Entries: entries}
}
