package dto

// AttendanceSetRequest writes the attendance status for a student on a date.
type AttendanceSetRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required,oneof=present absent late"`
}

// AttendanceCommentRequest updates the free-text comment on a record.
type AttendanceCommentRequest struct {
	Comment string `json:"comment" validate:"max=500"`
}

// ActivityToggleRequest flips one weekly activity flag to a desired value.
// Value is a pointer so an explicit false survives validation.
type ActivityToggleRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Kind      string `json:"kind" validate:"required,oneof=scripture recitation quiet_time phone_check"`
	Value     *bool  `json:"value" validate:"required"`
}
