package ledger

import "errors"

// Validation errors: rejected before any state is read.
var (
	ErrInvalidDate     = errors.New("date is not an attendance day")
	ErrInvalidStatus   = errors.New("invalid attendance status")
	ErrInvalidActivity = errors.New("unknown activity kind")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidQuantity = errors.New("quantity must be at least one")
)

// Constraint errors: rejected after a read but before any write.
var (
	ErrCapExceeded                = errors.New("weekly grant cap exceeded")
	ErrInsufficientTeacherBalance = errors.New("teacher balance is insufficient")
	ErrInsufficientBalance        = errors.New("student balance is insufficient")
	ErrInsufficientStock          = errors.New("product stock is insufficient")
	ErrProductUnavailable         = errors.New("product is not available")
)

// Not-found errors. A teacher that cannot be resolved during an attendance
// cascade is deliberately not one of these; that lookup failing skips the
// cascade and commits the student side.
var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrTeacherNotFound    = errors.New("teacher not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
