package service

import (
	"context"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/emmaus-school/talent-api/internal/ledger"
	"github.com/emmaus-school/talent-api/internal/models"
)

// LedgerEngine is the write path every service mutates balances through.
// Satisfied by *ledger.Engine; faked in tests.
type LedgerEngine interface {
	SetAttendance(ctx context.Context, studentID uint, date time.Time, status models.AttendanceStatus) (ledger.AttendanceResult, error)
	DeleteAttendance(ctx context.Context, recordID uint) error
	SetAttendanceComment(ctx context.Context, recordID uint, comment string) error
	ToggleActivity(ctx context.Context, studentID uint, date time.Time, kind models.ActivityKind, desired bool) (ledger.ActivityResult, error)
	AdjustTalents(ctx context.Context, studentIDs []uint, amount int, reason string, byTeacherID *uint) []ledger.AdjustResult
	Grant(ctx context.Context, teacherID, studentID uint, amount int, reason string) (ledger.GrantResult, error)
	Transfer(ctx context.Context, teacherID, studentID uint, amount int, reason string) (ledger.GrantResult, error)
	Purchase(ctx context.Context, studentID, productID uint, quantity int, requirements string) (ledger.PurchaseResult, error)
	WeekGrantRemaining(ctx context.Context, teacherID uint) (int, error)
}

var textPolicy = bluemonday.StrictPolicy()

// sanitizeText strips markup from free-text input before it lands in a
// history row or comment.
func sanitizeText(input string) string {
	return strings.TrimSpace(textPolicy.Sanitize(input))
}

// parseDay parses a YYYY-MM-DD request field. Validation has already run, so
// a parse failure here is a programming error surfaced as-is.
func parseDay(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
