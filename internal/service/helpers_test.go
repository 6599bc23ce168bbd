package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/emmaus-school/talent-api/internal/ledger"
	"github.com/emmaus-school/talent-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// fakeEngine records calls and replays canned results.
type fakeEngine struct {
	attendanceResult ledger.AttendanceResult
	activityResult   ledger.ActivityResult
	adjustResults    []ledger.AdjustResult
	grantResult      ledger.GrantResult
	transferResult   ledger.GrantResult
	purchaseResult   ledger.PurchaseResult
	remaining        int
	err              error

	grantCalls    int
	transferCalls int
	lastComment   string
	lastReason    string
	lastDate      time.Time
	lastDesired   bool
}

func (f *fakeEngine) SetAttendance(_ context.Context, _ uint, date time.Time, _ models.AttendanceStatus) (ledger.AttendanceResult, error) {
	f.lastDate = date
	return f.attendanceResult, f.err
}

func (f *fakeEngine) DeleteAttendance(context.Context, uint) error {
	return f.err
}

func (f *fakeEngine) SetAttendanceComment(_ context.Context, _ uint, comment string) error {
	f.lastComment = comment
	return f.err
}

func (f *fakeEngine) ToggleActivity(_ context.Context, _ uint, date time.Time, _ models.ActivityKind, desired bool) (ledger.ActivityResult, error) {
	f.lastDate = date
	f.lastDesired = desired
	return f.activityResult, f.err
}

func (f *fakeEngine) AdjustTalents(_ context.Context, _ []uint, _ int, reason string, _ *uint) []ledger.AdjustResult {
	f.lastReason = reason
	return f.adjustResults
}

func (f *fakeEngine) Grant(_ context.Context, _, _ uint, _ int, reason string) (ledger.GrantResult, error) {
	f.grantCalls++
	f.lastReason = reason
	return f.grantResult, f.err
}

func (f *fakeEngine) Transfer(_ context.Context, _, _ uint, _ int, reason string) (ledger.GrantResult, error) {
	f.transferCalls++
	f.lastReason = reason
	return f.transferResult, f.err
}

func (f *fakeEngine) Purchase(_ context.Context, _, _ uint, _ int, requirements string) (ledger.PurchaseResult, error) {
	f.lastReason = requirements
	return f.purchaseResult, f.err
}

func (f *fakeEngine) WeekGrantRemaining(context.Context, uint) (int, error) {
	return f.remaining, f.err
}
