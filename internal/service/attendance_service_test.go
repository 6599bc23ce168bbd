package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/emmaus-school/talent-api/internal/dto"
	"github.com/emmaus-school/talent-api/internal/ledger"
	"github.com/emmaus-school/talent-api/pkg/events"
)

func TestAttendanceServiceRejectsBadPayload(t *testing.T) {
	engine := &fakeEngine{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAttendanceService(engine, validate, events.NewNop(), testLogger())

	_, err := svc.SetStatus(context.Background(), dto.AttendanceSetRequest{
		StudentID: 1,
		Date:      "06-09-2026",
		Status:    "present",
	})
	require.Error(t, err, "date must be YYYY-MM-DD")

	_, err = svc.SetStatus(context.Background(), dto.AttendanceSetRequest{
		StudentID: 1,
		Date:      "2026-09-06",
		Status:    "vacation",
	})
	require.Error(t, err, "status must be one of present/absent/late")
}

func TestAttendanceServiceParsesDateAndDelegates(t *testing.T) {
	engine := &fakeEngine{attendanceResult: ledger.AttendanceResult{StudentDelta: 10, StudentBalance: 10}}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAttendanceService(engine, validate, events.NewNop(), testLogger())

	result, err := svc.SetStatus(context.Background(), dto.AttendanceSetRequest{
		StudentID: 1,
		Date:      "2026-09-06",
		Status:    "present",
	})
	require.NoError(t, err)
	require.Equal(t, 10, result.StudentDelta)
	require.Equal(t, time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC), engine.lastDate)
}

func TestAttendanceServiceSanitizesComment(t *testing.T) {
	engine := &fakeEngine{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAttendanceService(engine, validate, events.NewNop(), testLogger())

	err := svc.SetComment(context.Background(), 1, dto.AttendanceCommentRequest{
		Comment: "  <script>alert(1)</script>came with cousin ",
	})
	require.NoError(t, err)
	require.Equal(t, "came with cousin", engine.lastComment)
}

func TestActivityServiceRequiresExplicitValue(t *testing.T) {
	engine := &fakeEngine{activityResult: ledger.ActivityResult{Delta: -10}}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewActivityService(engine, validate, events.NewNop(), testLogger())

	_, err := svc.Toggle(context.Background(), dto.ActivityToggleRequest{
		StudentID: 1,
		Date:      "2026-09-06",
		Kind:      "scripture",
	})
	require.Error(t, err, "value must be present")

	value := false
	result, err := svc.Toggle(context.Background(), dto.ActivityToggleRequest{
		StudentID: 1,
		Date:      "2026-09-06",
		Kind:      "quiet_time",
		Value:     &value,
	})
	require.NoError(t, err)
	require.Equal(t, -10, result.Delta)
	require.False(t, engine.lastDesired, "an explicit false must reach the engine")
}
