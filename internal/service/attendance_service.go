package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/emmaus-school/talent-api/internal/dto"
	"github.com/emmaus-school/talent-api/internal/ledger"
	"github.com/emmaus-school/talent-api/internal/models"
	"github.com/emmaus-school/talent-api/pkg/events"
)

// AttendanceService exposes the attendance-side ledger operations.
type AttendanceService interface {
	SetStatus(ctx context.Context, payload dto.AttendanceSetRequest) (ledger.AttendanceResult, error)
	Delete(ctx context.Context, recordID uint) error
	SetComment(ctx context.Context, recordID uint, payload dto.AttendanceCommentRequest) error
}

type attendanceService struct {
	engine    LedgerEngine
	validator *validator.Validate
	publisher events.Publisher
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewAttendanceService constructs an AttendanceService instance.
func NewAttendanceService(engine LedgerEngine, validate *validator.Validate, publisher events.Publisher, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		engine:    engine,
		validator: validate,
		publisher: publisher,
		logger:    logger.With().Str("component", "attendance_service").Logger(),
		tracer:    otel.Tracer("github.com/emmaus-school/talent-api/internal/service/attendance"),
	}
}

func (s *attendanceService) SetStatus(ctx context.Context, payload dto.AttendanceSetRequest) (ledger.AttendanceResult, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.set_status")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return ledger.AttendanceResult{}, err
	}

	date, err := parseDay(payload.Date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid date")
		return ledger.AttendanceResult{}, err
	}

	span.SetAttributes(
		attribute.Int("student.id", int(payload.StudentID)),
		attribute.String("attendance.status", payload.Status),
	)

	result, err := s.engine.SetAttendance(ctx, payload.StudentID, date, models.AttendanceStatus(payload.Status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ledger write failed")
		return ledger.AttendanceResult{}, err
	}

	if result.StudentDelta != 0 {
		s.publisher.Publish(ctx, events.Event{
			Kind:       "attendance",
			EntityKind: "student",
			EntityID:   payload.StudentID,
			Amount:     result.StudentDelta,
			Balance:    result.StudentBalance,
			Reason:     payload.Status,
		})
	}

	s.logger.Info().
		Uint("student_id", payload.StudentID).
		Str("date", payload.Date).
		Str("status", payload.Status).
		Int("delta", result.StudentDelta).
		Bool("cascade", result.CascadeApplied).
		Msg("attendance status set")

	return result, nil
}

func (s *attendanceService) Delete(ctx context.Context, recordID uint) error {
	ctx, span := s.tracer.Start(ctx, "attendance.delete")
	defer span.End()
	span.SetAttributes(attribute.Int("attendance.record_id", int(recordID)))

	if err := s.engine.DeleteAttendance(ctx, recordID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ledger write failed")
		return err
	}

	s.logger.Info().Uint("record_id", recordID).Msg("attendance record deleted")
	return nil
}

func (s *attendanceService) SetComment(ctx context.Context, recordID uint, payload dto.AttendanceCommentRequest) error {
	ctx, span := s.tracer.Start(ctx, "attendance.set_comment")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return err
	}

	return s.engine.SetAttendanceComment(ctx, recordID, sanitizeText(payload.Comment))
}
