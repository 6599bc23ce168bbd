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

// ActivityService toggles the weekly activity checkboxes.
type ActivityService interface {
	Toggle(ctx context.Context, payload dto.ActivityToggleRequest) (ledger.ActivityResult, error)
}

type activityService struct {
	engine    LedgerEngine
	validator *validator.Validate
	publisher events.Publisher
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewActivityService constructs an ActivityService instance.
func NewActivityService(engine LedgerEngine, validate *validator.Validate, publisher events.Publisher, logger zerolog.Logger) ActivityService {
	return &activityService{
		engine:    engine,
		validator: validate,
		publisher: publisher,
		logger:    logger.With().Str("component", "activity_service").Logger(),
		tracer:    otel.Tracer("github.com/emmaus-school/talent-api/internal/service/activity"),
	}
}

func (s *activityService) Toggle(ctx context.Context, payload dto.ActivityToggleRequest) (ledger.ActivityResult, error) {
	ctx, span := s.tracer.Start(ctx, "activity.toggle")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return ledger.ActivityResult{}, err
	}

	date, err := parseDay(payload.Date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid date")
		return ledger.ActivityResult{}, err
	}

	span.SetAttributes(
		attribute.Int("student.id", int(payload.StudentID)),
		attribute.String("activity.kind", payload.Kind),
	)

	result, err := s.engine.ToggleActivity(ctx, payload.StudentID, date, models.ActivityKind(payload.Kind), *payload.Value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ledger write failed")
		return ledger.ActivityResult{}, err
	}

	if result.Delta != 0 {
		s.publisher.Publish(ctx, events.Event{
			Kind:       "activity",
			EntityKind: "student",
			EntityID:   payload.StudentID,
			Amount:     result.Delta,
			Balance:    result.Balance,
			Reason:     payload.Kind,
		})
	}

	s.logger.Info().
		Uint("student_id", payload.StudentID).
		Str("kind", payload.Kind).
		Bool("value", *payload.Value).
		Int("delta", result.Delta).
		Msg("activity flag toggled")

	return result, nil
}
