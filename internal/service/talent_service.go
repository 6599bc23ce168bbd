package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/emmaus-school/talent-api/internal/dto"
	"github.com/emmaus-school/talent-api/internal/repository"
	"github.com/emmaus-school/talent-api/pkg/events"
)

// ErrUnknownEntityKind indicates a history query for something other than a
// student or teacher.
var ErrUnknownEntityKind = errors.New("unknown entity kind")

// TalentService covers manual adjustments, teacher grants/transfers and
// history queries.
type TalentService interface {
	Adjust(ctx context.Context, payload dto.AdjustRequest, byTeacherID *uint) ([]dto.AdjustEntryResponse, error)
	GrantOrTransfer(ctx context.Context, payload dto.GrantRequest) (dto.GrantResponse, error)
	History(ctx context.Context, entityKind string, entityID uint, filter repository.HistoryFilter) (dto.HistoryResponse, error)
	WeekGrantRemaining(ctx context.Context, teacherID uint) (int, error)
}

type talentService struct {
	engine    LedgerEngine
	history   repository.HistoryRepository
	validator *validator.Validate
	publisher events.Publisher
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewTalentService constructs a TalentService instance.
func NewTalentService(engine LedgerEngine, history repository.HistoryRepository, validate *validator.Validate, publisher events.Publisher, logger zerolog.Logger) TalentService {
	return &talentService{
		engine:    engine,
		history:   history,
		validator: validate,
		publisher: publisher,
		logger:    logger.With().Str("component", "talent_service").Logger(),
		tracer:    otel.Tracer("github.com/emmaus-school/talent-api/internal/service/talent"),
	}
}

func (s *talentService) Adjust(ctx context.Context, payload dto.AdjustRequest, byTeacherID *uint) ([]dto.AdjustEntryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "talent.adjust")
	defer span.End()
	span.SetAttributes(
		attribute.Int("adjust.targets", len(payload.StudentIDs)),
		attribute.Int("adjust.amount", payload.Amount),
	)

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	reason := sanitizeText(payload.Reason)
	results := s.engine.AdjustTalents(ctx, payload.StudentIDs, payload.Amount, reason, byTeacherID)

	responses := make([]dto.AdjustEntryResponse, 0, len(results))
	succeeded := 0
	for _, result := range results {
		entry := dto.AdjustEntryResponse{StudentID: result.StudentID}
		if result.Err != nil {
			entry.Error = result.Err.Error()
		} else {
			entry.Success = true
			entry.Before = result.Before
			entry.After = result.After
			succeeded++
			s.publisher.Publish(ctx, events.Event{
				Kind:       "adjustment",
				EntityKind: "student",
				EntityID:   result.StudentID,
				Amount:     payload.Amount,
				Balance:    result.After,
				Reason:     reason,
			})
		}
		responses = append(responses, entry)
	}

	s.logger.Info().
		Int("targets", len(payload.StudentIDs)).
		Int("succeeded", succeeded).
		Int("amount", payload.Amount).
		Msg("bulk adjustment applied")

	return responses, nil
}

func (s *talentService) GrantOrTransfer(ctx context.Context, payload dto.GrantRequest) (dto.GrantResponse, error) {
	ctx, span := s.tracer.Start(ctx, "talent.grant")
	defer span.End()
	span.SetAttributes(
		attribute.Int("grant.teacher_id", int(payload.TeacherID)),
		attribute.Int("grant.student_id", int(payload.StudentID)),
		attribute.Bool("grant.use_own_balance", payload.UseOwnBalance),
	)

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.GrantResponse{}, err
	}

	reason := sanitizeText(payload.Reason)

	if payload.UseOwnBalance {
		result, err := s.engine.Transfer(ctx, payload.TeacherID, payload.StudentID, payload.Amount, reason)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "transfer failed")
			return dto.GrantResponse{}, err
		}

		s.publisher.Publish(ctx, events.Event{
			Kind:       "transfer",
			EntityKind: "student",
			EntityID:   payload.StudentID,
			Amount:     payload.Amount,
			Balance:    result.StudentAfter,
			Reason:     reason,
		})
		s.logger.Info().
			Uint("teacher_id", payload.TeacherID).
			Uint("student_id", payload.StudentID).
			Int("amount", payload.Amount).
			Msg("talent transfer completed")

		return dto.GrantResponse{
			Transfer:      true,
			StudentBefore: result.StudentBefore,
			StudentAfter:  result.StudentAfter,
			TeacherBefore: result.TeacherBefore,
			TeacherAfter:  result.TeacherAfter,
		}, nil
	}

	result, err := s.engine.Grant(ctx, payload.TeacherID, payload.StudentID, payload.Amount, reason)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grant failed")
		return dto.GrantResponse{}, err
	}

	s.publisher.Publish(ctx, events.Event{
		Kind:       "grant",
		EntityKind: "student",
		EntityID:   payload.StudentID,
		Amount:     payload.Amount,
		Balance:    result.StudentAfter,
		Reason:     reason,
	})
	s.logger.Info().
		Uint("teacher_id", payload.TeacherID).
		Uint("student_id", payload.StudentID).
		Int("amount", payload.Amount).
		Msg("manual grant applied")

	return dto.GrantResponse{
		StudentBefore: result.StudentBefore,
		StudentAfter:  result.StudentAfter,
	}, nil
}

func (s *talentService) History(ctx context.Context, entityKind string, entityID uint, filter repository.HistoryFilter) (dto.HistoryResponse, error) {
	switch entityKind {
	case "student":
		rows, total, err := s.history.ListStudent(ctx, entityID, filter)
		if err != nil {
			return dto.HistoryResponse{}, err
		}
		return dto.NewStudentHistoryResponse(entityID, rows, total), nil
	case "teacher":
		rows, total, err := s.history.ListTeacher(ctx, entityID, filter)
		if err != nil {
			return dto.HistoryResponse{}, err
		}
		return dto.NewTeacherHistoryResponse(entityID, rows, total), nil
	default:
		return dto.HistoryResponse{}, ErrUnknownEntityKind
	}
}

func (s *talentService) WeekGrantRemaining(ctx context.Context, teacherID uint) (int, error) {
	return s.engine.WeekGrantRemaining(ctx, teacherID)
}
