package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/emmaus-school/talent-api/internal/dto"
	"github.com/emmaus-school/talent-api/internal/repository"
)

// SummaryService produces class-level balance overviews. Results are cached
// briefly; the cache is read-side only and expires by TTL, never invalidated
// by writes.
type SummaryService interface {
	ClassSummary(ctx context.Context, class string) (dto.ClassSummaryResponse, error)
}

type summaryService struct {
	students repository.StudentRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewSummaryService builds the class summary aggregator.
func NewSummaryService(students repository.StudentRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) SummaryService {
	return &summaryService{
		students: students,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "summary_service").Logger(),
	}
}

func (s *summaryService) ClassSummary(ctx context.Context, class string) (dto.ClassSummaryResponse, error) {
	cacheKey := fmt.Sprintf("summary:class:%s", class)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.ClassSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("class", class).Msg("summary cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read summary cache")
		}
	}

	students, err := s.students.ListByClass(ctx, class)
	if err != nil {
		return dto.ClassSummaryResponse{}, err
	}

	response := dto.ClassSummaryResponse{
		Class:        class,
		StudentCount: len(students),
		Students:     make([]dto.StudentBalanceEntry, 0, len(students)),
	}
	for _, student := range students {
		response.TotalTalents += student.Talents
		response.Students = append(response.Students, dto.StudentBalanceEntry{
			StudentID: student.ID,
			Name:      student.Name,
			Talents:   student.Talents,
		})
	}

	if s.cache != nil {
		if payload, marshalErr := json.Marshal(response); marshalErr == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store summary cache")
			}
		}
	}

	return response, nil
}
