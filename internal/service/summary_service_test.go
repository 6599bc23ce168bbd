package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/emmaus-school/talent-api/internal/models"
)

type memoryStudentRepo struct {
	students []models.Student
	calls    int
}

func (m *memoryStudentRepo) GetByID(_ context.Context, id uint) (models.Student, error) {
	for _, s := range m.students {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Student{}, nil
}

func (m *memoryStudentRepo) ListByClass(_ context.Context, class string) ([]models.Student, error) {
	m.calls++
	var out []models.Student
	for _, s := range m.students {
		if s.Class == class {
			out = append(out, s)
		}
	}
	return out, nil
}

func TestSummaryServiceAggregatesAndCaches(t *testing.T) {
	server := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})

	repo := &memoryStudentRepo{students: []models.Student{
		{ID: 1, Name: "Dana Lee", Class: "grade-5", Talents: 30},
		{ID: 2, Name: "Amin Yusuf", Class: "grade-5", Talents: 10},
		{ID: 3, Name: "Noa Kim", Class: "grade-6", Talents: 99},
	}}
	svc := NewSummaryService(repo, cache, time.Minute, testLogger())

	response, err := svc.ClassSummary(context.Background(), "grade-5")
	require.NoError(t, err)
	require.Equal(t, 2, response.StudentCount)
	require.Equal(t, 40, response.TotalTalents)
	require.Equal(t, 1, repo.calls)

	// Second read is served from the cache.
	response, err = svc.ClassSummary(context.Background(), "grade-5")
	require.NoError(t, err)
	require.Equal(t, 40, response.TotalTalents)
	require.Equal(t, 1, repo.calls)

	// TTL expiry falls back to the repository.
	server.FastForward(2 * time.Minute)
	_, err = svc.ClassSummary(context.Background(), "grade-5")
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
}

func TestSummaryServiceWorksWithoutCache(t *testing.T) {
	repo := &memoryStudentRepo{students: []models.Student{
		{ID: 1, Name: "Dana Lee", Class: "grade-5", Talents: 30},
	}}
	svc := NewSummaryService(repo, nil, time.Minute, testLogger())

	response, err := svc.ClassSummary(context.Background(), "grade-5")
	require.NoError(t, err)
	require.Equal(t, 30, response.TotalTalents)
}
