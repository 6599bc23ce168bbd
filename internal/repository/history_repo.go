package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emmaus-school/talent-api/internal/models"
)

// HistoryFilter scopes a history listing.
type HistoryFilter struct {
	Page     int
	PageSize int
}

// HistoryRepository reads the append-only talent history logs. Writes go
// through the ledger engine only.
type HistoryRepository interface {
	ListStudent(ctx context.Context, studentID uint, filter HistoryFilter) ([]models.TalentHistory, int64, error)
	ListTeacher(ctx context.Context, teacherID uint, filter HistoryFilter) ([]models.TeacherTalentHistory, int64, error)
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository constructs a history repository.
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) ListStudent(ctx context.Context, studentID uint, filter HistoryFilter) ([]models.TalentHistory, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TalentHistory{}).Where("student_id = ?", studentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.TalentHistory
	if err := paginate(query, filter).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *historyRepository) ListTeacher(ctx context.Context, teacherID uint, filter HistoryFilter) ([]models.TeacherTalentHistory, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TeacherTalentHistory{}).Where("teacher_id = ?", teacherID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.TeacherTalentHistory
	if err := paginate(query, filter).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func paginate(query *gorm.DB, filter HistoryFilter) *gorm.DB {
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
