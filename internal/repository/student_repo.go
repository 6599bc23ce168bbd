package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emmaus-school/talent-api/internal/models"
)

// StudentRepository provides read access to student records. Balance writes
// go through the ledger engine only.
type StudentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Student, error)
	ListByClass(ctx context.Context, class string) ([]models.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) ListByClass(ctx context.Context, class string) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).
		Where("class = ?", class).
		Order("name ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}
