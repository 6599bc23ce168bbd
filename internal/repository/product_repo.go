package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emmaus-school/talent-api/internal/models"
)

// ProductRepository provides read access to the reward store catalog.
type ProductRepository interface {
	List(ctx context.Context, onlyAvailable bool) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (models.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository constructs a product repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) List(ctx context.Context, onlyAvailable bool) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if onlyAvailable {
		query = query.Where("is_available = ?", true)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return models.Product{}, err
	}

	return product, nil
}
