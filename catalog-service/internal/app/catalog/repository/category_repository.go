package repository

import (
	"context"
	"fmt"

	"shopcatalog/catalog-service/internal/app/catalog/entity"
	"shopcatalog/pkg/metrics"

	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository создает новый репозиторий категорий
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create вставляет категорию одним INSERT.
// Уникальность cname обеспечивает индекс idx_category_cname.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "category")

	err := r.db.WithContext(ctx).Create(category).Error
	if err != nil {
		if isUniqueViolation(err) {
			timer.Done(nil)
			metrics.RecordDbConflict(serviceName, "category")
			return ErrCategoryAlreadyExists
		}
		timer.Done(err)
		return fmt.Errorf("failed to create category: %w", err)
	}

	timer.Done(nil)
	return nil
}

// GetAll возвращает все категории по возрастанию id. Пустой результат - пустой срез, не nil.
func (r *categoryRepository) GetAll(ctx context.Context) ([]entity.Category, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "category")

	categories := make([]entity.Category, 0)
	err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	return categories, nil
}
