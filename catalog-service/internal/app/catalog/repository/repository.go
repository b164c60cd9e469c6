package repository

import (
	"context"
	"errors"

	"shopcatalog/catalog-service/internal/app/catalog/entity"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// serviceName - значение label service в метриках БД
const serviceName = "catalog-service"

var (
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
	ErrProductNotFound       = errors.New("product not found")
	ErrSlugTaken             = errors.New("product slug already taken")
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetAll(ctx context.Context) ([]entity.Category, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	BulkCreate(ctx context.Context, products []entity.Product) error
	GetByID(ctx context.Context, id uint) (*entity.Product, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Product, error)
	// TakenSlugs возвращает занятые slug вида name и name-<суффикс> одним запросом
	TakenSlugs(ctx context.Context, name string) ([]string, error)
	Update(ctx context.Context, id uint, changes map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	ListWithCategory(ctx context.Context, offset, limit int) ([]entity.ProductListItem, error)
}

// isUniqueViolation распознает нарушение UNIQUE constraint (SQLSTATE 23505)
// как от pgx, так и после трансляции ошибок GORM
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
