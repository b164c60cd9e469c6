package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopcatalog/catalog-service/internal/app/catalog/entity"
	"shopcatalog/pkg/metrics"

	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create вставляет товар. Занятый slug возвращается как ErrSlugTaken,
// подбор следующего slug делает service layer.
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "product")

	err := r.db.WithContext(ctx).Create(product).Error
	if err != nil {
		if isUniqueViolation(err) {
			timer.Done(nil)
			metrics.RecordDbConflict(serviceName, "product")
			return ErrSlugTaken
		}
		timer.Done(err)
		return fmt.Errorf("failed to create product: %w", err)
	}

	timer.Done(nil)
	return nil
}

// BulkCreate вставляет все товары одним INSERT в транзакции: либо все, либо ни одного
func (r *productRepository) BulkCreate(ctx context.Context, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "product")

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&products).Error
	})
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to bulk create products: %w", err)
	}

	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*entity.Product, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *productRepository) first(ctx context.Context, query string, arg interface{}) (*entity.Product, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "product")

	var product entity.Product
	err := r.db.WithContext(ctx).Where(query, arg).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			timer.Done(nil)
			return nil, ErrProductNotFound
		}
		timer.Done(err)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	timer.Done(nil)
	return &product, nil
}

// TakenSlugs выбирает name и все slug с префиксом "name-".
// Спецсимволы LIKE в name экранируются, чтобы "50%_off" не совпадал с чужими slug.
func (r *productRepository) TakenSlugs(ctx context.Context, name string) ([]string, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "product")

	slugs := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("slug = ? OR slug LIKE ?", name, escapeLike(name)+"-%").
		Pluck("slug", &slugs).Error
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get taken slugs: %w", err)
	}

	return slugs, nil
}

// escapeLike экранирует \ % _ (в Postgres ESCAPE по умолчанию - обратный слэш)
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Update меняет только переданные колонки (ключи - имена колонок)
func (r *productRepository) Update(ctx context.Context, id uint, changes map[string]interface{}) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "product")

	result := r.db.WithContext(ctx).Model(&entity.Product{}).Where("id = ?", id).Updates(changes)
	timer.Done(result.Error)
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "product")

	result := r.db.WithContext(ctx).Delete(&entity.Product{}, id)
	timer.Done(result.Error)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "product")

	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Product{}).Count(&total).Error
	timer.Done(err)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return total, nil
}

// ListWithCategory возвращает страницу товаров с именем категории.
// LEFT JOIN: товар без существующей категории попадает в выдачу с cname = NULL.
func (r *productRepository) ListWithCategory(ctx context.Context, offset, limit int) ([]entity.ProductListItem, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "product")

	items := make([]entity.ProductListItem, 0)
	err := r.db.WithContext(ctx).
		Table("product").
		Select("product.id, product.name, product.price, product.description, product.slug, category.cname").
		Joins("LEFT JOIN category ON product.category_id = category.id").
		Order("product.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&items).Error
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return items, nil
}
