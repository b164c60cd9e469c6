package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"shopcatalog/catalog-service/internal/app/catalog/entity"
	"shopcatalog/catalog-service/internal/app/catalog/repository"
	"shopcatalog/catalog-service/internal/app/catalog/util"
	"shopcatalog/pkg/logger"
	"shopcatalog/pkg/metrics"
)

// maxSlugAttempts ограничивает повторные INSERT при конкурентном захвате slug
const maxSlugAttempts = 5

// CatalogService координирует репозитории и публикацию событий о товарах
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	publisher    util.MessagePublisher
}

// NewCatalogService создает сервис каталога. publisher не может быть nil:
// при выключенной Kafka передается util.NoopPublisher.
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	publisher util.MessagePublisher,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		publisher:    publisher,
	}
}

// === CATEGORIES ===

// CreateCategory создает категорию. Дубликат cname отсекает уникальный индекс.
func (s *CatalogService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	category := &entity.Category{
		Cname:       req.Cname,
		Description: req.Description,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			return nil, ErrCategoryExists
		}
		logger.Error().Err(err).Str("cname", req.Cname).Msg("Failed to create category")
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	metrics.CatalogCategoriesCreated.Inc()
	logger.Info().Uint("category_id", category.ID).Str("cname", category.Cname).Msg("Category created")

	return category, nil
}

func (s *CatalogService) GetAllCategories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to get categories")
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return categories, nil
}

// === PRODUCTS ===

// CreateProduct создает товар со slug = name. Занятый slug получает суффикс
// "-1", "-2", ... Если между проверкой и INSERT slug занял другой запрос,
// подбор повторяется (не больше maxSlugAttempts раз).
func (s *CatalogService) CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error) {
	product := &entity.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}

	for attempt := 1; ; attempt++ {
		slug, err := s.freeSlug(ctx, req.Name)
		if err != nil {
			logger.Error().Err(err).Str("name", req.Name).Msg("Failed to derive product slug")
			return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
		}
		product.Slug = slug

		err = s.productRepo.Create(ctx, product)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrSlugTaken) || attempt >= maxSlugAttempts {
			logger.Error().Err(err).Str("slug", slug).Int("attempt", attempt).Msg("Failed to create product")
			return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
		}
		logger.Warn().Str("slug", slug).Int("attempt", attempt).Msg("Slug taken concurrently, retrying")
	}

	metrics.CatalogProductsCreated.WithLabelValues("single").Inc()
	logger.Info().Uint("product_id", product.ID).Str("slug", product.Slug).Msg("Product created")

	s.publishProductEvents(ctx, entity.EventProductCreated, []entity.Product{*product})

	return product, nil
}

// freeSlug возвращает name, если он свободен, иначе первый свободный name-N.
// Занятые slug читаются одним запросом, перебор идет в памяти.
func (s *CatalogService) freeSlug(ctx context.Context, name string) (string, error) {
	slugs, err := s.productRepo.TakenSlugs(ctx, name)
	if err != nil {
		return "", err
	}

	taken := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		taken[slug] = struct{}{}
	}
	if _, ok := taken[name]; !ok {
		return name, nil
	}

	metrics.CatalogSlugCollisions.Inc()
	// len(taken)+1 кандидатов хватает: хотя бы один из них свободен
	for n := 1; ; n++ {
		candidate := name + "-" + strconv.Itoa(n)
		if _, ok := taken[candidate]; !ok {
			return candidate, nil
		}
	}
}

// BulkCreateProducts вставляет все товары одной операцией. slug = name без
// обработки коллизий: дубликат роняет всю вставку.
func (s *CatalogService) BulkCreateProducts(ctx context.Context, reqs []*entity.CreateProductRequest) ([]entity.Product, error) {
	products := make([]entity.Product, 0, len(reqs))
	for _, req := range reqs {
		products = append(products, entity.Product{
			Name:        req.Name,
			Price:       req.Price,
			Description: req.Description,
			Slug:        req.Name,
			CategoryID:  req.CategoryID,
		})
	}

	if err := s.productRepo.BulkCreate(ctx, products); err != nil {
		logger.Error().Err(err).Int("count", len(products)).Msg("Failed to bulk create products")
		return nil, fmt.Errorf("%w: %w", ErrBulkInsertFailed, err)
	}

	metrics.CatalogProductsCreated.WithLabelValues("bulk").Add(float64(len(products)))
	logger.Info().Int("count", len(products)).Msg("Products bulk created")

	s.publishProductEvents(ctx, entity.EventProductCreated, products)

	return products, nil
}

func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error().Err(err).Str("slug", slug).Msg("Failed to get product")
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return product, nil
}

// UpdateProduct проверяет существование товара и меняет только переданные поля.
// Пустой набор полей ничего не пишет.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req *entity.UpdateProductRequest) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		logger.Error().Err(err).Uint("product_id", id).Msg("Failed to load product for update")
		return fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}

	changes := req.Changes()
	if len(changes) == 0 {
		return nil
	}

	if err := s.productRepo.Update(ctx, id, changes); err != nil {
		// товар удалили между проверкой и UPDATE
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		logger.Error().Err(err).Uint("product_id", id).Msg("Failed to update product")
		return fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}

	req.ApplyTo(product)
	logger.Info().Uint("product_id", id).Int("fields", len(changes)).Msg("Product updated")

	s.publishProductEvents(ctx, entity.EventProductUpdated, []entity.Product{*product})

	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		logger.Error().Err(err).Uint("product_id", id).Msg("Failed to load product for delete")
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		logger.Error().Err(err).Uint("product_id", id).Msg("Failed to delete product")
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}

	logger.Info().Uint("product_id", id).Msg("Product deleted")

	s.publishProductEvents(ctx, entity.EventProductDeleted, []entity.Product{*product})

	return nil
}

// ListProducts возвращает страницу товаров с именами категорий
func (s *CatalogService) ListProducts(ctx context.Context, query entity.ListProductsQuery) (*entity.ProductPage, error) {
	query = query.Normalize()

	total, err := s.productRepo.Count(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to count products")
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	if total == 0 {
		return nil, ErrNoProducts
	}

	items, err := s.productRepo.ListWithCategory(ctx, query.Offset(), query.Limit)
	if err != nil {
		logger.Error().Err(err).Int("page", query.Page).Int("limit", query.Limit).Msg("Failed to list products")
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	return &entity.ProductPage{
		Items: items,
		Total: total,
		Page:  query.Page,
		Limit: query.Limit,
	}, nil
}

// publishProductEvents отправляет события одним батчем.
// Ошибка Kafka не отменяет уже выполненную операцию, только логируется.
func (s *CatalogService) publishProductEvents(ctx context.Context, eventType string, products []entity.Product) {
	messages := make([]util.Message, 0, len(products))
	for i := range products {
		payload, err := json.Marshal(entity.NewProductEvent(eventType, &products[i]))
		if err != nil {
			logger.Warn().Err(err).Uint("product_id", products[i].ID).Msg("Failed to marshal product event")
			continue
		}
		messages = append(messages, util.Message{
			Key:   strconv.FormatUint(uint64(products[i].ID), 10),
			Value: payload,
		})
	}

	var err error
	if len(messages) == 1 {
		err = s.publisher.PublishMessage(ctx, messages[0].Key, messages[0].Value)
	} else {
		err = s.publisher.PublishMessages(ctx, messages)
	}
	if err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Int("count", len(messages)).Msg("Failed to publish product events")
	}
}
