package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"shopcatalog/catalog-service/internal/app/catalog/entity"
	"shopcatalog/catalog-service/internal/app/catalog/service"
	"shopcatalog/catalog-service/internal/app/catalog/validation"

	"github.com/gin-gonic/gin"
)

// CatalogHandler обрабатывает HTTP запросы каталога
type CatalogHandler struct {
	catalogService  service.CatalogServiceInterface
	legacyStatus200 bool
}

// NewCatalogHandler создает обработчик. legacyStatus200 включает ответы 200 на любой исход.
func NewCatalogHandler(catalogService service.CatalogServiceInterface, legacyStatus200 bool) *CatalogHandler {
	return &CatalogHandler{
		catalogService:  catalogService,
		legacyStatus200: legacyStatus200,
	}
}

// === CATEGORIES HANDLERS ===

// CreateCategory обрабатывает POST /category/add
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	data, ok := h.bindAndValidate(c, validation.CategoryCreate)
	if !ok {
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), entity.NewCreateCategoryRequest(data))
	if err != nil {
		if errors.Is(err, service.ErrCategoryExists) {
			h.respondError(c, http.StatusConflict, "Category already exist")
			return
		}
		h.respondError(c, http.StatusInternalServerError, "failed to create category")
		return
	}

	h.respondData(c, http.StatusCreated, category)
}

// GetAllCategories обрабатывает GET /category/all
func (h *CatalogHandler) GetAllCategories(c *gin.Context) {
	categories, err := h.catalogService.GetAllCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, http.StatusInternalServerError, "Unable to get all category")
		return
	}

	h.respondData(c, http.StatusOK, categories)
}

// === PRODUCTS HANDLERS ===

// CreateProduct обрабатывает POST /product/add
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	data, ok := h.bindAndValidate(c, validation.ProductCreate)
	if !ok {
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), entity.NewCreateProductRequest(data))
	if err != nil {
		h.respondError(c, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.respondData(c, http.StatusCreated, product)
}

// BulkCreateProducts обрабатывает POST /product/addProduct (массив товаров)
func (h *CatalogHandler) BulkCreateProducts(c *gin.Context) {
	body, ok := h.bindBody(c)
	if !ok {
		return
	}

	records, err := validation.ProductCreate.ValidateList(body)
	if err != nil {
		h.respondValidationError(c, err)
		return
	}

	reqs := make([]*entity.CreateProductRequest, 0, len(records))
	for _, record := range records {
		reqs = append(reqs, entity.NewCreateProductRequest(record))
	}

	products, err := h.catalogService.BulkCreateProducts(c.Request.Context(), reqs)
	if err != nil {
		h.respondError(c, http.StatusInternalServerError, "Unable to add")
		return
	}

	h.respondData(c, http.StatusCreated, products)
}

// GetProductBySlug обрабатывает GET /product/:getByHandle
func (h *CatalogHandler) GetProductBySlug(c *gin.Context) {
	product, err := h.catalogService.GetProductBySlug(c.Request.Context(), c.Param("getByHandle"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrProductNotFound) {
			status = http.StatusNotFound
		}
		h.respondError(c, status, "Cant get product")
		return
	}

	h.respondData(c, http.StatusOK, product)
}

// UpdateProduct обрабатывает PUT /product/update/:productID
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	data, ok := h.bindAndValidate(c, validation.ProductUpdate)
	if !ok {
		return
	}

	// Нечисловой id не может существовать в таблице
	id, ok := parseID(c.Param("productID"))
	if !ok {
		h.respondError(c, http.StatusNotFound, "Product not exist")
		return
	}

	err := h.catalogService.UpdateProduct(c.Request.Context(), id, entity.NewUpdateProductRequest(data))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			h.respondError(c, http.StatusNotFound, "Product not exist")
			return
		}
		h.respondError(c, http.StatusInternalServerError, "failed to update product")
		return
	}

	h.respondData(c, http.StatusOK, "Product Updated")
}

// DeleteProduct обрабатывает DELETE /product/delete/:id
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.respondError(c, http.StatusNotFound, "Product not found")
		return
	}

	err := h.catalogService.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			h.respondError(c, http.StatusNotFound, "Product not found")
			return
		}
		h.respondError(c, http.StatusInternalServerError, "Cant delete product")
		return
	}

	h.respondData(c, http.StatusOK, "Product deleted")
}

// ListProducts обрабатывает GET /product?page=&limit=
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	// Каждый параметр разбирается отдельно: нечисловой page не сбрасывает limit
	query := entity.ListProductsQuery{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	}

	page, err := h.catalogService.ListProducts(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, service.ErrNoProducts) {
			h.respondError(c, http.StatusNotFound, "No products found")
			return
		}
		h.respondError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.respond(c, http.StatusOK, entity.ProductListResponse{
		Data:  page.Items,
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
	})
}

// bindBody декодирует JSON тело без привязки к структуре.
// Пустое тело считается пустым объектом.
func (h *CatalogHandler) bindBody(c *gin.Context) (interface{}, bool) {
	var body interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]interface{}{}, true
		}
		h.respondError(c, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return body, true
}

func (h *CatalogHandler) bindAndValidate(c *gin.Context, schema validation.Schema) (map[string]interface{}, bool) {
	body, ok := h.bindBody(c)
	if !ok {
		return nil, false
	}

	data, err := schema.Validate(body)
	if err != nil {
		h.respondValidationError(c, err)
		return nil, false
	}
	return data, true
}

func (h *CatalogHandler) respondValidationError(c *gin.Context, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		h.respondError(c, http.StatusBadRequest, verr.Messages)
		return
	}
	h.respondError(c, http.StatusBadRequest, err.Error())
}

// queryInt возвращает 0 для отсутствующего или нечислового параметра
func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
