package entity

// Запросы строятся из записи, уже прошедшей validation.Schema:
// строки приходят как string, целые числа как int64.

type CreateCategoryRequest struct {
	Cname       string `json:"cname"`
	Description string `json:"description"`
}

func NewCreateCategoryRequest(data map[string]interface{}) *CreateCategoryRequest {
	return &CreateCategoryRequest{
		Cname:       stringField(data, "cname"),
		Description: stringField(data, "description"),
	}
}

type CreateProductRequest struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	CategoryID  uint   `json:"categoryID"`
}

func NewCreateProductRequest(data map[string]interface{}) *CreateProductRequest {
	return &CreateProductRequest{
		Name:        stringField(data, "name"),
		Price:       intField(data, "price"),
		Description: stringField(data, "description"),
		CategoryID:  uint(intField(data, "categoryID")),
	}
}

// UpdateProductRequest - частичное обновление, nil означает "не передано"
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	Description *string `json:"description,omitempty"`
	CategoryID  *uint   `json:"categoryID,omitempty"`
}

func NewUpdateProductRequest(data map[string]interface{}) *UpdateProductRequest {
	req := &UpdateProductRequest{}
	if _, ok := data["name"]; ok {
		v := stringField(data, "name")
		req.Name = &v
	}
	if _, ok := data["price"]; ok {
		v := intField(data, "price")
		req.Price = &v
	}
	if _, ok := data["description"]; ok {
		v := stringField(data, "description")
		req.Description = &v
	}
	if _, ok := data["categoryID"]; ok {
		v := uint(intField(data, "categoryID"))
		req.CategoryID = &v
	}
	return req
}

// Changes возвращает только переданные поля с именами колонок
func (r *UpdateProductRequest) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if r.Name != nil {
		changes["name"] = *r.Name
	}
	if r.Price != nil {
		changes["price"] = *r.Price
	}
	if r.Description != nil {
		changes["description"] = *r.Description
	}
	if r.CategoryID != nil {
		changes["category_id"] = *r.CategoryID
	}
	return changes
}

// ApplyTo переносит переданные поля в загруженный товар
func (r *UpdateProductRequest) ApplyTo(p *Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.CategoryID != nil {
		p.CategoryID = *r.CategoryID
	}
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage держит (page-1)*limit в пределах int
	MaxPage = 1_000_000
)

// ListProductsQuery - параметры листинга из query string (?page=&limit=).
// Нулевое значение означает "не передано".
type ListProductsQuery struct {
	Page  int
	Limit int
}

// Normalize подставляет значения по умолчанию и ограничивает limit
func (q ListProductsQuery) Normalize() ListProductsQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

func (q ListProductsQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// DataResponse - успешный ответ {data}
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse - ответ с ошибкой: строка или список сообщений валидации
type ErrorResponse struct {
	Error interface{} `json:"error"`
}

type ProductListResponse struct {
	Data  []ProductListItem `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

func stringField(data map[string]interface{}, key string) string {
	v, _ := data[key].(string)
	return v
}

func intField(data map[string]interface{}, key string) int64 {
	switch v := data[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}
