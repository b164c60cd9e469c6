package entity

import "time"

// Category представляет категорию товаров (таблица category)
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Cname       string    `json:"cname" gorm:"type:varchar(255);not null;uniqueIndex:idx_category_cname"`
	Description string    `json:"description" gorm:"type:varchar(500);not null"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы для GORM
func (Category) TableName() string {
	return "category"
}

// Product представляет товар (таблица product).
// CategoryID ссылается на category.id без внешнего ключа.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Price       int64     `json:"price" gorm:"not null"`
	Description string    `json:"description" gorm:"type:varchar(500);not null"`
	Slug        string    `json:"slug" gorm:"type:varchar(255);uniqueIndex:idx_product_slug"`
	CategoryID  uint      `json:"categoryID" gorm:"column:category_id;not null;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "product"
}

// ProductListItem - строка листинга: поля товара + имя категории из LEFT JOIN.
// Cname равен nil, если категории с таким id нет.
type ProductListItem struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Price       int64   `json:"price"`
	Description string  `json:"description"`
	Slug        string  `json:"slug"`
	Cname       *string `json:"cname"`
}

// ProductPage - результат постраничного листинга
type ProductPage struct {
	Items []ProductListItem
	Total int64
	Page  int
	Limit int
}

// Типы событий о товарах для Kafka
const (
	EventProductCreated = "PRODUCT_CREATED"
	EventProductUpdated = "PRODUCT_UPDATED"
	EventProductDeleted = "PRODUCT_DELETED"
)

// ProductEvent представляет событие изменения товара для Kafka
type ProductEvent struct {
	EventType  string    `json:"event_type"`
	ProductID  uint      `json:"product_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Price      int64     `json:"price"`
	CategoryID uint      `json:"category_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewProductEvent строит событие из текущего состояния товара
func NewProductEvent(eventType string, p *Product) ProductEvent {
	return ProductEvent{
		EventType:  eventType,
		ProductID:  p.ID,
		Name:       p.Name,
		Slug:       p.Slug,
		Price:      p.Price,
		CategoryID: p.CategoryID,
		Timestamp:  time.Now().UTC(),
	}
}
