package handler

import (
	"net/http"

	"shopcatalog/catalog-service/internal/app/catalog/entity"

	"github.com/gin-gonic/gin"
)

// respond пишет тело с нужным статусом. В режиме legacyStatus200 статус всегда 200,
// клиент различает успех и ошибку только по {data}/{error}.
func (h *CatalogHandler) respond(c *gin.Context, status int, body interface{}) {
	if h.legacyStatus200 {
		status = http.StatusOK
	}
	c.JSON(status, body)
}

func (h *CatalogHandler) respondData(c *gin.Context, status int, data interface{}) {
	h.respond(c, status, entity.DataResponse{Data: data})
}

// respondError принимает строку или список сообщений валидации
func (h *CatalogHandler) respondError(c *gin.Context, status int, message interface{}) {
	h.respond(c, status, entity.ErrorResponse{Error: message})
}
