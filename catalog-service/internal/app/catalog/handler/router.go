package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopcatalog/pkg/logger"
	"shopcatalog/pkg/metrics"
)

// SetupRoutes настраивает маршруты Catalog Service.
// limiter == nil отключает ограничение частоты для изменяющих запросов.
func SetupRoutes(catalogHandler *CatalogHandler, limiter *RateLimiter) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("catalog-service"))

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Accept", "Content-Type", logger.RequestIDHeader},
		ExposeHeaders:   []string{logger.RequestIDHeader},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "catalog-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// POST, PUT, DELETE проходят через rate limiter
	write := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if limiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{limiter.Middleware(), h}
	}

	category := router.Group("/category")
	{
		category.POST("/add", write(catalogHandler.CreateCategory)...)
		category.GET("/all", catalogHandler.GetAllCategories)
	}

	product := router.Group("/product")
	{
		product.GET("", catalogHandler.ListProducts)
		product.GET("/:getByHandle", catalogHandler.GetProductBySlug)
		product.POST("/add", write(catalogHandler.CreateProduct)...)
		product.POST("/addProduct", write(catalogHandler.BulkCreateProducts)...)
		product.PUT("/update/:productID", write(catalogHandler.UpdateProduct)...)
		product.DELETE("/delete/:id", write(catalogHandler.DeleteProduct)...)
	}

	return router
}
