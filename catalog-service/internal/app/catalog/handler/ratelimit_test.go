package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"shopcatalog/catalog-service/internal/app/catalog/entity"
	"shopcatalog/catalog-service/internal/app/catalog/util"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type failingCounter struct{}

func (failingCounter) IncrWindow(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis down")
}

func setupLimitedRouter(t *testing.T, counter util.RateCounter, limit int64) (*gin.Engine, *MockCatalogService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := new(MockCatalogService)
	limiter := NewRateLimiter(counter, limit, time.Minute)
	return SetupRoutes(NewCatalogHandler(svc, false), limiter), svc
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient, err := util.NewRedisClient(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { redisClient.Close() })

	router, svc := setupLimitedRouter(t, redisClient, 2)
	svc.On("DeleteProduct", mock.Anything, uint(1)).Return(nil)

	for i := 0; i < 2; i++ {
		w := doRequest(router, http.MethodDelete, "/product/delete/1", "")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(router, http.MethodDelete, "/product/delete/1", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())
	svc.AssertNumberOfCalls(t, "DeleteProduct", 2)

	// окно истекло
	mr.FastForward(time.Minute + time.Second)
	w = doRequest(router, http.MethodDelete, "/product/delete/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_ReadsNotLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient, err := util.NewRedisClient(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { redisClient.Close() })

	router, svc := setupLimitedRouter(t, redisClient, 1)
	svc.On("GetAllCategories", mock.Anything).Return([]entity.Category{}, nil)

	for i := 0; i < 3; i++ {
		w := doRequest(router, http.MethodGet, "/category/all", "")
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.False(t, mr.Exists("rate_limit:192.0.2.1"))
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	router, svc := setupLimitedRouter(t, failingCounter{}, 1)
	svc.On("DeleteProduct", mock.Anything, uint(1)).Return(nil)

	for i := 0; i < 3; i++ {
		w := doRequest(router, http.MethodDelete, "/product/delete/1", "")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
