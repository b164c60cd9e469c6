package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitWithWriter_LevelAndService(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("catalog-service", "warn", &buf)

	Info().Msg("skipped")
	assert.Empty(t, buf.String())

	Warn().Str("key", "value").Msg("kept")
	entry := lastLine(t, &buf)
	assert.Equal(t, "catalog-service", entry["service"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "value", entry["key"])
	assert.Contains(t, entry, "time")
}

func TestInitWithWriter_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("catalog-service", "loud", &buf)

	Debug().Msg("skipped")
	Info().Msg("kept")

	assert.Equal(t, "kept", lastLine(t, &buf)["message"])
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestGinLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	InitWithWriter("catalog-service", "info", &buf)

	router := gin.New()
	router.Use(GinLoggerMiddleware())
	router.GET("/product/:getByHandle", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cant get product"})
	})

	t.Run("генерирует request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/product/Boot?x=1", nil))

		requestID := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, requestID)

		entry := lastLine(t, &buf)
		assert.Equal(t, requestID, entry["request_id"])
		assert.Equal(t, "warn", entry["level"])
		assert.Equal(t, "/product/:getByHandle", entry["route"])
		assert.Equal(t, "x=1", entry["query"])
		assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	})

	t.Run("сохраняет входящий request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/product/Boot", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", lastLine(t, &buf)["request_id"])
	})
}
