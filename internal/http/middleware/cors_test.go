package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsEngine(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(origins))
	r.GET("/api/rfqs", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/api/rfqs", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func allowedOrigin(r *gin.Engine, method, origin string) string {
	req := httptest.NewRequest(method, "/api/rfqs", nil)
	req.Header.Set("Origin", origin)
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Header().Get("Access-Control-Allow-Origin")
}

func TestCORSDevOrigins(t *testing.T) {
	r := corsEngine(nil)
	for _, origin := range []string{"http://localhost:5173", "http://127.0.0.1:8501", "http://localhost:3000"} {
		assert.Equal(t, origin, allowedOrigin(r, http.MethodOptions, origin), origin)
	}
	assert.Empty(t, allowedOrigin(r, http.MethodGet, "https://evil.example.com"))
}

func TestCORSConfiguredOriginsReplaceDefaults(t *testing.T) {
	r := corsEngine([]string{"https://procure.example.com"})
	assert.Empty(t, allowedOrigin(r, http.MethodGet, "http://localhost:5173"))
	assert.Equal(t, "https://procure.example.com", allowedOrigin(r, http.MethodGet, "https://procure.example.com"))
}

func TestCORSWildcard(t *testing.T) {
	r := corsEngine([]string{"*"})
	assert.Equal(t, "*", allowedOrigin(r, http.MethodGet, "https://anywhere.example.com"))
}
