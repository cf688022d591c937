package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(cfg config.SwaggerConfig, jwt gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, jwt), func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func swaggerRequest(remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	return req
}

func TestSwaggerProtection(t *testing.T) {
	denyAll := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	allowAll := func(c *gin.Context) {}

	tests := []struct {
		name   string
		cfg    config.SwaggerConfig
		jwt    gin.HandlerFunc
		remote string
		want   int
	}{
		{"disabled", config.SwaggerConfig{}, nil, "10.0.0.1:1234", http.StatusNotFound},
		{"open", config.SwaggerConfig{Enabled: true}, nil, "10.0.0.1:1234", http.StatusOK},
		{"exact ip allowed", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}}, nil, "10.0.0.1:1234", http.StatusOK},
		{"cidr allowed", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, nil, "10.9.9.9:1234", http.StatusOK},
		{"ip rejected", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8", "bogus"}}, nil, "192.168.1.1:1234", http.StatusForbidden},
		{"auth rejected", config.SwaggerConfig{Enabled: true, RequireAuth: true}, denyAll, "10.0.0.1:1234", http.StatusUnauthorized},
		{"auth accepted", config.SwaggerConfig{Enabled: true, RequireAuth: true}, allowAll, "10.0.0.1:1234", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			swaggerRouter(tt.cfg, tt.jwt).ServeHTTP(w, swaggerRequest(tt.remote))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
