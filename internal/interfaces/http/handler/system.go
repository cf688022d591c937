package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicing/backend/internal/interfaces/http/dto"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

// ConnectionSource lists the database connections the health check pings
type ConnectionSource interface {
	Names() []string
	Resolve(name string) (*gorm.DB, error)
}

// SystemHandler serves health and build information
type SystemHandler struct {
	BaseHandler
	connections ConnectionSource
	version     string
	startTime   time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(connections ConnectionSource, version string) *SystemHandler {
	return &SystemHandler{
		connections: connections,
		version:     version,
		startTime:   time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"Invoicing API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// HealthResponse reports the state of every database connection
type HealthResponse struct {
	Status      string            `json:"status" example:"ok"`
	Connections map[string]string `json:"connections"`
}

// Health godoc
// @ID           health
// @Summary      Health check
// @Description  Pings every configured database connection
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Connections: map[string]string{}}
	for _, name := range h.connections.Names() {
		resp.Connections[name] = "ok"
		if err := ping(ctx, h.connections, name); err != nil {
			resp.Connections[name] = err.Error()
			resp.Status = "degraded"
		}
	}

	if resp.Status != "ok" {
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
		return
	}
	h.Success(c, resp)
}

func ping(ctx context.Context, connections ConnectionSource, name string) error {
	db, err := connections.Resolve(name)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Description  Returns the build version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Security     BearerAuth
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      "Invoicing API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}
