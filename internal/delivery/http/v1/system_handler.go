package v1

import (
	"net/http"

	"job-tracker-backend/internal/delivery/http/response"
	"job-tracker-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// Version is overridden at link time: -ldflags "-X job-tracker-backend/internal/delivery/http/v1.Version=1.2.3"
var Version = "1.0.0"

type SystemHandler struct {
	healthUC domain.HealthUsecase
}

// NewSystemHandler registers the unauthenticated liveness routes
func NewSystemHandler(r gin.IRoutes, healthUC domain.HealthUsecase) {
	handler := &SystemHandler{healthUC: healthUC}

	r.GET("/", handler.Root)
	r.GET("/health", handler.Health)
	r.GET("/version", handler.Version)
}

// Root godoc
// @Summary  Liveness message
// @Tags     system
// @Produce  json
// @Success  200  {object}  response.Response
// @Router   / [get]
func (h *SystemHandler) Root(c *gin.Context) {
	response.Success(c, http.StatusOK, "Welcome to Job Tracker API", nil)
}

// Health godoc
// @Summary      Health check
// @Description  Always 200; data.status is "unhealthy" when the store cannot be reached
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.HealthStatus}
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	status := h.healthUC.Check(c)
	response.Success(c, http.StatusOK, "System operational", status)
}

// VersionInfo is the payload of GET /version
type VersionInfo struct {
	Version string `json:"version"`
}

// Version godoc
// @Summary  API version
// @Tags     system
// @Produce  json
// @Success  200  {object}  response.Response{data=VersionInfo}
// @Router   /version [get]
func (h *SystemHandler) Version(c *gin.Context) {
	response.Success(c, http.StatusOK, "Job Tracker API", VersionInfo{Version: Version})
}
