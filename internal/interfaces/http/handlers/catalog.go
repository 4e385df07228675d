// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/course-registration/internal/domain/catalog"
)

// CatalogHandler handles course listing endpoints
type CatalogHandler struct {
	catalogService *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListCourses handles GET /courses?location=
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	location := c.DefaultQuery("location", catalog.LocationAll)

	all, err := h.catalogService.Courses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Courses retrieved successfully",
		"data": gin.H{
			"courses":   catalog.FilterByLocation(all, location),
			"locations": catalog.Locations(all),
			"location":  location,
		},
	})
}

// CheckQuota handles GET /courses/:course_id/sessions/:session_id/quota
func (h *CatalogHandler) CheckQuota(c *gin.Context) {
	ctx := c.Request.Context()
	courseID := c.Param("course_id")
	sessionID := c.Param("session_id")

	if _, _, err := h.catalogService.FindSession(ctx, courseID, sessionID); err != nil {
		respondError(c, err)
		return
	}

	remaining, err := h.catalogService.CheckQuota(ctx, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quota retrieved successfully",
		"data": gin.H{
			"session_id": sessionID,
			"remaining":  remaining,
			"level":      catalog.SessionOffering{Remaining: remaining}.Level(),
		},
	})
}
