// internal/interfaces/http/handlers/registration.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/course-registration/internal/domain/order"
	"github.com/your-org/course-registration/internal/domain/validation"
	"github.com/your-org/course-registration/internal/interfaces/http/middleware"
)

// RegistrationHandler handles checkout and registrant submission
type RegistrationHandler struct {
	orderService *order.Service
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(orderService *order.Service) *RegistrationHandler {
	return &RegistrationHandler{orderService: orderService}
}

// Checkout handles POST /checkout
func (h *RegistrationHandler) Checkout(c *gin.Context) {
	draft, err := h.orderService.Checkout(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout started",
		"data":    draft,
	})
}

// GetRegistration handles GET /registration
func (h *RegistrationHandler) GetRegistration(c *gin.Context) {
	form, err := h.orderService.RegistrationForm(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Registration form retrieved successfully",
		"data":    form,
	})
}

// Register handles POST /registration
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req order.RegisterRequest
	// failed tags are reported by the service together with its own checks
	if err := c.ShouldBindJSON(&req); err != nil && !validation.IsFieldError(err) {
		bindError(c, err)
		return
	}

	draft, err := h.orderService.Register(c.Request.Context(), middleware.GetSessionID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Registration submitted successfully",
		"data":     draft,
		"redirect": RedirectPayment,
	})
}
