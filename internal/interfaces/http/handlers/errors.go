// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/course-registration/internal/domain/cart"
	"github.com/your-org/course-registration/internal/domain/catalog"
	"github.com/your-org/course-registration/internal/domain/order"
	"github.com/your-org/course-registration/internal/domain/payment"
	"github.com/your-org/course-registration/internal/infrastructure/gateway"
)

// Pages a client is sent back to when a step has nothing to work on
const (
	RedirectCourses = "/courses"
	RedirectPayment = "/payment"
)

// respondError maps domain errors to status codes and {"error": ...} bodies
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		orderErr   *order.ValidationError
		paymentErr *payment.ValidationError
		gatewayErr *gateway.Error
	)

	switch {
	case errors.As(err, &orderErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Please correct the highlighted fields",
			"details": orderErr,
		})
	case errors.As(err, &paymentErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Please correct the highlighted fields",
			"details": paymentErr,
		})
	case errors.Is(err, catalog.ErrCourseNotFound), errors.Is(err, catalog.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrQuantityExceedsQuota):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, order.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrNoOrderDraft):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "redirect": RedirectCourses})
	case errors.Is(err, order.ErrAlreadySubmitted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "redirect": RedirectPayment})
	case errors.Is(err, payment.ErrNoOrder):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "redirect": RedirectCourses})
	case errors.Is(err, order.ErrSubmissionInProgress), errors.Is(err, payment.ErrReportInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, payment.ErrNoticeUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": gateway.FallbackMessage})
	case errors.As(err, &gatewayErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": gatewayErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bindError responds to a malformed request body
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}
