// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/course-registration/internal/domain/payment"
	"github.com/your-org/course-registration/internal/domain/validation"
	"github.com/your-org/course-registration/internal/interfaces/http/middleware"
)

// PaymentHandler handles the bank transfer step
type PaymentHandler struct {
	paymentService *payment.Service
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *payment.Service) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// GetPayment handles GET /payment
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	summary, err := h.paymentService.GetSummary(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment details retrieved successfully",
		"data":    summary,
	})
}

// SubmitPayment handles POST /payment
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	var req payment.ReportRequest
	// failed tags are reported by the service together with its own checks
	if err := c.ShouldBindJSON(&req); err != nil && !validation.IsFieldError(err) {
		bindError(c, err)
		return
	}

	if err := h.paymentService.SubmitReport(c.Request.Context(), middleware.GetSessionID(c), &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Payment reported successfully",
		"redirect": RedirectCourses,
	})
}

// DownloadNotice handles GET /payment/notice
func (h *PaymentHandler) DownloadNotice(c *gin.Context) {
	buf, filename, err := h.paymentService.Notice(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
