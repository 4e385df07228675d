// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/course-registration/internal/interfaces/http/handlers"
)

// Handlers groups the API handlers
type Handlers struct {
	Catalog      *handlers.CatalogHandler
	Cart         *handlers.CartHandler
	Registration *handlers.RegistrationHandler
	Payment      *handlers.PaymentHandler
}

// SetupCatalogRoutes sets up course listing routes
func SetupCatalogRoutes(rg *gin.RouterGroup, h *handlers.CatalogHandler) {
	courses := rg.Group("/courses")
	{
		courses.GET("", h.ListCourses)
		courses.GET("/:course_id/sessions/:session_id/quota", h.CheckQuota)
	}
}

// SetupCartRoutes sets up cart routes
func SetupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.GET("/count", h.GetCartCount)
		cart.POST("/items", h.AddToCart)
		cart.PATCH("/items/:index", h.AdjustQuantity)
		cart.PUT("/items/:index", h.SetQuantity)
		cart.DELETE("/items/:index", h.RemoveItem)
	}
}

// SetupRegistrationRoutes sets up checkout and registration routes
func SetupRegistrationRoutes(rg *gin.RouterGroup, h *handlers.RegistrationHandler) {
	rg.POST("/checkout", h.Checkout)

	registration := rg.Group("/registration")
	{
		registration.GET("", h.GetRegistration)
		registration.POST("", h.Register)
	}
}

// SetupPaymentRoutes sets up payment routes
func SetupPaymentRoutes(rg *gin.RouterGroup, h *handlers.PaymentHandler) {
	payment := rg.Group("/payment")
	{
		payment.GET("", h.GetPayment)
		payment.POST("", h.SubmitPayment)
		payment.GET("/notice", h.DownloadNotice)
	}
}

// SetupRoutes sets up all API routes
func SetupRoutes(rg *gin.RouterGroup, h *Handlers) {
	SetupCatalogRoutes(rg, h.Catalog)
	SetupCartRoutes(rg, h.Cart)
	SetupRegistrationRoutes(rg, h.Registration)
	SetupPaymentRoutes(rg, h.Payment)
}
