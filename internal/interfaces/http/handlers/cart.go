// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/course-registration/internal/domain/cart"
	"github.com/your-org/course-registration/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	resp := h.cartService.GetCart(c.Request.Context(), middleware.GetSessionID(c))

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    resp,
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.cartService.AddToCart(c.Request.Context(), middleware.GetSessionID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Course added to cart successfully",
		"data":    resp,
	})
}

// AdjustQuantity handles PATCH /cart/items/:index with a +/- delta
func (h *CartHandler) AdjustQuantity(c *gin.Context) {
	index, ok := itemIndex(c)
	if !ok {
		return
	}

	var req cart.AdjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp := h.cartService.AdjustQuantity(c.Request.Context(), middleware.GetSessionID(c), index, req.Delta)
	h.respondMutation(c, resp, "Quantity updated successfully")
}

// SetQuantity handles PUT /cart/items/:index with a typed-in quantity
func (h *CartHandler) SetQuantity(c *gin.Context) {
	index, ok := itemIndex(c)
	if !ok {
		return
	}

	var req cart.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp := h.cartService.SetQuantity(c.Request.Context(), middleware.GetSessionID(c), index, req.Quantity)
	h.respondMutation(c, resp, "Quantity updated successfully")
}

// RemoveItem handles DELETE /cart/items/:index
func (h *CartHandler) RemoveItem(c *gin.Context) {
	index, ok := itemIndex(c)
	if !ok {
		return
	}

	resp := h.cartService.RemoveItem(c.Request.Context(), middleware.GetSessionID(c), index)
	h.respondMutation(c, resp, "Item removed from cart successfully")
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	h.cartService.ClearCart(c.Request.Context(), middleware.GetSessionID(c))

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	count := h.cartService.GetCartItemCount(c.Request.Context(), middleware.GetSessionID(c))

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": count,
		},
	})
}

// respondMutation reports no-op mutations as 200 with the outcome flags, so
// the client can tell a rejected +1 at the quota from a real change.
func (h *CartHandler) respondMutation(c *gin.Context, resp *cart.MutationResponse, message string) {
	if !resp.Outcome.Changed {
		message = "Cart unchanged"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    resp,
	})
}

func itemIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item index",
		})
		return 0, false
	}
	return index, true
}
