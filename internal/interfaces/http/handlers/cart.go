// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/domain/cart"
)

// CartHandler exposes the local cart store to the view layer.
type CartHandler struct {
	carts *cart.Store
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts *cart.Store) *CartHandler {
	return &CartHandler{carts: carts}
}

// AddItemRequest is the add-to-cart body: the product snapshot to pin
// plus the quantity.
type AddItemRequest struct {
	ID       api.ID `json:"id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	ShopID   int64  `json:"shopId"`
	ShopName string `json:"shopName"`
	Quantity int    `json:"quantity"`
}

// UpdateItemRequest sets a line's absolute quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items":  h.carts.Items(),
		"totals": h.carts.Totals(),
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.carts.AddItem(cart.Snapshot{
		ProductID: req.ID,
		Name:      req.Name,
		Price:     req.Price,
		Image:     req.Image,
		ShopID:    req.ShopID,
		ShopName:  req.ShopName,
	}, req.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"items":  h.carts.Items(),
		"totals": h.carts.Totals(),
	})
}

// UpdateItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.carts.UpdateQuantity(api.ID(c.Param("id")), req.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"items":  h.carts.Items(),
		"totals": h.carts.Totals(),
	})
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.carts.RemoveItem(api.ID(c.Param("id")))

	c.JSON(http.StatusOK, gin.H{
		"items":  h.carts.Items(),
		"totals": h.carts.Totals(),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	h.carts.Clear()
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}

// GetSummary handles GET /cart/summary
func (h *CartHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.carts.Totals())
}
