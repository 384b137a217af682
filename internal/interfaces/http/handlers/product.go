// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/domain/override"
)

// ProductHandler serves the flattened merged catalog.
type ProductHandler struct {
	reconciler *override.Reconciler
}

// NewProductHandler creates a new product handler.
func NewProductHandler(reconciler *override.Reconciler) *ProductHandler {
	return &ProductHandler{reconciler: reconciler}
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, _, err := h.reconciler.AllProducts(c.Request.Context())
	if err != nil {
		writeBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": products,
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, _, err := h.reconciler.Product(c.Request.Context(), api.ID(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}
