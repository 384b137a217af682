// internal/interfaces/http/handlers/shops.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/domain/override"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/domain/shop"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/interfaces/http/middleware"
)

// defaultMostViewedLimit caps the most-viewed listing when the caller
// does not pass a limit.
const defaultMostViewedLimit = 4

// ShopHandler serves merged shop data and the owner editing flow.
type ShopHandler struct {
	backend    *api.Client
	reconciler *override.Reconciler
	overrides  *override.Store
	log        *logrus.Logger
}

// NewShopHandler creates a new shop handler.
func NewShopHandler(backend *api.Client, reconciler *override.Reconciler, overrides *override.Store, log *logrus.Logger) *ShopHandler {
	return &ShopHandler{
		backend:    backend,
		reconciler: reconciler,
		overrides:  overrides,
		log:        log,
	}
}

// UpdateShopRequest is the owner's save payload: shop fields plus the
// full product list as one document.
type UpdateShopRequest struct {
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	Specialty   string        `json:"specialty"`
	Location    string        `json:"location"`
	Image       string        `json:"image"`
	Products    []api.Product `json:"products"`
}

// ListShops handles GET /shops
func (h *ShopHandler) ListShops(c *gin.Context) {
	shops, _, err := h.reconciler.Shops(c.Request.Context())
	if err != nil {
		writeBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shops": shops,
	})
}

// GetShop handles GET /shops/:id
func (h *ShopHandler) GetShop(c *gin.Context) {
	shopID, ok := parseShopID(c)
	if !ok {
		return
	}

	merged, _, err := h.reconciler.ShopDetail(c.Request.Context(), shopID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Shop not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shop": merged,
	})
}

// GetShopProducts handles GET /shops/:id/products
func (h *ShopHandler) GetShopProducts(c *gin.Context) {
	shopID, ok := parseShopID(c)
	if !ok {
		return
	}

	merged, _, err := h.reconciler.ShopDetail(c.Request.Context(), shopID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Shop not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": merged.Products,
	})
}

// UpdateShop handles PUT /shops/:id. The whole edit runs through an
// editing session so the ownership gate and empty-row dropping apply
// no matter how the request was produced.
func (h *ShopHandler) UpdateShop(c *gin.Context) {
	shopID, ok := parseShopID(c)
	if !ok {
		return
	}

	var req UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	merged, _, err := h.reconciler.ShopDetail(c.Request.Context(), shopID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Shop not found",
		})
		return
	}

	user, _ := middleware.GetUserFromContext(c)

	current := merged.Shop
	current.Image = merged.Image
	current.Products = merged.Products

	editor := shop.NewEditor(current, user, h.backend, h.overrides, h.log)
	if err := editor.BeginEdit(); err != nil {
		if errors.Is(err, shop.ErrNotOwner) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only the shop owner can edit this shop",
			})
			return
		}
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	}

	_ = editor.SetDetails(req.Name, req.Description, req.Specialty, req.Location)
	if req.Image != "" {
		_ = editor.SetImage(req.Image)
	}
	if req.Products != nil {
		_ = editor.ReplaceProducts(req.Products)
	}

	if err := editor.Save(c.Request.Context()); err != nil {
		writeBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shop": editor.Shop(),
	})
}

// RecordProductView handles POST /shops/:id/products/:productID/views
func (h *ShopHandler) RecordProductView(c *gin.Context) {
	shopID, ok := parseShopID(c)
	if !ok {
		return
	}

	productID := api.ID(c.Param("productID"))
	views := h.overrides.IncrementProductViews(shopID, productID)
	c.JSON(http.StatusOK, gin.H{
		"views": views,
	})
}

// GetMostViewed handles GET /shops/:id/most-viewed
func (h *ShopHandler) GetMostViewed(c *gin.Context) {
	shopID, ok := parseShopID(c)
	if !ok {
		return
	}

	limit := defaultMostViewedLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	merged, _, err := h.reconciler.ShopDetail(c.Request.Context(), shopID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Shop not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": h.overrides.MostViewed(shopID, merged.Products, limit),
	})
}

// GetSubscription handles GET /shops/:id/subscription
func (h *ShopHandler) GetSubscription(c *gin.Context) {
	shopID, ok := parseShopID(c)
	if !ok {
		return
	}

	sub, found := h.overrides.Subscription(shopID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No subscription configured for this shop",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
	})
}

// SaveSubscription handles PUT /shops/:id/subscription
func (h *ShopHandler) SaveSubscription(c *gin.Context) {
	shopID, ok := parseShopID(c)
	if !ok {
		return
	}

	var sub override.Subscription
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.overrides.SaveSubscription(shopID, sub)
	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
	})
}

func parseShopID(c *gin.Context) (int64, bool) {
	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid shop ID",
		})
		return 0, false
	}
	return shopID, true
}
