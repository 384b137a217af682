// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/domain/cart"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/domain/override"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/interfaces/http/handlers"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/interfaces/http/middleware"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/pkg/auth"
)

// Deps bundles the wired stores and clients the route handlers need.
type Deps struct {
	Backend    *api.Client
	Session    *auth.Session
	Carts      *cart.Store
	Overrides  *override.Store
	Reconciler *override.Reconciler
	Log        *logrus.Logger
}

// SetupRoutes mounts every API route group.
func SetupRoutes(rg *gin.RouterGroup, deps Deps) {
	SetupAuthRoutes(rg, deps)
	SetupCartRoutes(rg, deps)
	SetupShopRoutes(rg, deps)
	SetupProductRoutes(rg, deps)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, deps Deps) {
	authHandler := handlers.NewAuthHandler(deps.Backend, deps.Session, deps.Log)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/register/producer", authHandler.RegisterProducer)
		auth.POST("/login", authHandler.Login)

		protected := auth.Group("")
		protected.Use(middleware.RequireAuth())
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/me", authHandler.Me)
		}
	}
}

// SetupCartRoutes sets up cart related routes. The cart is local
// state, so no authentication is required.
func SetupCartRoutes(rg *gin.RouterGroup, deps Deps) {
	cartHandler := handlers.NewCartHandler(deps.Carts)

	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.GET("/summary", cartHandler.GetSummary)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:id", cartHandler.UpdateItem)
		cart.DELETE("/items/:id", cartHandler.RemoveItem)
		cart.DELETE("", cartHandler.ClearCart)
	}
}

// SetupShopRoutes sets up shop related routes
func SetupShopRoutes(rg *gin.RouterGroup, deps Deps) {
	shopHandler := handlers.NewShopHandler(deps.Backend, deps.Reconciler, deps.Overrides, deps.Log)

	shops := rg.Group("/shops")
	{
		shops.GET("", shopHandler.ListShops)
		shops.GET("/:id", shopHandler.GetShop)
		shops.GET("/:id/products", shopHandler.GetShopProducts)
		shops.POST("/:id/products/:productID/views", shopHandler.RecordProductView)
		shops.GET("/:id/most-viewed", shopHandler.GetMostViewed)
		shops.GET("/:id/subscription", shopHandler.GetSubscription)

		protected := shops.Group("")
		protected.Use(middleware.RequireAuth())
		{
			protected.PUT("/:id", shopHandler.UpdateShop)
			protected.PUT("/:id/subscription", shopHandler.SaveSubscription)
		}
	}
}

// SetupProductRoutes sets up product related routes
func SetupProductRoutes(rg *gin.RouterGroup, deps Deps) {
	productHandler := handlers.NewProductHandler(deps.Reconciler)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
	}
}
