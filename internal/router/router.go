package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/summitretail/preseason-backend/config"
	"github.com/summitretail/preseason-backend/internal/app/controller"
	"github.com/summitretail/preseason-backend/internal/middleware"
	"github.com/summitretail/preseason-backend/internal/websocket"
	"github.com/summitretail/preseason-backend/pkg/logger"
)

type Router struct {
	catalogController   *controller.CatalogController
	productController   *controller.ProductController
	orderController     *controller.OrderController
	referenceController *controller.ReferenceController
	authMiddleware      *middleware.AuthMiddleware
	hub                 *websocket.Hub
	config              *config.Config
}

func NewRouter(
	catalogController *controller.CatalogController,
	productController *controller.ProductController,
	orderController *controller.OrderController,
	referenceController *controller.ReferenceController,
	authMiddleware *middleware.AuthMiddleware,
	hub *websocket.Hub,
	cfg *config.Config,
) *Router {
	return &Router{
		catalogController:   catalogController,
		productController:   productController,
		orderController:     orderController,
		referenceController: referenceController,
		authMiddleware:      authMiddleware,
		hub:                 hub,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"message":    "Preseason API is running",
			"ws_clients": r.hub.ClientCount(),
		})
	})

	v1 := router.Group("/api/v1")
	{
		catalog := v1.Group("/catalog")
		catalog.Use(r.authMiddleware.Authenticate())
		{
			catalog.POST("/header-preview", r.catalogController.PreviewHeader)
			catalog.POST("/import",
				r.authMiddleware.RequireRole(middleware.RoleBuyer, middleware.RoleAdmin),
				r.catalogController.ImportCatalog,
			)
			catalog.GET("/uploads", r.catalogController.ListUploads)
			catalog.GET("/uploads/:id", r.catalogController.GetUpload)
			catalog.DELETE("/uploads/:id",
				r.authMiddleware.RequireRole(middleware.RoleAdmin),
				r.catalogController.DeleteUpload,
			)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/families", r.productController.ListFamilies)
			products.GET("/variants/match", r.productController.MatchVariant)
			products.GET("/:id", r.productController.GetProduct)
			products.GET("/:id/prices", r.productController.GetSeasonPrices)
			products.GET("/:id/price-history", r.productController.GetPriceHistory)
			products.GET("/:id/case-mapping", r.productController.GetCaseMapping)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		orders.Use(r.authMiddleware.RequireRole(middleware.RoleBuyer, middleware.RoleAdmin))
		{
			orders.GET("", r.orderController.ListOrders)
			orders.POST("", r.orderController.CreateOrder)
			orders.POST("/import", r.orderController.ImportOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.DELETE("/:id", r.orderController.DeleteOrder)
			orders.POST("/:id/items", r.orderController.AddItem)
			orders.PUT("/:id/items/:item_id", r.orderController.UpdateItem)
			orders.DELETE("/:id/items/:item_id", r.orderController.RemoveItem)
			orders.POST("/:id/submit", r.orderController.SubmitOrder)
			orders.POST("/:id/copy", r.orderController.CopyOrder)
			orders.POST("/:id/color-change", r.orderController.BulkColorChange)
		}

		brands := v1.Group("/brands")
		{
			brands.GET("", r.referenceController.ListBrands)
			brands.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(middleware.RoleAdmin),
				r.referenceController.CreateBrand,
			)
			brands.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(middleware.RoleAdmin),
				r.referenceController.UpdateBrand,
			)
		}

		seasons := v1.Group("/seasons")
		{
			seasons.GET("", r.referenceController.ListSeasons)
			seasons.GET("/current", r.referenceController.GetCurrentSeason)
			seasons.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(middleware.RoleAdmin),
				r.referenceController.CreateSeason,
			)
			seasons.PUT("/:id/current",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(middleware.RoleAdmin),
				r.referenceController.SetCurrentSeason,
			)
		}

		v1.GET("/locations", r.referenceController.ListLocations)
	}

	// Live import progress; the token rides the query string
	router.GET("/ws/imports", r.authMiddleware.Authenticate(), r.serveImportProgress)

	return router
}

func (r *Router) serveImportProgress(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := websocket.Serve(r.hub, c.Writer, c.Request, userID); err != nil {
		logger.Error("WebSocket upgrade failed", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
