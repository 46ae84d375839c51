package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vishu8474/prokhoz-backend/internal/api/handlers"
	"github.com/vishu8474/prokhoz-backend/internal/api/middleware"
	"github.com/vishu8474/prokhoz-backend/internal/config"
	"github.com/vishu8474/prokhoz-backend/internal/models"
	"github.com/vishu8474/prokhoz-backend/internal/services"
)

// SetupRouter wires the services, middleware and routes into a gin engine.
func SetupRouter(cfg *config.Config, database *mongo.Database, rdb *redis.Client, taskClient handlers.IAsynqClient) *gin.Engine {
	inquiryService := services.NewInquiryService(database, cfg, rdb)
	productService := services.NewProductService(database, rdb)
	userService := services.NewUserService(database, inquiryService, productService)

	authHandler := handlers.NewAuthHandler(userService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	inquiryHandler := handlers.NewInquiryHandler(inquiryService, taskClient, cfg)
	contactHandler := handlers.NewContactHandler(taskClient, cfg)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.AuthMiddleware(cfg.JwtSecret), authHandler.Me)
	}

	users := api.Group("/users", middleware.AuthMiddleware(cfg.JwtSecret))
	{
		users.GET("/profile", userHandler.GetProfile)
		users.PUT("/profile", userHandler.UpdateProfile)
		users.PUT("/password", userHandler.UpdatePassword)
		users.DELETE("/account", userHandler.DeleteAccount)
	}

	products := api.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.POST("", middleware.AuthMiddleware(cfg.JwtSecret), middleware.RequireRole(models.RoleManufacturer), productHandler.CreateProduct)
		products.GET("/my-products", middleware.AuthMiddleware(cfg.JwtSecret), middleware.RequireRole(models.RoleManufacturer), productHandler.GetMyProducts)
	}

	inquiries := api.Group("/inquiries", middleware.AuthMiddleware(cfg.JwtSecret))
	{
		inquiries.GET("/manufacturer", middleware.RequireRole(models.RoleManufacturer), inquiryHandler.GetMyInquiries)
		inquiries.GET("/buyer", middleware.RequireRole(models.RoleBuyer), inquiryHandler.GetBuyerInquiries)
		inquiries.GET("/stats", middleware.RequireRole(models.RoleManufacturer), inquiryHandler.GetDashboardStats)
		inquiries.PUT("/:id/status", middleware.RequireRole(models.RoleManufacturer), inquiryHandler.UpdateInquiryStatus)
		inquiries.POST("", middleware.RequireRole(models.RoleBuyer), inquiryHandler.CreateInquiry)
		inquiries.GET("/:id", inquiryHandler.GetInquiry)
		inquiries.POST("/:id/respond", inquiryHandler.AddResponse)
	}

	api.POST("/contact", contactHandler.SubmitContactForm)

	return router
}
