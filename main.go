package main

import (
	"log"
	"net/http"

	"github.com/0xDracarys/ABAYA-ecom-v1/config"
	"github.com/0xDracarys/ABAYA-ecom-v1/consumers"
	"github.com/0xDracarys/ABAYA-ecom-v1/controllers"
	"github.com/0xDracarys/ABAYA-ecom-v1/database"
	"github.com/0xDracarys/ABAYA-ecom-v1/middlewares"
	"github.com/0xDracarys/ABAYA-ecom-v1/rabbitmq"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := database.InitDB(); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer database.CloseDB()

	cfg := config.LoadConfig()

	// Catalog events are best-effort; the storefront serves without a broker.
	rmq, err := rabbitmq.NewRabbitMQ(cfg)
	if err != nil {
		log.Printf("RabbitMQ initialization failed: %v (proceeding without messaging)", err)
	} else {
		defer rmq.Close()

		if err := rmq.Setup(); err != nil {
			log.Printf("Failed to setup RabbitMQ queues: %v", err)
		} else {
			controllers.SetRabbitMQ(rmq)
			log.Println("RabbitMQ integration enabled")

			go consumers.StartCatalogConsumer(rmq.Channel, cfg)
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	r := gin.New()

	// Anything not anticipated is logged and answered with a generic 500.
	r.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Printf("panic recovered: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "An unexpected error occurred",
		})
	}))
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.LoggingMiddleware())
	r.Use(middlewares.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public catalog reads.
	public := r.Group("/api")
	{
		public.GET("/products", controllers.ListProducts)
		public.GET("/products/:id", controllers.GetProduct)
		public.GET("/categories", controllers.ListCategories)
		public.GET("/categories/:slug", controllers.GetCategoryBySlug)
		public.GET("/tags", controllers.ListTags)
		public.GET("/reviews", controllers.ListReviews)
		public.POST("/contact",
			middlewares.RateLimitMiddleware(redisClient, cfg.ContactRateLimit, cfg.ContactRateWindow),
			controllers.SubmitContact)
	}

	// Signed-in customers.
	authGroup := r.Group("/api")
	authGroup.Use(middlewares.AuthMiddleware())
	{
		authGroup.POST("/reviews", controllers.CreateReview)
		authGroup.GET("/orders", controllers.ListMyOrders)
		authGroup.GET("/orders/:id", controllers.GetOrder)
	}

	// Admin back-office. Role is resolved server-side per request.
	admin := r.Group("/api")
	admin.Use(middlewares.AuthMiddleware(), middlewares.AdminMiddleware())
	{
		admin.POST("/products", controllers.CreateProduct)
		admin.PUT("/products/:id", controllers.UpdateProduct)
		admin.DELETE("/products/:id", controllers.DeleteProduct)

		admin.POST("/categories", controllers.CreateCategory)
		admin.POST("/tags", controllers.CreateTag)

		admin.GET("/contact", controllers.ListContactSubmissions)
		admin.PATCH("/contact/:id", controllers.UpdateContactStatus)

		admin.GET("/admin/orders", controllers.ListOrders)
		admin.GET("/admin/orders/:id", controllers.GetOrder)
		admin.PATCH("/admin/orders/:id", controllers.UpdateOrderStatus)
		admin.GET("/admin/customers", controllers.ListCustomers)
	}

	addr := ":" + cfg.Port
	log.Printf("Abaya shop API starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
