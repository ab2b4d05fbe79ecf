package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/dip04-eng/Sweet-store-backend/internal/api"
	"github.com/dip04-eng/Sweet-store-backend/internal/config"
	"github.com/dip04-eng/Sweet-store-backend/internal/notify"
	"github.com/dip04-eng/Sweet-store-backend/internal/repository"
	"github.com/dip04-eng/Sweet-store-backend/internal/service"
	"github.com/dip04-eng/Sweet-store-backend/migrations"
)

// connectDB dials MySQL with a bounded retry loop. Returning nil puts the
// repositories in degraded mode instead of failing the process: reads serve
// empty results and writes report the database as unavailable.
func connectDB(dsn string) *sql.DB {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Println("Connected to MySQL")
				return db
			}
		}
		log.Printf("Retry %d: failed to connect to MySQL: %v", i+1, err)
		time.Sleep(3 * time.Second)
	}
	log.Printf("MySQL unavailable, continuing in degraded mode: %v", err)
	return nil
}

func main() {
	cfg := config.Load()

	db := connectDB(cfg.MySQLDSN)
	if db != nil {
		if err := migrations.AutoMigrateSweets(3, db); err != nil {
			log.Fatalf("Failed to migrate sweets table: %v", err)
		}
		if err := migrations.AutoMigrateOrders(3, db); err != nil {
			log.Fatalf("Failed to migrate orders table: %v", err)
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	kafkaWriter := config.NewKafkaWriter("order-topic")

	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	notifier := notify.NewManager(mailer, cfg.ManagerEmail)

	sweetRepo := repository.NewSweetRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	sweetService := service.NewSweetService(sweetRepo, rdb)
	orderService := service.NewOrderService(orderRepo, notifier, kafkaWriter)
	handler := api.NewHandler(sweetService, orderService, notifier)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     40,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, echo.HeaderAuthorization},
		ExposeHeaders: []string{echo.HeaderContentType},
		MaxAge:        3600,
	}))
	// Catalog images arrive as inline base64 payloads.
	e.Use(middleware.BodyLimit("16M"))
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	e.GET("/sweets", handler.GetSweets)
	e.POST("/place_order", handler.PlaceOrder)
	e.POST("/contact", handler.Contact)

	e.POST("/admin/add_sweet", handler.AddSweet)
	e.DELETE("/admin/remove_sweet", handler.RemoveSweet)
	e.GET("/admin/orders", handler.GetOrders)
	e.GET("/admin/daily_summary", handler.DailySummary)
	e.PUT("/admin/update_order_status", handler.UpdateOrderStatus)
	e.PUT("/admin/edit_order/:id", handler.EditOrder)
	e.POST("/admin/download_statement", handler.DownloadStatement)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "sweet-store",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(cfg.HTTPAddr))
}
