package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Priyanka03s/travel-sid-sub002/internal/api/handlers"
	"github.com/Priyanka03s/travel-sid-sub002/internal/api/middleware"
	"github.com/Priyanka03s/travel-sid-sub002/internal/config"
	"github.com/Priyanka03s/travel-sid-sub002/internal/services"
	"github.com/Priyanka03s/travel-sid-sub002/internal/storage"
)

// SetupRouter configures and returns the main Gin engine. storageService
// may be nil when S3 is not configured.
func SetupRouter(cfg *config.Config, listingService services.IListingService, fieldConfigService services.IFieldConfigService, storageService storage.IS3Storage) *gin.Engine {
	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	// Apply global middleware first (order matters)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	listingHandler := handlers.NewListingHandler(listingService, storageService)
	pricingHandler := handlers.NewPricingHandler()
	fieldConfigHandler := handlers.NewFieldConfigHandler(fieldConfigService)

	v1 := r.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		v1.POST("/pricing/preview", pricingHandler.Preview)
		v1.GET("/field-config/:kind", fieldConfigHandler.Get)

		for segment, kind := range handlers.KindSegments() {
			v1.GET("/"+segment, listingHandler.Search(kind))
			v1.GET("/"+segment+"/:id", listingHandler.Get(kind))
		}

		authRequired := v1.Group("/")
		authRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret))
		{
			for segment, kind := range handlers.KindSegments() {
				authRequired.POST("/"+segment, listingHandler.Create(kind))
				authRequired.PUT("/"+segment+"/:id", listingHandler.Update(kind))
				authRequired.PATCH("/"+segment+"/:id/publish", listingHandler.Publish(kind))
				authRequired.PATCH("/"+segment+"/:id/cancel", listingHandler.Cancel(kind))
				authRequired.POST("/"+segment+"/:id/images/presign", listingHandler.PresignImage(kind))
				authRequired.POST("/"+segment+"/:id/images", listingHandler.ConfirmImage(kind))
			}
			authRequired.GET("/host/listings", listingHandler.HostListings)
		}

		adminRequired := v1.Group("/admin")
		adminRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret), middleware.AdminMiddleware())
		{
			adminRequired.PUT("/field-config/:kind", fieldConfigHandler.Set)
		}
	}

	return r
}

// SetupServiceRouter configures and returns the service Gin engine, bound
// to the internal service port.
func SetupServiceRouter(db *mongo.Database, rdb *redis.Client, shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			log.Println("Received shutdown command via Service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
				log.Println("Shutdown signal sent successfully.")
			default:
				log.Println("Shutdown channel already signaled or blocked.")
			}
		case "health":
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			status := gin.H{"mongo": "ok", "redis": "ok"}
			healthy := true
			if db == nil {
				status["mongo"] = "not configured"
			} else if err := db.Client().Ping(ctx, nil); err != nil {
				status["mongo"] = err.Error()
				healthy = false
			}
			if rdb == nil {
				status["redis"] = "not configured"
			} else if err := rdb.Ping(ctx).Err(); err != nil {
				status["redis"] = err.Error()
				healthy = false
			}
			code := http.StatusOK
			if !healthy {
				code = http.StatusServiceUnavailable
			}
			c.JSON(code, gin.H{"success": healthy, "result": status})
		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})
	return r
}
