package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

func SetupRoutes(router *gin.Engine, db *mongo.Database) {
	logrus.Info("Setting up routes...")

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Server is running!",
			"status":  "ok",
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "bizmanage-backend",
		})
	})

	if db != nil {
		logrus.Info("Database connected - setting up database routes")
		orderHandler := NewOrderHandler(db)
		analyticsHandler := NewAnalyticsHandler(db)

		api := router.Group("/api/v1")
		{
			orders := api.Group("/orders")
			{
				orders.POST("", orderHandler.CreateOrder)
				orders.GET("", orderHandler.GetOrders)
				orders.GET("/:id", orderHandler.GetOrderById)
				orders.PUT("/:id", orderHandler.UpdateOrder)
				orders.DELETE("/:id", orderHandler.DeleteOrder)
			}

			api.GET("/analytics/sales", analyticsHandler.GetSalesAnalytics)
		}
	} else {
		logrus.Warn("Database not connected - running with limited functionality")
		router.Any("/api/*path", func(c *gin.Context) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Database connection not available",
				"message": "The server is running but could not connect to the database. Please check server logs.",
			})
		})
	}
}
