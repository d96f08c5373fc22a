package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/modulolabs/bizmanage-backend/internal/adapters/repository"
	"github.com/modulolabs/bizmanage-backend/internal/analytics"
	"github.com/modulolabs/bizmanage-backend/utils"
)

type AnalyticsHandler struct {
	Orders    repository.OrderRepository
	Customers repository.CustomerRepository
}

func NewAnalyticsHandler(db *mongo.Database) *AnalyticsHandler {
	return &AnalyticsHandler{
		Orders:    repository.NewOrderRepository(db),
		Customers: repository.NewCustomerRepository(db),
	}
}

// GetSalesAnalytics recomputes the sales snapshot from the order history
// on every call. Both store reads share one timeout and any failure aborts
// the whole request; a partial snapshot is never returned.
func (h *AnalyticsHandler) GetSalesAnalytics(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	orders, err := h.Orders.GetOrders(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch orders"))
		return
	}

	totalCustomers, err := h.Customers.CountCustomers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch customer count"))
		return
	}

	snapshot := analytics.BuildSnapshot(orders, totalCustomers, time.Now())

	c.JSON(http.StatusOK, utils.SuccessResponse("Sales analytics fetched successfully", gin.H{"analytics": snapshot}))
}
