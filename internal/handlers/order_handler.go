package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/modulolabs/bizmanage-backend/internal/adapters/repository"
	"github.com/modulolabs/bizmanage-backend/internal/models"
	"github.com/modulolabs/bizmanage-backend/internal/pricing"
	"github.com/modulolabs/bizmanage-backend/utils"
)

type OrderHandler struct {
	Repo repository.OrderRepository
}

func NewOrderHandler(db *mongo.Database) *OrderHandler {
	return &OrderHandler{Repo: repository.NewOrderRepository(db)}
}

// buildLineItems converts request items into model items. Pricing and
// validation happen afterwards in the pricing package; this only resolves
// the product references.
func buildLineItems(inputs []models.LineItemInput) ([]models.LineItem, error) {
	items := make([]models.LineItem, 0, len(inputs))
	for _, in := range inputs {
		productID, err := primitive.ObjectIDFromHex(in.Product)
		if err != nil {
			return nil, err
		}
		items = append(items, models.LineItem{
			Product:     productID,
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Discount:    in.Discount,
			Tax:         in.Tax,
		})
	}
	return items, nil
}

// CreateOrder prices the submitted items, reserves the next order number
// and persists the order. Nothing is written when any step fails.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input models.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request body"))
		return
	}

	customerID, err := primitive.ObjectIDFromHex(input.Customer)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid customer ID"))
		return
	}

	items, err := buildLineItems(input.Items)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid product ID in items"))
		return
	}

	priced, totals, err := pricing.Price(items)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	now := time.Now()
	orderNumber, err := h.Repo.NextOrderNumber(ctx, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to assign order number"))
		return
	}

	order := models.Order{
		OrderNumber:   orderNumber,
		Customer:      customerID,
		CustomerName:  input.CustomerName,
		Items:         priced,
		Status:        models.StatusDraft,
		PaymentStatus: models.PaymentUnpaid,
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	totals.Apply(&order)

	created, err := h.Repo.CreateOrder(ctx, order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to create order"))
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("Order created successfully", gin.H{"order": created}))
}

// UpdateOrder merges the provided fields. When items are present the whole
// pricing breakdown is recomputed and replaced; totals can never be edited
// on their own.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid order ID"))
		return
	}

	var input models.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request body"))
		return
	}

	set := bson.M{"updatedAt": time.Now()}

	if input.Items != nil {
		items, err := buildLineItems(*input.Items)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid product ID in items"))
			return
		}
		priced, totals, err := pricing.Price(items)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
			return
		}
		subtotal, taxAmount, discountAmount, total := totals.Breakdown()
		set["items"] = priced
		set["subtotal"] = subtotal
		set["taxAmount"] = taxAmount
		set["discountAmount"] = discountAmount
		set["total"] = total
	}
	if input.CustomerName != nil {
		set["customerName"] = *input.CustomerName
	}
	if input.Status != nil {
		set["status"] = *input.Status
	}
	if input.PaymentStatus != nil {
		set["paymentStatus"] = *input.PaymentStatus
	}
	if input.Notes != nil {
		set["notes"] = *input.Notes
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	updated, err := h.Repo.UpdateOrder(ctx, orderID, set)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse("Order not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to update order"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Order updated successfully", gin.H{"order": updated}))
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid order ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.DeleteOrder(ctx, orderID); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse("Order not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to delete order"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Order deleted successfully", nil))
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	orders, err := h.Repo.GetOrders(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch orders"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Orders fetched successfully", gin.H{"orders": orders}))
}

func (h *OrderHandler) GetOrderById(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid order ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := h.Repo.GetOrderById(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse("Order not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch order"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Order fetched successfully", gin.H{"order": order}))
}
