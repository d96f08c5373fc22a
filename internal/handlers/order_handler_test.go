package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/modulolabs/bizmanage-backend/internal/adapters/repository"
	"github.com/modulolabs/bizmanage-backend/internal/models"
	"github.com/modulolabs/bizmanage-backend/internal/numbering"
)

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]models.Order
	seq    int64
	fail   bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[primitive.ObjectID]models.Order)}
}

func (f *fakeOrderRepo) seed(order models.Order) models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	f.orders[order.ID] = order
	return order
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order models.Order) (models.Order, error) {
	if f.fail {
		return models.Order{}, errors.New("store down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = primitive.NewObjectID()
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeOrderRepo) GetOrders(context.Context) ([]models.Order, error) {
	if f.fail {
		return nil, errors.New("store down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	orders := make([]models.Order, 0, len(f.orders))
	for _, o := range f.orders {
		orders = append(orders, o)
	}
	return orders, nil
}

func (f *fakeOrderRepo) GetOrderById(_ context.Context, orderID primitive.ObjectID) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok {
		return models.Order{}, repository.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) UpdateOrder(_ context.Context, orderID primitive.ObjectID, set bson.M) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok {
		return models.Order{}, repository.ErrOrderNotFound
	}
	for key, value := range set {
		switch key {
		case "updatedAt":
			order.UpdatedAt = value.(time.Time)
		case "items":
			order.Items = value.([]models.LineItem)
		case "subtotal":
			order.Subtotal = value.(float64)
		case "taxAmount":
			order.TaxAmount = value.(float64)
		case "discountAmount":
			order.DiscountAmount = value.(float64)
		case "total":
			order.Total = value.(float64)
		case "customerName":
			order.CustomerName = value.(string)
		case "status":
			order.Status = value.(models.OrderStatus)
		case "paymentStatus":
			order.PaymentStatus = value.(models.PaymentStatus)
		case "notes":
			order.Notes = value.(string)
		}
	}
	f.orders[orderID] = order
	return order, nil
}

func (f *fakeOrderRepo) DeleteOrder(_ context.Context, orderID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[orderID]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(f.orders, orderID)
	return nil
}

func (f *fakeOrderRepo) NextOrderNumber(_ context.Context, now time.Time) (string, error) {
	if f.fail {
		return "", errors.New("store down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return numbering.OrderNumber(now.Year(), f.seq), nil
}

type fakeCustomerRepo struct {
	count int64
	err   error
}

func (f *fakeCustomerRepo) CountCustomers(context.Context) (int64, error) {
	return f.count, f.err
}

func newTestRouter(orders repository.OrderRepository, customers repository.CustomerRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	orderHandler := &OrderHandler{Repo: orders}
	router.POST("/api/v1/orders", orderHandler.CreateOrder)
	router.GET("/api/v1/orders", orderHandler.GetOrders)
	router.GET("/api/v1/orders/:id", orderHandler.GetOrderById)
	router.PUT("/api/v1/orders/:id", orderHandler.UpdateOrder)
	router.DELETE("/api/v1/orders/:id", orderHandler.DeleteOrder)

	if customers != nil {
		analyticsHandler := &AnalyticsHandler{Orders: orders, Customers: customers}
		router.GET("/api/v1/analytics/sales", analyticsHandler.GetSalesAnalytics)
	}
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type orderEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Order models.Order `json:"order"`
	} `json:"data"`
}

func decodeOrder(t *testing.T, rec *httptest.ResponseRecorder) models.Order {
	t.Helper()
	var envelope orderEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data.Order
}

func TestCreateOrderPricesAndPersists(t *testing.T) {
	repo := newFakeOrderRepo()
	router := newTestRouter(repo, nil)

	body := fmt.Sprintf(`{
		"customer": "%s",
		"customerName": "Acme Ltd",
		"items": [
			{"product": "%s", "productName": "Chair", "quantity": 2, "unitPrice": 50, "discount": 10, "tax": 5}
		]
	}`, primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())

	rec := doJSON(t, router, http.MethodPost, "/api/v1/orders", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	order := decodeOrder(t, rec)
	assert.Equal(t, fmt.Sprintf("SO-%d-00001", time.Now().Year()), order.OrderNumber)
	assert.Equal(t, 90.0, order.Subtotal)
	assert.Equal(t, 4.5, order.TaxAmount)
	assert.Equal(t, 10.0, order.DiscountAmount)
	assert.Equal(t, 94.5, order.Total)
	assert.Equal(t, models.StatusDraft, order.Status)
	assert.Equal(t, models.PaymentUnpaid, order.PaymentStatus)
	assert.False(t, order.CreatedAt.IsZero())
	require.Len(t, order.Items, 1)
	assert.Equal(t, 90.0, order.Items[0].Subtotal)
	assert.Len(t, repo.orders, 1)
}

func TestCreateOrderRejectsOutOfRangeDiscount(t *testing.T) {
	repo := newFakeOrderRepo()
	router := newTestRouter(repo, nil)

	body := fmt.Sprintf(`{
		"customer": "%s",
		"items": [{"product": "%s", "quantity": 1, "unitPrice": 10, "discount": 150}]
	}`, primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())

	rec := doJSON(t, router, http.MethodPost, "/api/v1/orders", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.orders, "a rejected order must not be persisted")
}

func TestCreateOrderStoreFailureWritesNothing(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.fail = true
	router := newTestRouter(repo, nil)

	body := fmt.Sprintf(`{"customer": "%s", "items": []}`, primitive.NewObjectID().Hex())

	rec := doJSON(t, router, http.MethodPost, "/api/v1/orders", body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, repo.orders)
}

func TestUpdateOrderRecomputesTotalsWhenItemsPresent(t *testing.T) {
	repo := newFakeOrderRepo()
	router := newTestRouter(repo, nil)

	seeded := repo.seed(models.Order{
		OrderNumber: "SO-2026-00001",
		Customer:    primitive.NewObjectID(),
		Subtotal:    90, TaxAmount: 4.5, DiscountAmount: 10, Total: 94.5,
		Status:        models.StatusDraft,
		PaymentStatus: models.PaymentUnpaid,
		UpdatedAt:     time.Now().Add(-time.Hour),
	})

	body := fmt.Sprintf(`{
		"items": [{"product": "%s", "productName": "Desk", "quantity": 1, "unitPrice": 100, "tax": 10}]
	}`, primitive.NewObjectID().Hex())

	rec := doJSON(t, router, http.MethodPut, "/api/v1/orders/"+seeded.ID.Hex(), body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decodeOrder(t, rec)
	assert.Equal(t, 100.0, updated.Subtotal)
	assert.Equal(t, 10.0, updated.TaxAmount)
	assert.Equal(t, 0.0, updated.DiscountAmount)
	assert.Equal(t, 110.0, updated.Total)
	assert.True(t, updated.UpdatedAt.After(seeded.UpdatedAt))
	assert.Equal(t, "SO-2026-00001", updated.OrderNumber, "order number is immutable")
}

func TestUpdateOrderWithoutItemsLeavesTotalsUntouched(t *testing.T) {
	repo := newFakeOrderRepo()
	router := newTestRouter(repo, nil)

	seeded := repo.seed(models.Order{
		OrderNumber: "SO-2026-00002",
		Customer:    primitive.NewObjectID(),
		Subtotal:    90, TaxAmount: 4.5, DiscountAmount: 10, Total: 94.5,
		Status:        models.StatusDraft,
		PaymentStatus: models.PaymentUnpaid,
	})

	rec := doJSON(t, router, http.MethodPut, "/api/v1/orders/"+seeded.ID.Hex(),
		`{"notes": "rush delivery", "paymentStatus": "paid"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeOrder(t, rec)
	assert.Equal(t, 90.0, updated.Subtotal)
	assert.Equal(t, 4.5, updated.TaxAmount)
	assert.Equal(t, 94.5, updated.Total)
	assert.Equal(t, "rush delivery", updated.Notes)
	assert.Equal(t, models.PaymentPaid, updated.PaymentStatus)
}

func TestUpdateOrderNotFound(t *testing.T) {
	router := newTestRouter(newFakeOrderRepo(), nil)

	rec := doJSON(t, router, http.MethodPut, "/api/v1/orders/"+primitive.NewObjectID().Hex(),
		`{"notes": "x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	router := newTestRouter(repo, nil)

	seeded := repo.seed(models.Order{OrderNumber: "SO-2026-00003"})

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/orders/"+seeded.ID.Hex(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.orders)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/orders/"+seeded.ID.Hex(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrderByIdNotFound(t *testing.T) {
	router := newTestRouter(newFakeOrderRepo(), nil)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/orders/"+primitive.NewObjectID().Hex(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type analyticsEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Analytics models.SalesAnalytics `json:"analytics"`
	} `json:"data"`
}

func TestGetSalesAnalytics(t *testing.T) {
	repo := newFakeOrderRepo()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	now := time.Now()
	repo.seed(models.Order{Customer: alice, Total: 100, Status: models.StatusConfirmed, CreatedAt: now})
	repo.seed(models.Order{Customer: bob, Total: 200, Status: models.StatusSent, CreatedAt: now})
	repo.seed(models.Order{Customer: alice, Total: 300, Status: models.StatusDraft, CreatedAt: now})

	router := newTestRouter(repo, &fakeCustomerRepo{count: 5})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/analytics/sales", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope analyticsEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	snapshot := envelope.Data.Analytics

	assert.Equal(t, 600.0, snapshot.TotalRevenue)
	assert.Equal(t, 3, snapshot.TotalOrders)
	assert.Equal(t, int64(5), snapshot.TotalCustomers)
	assert.Equal(t, 200.0, snapshot.AverageOrderValue)
	assert.Equal(t, 40.0, snapshot.ConversionRate)
	assert.Len(t, snapshot.RevenueByMonth, 12)
}

func TestGetSalesAnalyticsStoreFailure(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.fail = true
	router := newTestRouter(repo, &fakeCustomerRepo{count: 5})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/analytics/sales", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope analyticsEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success, "no partial snapshot on store failure")
}
