package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusDraft     OrderStatus = "draft"
	StatusSent      OrderStatus = "sent"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// LineItem is one product entry within an order. ProductName is a
// denormalized label copied at order-creation time and is not kept in
// sync with the product catalog. Subtotal is always written by the
// pricing engine, never accepted from the client.
type LineItem struct {
	Product     primitive.ObjectID `json:"product" bson:"product"`
	ProductName string             `json:"productName" bson:"productName"`
	Quantity    int                `json:"quantity" bson:"quantity" validate:"gte=1"`
	UnitPrice   float64            `json:"unitPrice" bson:"unitPrice" validate:"gte=0"`
	Discount    float64            `json:"discount" bson:"discount" validate:"gte=0,lte=100"` // percent
	Tax         float64            `json:"tax" bson:"tax" validate:"gte=0,lte=100"`           // percent
	Subtotal    float64            `json:"subtotal" bson:"subtotal"`
}

type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber  string             `json:"orderNumber" bson:"orderNumber"` // e.g., SO-2026-00042
	Customer     primitive.ObjectID `json:"customer" bson:"customer"`
	CustomerName string             `json:"customerName" bson:"customerName"`
	Items        []LineItem         `json:"items" bson:"items"`

	// Pricing breakdown, derived from Items; never editable on their own
	Subtotal       float64 `json:"subtotal" bson:"subtotal"`
	TaxAmount      float64 `json:"taxAmount" bson:"taxAmount"`
	DiscountAmount float64 `json:"discountAmount" bson:"discountAmount"`
	Total          float64 `json:"total" bson:"total"`

	Status        OrderStatus   `json:"status" bson:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus" bson:"paymentStatus"`
	Notes         string        `json:"notes" bson:"notes"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type LineItemInput struct {
	Product     string  `json:"product" binding:"required"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity" binding:"required"`
	UnitPrice   float64 `json:"unitPrice"`
	Discount    float64 `json:"discount"`
	Tax         float64 `json:"tax"`
}

type CreateOrderInput struct {
	Customer     string          `json:"customer" binding:"required"`
	CustomerName string          `json:"customerName"`
	Items        []LineItemInput `json:"items"` // empty is valid and prices to zero
	Notes        string          `json:"notes"`
}

// UpdateOrderInput is a partial update; nil fields are left untouched.
// Totals are recomputed only when Items is present.
type UpdateOrderInput struct {
	CustomerName  *string          `json:"customerName"`
	Items         *[]LineItemInput `json:"items"`
	Status        *OrderStatus     `json:"status"`
	PaymentStatus *PaymentStatus   `json:"paymentStatus"`
	Notes         *string          `json:"notes"`
}
