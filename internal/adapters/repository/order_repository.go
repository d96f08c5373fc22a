package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/modulolabs/bizmanage-backend/internal/models"
	"github.com/modulolabs/bizmanage-backend/internal/numbering"
)

// ErrOrderNotFound lets callers tell "nothing to update" apart from a
// broken store.
var ErrOrderNotFound = errors.New("order not found")

type OrderRepository interface {
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
	GetOrders(ctx context.Context) ([]models.Order, error)
	GetOrderById(ctx context.Context, orderID primitive.ObjectID) (models.Order, error)
	UpdateOrder(ctx context.Context, orderID primitive.ObjectID, set bson.M) (models.Order, error)
	DeleteOrder(ctx context.Context, orderID primitive.ObjectID) error
	NextOrderNumber(ctx context.Context, now time.Time) (string, error)
}

type MongoOrderRepository struct {
	DB *mongo.Database
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &MongoOrderRepository{DB: db}
}

func (r *MongoOrderRepository) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	order.ID = primitive.NewObjectID()
	if _, err := r.DB.Collection("orders").InsertOne(ctx, order); err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return order, nil
}

func (r *MongoOrderRepository) GetOrders(ctx context.Context) ([]models.Order, error) {
	collection := r.DB.Collection("orders")
	cursor, err := collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoOrderRepository) GetOrderById(ctx context.Context, orderID primitive.ObjectID) (models.Order, error) {
	var order models.Order
	err := r.DB.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, err
	}
	return order, nil
}

// UpdateOrder applies a $set document and returns the updated order.
// Callers own the merge semantics; the repository only distinguishes a
// missing order from a failed write.
func (r *MongoOrderRepository) UpdateOrder(ctx context.Context, orderID primitive.ObjectID, set bson.M) (models.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Order
	err := r.DB.Collection("orders").
		FindOneAndUpdate(ctx, bson.M{"_id": orderID}, bson.M{"$set": set}, opts).
		Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("update order: %w", err)
	}
	return updated, nil
}

func (r *MongoOrderRepository) DeleteOrder(ctx context.Context, orderID primitive.ObjectID) error {
	res, err := r.DB.Collection("orders").DeleteOne(ctx, bson.M{"_id": orderID})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// NextOrderNumber reserves the next number from the per-year counter
// document. The counter is advanced with a single findAndModify, so two
// concurrent creations can never observe the same value.
func (r *MongoOrderRepository) NextOrderNumber(ctx context.Context, now time.Time) (string, error) {
	seq := &mongoSequence{collection: r.DB.Collection("counters")}
	return numbering.NextOrderNumber(ctx, seq, now)
}

type mongoSequence struct {
	collection *mongo.Collection
}

func (s *mongoSequence) Next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.collection.
		FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).
		Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", name, err)
	}
	return counter.Seq, nil
}
