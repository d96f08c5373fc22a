package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CustomerRepository is the slice of the customer module the analytics
// rollup needs: the total headcount for the conversion rate. Customer CRUD
// itself lives with the rest of the application.
type CustomerRepository interface {
	CountCustomers(ctx context.Context) (int64, error)
}

type MongoCustomerRepository struct {
	DB *mongo.Database
}

func NewCustomerRepository(db *mongo.Database) CustomerRepository {
	return &MongoCustomerRepository{DB: db}
}

func (r *MongoCustomerRepository) CountCustomers(ctx context.Context) (int64, error) {
	return r.DB.Collection("customers").CountDocuments(ctx, bson.M{})
}
