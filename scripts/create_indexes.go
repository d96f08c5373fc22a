package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Run this script once to create database indexes
// Usage: go run scripts/create_indexes.go
func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "bizmanage"
	}

	clientOptions := options.Client().ApplyURI(mongoURI).SetServerSelectionTimeout(30 * time.Second)

	log.Println("🔄 Connecting to MongoDB...")
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("❌ Failed to create client: %v", err)
	}
	defer client.Disconnect(ctx)

	log.Println("🔄 Verifying connection...")
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	log.Println("✅ Connected to MongoDB successfully!")

	db := client.Database(dbName)

	// ========================================
	// ORDERS COLLECTION INDEXES
	// ========================================
	ordersCollection := db.Collection("orders")

	// 1. Unique index on orderNumber - backstop for the sequence counter
	_, err = ordersCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "orderNumber", Value: 1}},
		Options: options.Index().SetName("idx_orderNumber").SetUnique(true),
	})
	if err != nil {
		log.Printf("Failed to create orderNumber index: %v", err)
	} else {
		log.Println("✅ Created unique index: idx_orderNumber on orders.orderNumber")
	}

	// 2. Index on status for analytics filtering (excluding cancelled)
	_, err = ordersCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}},
		Options: options.Index().SetName("idx_status"),
	})
	if err != nil {
		log.Printf("Failed to create status index: %v", err)
	} else {
		log.Println("✅ Created index: idx_status on orders.status")
	}

	// 3. Index on createdAt for the monthly trend windows (newest first)
	_, err = ordersCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_createdAt"),
	})
	if err != nil {
		log.Printf("Failed to create createdAt index: %v", err)
	} else {
		log.Println("✅ Created index: idx_createdAt on orders.createdAt")
	}

	// 4. Index on customer for per-customer order lookups
	_, err = ordersCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "customer", Value: 1}},
		Options: options.Index().SetName("idx_customer"),
	})
	if err != nil {
		log.Printf("Failed to create customer index: %v", err)
	} else {
		log.Println("✅ Created index: idx_customer on orders.customer")
	}

	log.Println("🎉 Index creation complete!")
}
