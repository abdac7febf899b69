package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection          *mongo.Collection
	ProductCollection       *mongo.Collection
	OrderCollection         *mongo.Collection
	CategoryCollection      *mongo.Collection
	BikeModelCollection     *mongo.Collection
	ReviewsCollection       *mongo.Collection
	MessagesCollection      *mongo.Collection
	ConversationsCollection *mongo.Collection
	NotificationsCollection *mongo.Collection
	Client                  *mongo.Client
)

// MaxBatchOps caps multi-document writes per batch.
const MaxBatchOps = 500

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "partsdb"
	}

	UserCollection = Client.Database(dbName).Collection("users")
	ProductCollection = Client.Database(dbName).Collection("products")
	OrderCollection = Client.Database(dbName).Collection("orders")
	CategoryCollection = Client.Database(dbName).Collection("categories")
	BikeModelCollection = Client.Database(dbName).Collection("bikeModels")
	ReviewsCollection = Client.Database(dbName).Collection("reviews")
	MessagesCollection = Client.Database(dbName).Collection("messages")
	ConversationsCollection = Client.Database(dbName).Collection("conversations")
	NotificationsCollection = Client.Database(dbName).Collection("notifications")
}
