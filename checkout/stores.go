package checkout

import (
	"context"

	"vparts/db"
	"vparts/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOrderStore writes orders to the orders collection. ReplaceOne
// with upsert keeps the retried write idempotent on orderId.
type MongoOrderStore struct {
	Coll *mongo.Collection
}

func NewMongoOrderStore() *MongoOrderStore {
	return &MongoOrderStore{Coll: db.OrderCollection}
}

func (s *MongoOrderStore) Put(ctx context.Context, order *models.Order) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.Coll.ReplaceOne(ctx, bson.M{"orderId": order.OrderID}, order, opts)
	return err
}

// MongoUserDirectory reads buyer profiles from the users collection.
type MongoUserDirectory struct {
	Coll *mongo.Collection
}

func NewMongoUserDirectory() *MongoUserDirectory {
	return &MongoUserDirectory{Coll: db.UserCollection}
}

func (d *MongoUserDirectory) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := d.Coll.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
