package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"vparts/db"
	"vparts/models"
	"vparts/notifications"
	"vparts/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetReviews lists a product's reviews, newest first.
func GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(100)
	cursor, err := db.ReviewsCollection.Find(ctx, bson.M{"productId": productID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, reviews)
}

// AddReview records a buyer's review. One review per buyer per
// product; posting again is a conflict. A delivered order containing
// the product is required.
func AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	buyerID := utils.GetUserIDFromRequest(r)
	if buyerID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productID := ps.ByName("productid")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := db.ReviewsCollection.CountDocuments(ctx, bson.M{
		"productId": productID,
		"buyerId":   buyerID,
	})
	if err != nil {
		log.Printf("AddReview: error checking for existing review: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, "You have already reviewed this product", http.StatusConflict)
		return
	}

	delivered, err := db.OrderCollection.CountDocuments(ctx, bson.M{
		"buyerId":          buyerID,
		"status":           "delivered",
		"items.productId": productID,
	})
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if delivered == 0 {
		http.Error(w, "Only delivered purchases can be reviewed", http.StatusForbidden)
		return
	}

	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil || review.Rating < 1 || review.Rating > 5 {
		http.Error(w, "Invalid review data", http.StatusBadRequest)
		return
	}

	review.ReviewID = utils.GenerateRandomString(16)
	review.ProductID = productID
	review.BuyerID = buyerID
	review.CreatedAt = time.Now()

	if _, err := db.ReviewsCollection.InsertOne(ctx, review); err != nil {
		http.Error(w, "Failed to insert review: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := recomputeProductRating(ctx, productID); err != nil {
		log.Printf("AddReview: rating recompute for %s failed: %v", productID, err)
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productId": productID}).Decode(&product); err == nil {
		notifications.Notify(product.VendorID, "order",
			fmt.Sprintf("New %d-star review", review.Rating),
			fmt.Sprintf("%s received a new review.", product.Title),
			productID,
		)
	}

	utils.RespondWithJSON(w, http.StatusCreated, review)
}

// DeleteReview removes the caller's own review.
func DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	buyerID := utils.GetUserIDFromRequest(r)
	if buyerID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	reviewID := ps.ByName("reviewid")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var review models.Review
	err := db.ReviewsCollection.FindOne(ctx, bson.M{"reviewId": reviewID}).Decode(&review)
	if err != nil {
		http.Error(w, "Review not found", http.StatusNotFound)
		return
	}
	if review.BuyerID != buyerID && !utils.HasRole(r, "admin") {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if _, err := db.ReviewsCollection.DeleteOne(ctx, bson.M{"reviewId": reviewID}); err != nil {
		http.Error(w, fmt.Sprintf("Failed to delete review: %v", err), http.StatusInternalServerError)
		return
	}

	if err := recomputeProductRating(ctx, review.ProductID); err != nil {
		log.Printf("DeleteReview: rating recompute for %s failed: %v", review.ProductID, err)
	}

	utils.SendResponse(w, http.StatusOK, nil, "Review deleted", nil)
}

// recomputeProductRating aggregates the product's reviews and writes
// the average and count back onto the listing.
func recomputeProductRating(ctx context.Context, productID string) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"productId": productID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := db.ReviewsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	rating, count := 0.0, 0
	if cursor.Next(ctx) {
		var agg struct {
			Avg   float64 `bson:"avg"`
			Count int     `bson:"count"`
		}
		if err := cursor.Decode(&agg); err != nil {
			return err
		}
		rating, count = agg.Avg, agg.Count
	}

	_, err = db.ProductCollection.UpdateOne(ctx,
		bson.M{"productId": productID},
		bson.M{"$set": bson.M{"rating": rating, "reviewCount": count}},
	)
	return err
}
