package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"vparts/db"
	"vparts/models"
	"vparts/pricing"
	"vparts/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// insertBatched writes docs in chunks capped at db.MaxBatchOps.
func insertBatched(ctx context.Context, coll *mongo.Collection, docs []any) error {
	for start := 0; start < len(docs); start += db.MaxBatchOps {
		end := start + db.MaxBatchOps
		if end > len(docs) {
			end = len(docs)
		}
		if _, err := coll.InsertMany(ctx, docs[start:end]); err != nil {
			return fmt.Errorf("batch insert [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

// Categories writes the part taxonomy.
func Categories(ctx context.Context) ([]models.Category, error) {
	docs := make([]any, len(partCategories))
	for i, c := range partCategories {
		docs[i] = c
	}
	if err := insertBatched(ctx, db.CategoryCollection, docs); err != nil {
		return nil, err
	}
	log.Printf("seed: %d categories", len(partCategories))
	return partCategories, nil
}

// BikeModels writes one document per make/model with a shared year
// range.
func BikeModels(ctx context.Context) ([]models.BikeModel, error) {
	var bms []models.BikeModel
	for _, make := range bikeMakes {
		for _, model := range bikeModelsByMake[make] {
			id := strings.ToLower(make + "-" + strings.ReplaceAll(model, " ", "-"))
			bms = append(bms, models.BikeModel{
				ModelID: id,
				Make:    make,
				Model:   model,
				YearMin: 2015,
				YearMax: 2023,
			})
		}
	}

	docs := make([]any, len(bms))
	for i, bm := range bms {
		docs[i] = bm
	}
	if err := insertBatched(ctx, db.BikeModelCollection, docs); err != nil {
		return nil, err
	}
	log.Printf("seed: %d bike models", len(bms))
	return bms, nil
}

// Users writes vendor and buyer accounts. All seeded accounts share
// the password "password123".
func Users(ctx context.Context, vendorCount, buyerCount int) (vendors, buyers []models.User, err error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	for i := 0; i < vendorCount; i++ {
		owner := vendorOwners[i%len(vendorOwners)]
		vtype := vendorTypes[i%len(vendorTypes)]
		vendors = append(vendors, models.User{
			UserID:       "u" + utils.GenerateName(10),
			Username:     fmt.Sprintf("vendor%02d", i+1),
			Email:        fmt.Sprintf("vendor%02d@example.com", i+1),
			Password:     string(hashed),
			Role:         []string{"vendor"},
			Name:         owner,
			BusinessName: owner + " " + vtype,
			IsVerified:   true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	for i := 0; i < buyerCount; i++ {
		loc := seedCities[i%len(seedCities)]
		buyers = append(buyers, models.User{
			UserID:   "u" + utils.GenerateName(10),
			Username: fmt.Sprintf("buyer%02d", i+1),
			Email:    fmt.Sprintf("buyer%02d@example.com", i+1),
			Password: string(hashed),
			Role:     []string{"buyer"},
			Addresses: []models.Address{{
				ID:         utils.GenerateName(8),
				Label:      "Home",
				Street:     fmt.Sprintf("%d MG Road", rand.Intn(200)+1),
				City:       loc.City,
				State:      loc.State,
				PostalCode: loc.PostalCode,
				IsDefault:  true,
			}},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	docs := make([]any, 0, len(vendors)+len(buyers))
	for _, u := range vendors {
		docs = append(docs, u)
	}
	for _, u := range buyers {
		docs = append(docs, u)
	}
	if err := insertBatched(ctx, db.UserCollection, docs); err != nil {
		return nil, nil, err
	}
	log.Printf("seed: %d vendors, %d buyers", len(vendors), len(buyers))
	return vendors, buyers, nil
}

// Products writes listings spread across vendors, categories and bike
// models. Prices land between 500 and 50000, rounded to the nearest 50.
func Products(ctx context.Context, vendors []models.User, categories []models.Category, bms []models.BikeModel, perVendor int) ([]models.Product, error) {
	var products []models.Product
	now := time.Now()

	for _, vendor := range vendors {
		for i := 0; i < perVendor; i++ {
			cat := categories[rand.Intn(len(categories))]
			sub := cat.Subcategories[rand.Intn(len(cat.Subcategories))]
			adj := partAdjectives[rand.Intn(len(partAdjectives))]
			make := bikeMakes[rand.Intn(len(bikeMakes))]

			var compat []string
			for _, bm := range bms {
				if bm.Make == make && rand.Intn(3) == 0 {
					compat = append(compat, bm.ModelID)
				}
			}

			// 500..49950 in steps of 50
			price := float64((rand.Intn(990) + 10) * 50)

			products = append(products, models.Product{
				ProductID:     "p" + utils.GenerateID(14),
				VendorID:      vendor.UserID,
				Title:         fmt.Sprintf("%s %s for %s", adj, sub, make),
				Description:   fmt.Sprintf("%s %s for %s. OEM specifications, tested for performance. Check compatibility before ordering.", adj, sub, make),
				Category:      cat.Name,
				Subcategory:   sub,
				Brand:         make,
				Price:         price,
				Stock:         rand.Intn(50) + 1,
				Compatibility: compat,
				Active:        true,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
		}
	}

	docs := make([]any, len(products))
	for i, p := range products {
		docs[i] = p
	}
	if err := insertBatched(ctx, db.ProductCollection, docs); err != nil {
		return nil, err
	}
	log.Printf("seed: %d products", len(products))
	return products, nil
}

var orderStatuses = []string{"pending", "confirmed", "processing", "shipped", "delivered"}

// Orders writes a spread of orders with totals computed by the same
// pricing rules checkout uses.
func Orders(ctx context.Context, buyers []models.User, products []models.Product, count int) error {
	var orders []any
	now := time.Now()

	for i := 0; i < count; i++ {
		buyer := buyers[rand.Intn(len(buyers))]

		var items []models.LineItem
		for n := rand.Intn(3) + 1; n > 0; n-- {
			p := products[rand.Intn(len(products))]
			items = append(items, models.LineItem{
				ProductID: p.ProductID,
				VendorID:  p.VendorID,
				Title:     p.Title,
				UnitPrice: p.Price,
				Quantity:  rand.Intn(2) + 1,
			})
		}

		quote := pricing.QuoteFor(items, 0)
		method := "razorpay"
		paymentStatus := "completed"
		if rand.Intn(3) == 0 {
			method = "cod"
			paymentStatus = "pending"
		}

		status := orderStatuses[rand.Intn(len(orderStatuses))]
		created := now.Add(-time.Duration(rand.Intn(60*24)) * time.Hour)

		orders = append(orders, models.Order{
			OrderID:         fmt.Sprintf("ORD%06d%03d", created.UnixMilli()%1_000_000, i%1000),
			BuyerID:         buyer.UserID,
			Items:           items,
			Subtotal:        quote.Subtotal,
			ShippingCost:    quote.ShippingCost,
			Tax:             quote.Tax,
			Discount:        quote.Discount,
			TotalAmount:     quote.Total,
			ShippingAddress: buyer.Addresses[0],
			Payment: models.PaymentDetails{
				Method:   method,
				Status:   paymentStatus,
				Amount:   quote.Total,
				Currency: pricing.Currency,
			},
			Status:    status,
			CreatedAt: created,
			UpdatedAt: created,
		})
	}

	if err := insertBatched(ctx, db.OrderCollection, orders); err != nil {
		return err
	}
	log.Printf("seed: %d orders", count)
	return nil
}

// Reviews writes at most one review per buyer per product and folds
// the resulting averages back onto the product documents.
func Reviews(ctx context.Context, buyers []models.User, products []models.Product, count int) error {
	type tally struct {
		sum, n int
	}
	seen := make(map[string]bool)
	tallies := make(map[string]*tally)
	var docs []any
	now := time.Now()

	for i := 0; i < count; i++ {
		buyer := buyers[rand.Intn(len(buyers))]
		p := products[rand.Intn(len(products))]
		key := buyer.UserID + "|" + p.ProductID
		if seen[key] {
			continue
		}
		seen[key] = true

		rating := rand.Intn(3) + 3 // seeded reviews skew positive
		docs = append(docs, models.Review{
			ReviewID:  utils.GenerateRandomString(16),
			ProductID: p.ProductID,
			BuyerID:   buyer.UserID,
			Rating:    rating,
			Comment:   reviewComments[rand.Intn(len(reviewComments))],
			CreatedAt: now.Add(-time.Duration(rand.Intn(30*24)) * time.Hour),
		})
		if tallies[p.ProductID] == nil {
			tallies[p.ProductID] = &tally{}
		}
		tallies[p.ProductID].sum += rating
		tallies[p.ProductID].n++
	}

	if err := insertBatched(ctx, db.ReviewsCollection, docs); err != nil {
		return err
	}
	for productID, t := range tallies {
		avg := float64(t.sum) / float64(t.n)
		_, err := db.ProductCollection.UpdateOne(ctx,
			bson.M{"productId": productID},
			bson.M{"$set": bson.M{"rating": avg, "reviewCount": t.n}})
		if err != nil {
			return err
		}
	}
	log.Printf("seed: %d reviews across %d products", len(docs), len(tallies))
	return nil
}

// Conversations writes buyer-vendor threads with a short exchange each,
// plus an unread-message notification for the buyer.
func Conversations(ctx context.Context, buyers []models.User, products []models.Product, count int) error {
	var convs, msgs, notifs []any
	now := time.Now()

	for i := 0; i < count; i++ {
		buyer := buyers[rand.Intn(len(buyers))]
		p := products[rand.Intn(len(products))]
		convID := "c" + utils.GenerateID(14)
		started := now.Add(-time.Duration(rand.Intn(14*24)) * time.Hour)

		opener := chatOpeners[rand.Intn(len(chatOpeners))]
		reply := chatReplies[rand.Intn(len(chatReplies))]

		msgs = append(msgs,
			models.Message{
				MessageID:      "m" + utils.GenerateID(16),
				ConversationID: convID,
				SenderID:       buyer.UserID,
				Content:        opener,
				Read:           true,
				CreatedAt:      started,
			},
			models.Message{
				MessageID:      "m" + utils.GenerateID(16),
				ConversationID: convID,
				SenderID:       p.VendorID,
				Content:        reply,
				CreatedAt:      started.Add(10 * time.Minute),
			},
		)
		convs = append(convs, models.Conversation{
			ConversationID: convID,
			BuyerID:        buyer.UserID,
			VendorID:       p.VendorID,
			ProductID:      p.ProductID,
			LastMessage:    reply,
			CreatedAt:      started,
			UpdatedAt:      started.Add(10 * time.Minute),
		})
		notifs = append(notifs, models.Notification{
			NotificationID: "n" + utils.GenerateID(14),
			UserID:         buyer.UserID,
			Type:           "message",
			Title:          "New message",
			Body:           reply,
			EntityID:       convID,
			CreatedAt:      started.Add(10 * time.Minute),
		})
	}

	if err := insertBatched(ctx, db.ConversationsCollection, convs); err != nil {
		return err
	}
	if err := insertBatched(ctx, db.MessagesCollection, msgs); err != nil {
		return err
	}
	if err := insertBatched(ctx, db.NotificationsCollection, notifs); err != nil {
		return err
	}
	log.Printf("seed: %d conversations", len(convs))
	return nil
}

// All runs the full seeding sequence.
func All(ctx context.Context) error {
	categories, err := Categories(ctx)
	if err != nil {
		return err
	}
	bms, err := BikeModels(ctx)
	if err != nil {
		return err
	}
	vendors, buyers, err := Users(ctx, 8, 20)
	if err != nil {
		return err
	}
	products, err := Products(ctx, vendors, categories, bms, 25)
	if err != nil {
		return err
	}
	if err := Orders(ctx, buyers, products, 100); err != nil {
		return err
	}
	if err := Reviews(ctx, buyers, products, 120); err != nil {
		return err
	}
	return Conversations(ctx, buyers, products, 30)
}
