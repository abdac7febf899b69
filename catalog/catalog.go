// Package catalog serves the browse taxonomy: part categories and the
// bike make/model list products declare compatibility with.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"vparts/db"
	"vparts/models"
	"vparts/rdx"
	"vparts/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listCacheTTL = 10 * time.Minute

// GetCategories lists all part categories. The full list is small and
// read-heavy, so it is cached in Redis.
func GetCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if cached, err := rdx.RdxGet("catalog:categories"); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := db.CategoryCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		http.Error(w, "Failed to fetch categories", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		http.Error(w, "Failed to decode categories", http.StatusInternalServerError)
		return
	}

	if data, err := json.Marshal(categories); err == nil {
		if err := rdx.SetWithExpiry("catalog:categories", string(data), listCacheTTL); err != nil {
			log.Printf("catalog: category cache write failed: %v", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, categories)
}

// GetBikeModels lists bike models, optionally filtered by make.
func GetBikeModels(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	make := r.URL.Query().Get("make")

	cacheKey := "catalog:bikemodels"
	if make == "" {
		if cached, err := rdx.RdxGet(cacheKey); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cached))
			return
		}
	}

	filter := bson.M{}
	if make != "" {
		filter["make"] = make
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "make", Value: 1}, {Key: "model", Value: 1}})
	cursor, err := db.BikeModelCollection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "Failed to fetch bike models", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	bikeModels := []models.BikeModel{}
	if err := cursor.All(ctx, &bikeModels); err != nil {
		http.Error(w, "Failed to decode bike models", http.StatusInternalServerError)
		return
	}

	if make == "" {
		if data, err := json.Marshal(bikeModels); err == nil {
			if err := rdx.SetWithExpiry(cacheKey, string(data), listCacheTTL); err != nil {
				log.Printf("catalog: bike model cache write failed: %v", err)
			}
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, bikeModels)
}

// CreateCategory adds a part category. Admin only.
func CreateCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var category models.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil || category.Name == "" {
		http.Error(w, "Invalid category data", http.StatusBadRequest)
		return
	}
	category.CategoryID = "cat" + utils.GenerateName(8)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := db.CategoryCollection.CountDocuments(ctx, bson.M{"name": category.Name})
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, "Category already exists", http.StatusConflict)
		return
	}

	if _, err := db.CategoryCollection.InsertOne(ctx, category); err != nil {
		http.Error(w, "Failed to insert category: "+err.Error(), http.StatusInternalServerError)
		return
	}

	rdx.RdxDel("catalog:categories")
	utils.RespondWithJSON(w, http.StatusCreated, category)
}

// CreateBikeModel adds a bike model to the compatibility list. Admin
// only.
func CreateBikeModel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var bm models.BikeModel
	if err := json.NewDecoder(r.Body).Decode(&bm); err != nil || bm.Make == "" || bm.Model == "" {
		http.Error(w, "Invalid bike model data", http.StatusBadRequest)
		return
	}
	bm.ModelID = "bm" + utils.GenerateName(8)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := db.BikeModelCollection.CountDocuments(ctx, bson.M{"make": bm.Make, "model": bm.Model})
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, fmt.Sprintf("%s %s already exists", bm.Make, bm.Model), http.StatusConflict)
		return
	}

	if _, err := db.BikeModelCollection.InsertOne(ctx, bm); err != nil {
		http.Error(w, "Failed to insert bike model: "+err.Error(), http.StatusInternalServerError)
		return
	}

	rdx.RdxDel("catalog:bikemodels")
	utils.RespondWithJSON(w, http.StatusCreated, bm)
}
