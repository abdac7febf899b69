package products

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"vparts/db"
	"vparts/models"
	"vparts/rdx"
	"vparts/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var productUploadPath = "./static/productpic"

// CreateProduct lists a new part. Vendor only; the multipart form
// carries the fields plus an optional image.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	vendorID := utils.GetUserIDFromRequest(r)
	if vendorID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Unable to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	title := r.FormValue("title")
	if len(title) == 0 || len(title) > 150 {
		http.Error(w, "Title must be between 1 and 150 characters.", http.StatusBadRequest)
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price <= 0 {
		http.Error(w, "Invalid price value. Must be a positive number.", http.StatusBadRequest)
		return
	}

	stock, err := strconv.Atoi(r.FormValue("stock"))
	if err != nil || stock < 0 {
		http.Error(w, "Invalid stock value. Must be a non-negative integer.", http.StatusBadRequest)
		return
	}

	product := models.Product{
		ProductID:   "p" + utils.GenerateID(14),
		VendorID:    vendorID,
		Title:       title,
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Subcategory: r.FormValue("subcategory"),
		Brand:       r.FormValue("brand"),
		Price:       price,
		Stock:       stock,
		Active:      true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if compat := r.FormValue("compatibility"); compat != "" {
		if err := json.Unmarshal([]byte(compat), &product.Compatibility); err != nil {
			http.Error(w, "Invalid compatibility list", http.StatusBadRequest)
			return
		}
	}
	if specs := r.FormValue("specs"); specs != "" {
		if err := json.Unmarshal([]byte(specs), &product.Specs); err != nil {
			http.Error(w, "Invalid specs object", http.StatusBadRequest)
			return
		}
	}

	imageFile, imageHeader, err := r.FormFile("image")
	if err != nil && err != http.ErrMissingFile {
		http.Error(w, "Error retrieving image file: "+err.Error(), http.StatusBadRequest)
		return
	}
	if imageFile != nil {
		defer imageFile.Close()

		mimeType := imageHeader.Header.Get("Content-Type")
		fileExtension := ""
		switch mimeType {
		case "image/jpeg":
			fileExtension = ".jpg"
		case "image/webp":
			fileExtension = ".webp"
		case "image/png":
			fileExtension = ".png"
		default:
			http.Error(w, "Unsupported image type. Only JPG, PNG and WEBP are allowed.", http.StatusUnsupportedMediaType)
			return
		}

		if err := utils.EnsureDir(productUploadPath); err != nil {
			http.Error(w, "Error saving image", http.StatusInternalServerError)
			return
		}
		savePath := productUploadPath + "/" + product.ProductID + fileExtension
		out, err := os.Create(savePath)
		if err != nil {
			http.Error(w, "Error saving image: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer out.Close()

		if _, err := io.Copy(out, imageFile); err != nil {
			http.Error(w, "Error saving image: "+err.Error(), http.StatusInternalServerError)
			return
		}
		utils.CreateThumb(product.ProductID, productUploadPath, fileExtension, 300, 200)

		product.Images = []string{product.ProductID + fileExtension}
	}

	if _, err := db.ProductCollection.InsertOne(context.TODO(), product); err != nil {
		http.Error(w, "Failed to insert product: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"ok":      true,
		"message": "Product listed successfully.",
		"data":    product,
	})
}

// GetProduct fetches one listing.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	var product models.Product
	err := db.ProductCollection.FindOne(r.Context(), bson.M{"productId": productID}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// GetProducts lists active products with optional filters: category,
// subcategory, bikeModel (compatibility), vendor, brand, minPrice,
// maxPrice, q (title search). Paginated with page/limit.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()

	filter := bson.M{"active": true}
	if c := q.Get("category"); c != "" {
		filter["category"] = c
	}
	if sc := q.Get("subcategory"); sc != "" {
		filter["subcategory"] = sc
	}
	if bm := q.Get("bikeModel"); bm != "" {
		filter["compatibility"] = bm
	}
	if v := q.Get("vendor"); v != "" {
		filter["vendorId"] = v
	}
	if b := q.Get("brand"); b != "" {
		filter["brand"] = b
	}
	if s := q.Get("q"); s != "" {
		filter["title"] = bson.M{"$regex": s, "$options": "i"}
	}

	price := bson.M{}
	if min := q.Get("minPrice"); min != "" {
		if v, err := strconv.ParseFloat(min, 64); err == nil {
			price["$gte"] = v
		}
	}
	if max := q.Get("maxPrice"); max != "" {
		if v, err := strconv.ParseFloat(max, 64); err == nil {
			price["$lte"] = v
		}
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sort := bson.D{{Key: "createdAt", Value: -1}}
	switch q.Get("sort") {
	case "price_asc":
		sort = bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		sort = bson.D{{Key: "price", Value: -1}}
	case "rating":
		sort = bson.D{{Key: "rating", Value: -1}}
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.ProductCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetProducts find error:", err)
		http.Error(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		http.Error(w, "Failed to decode products", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, products)
}

// GetVendorProducts lists the signed-in vendor's own products,
// inactive ones included.
func GetVendorProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	vendorID := utils.GetUserIDFromRequest(r)
	if vendorID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.ProductCollection.Find(ctx, bson.M{"vendorId": vendorID})
	if err != nil {
		http.Error(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		http.Error(w, "Failed to decode products", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

// EditProduct updates mutable listing fields. Only the owning vendor
// may edit.
func EditProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	vendorID := utils.GetUserIDFromRequest(r)
	if vendorID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productID := ps.ByName("productid")

	var input struct {
		Title         *string           `json:"title"`
		Description   *string           `json:"description"`
		Category      *string           `json:"category"`
		Subcategory   *string           `json:"subcategory"`
		Brand         *string           `json:"brand"`
		Price         *float64          `json:"price"`
		Stock         *int              `json:"stock"`
		Compatibility []string          `json:"compatibility"`
		Specs         map[string]string `json:"specs"`
		Active        *bool             `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input data", http.StatusBadRequest)
		return
	}

	updateFields := bson.M{"updatedAt": time.Now()}
	if input.Title != nil {
		if len(*input.Title) == 0 || len(*input.Title) > 150 {
			http.Error(w, "Title must be between 1 and 150 characters.", http.StatusBadRequest)
			return
		}
		updateFields["title"] = *input.Title
	}
	if input.Description != nil {
		updateFields["description"] = *input.Description
	}
	if input.Category != nil {
		updateFields["category"] = *input.Category
	}
	if input.Subcategory != nil {
		updateFields["subcategory"] = *input.Subcategory
	}
	if input.Brand != nil {
		updateFields["brand"] = *input.Brand
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			http.Error(w, "Price must be a positive number.", http.StatusBadRequest)
			return
		}
		updateFields["price"] = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			http.Error(w, "Stock must be a non-negative integer.", http.StatusBadRequest)
			return
		}
		updateFields["stock"] = *input.Stock
	}
	if input.Compatibility != nil {
		updateFields["compatibility"] = input.Compatibility
	}
	if input.Specs != nil {
		updateFields["specs"] = input.Specs
	}
	if input.Active != nil {
		updateFields["active"] = *input.Active
	}

	updateResult, err := db.ProductCollection.UpdateOne(
		context.TODO(),
		bson.M{"productId": productID, "vendorId": vendorID},
		bson.M{"$set": updateFields},
	)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to update product: %v", err), http.StatusInternalServerError)
		return
	}
	if updateResult.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	rdx.RdxDel(fmt.Sprintf("product:%s", productID))

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product updated successfully",
	})
}

// DeleteProduct deactivates a listing. Orders keep their line item
// snapshots, so a hard delete is never needed.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	vendorID := utils.GetUserIDFromRequest(r)
	if vendorID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productID := ps.ByName("productid")

	updateResult, err := db.ProductCollection.UpdateOne(
		context.TODO(),
		bson.M{"productId": productID, "vendorId": vendorID},
		bson.M{"$set": bson.M{"active": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to delete product: %v", err), http.StatusInternalServerError)
		return
	}
	if updateResult.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	rdx.RdxDel(fmt.Sprintf("product:%s", productID))

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product removed from the catalog",
	})
}
