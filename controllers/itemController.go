package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	database "github.com/TpPoom/POS-System/config"
	"github.com/TpPoom/POS-System/models"
)

var itemCollection *mongo.Collection = database.OpenCollection(database.Client, "item")

// GetItems lists the whole catalog. Customers browse it from the order page,
// so this route is public.
func GetItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	cursor, err := itemCollection.Find(ctx, bson.M{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error retrieving items")
		return
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		writeError(w, http.StatusInternalServerError, "Error decoding items")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Items retrieved successfully",
		"data":    items,
	})
}

// GetItemCategories lists the distinct catalog categories.
func GetItemCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	categories, err := itemCollection.Distinct(ctx, "category", bson.M{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error retrieving categories")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}

func CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var item models.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if item.Status == "" {
		item.Status = models.ItemInStock
	}
	if item.Status != models.ItemInStock && item.Status != models.ItemOutOfStock {
		writeError(w, http.StatusBadRequest, "Invalid item status")
		return
	}
	if validationErr := validate.Struct(item); validationErr != nil {
		writeError(w, http.StatusBadRequest, "Invalid item payload")
		return
	}

	count, err := itemCollection.CountDocuments(ctx, bson.M{"name": item.Name})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error checking item name")
		return
	}
	if count > 0 {
		writeError(w, http.StatusConflict, "Item name already exists")
		return
	}

	item.ID = primitive.NewObjectID()
	item.Item_id = item.ID.Hex()
	item.Created_at = time.Now()
	item.Updated_at = time.Now()

	if _, err := itemCollection.InsertOne(ctx, item); err != nil {
		writeError(w, http.StatusInternalServerError, "Item was not created")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Item created successfully",
		"data":    item,
	})
}

// UpdateItem replaces the editable fields of a catalog entry. Placed orders
// are untouched: line prices were frozen at add-to-cart time.
func UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var item models.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil || item.Item_id == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if item.Status != "" && item.Status != models.ItemInStock && item.Status != models.ItemOutOfStock {
		writeError(w, http.StatusBadRequest, "Invalid item status")
		return
	}

	updateObj := bson.D{}
	if item.Name != "" {
		updateObj = append(updateObj, bson.E{Key: "name", Value: item.Name})
	}
	if item.Category != "" {
		updateObj = append(updateObj, bson.E{Key: "category", Value: item.Category})
	}
	if item.Description != "" {
		updateObj = append(updateObj, bson.E{Key: "description", Value: item.Description})
	}
	if item.Price > 0 {
		updateObj = append(updateObj, bson.E{Key: "price", Value: item.Price})
	}
	if item.Image != "" {
		updateObj = append(updateObj, bson.E{Key: "image", Value: item.Image})
	}
	if len(item.Size) > 0 {
		updateObj = append(updateObj, bson.E{Key: "size", Value: item.Size})
	}
	if item.AddOn != nil {
		updateObj = append(updateObj, bson.E{Key: "add_on", Value: item.AddOn})
	}
	if item.Status != "" {
		updateObj = append(updateObj, bson.E{Key: "status", Value: item.Status})
	}
	if len(updateObj) == 0 {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	updateObj = append(updateObj, bson.E{Key: "updated_at", Value: time.Now()})

	result, err := itemCollection.UpdateOne(ctx,
		bson.M{"item_id": item.Item_id},
		bson.D{{Key: "$set", Value: updateObj}},
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update item")
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}

	var updated models.Item
	if err := itemCollection.FindOne(ctx, bson.M{"item_id": item.Item_id}).Decode(&updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching updated item")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Item updated successfully",
		"data":    updated,
	})
}

func DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var body struct {
		Item_id string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Item_id == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := itemCollection.DeleteOne(ctx, bson.M{"item_id": body.Item_id})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Item deletion failed")
		return
	}
	if result.DeletedCount == 0 {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Item deleted successfully",
	})
}
