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
	"github.com/TpPoom/POS-System/projection"
)

var tableCollection *mongo.Collection = database.OpenCollection(database.Client, "table")

// GetTables lists every table together with its derived status, projected
// from the current open orders. The status itself is never stored.
func GetTables(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	cursor, err := tableCollection.Find(ctx, bson.M{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error retrieving tables")
		return
	}
	defer cursor.Close(ctx)

	var tables []models.Table
	if err := cursor.All(ctx, &tables); err != nil {
		writeError(w, http.StatusInternalServerError, "Error decoding tables")
		return
	}

	openOrders, _, err := orderStore.ListOpen(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error retrieving open orders")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Tables retrieved successfully",
		"data":    projection.Project(tables, openOrders),
	})
}

func CreateTable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var table models.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErr := validate.Struct(table); validationErr != nil {
		writeError(w, http.StatusBadRequest, "Invalid table payload")
		return
	}

	// Table names are human-facing and must stay unique.
	count, err := tableCollection.CountDocuments(ctx, bson.M{"name": table.Name})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error checking table name")
		return
	}
	if count > 0 {
		writeError(w, http.StatusConflict, "Table name already exists")
		return
	}

	table.ID = primitive.NewObjectID()
	table.Table_id = table.ID.Hex()
	table.Created_at = time.Now()
	table.Updated_at = time.Now()

	if _, err := tableCollection.InsertOne(ctx, table); err != nil {
		writeError(w, http.StatusInternalServerError, "Table was not created")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Table created successfully",
		"data":    table,
	})
}

func UpdateTable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var body struct {
		Table_id string `json:"id"`
		Name     string `json:"name"`
		Size     int    `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Table_id == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updateObj := bson.D{}
	if body.Name != "" {
		count, err := tableCollection.CountDocuments(ctx, bson.M{
			"name":     body.Name,
			"table_id": bson.M{"$ne": body.Table_id},
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Error checking table name")
			return
		}
		if count > 0 {
			writeError(w, http.StatusConflict, "Table name already exists")
			return
		}
		updateObj = append(updateObj, bson.E{Key: "name", Value: body.Name})
	}
	if body.Size > 0 {
		updateObj = append(updateObj, bson.E{Key: "size", Value: body.Size})
	}
	if len(updateObj) == 0 {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	updateObj = append(updateObj, bson.E{Key: "updated_at", Value: time.Now()})

	result, err := tableCollection.UpdateOne(ctx,
		bson.M{"table_id": body.Table_id},
		bson.D{{Key: "$set", Value: updateObj}},
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update table")
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "Table not found")
		return
	}

	var updated models.Table
	if err := tableCollection.FindOne(ctx, bson.M{"table_id": body.Table_id}).Decode(&updated); err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching updated table")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Table updated successfully",
		"data":    updated,
	})
}

func DeleteTable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var body struct {
		Table_id string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Table_id == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := tableCollection.DeleteOne(ctx, bson.M{"table_id": body.Table_id})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Table deletion failed")
		return
	}
	if result.DeletedCount == 0 {
		writeError(w, http.StatusNotFound, "Table not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Table deleted successfully",
	})
}
