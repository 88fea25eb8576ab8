package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	database "github.com/TpPoom/POS-System/config"
	"github.com/TpPoom/POS-System/helper"
	"github.com/TpPoom/POS-System/models"
)

var userCollection *mongo.Collection = database.OpenCollection(database.Client, "user")

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func VerifyPassword(hashedPassword, providedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(providedPassword)) == nil
}

// GetUsers lists staff accounts without password hashes or tokens.
func GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	projectStage := bson.D{{Key: "$project", Value: bson.D{
		{Key: "_id", Value: 0},
		{Key: "user_id", Value: 1},
		{Key: "role", Value: 1},
		{Key: "name", Value: 1},
		{Key: "username", Value: 1},
		{Key: "created_at", Value: 1},
		{Key: "updated_at", Value: 1},
	}}}

	cursor, err := userCollection.Aggregate(ctx, mongo.Pipeline{projectStage})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error retrieving users")
		return
	}
	defer cursor.Close(ctx)

	var users []bson.M
	if err := cursor.All(ctx, &users); err != nil {
		writeError(w, http.StatusInternalServerError, "Error decoding users")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Users retrieved successfully",
		"data":    users,
	})
}

func SignUp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user.ID = primitive.NewObjectID()
	user.User_id = user.ID.Hex()

	if validationErr := validate.Struct(user); validationErr != nil {
		writeError(w, http.StatusBadRequest, "Invalid user payload")
		return
	}

	count, err := userCollection.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"name": user.Name},
		bson.M{"username": user.Username},
	}})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error checking user")
		return
	}
	if count > 0 {
		writeError(w, http.StatusConflict, "User already exists")
		return
	}

	hashed, err := HashPassword(user.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error hashing password")
		return
	}
	user.Password = hashed
	user.Created_at = time.Now()
	user.Updated_at = time.Now()

	if _, err := userCollection.InsertOne(ctx, user); err != nil {
		writeError(w, http.StatusInternalServerError, "User was not created")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User registered",
		"data": map[string]interface{}{
			"id":       user.User_id,
			"role":     user.Role,
			"name":     user.Name,
			"username": user.Username,
		},
	})
}

func Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"username": creds.Username}).Decode(&user)
	if err != nil || !VerifyPassword(user.Password, creds.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, refreshToken, err := helper.GenerateAllTokens(user.Username, user.Name, user.Role, user.User_id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error generating tokens")
		return
	}
	helper.UpdateAllTokens(token, refreshToken, user.User_id)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful",
		"data": map[string]interface{}{
			"id":            user.User_id,
			"role":          user.Role,
			"name":          user.Name,
			"username":      user.Username,
			"token":         token,
			"refresh_token": refreshToken,
		},
	})
}

func UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var body struct {
		User_id  string `json:"id"`
		Role     string `json:"role"`
		Name     string `json:"name"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.User_id == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updateObj := bson.D{}
	if body.Role != "" {
		if body.Role != models.RoleManager && body.Role != models.RoleStaff {
			writeError(w, http.StatusBadRequest, "Invalid role")
			return
		}
		updateObj = append(updateObj, bson.E{Key: "role", Value: body.Role})
	}
	if body.Name != "" {
		updateObj = append(updateObj, bson.E{Key: "name", Value: body.Name})
	}
	if body.Username != "" {
		updateObj = append(updateObj, bson.E{Key: "username", Value: body.Username})
	}
	if len(updateObj) == 0 {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}
	updateObj = append(updateObj, bson.E{Key: "updated_at", Value: time.Now()})

	result, err := userCollection.UpdateOne(ctx,
		bson.M{"user_id": body.User_id},
		bson.D{{Key: "$set", Value: updateObj}},
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User updated successfully",
	})
}

func DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var body struct {
		User_id string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.User_id == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := userCollection.DeleteOne(ctx, bson.M{"user_id": body.User_id})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "User deletion failed")
		return
	}
	if result.DeletedCount == 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User deleted successfully",
	})
}
