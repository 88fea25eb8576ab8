package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ItemInStock    = "In stock"
	ItemOutOfStock = "Out of stock"
)

// Item is one catalog entry. Size and AddOn map option labels to price deltas
// added onto the base Price at add-to-cart time.
type Item struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Item_id     string             `bson:"item_id" json:"id"`
	Name        string             `bson:"name" json:"name" validate:"required,min=1,max=100"`
	Category    string             `bson:"category" json:"category" validate:"required"`
	Description string             `bson:"description" json:"description" validate:"required"`
	Price       float64            `bson:"price" json:"price" validate:"min=0"`
	Image       string             `bson:"image" json:"image"`
	Size        map[string]float64 `bson:"size" json:"size" validate:"required,min=1"`
	AddOn       map[string]float64 `bson:"add_on" json:"addOn"`
	Status      string             `bson:"status" json:"status"`
	Created_at  time.Time          `bson:"created_at" json:"created_at"`
	Updated_at  time.Time          `bson:"updated_at" json:"updated_at"`
}
