package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Table holds no availability status: Available/Unavailable is derived from the
// open orders by the projection package, never stored.
type Table struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Table_id   string             `bson:"table_id" json:"id"`
	Name       string             `bson:"name" json:"name" validate:"required"`
	Size       int                `bson:"size" json:"size" validate:"required,min=1"`
	Created_at time.Time          `bson:"created_at" json:"created_at"`
	Updated_at time.Time          `bson:"updated_at" json:"updated_at"`
}
