package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleManager = "manager"
	RoleStaff   = "staff"
)

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	User_id       string             `bson:"user_id" json:"id" validate:"required"`
	Role          string             `bson:"role" json:"role" validate:"required,eq=manager|eq=staff"`
	Name          string             `bson:"name" json:"name" validate:"required,min=1,max=100"`
	Username      string             `bson:"username" json:"username" validate:"required,min=4,max=100"`
	Password      string             `bson:"password" json:"password,omitempty" validate:"required,min=6"`
	Token         string             `bson:"token,omitempty" json:"token,omitempty"`
	Refresh_token string             `bson:"refresh_token,omitempty" json:"refresh_token,omitempty"`
	Created_at    time.Time          `bson:"created_at" json:"created_at"`
	Updated_at    time.Time          `bson:"updated_at" json:"updated_at"`
}
