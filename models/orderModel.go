package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Pending is open/unsettled, Paid is terminal.
const (
	OrderPending = "Pending"
	OrderPaid    = "Paid"
)

// Line statuses, advanced one step at a time by the staff board.
const (
	LinePending   = "Pending"
	LineOngoing   = "Ongoing"
	LineCompleted = "Completed"
)

// OrderLine is one ordered menu item with its size, add-ons and a price frozen
// at add-to-cart time. Line_id is assigned by the store on insertion and is the
// only handle for targeted updates and removals.
type OrderLine struct {
	Line_id  string   `bson:"line_id,omitempty" json:"line_id"`
	Category string   `bson:"category" json:"category" validate:"required"`
	Name     string   `bson:"name" json:"name" validate:"required"`
	Size     string   `bson:"size" json:"size" validate:"required"`
	AddOn    []string `bson:"add_on" json:"addOn"`
	Quantity int      `bson:"quantity" json:"quantity" validate:"required,min=1"`
	Price    float64  `bson:"price" json:"price" validate:"min=0"`
	Status   string   `bson:"status" json:"status" validate:"omitempty,eq=Pending|eq=Ongoing|eq=Completed"`
}

type Order struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Order_id   string             `bson:"order_id" json:"id" validate:"required,len=6,number"`
	Table      string             `bson:"table" json:"table" validate:"required"`
	Status     string             `bson:"status" json:"status" validate:"required,eq=Pending|eq=Paid"`
	Items      []OrderLine        `bson:"items" json:"items"`
	Created_at time.Time          `bson:"created_at" json:"created_at"`
	Updated_at time.Time          `bson:"updated_at" json:"updated_at"`
}

// Total is always recomputed from the current lines, never persisted.
func (o Order) Total() float64 {
	var total float64
	for _, line := range o.Items {
		total += line.Price * float64(line.Quantity)
	}
	return total
}
