// Package store owns the durable order records. All line mutations are
// sub-document updates on the order, guarded so the state machine in orderflow
// cannot be bypassed by a racing request.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/TpPoom/POS-System/models"
	"github.com/TpPoom/POS-System/orderflow"
)

var (
	ErrNotFound       = errors.New("order not found")
	ErrConflict       = errors.New("order id already exists")
	ErrAlreadySettled = errors.New("order already settled")
	ErrStaleLine      = errors.New("line status changed concurrently")
)

type OrderStore struct {
	coll     *mongo.Collection
	validate *validator.Validate
}

func New(coll *mongo.Collection) *OrderStore {
	return &OrderStore{coll: coll, validate: validator.New()}
}

// Create opens a fresh Pending order for a table. The id space is
// caller-managed; a duplicate id is a conflict, not an upsert.
func (s *OrderStore) Create(ctx context.Context, id, table string) (models.Order, error) {
	order := models.Order{
		ID:         primitive.NewObjectID(),
		Order_id:   id,
		Table:      table,
		Status:     models.OrderPending,
		Items:      []models.OrderLine{},
		Created_at: time.Now(),
		Updated_at: time.Now(),
	}

	if err := s.validate.Struct(order); err != nil {
		return models.Order{}, err
	}

	count, err := s.coll.CountDocuments(ctx, bson.M{"order_id": id})
	if err != nil {
		return models.Order{}, err
	}
	if count > 0 {
		return models.Order{}, ErrConflict
	}

	if _, err := s.coll.InsertOne(ctx, order); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// Get matches on both id and table so a QR code for one table cannot be used
// to read another table's order.
func (s *OrderStore) Get(ctx context.Context, id, table string) (models.Order, error) {
	var order models.Order
	err := s.coll.FindOne(ctx, bson.M{"order_id": id, "table": table}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// ListOpen returns every Pending order together with the greatest existing
// order id, so the table board can pre-compute the next id to assign.
func (s *OrderStore) ListOpen(ctx context.Context) ([]models.Order, string, error) {
	orders, err := s.find(ctx, bson.M{"status": models.OrderPending})
	if err != nil {
		return nil, "", err
	}

	var last models.Order
	opts := options.FindOne().SetSort(bson.D{{Key: "order_id", Value: -1}})
	err = s.coll.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return orders, orderflow.FirstOrderID, nil
	}
	if err != nil {
		return nil, "", err
	}
	return orders, last.Order_id, nil
}

// ListAll returns every order, settled ones included, for bill history.
func (s *OrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.find(ctx, bson.M{})
}

// ListToday returns orders last touched today, for the staff order board.
func (s *OrderStore) ListToday(ctx context.Context) ([]models.Order, error) {
	now := time.Now()
	return s.find(ctx, rangeFilter(now, now))
}

// ListRange returns orders updated between the start day and the end of the
// end day, inclusive.
func (s *OrderStore) ListRange(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	return s.find(ctx, rangeFilter(start, end))
}

// AppendLines atomically appends cart lines to an open order. Line ids are
// assigned here and are the only stable handle for later updates; positions
// shift under concurrent removal.
func (s *OrderStore) AppendLines(ctx context.Context, id string, lines []models.OrderLine) (models.Order, error) {
	if len(lines) == 0 {
		return models.Order{}, fmt.Errorf("no lines to append")
	}

	now := time.Now()
	for i := range lines {
		lines[i].Line_id = uuid.NewString()
		lines[i].Status = models.LinePending
		if err := s.validate.Struct(lines[i]); err != nil {
			return models.Order{}, err
		}
	}

	filter := bson.M{"order_id": id, "status": models.OrderPending}
	update := bson.M{
		"$push": bson.M{"items": bson.M{"$each": lines}},
		"$set":  bson.M{"updated_at": now},
	}

	result, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return models.Order{}, err
	}
	if result.MatchedCount == 0 {
		return models.Order{}, s.classifyMiss(ctx, id)
	}
	return s.byID(ctx, id)
}

// UpdateLineStatus advances one line by exactly one step. The filter matches
// the line only while its status is still the predecessor of next, so the
// transition is a compare-and-set: a concurrent duplicate advance loses the
// race and gets ErrStaleLine instead of silently re-applying.
func (s *OrderStore) UpdateLineStatus(ctx context.Context, id, lineID, next string) (models.Order, error) {
	filter, err := lineAdvanceFilter(id, lineID, next)
	if err != nil {
		return models.Order{}, err
	}

	update := bson.M{"$set": bson.M{
		"items.$.status": next,
		"updated_at":     time.Now(),
	}}

	result, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return models.Order{}, err
	}
	if result.MatchedCount == 0 {
		return models.Order{}, s.classifyLineMiss(ctx, id, lineID)
	}
	return s.byID(ctx, id)
}

// RemoveLine pulls one line from an open order. The served-line guard lives
// in the match filter, so a Completed line makes the whole update miss and a
// served item survives even a racing removal.
func (s *OrderStore) RemoveLine(ctx context.Context, id, table, lineID string) (models.Order, error) {
	update := bson.M{
		"$pull": bson.M{"items": bson.M{"line_id": lineID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := s.coll.UpdateOne(ctx, linePullFilter(id, table, lineID), update)
	if err != nil {
		return models.Order{}, err
	}
	if result.MatchedCount == 0 {
		return models.Order{}, s.classifyPullMiss(ctx, id, table, lineID)
	}
	return s.byID(ctx, id)
}

// Settle closes the order. The filter matches only Pending orders, making the
// Pending -> Paid transition one-shot: a retried settle reports
// ErrAlreadySettled instead of re-applying.
func (s *OrderStore) Settle(ctx context.Context, id string) (models.Order, error) {
	filter := bson.M{"order_id": id, "status": models.OrderPending}
	update := bson.M{"$set": bson.M{
		"status":     models.OrderPaid,
		"updated_at": time.Now(),
	}}

	result, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return models.Order{}, err
	}
	if result.MatchedCount == 0 {
		order, err := s.byID(ctx, id)
		if err != nil {
			return models.Order{}, err
		}
		if orderflow.CanSettle(order) != nil {
			return models.Order{}, ErrAlreadySettled
		}
		return models.Order{}, ErrNotFound
	}
	return s.byID(ctx, id)
}

func (s *OrderStore) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderStore) byID(ctx context.Context, id string) (models.Order, error) {
	var order models.Order
	err := s.coll.FindOne(ctx, bson.M{"order_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// classifyMiss explains why a mutation filter on an open order matched
// nothing: the order is absent, or it is already settled.
func (s *OrderStore) classifyMiss(ctx context.Context, id string) error {
	order, err := s.byID(ctx, id)
	if err != nil {
		return err
	}
	if !orderflow.IsOpen(order) {
		return orderflow.ErrNotOpen
	}
	return ErrNotFound
}

func (s *OrderStore) classifyLineMiss(ctx context.Context, id, lineID string) error {
	order, err := s.byID(ctx, id)
	if err != nil {
		return err
	}
	if !orderflow.IsOpen(order) {
		return orderflow.ErrNotOpen
	}
	for _, line := range order.Items {
		if line.Line_id == lineID {
			return ErrStaleLine
		}
	}
	return ErrNotFound
}

func (s *OrderStore) classifyPullMiss(ctx context.Context, id, table, lineID string) error {
	order, err := s.Get(ctx, id, table)
	if err != nil {
		return err
	}
	if !orderflow.IsOpen(order) {
		return orderflow.ErrNotOpen
	}
	for _, line := range order.Items {
		if line.Line_id == lineID {
			return orderflow.ErrLineServed
		}
	}
	return ErrNotFound
}

// lineAdvanceFilter builds the compare-and-set filter for a one-step line
// advance: the order must be open and the line must still hold the unique
// predecessor of the requested status.
func lineAdvanceFilter(id, lineID, next string) (bson.M, error) {
	prev, err := orderflow.PrevLineStatus(next)
	if err != nil {
		return nil, err
	}
	return bson.M{
		"order_id": id,
		"status":   models.OrderPending,
		"items": bson.M{"$elemMatch": bson.M{
			"line_id": lineID,
			"status":  prev,
		}},
	}, nil
}

// linePullFilter matches the open order only while the target line exists and
// has not been served. The guard cannot live in the $pull predicate: the
// updated_at $set alone already counts the document as modified, which would
// swallow the miss.
func linePullFilter(id, table, lineID string) bson.M {
	return bson.M{
		"order_id": id,
		"table":    table,
		"status":   models.OrderPending,
		"items": bson.M{"$elemMatch": bson.M{
			"line_id": lineID,
			"status":  bson.M{"$ne": models.LineCompleted},
		}},
	}
}

// rangeFilter matches orders updated between the start of the start day and
// the end of the end day. The end bound is end-of-day, not midnight-exclusive.
func rangeFilter(start, end time.Time) bson.M {
	startOfDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endOfDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)
	return bson.M{"updated_at": bson.M{
		"$gte": startOfDay,
		"$lt":  endOfDay,
	}}
}
