package store

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/TpPoom/POS-System/models"
	"github.com/TpPoom/POS-System/orderflow"
)

func TestLineAdvanceFilterGuardsPredecessor(t *testing.T) {
	filter, err := lineAdvanceFilter("000007", "line-1", models.LineOngoing)
	if err != nil {
		t.Fatal(err)
	}

	if filter["order_id"] != "000007" {
		t.Fatalf("filter must target the order id, got %v", filter["order_id"])
	}
	if filter["status"] != models.OrderPending {
		t.Fatal("line updates must only match open orders")
	}

	elem := filter["items"].(bson.M)["$elemMatch"].(bson.M)
	if elem["line_id"] != "line-1" {
		t.Fatalf("filter must target the line id, got %v", elem["line_id"])
	}
	if elem["status"] != models.LinePending {
		t.Fatalf("advance to Ongoing must require current status Pending, got %v", elem["status"])
	}

	filter, err = lineAdvanceFilter("000007", "line-1", models.LineCompleted)
	if err != nil {
		t.Fatal(err)
	}
	elem = filter["items"].(bson.M)["$elemMatch"].(bson.M)
	if elem["status"] != models.LineOngoing {
		t.Fatalf("advance to Completed must require current status Ongoing, got %v", elem["status"])
	}
}

func TestLineAdvanceFilterRejectsIllegalTargets(t *testing.T) {
	// Backward and skipping transitions have no predecessor.
	if _, err := lineAdvanceFilter("000007", "line-1", models.LinePending); !errors.Is(err, orderflow.ErrBadTransition) {
		t.Fatalf("regression to Pending must be rejected, got %v", err)
	}
	if _, err := lineAdvanceFilter("000007", "line-1", "Cancelled"); !errors.Is(err, orderflow.ErrBadTransition) {
		t.Fatalf("unknown status must be rejected, got %v", err)
	}
}

func TestLinePullFilterGuardsServedLines(t *testing.T) {
	filter := linePullFilter("000007", "T3", "line-1")

	if filter["order_id"] != "000007" || filter["table"] != "T3" {
		t.Fatalf("filter must target the order id and table, got %v", filter)
	}
	if filter["status"] != models.OrderPending {
		t.Fatal("removals must only match open orders")
	}

	// The served-line guard belongs to the match filter, not the $pull
	// predicate: the updated_at bump would otherwise report a modified
	// document and hide the rejected removal.
	elem := filter["items"].(bson.M)["$elemMatch"].(bson.M)
	if elem["line_id"] != "line-1" {
		t.Fatalf("filter must target the line id, got %v", elem["line_id"])
	}
	guard := elem["status"].(bson.M)
	if guard["$ne"] != models.LineCompleted {
		t.Fatalf("a Completed line must make the update miss, got %v", guard)
	}
}

func TestRangeFilterCoversWholeEndDay(t *testing.T) {
	loc := time.UTC
	start := time.Date(2024, 3, 10, 15, 30, 0, 0, loc)
	end := time.Date(2024, 3, 12, 9, 0, 0, 0, loc)

	filter := rangeFilter(start, end)
	bounds := filter["updated_at"].(bson.M)

	gte := bounds["$gte"].(time.Time)
	lt := bounds["$lt"].(time.Time)

	if !gte.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, loc)) {
		t.Fatalf("start bound should be start of day, got %v", gte)
	}
	if !lt.Equal(time.Date(2024, 3, 13, 0, 0, 0, 0, loc)) {
		t.Fatalf("end bound should be exclusive start of the next day, got %v", lt)
	}

	lateOnEndDay := time.Date(2024, 3, 12, 23, 59, 59, 0, loc)
	if !(lateOnEndDay.After(gte) && lateOnEndDay.Before(lt)) {
		t.Fatal("an order updated late on the end day must fall inside the range")
	}
}

func TestRangeFilterSingleDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	filter := rangeFilter(now, now)
	bounds := filter["updated_at"].(bson.M)

	gte := bounds["$gte"].(time.Time)
	lt := bounds["$lt"].(time.Time)
	if lt.Sub(gte) != 24*time.Hour {
		t.Fatalf("same-day range should span one full day, got %v", lt.Sub(gte))
	}
}
