package session

import (
	"errors"
	"testing"

	"github.com/TpPoom/POS-System/models"
)

func burger() models.Item {
	return models.Item{
		Item_id:  "item-burger",
		Name:     "Burger",
		Category: "Mains",
		Price:    10.00,
		Size:     map[string]float64{"Regular": 0, "Large": 1.50},
		AddOn:    map[string]float64{"Cheese": 1.00, "Bacon": 2.00},
		Status:   models.ItemInStock,
	}
}

func TestUnitPriceFreezesBaseSizeAndAddOns(t *testing.T) {
	price, err := UnitPrice(burger(), "Large", []string{"Cheese"})
	if err != nil {
		t.Fatal(err)
	}
	if price != 12.50 {
		t.Fatalf("unit price = %v, want 12.50", price)
	}

	price, err = UnitPrice(burger(), "Regular", nil)
	if err != nil {
		t.Fatal(err)
	}
	if price != 10.00 {
		t.Fatalf("unit price = %v, want 10.00", price)
	}

	price, err = UnitPrice(burger(), "Large", []string{"Cheese", "Bacon"})
	if err != nil {
		t.Fatal(err)
	}
	if price != 14.50 {
		t.Fatalf("unit price = %v, want 14.50", price)
	}
}

func TestUnitPriceRejectsUnknownOptions(t *testing.T) {
	if _, err := UnitPrice(burger(), "Giant", nil); !errors.Is(err, ErrUnknownSize) {
		t.Fatalf("unknown size should fail, got %v", err)
	}
	if _, err := UnitPrice(burger(), "Large", []string{"Truffle"}); err == nil {
		t.Fatal("unknown add-on should fail")
	}
}

func TestCartTotals(t *testing.T) {
	var cart Cart

	line, err := cart.Add(burger(), "Large", []string{"Cheese"}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if line.Price != 12.50 || line.Quantity != 2 {
		t.Fatalf("unexpected line %+v", line)
	}
	if cart.Total() != 25.00 {
		t.Fatalf("cart total = %v, want 25.00", cart.Total())
	}

	if _, err := cart.Add(burger(), "Regular", nil, 1); err != nil {
		t.Fatal(err)
	}
	if cart.Total() != 35.00 {
		t.Fatalf("cart total = %v, want 35.00", cart.Total())
	}

	cart.RemoveAt(0)
	if cart.Len() != 1 || cart.Total() != 10.00 {
		t.Fatalf("after removal: len=%d total=%v", cart.Len(), cart.Total())
	}

	cart.Clear()
	if cart.Len() != 0 || cart.Total() != 0 {
		t.Fatal("cleared cart should be empty")
	}
}

func TestCartRejectsBadSelections(t *testing.T) {
	var cart Cart

	outOfStock := burger()
	outOfStock.Status = models.ItemOutOfStock
	if _, err := cart.Add(outOfStock, "Regular", nil, 1); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("out-of-stock item should be rejected, got %v", err)
	}

	if _, err := cart.Add(burger(), "Regular", nil, 0); err == nil {
		t.Fatal("zero quantity should be rejected")
	}

	if cart.Len() != 0 {
		t.Fatal("rejected selections must not land in the cart")
	}
}

func TestEmptyCartAndBillRejectedLocally(t *testing.T) {
	// No api and no notifier: a local rejection must not touch the network.
	s := NewCustomerSession(nil, nil, "T3", "000007")

	if err := s.SubmitCart(nil); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("empty cart submit should fail locally, got %v", err)
	}
	if err := s.RequestBill(nil); !errors.Is(err, ErrEmptyBill) {
		t.Fatalf("bill call with no lines should fail locally, got %v", err)
	}
}

func TestRelayCallsSkippedWithoutNotifier(t *testing.T) {
	// A session without a relay connection still works; the calls that only
	// notify must come back clean instead of panicking.
	s := NewCustomerSession(nil, nil, "T3", "000007")
	s.bill = []models.OrderLine{{Line_id: "l1", Name: "Burger", Price: 10.00, Quantity: 1, Status: models.LinePending}}

	if err := s.RequestBill(nil); err != nil {
		t.Fatalf("bill request without a notifier should succeed, got %v", err)
	}
	if err := s.CallService(nil); err != nil {
		t.Fatalf("service call without a notifier should succeed, got %v", err)
	}
}
