package orderflow

import (
	"errors"
	"testing"

	"github.com/TpPoom/POS-System/models"
)

func TestNextLineStatus(t *testing.T) {
	next, err := NextLineStatus(models.LinePending)
	if err != nil || next != models.LineOngoing {
		t.Fatalf("Pending should advance to Ongoing, got %q, %v", next, err)
	}

	next, err = NextLineStatus(models.LineOngoing)
	if err != nil || next != models.LineCompleted {
		t.Fatalf("Ongoing should advance to Completed, got %q, %v", next, err)
	}

	if _, err = NextLineStatus(models.LineCompleted); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("Completed is terminal, got %v", err)
	}

	if _, err = NextLineStatus("Cancelled"); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("unknown status should be rejected, got %v", err)
	}
}

func TestPrevLineStatus(t *testing.T) {
	prev, err := PrevLineStatus(models.LineOngoing)
	if err != nil || prev != models.LinePending {
		t.Fatalf("Ongoing comes only from Pending, got %q, %v", prev, err)
	}

	prev, err = PrevLineStatus(models.LineCompleted)
	if err != nil || prev != models.LineOngoing {
		t.Fatalf("Completed comes only from Ongoing, got %q, %v", prev, err)
	}

	// Nothing advances into Pending, so it can never be a target status.
	if _, err = PrevLineStatus(models.LinePending); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("Pending as target should be rejected, got %v", err)
	}
}

func TestStatusSequenceIsMonotonic(t *testing.T) {
	status := models.LinePending
	seen := []string{status}
	for {
		next, err := NextLineStatus(status)
		if err != nil {
			break
		}
		seen = append(seen, next)
		status = next
	}

	want := []string{models.LinePending, models.LineOngoing, models.LineCompleted}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, walked %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, walked %v", want, seen)
		}
	}
}

func TestCanRemoveLine(t *testing.T) {
	if !CanRemoveLine(models.LinePending) || !CanRemoveLine(models.LineOngoing) {
		t.Fatal("Pending and Ongoing lines must be removable")
	}
	if CanRemoveLine(models.LineCompleted) {
		t.Fatal("a served line must not be removable")
	}
}

func TestCanSettle(t *testing.T) {
	open := models.Order{Order_id: "000001", Table: "T1", Status: models.OrderPending}
	if err := CanSettle(open); err != nil {
		t.Fatalf("open order should be settleable: %v", err)
	}

	paid := models.Order{Order_id: "000001", Table: "T1", Status: models.OrderPaid}
	if err := CanSettle(paid); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("settling a paid order again must fail, got %v", err)
	}
	if IsOpen(paid) {
		t.Fatal("paid order must not count as open")
	}
}

func TestNextOrderID(t *testing.T) {
	cases := []struct{ last, want string }{
		{FirstOrderID, "000001"},
		{"000009", "000010"},
		{"000099", "000100"},
		{"999998", "999999"},
	}
	for _, c := range cases {
		got, err := NextOrderID(c.last)
		if err != nil {
			t.Fatalf("NextOrderID(%q): %v", c.last, err)
		}
		if got != c.want {
			t.Fatalf("NextOrderID(%q) = %q, want %q", c.last, got, c.want)
		}
	}

	if _, err := NextOrderID("abc"); err == nil {
		t.Fatal("malformed id should be rejected")
	}
}

func TestOrderTotalIsDerivedFromLines(t *testing.T) {
	order := models.Order{
		Order_id: "000007",
		Table:    "T3",
		Status:   models.OrderPending,
		Items: []models.OrderLine{
			{Name: "Burger", Size: "Large", AddOn: []string{"Cheese"}, Quantity: 2, Price: 12.50, Status: models.LinePending},
		},
	}
	if got := order.Total(); got != 25.00 {
		t.Fatalf("total = %v, want 25.00", got)
	}

	order.Items = append(order.Items, models.OrderLine{Name: "Cola", Size: "Regular", Quantity: 3, Price: 1.50, Status: models.LinePending})
	if got := order.Total(); got != 29.50 {
		t.Fatalf("total after append = %v, want 29.50", got)
	}

	// Removing a line removes exactly its contribution.
	order.Items = order.Items[1:]
	if got := order.Total(); got != 4.50 {
		t.Fatalf("total after removal = %v, want 4.50", got)
	}

	order.Items = nil
	if got := order.Total(); got != 0 {
		t.Fatalf("total of empty order = %v, want 0", got)
	}
}
