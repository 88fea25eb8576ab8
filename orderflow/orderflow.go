// Package orderflow holds the pure transition rules for orders and their
// lines. Every mutation path consults this package instead of hard-coding
// status strings.
package orderflow

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/TpPoom/POS-System/models"
)

var (
	ErrBadTransition = errors.New("illegal status transition")
	ErrLineServed    = errors.New("completed line cannot be removed")
	ErrNotOpen       = errors.New("order is not open")
)

// FirstOrderID is the sentinel returned when no order exists yet; callers
// derive the first real id from it with NextOrderID.
const FirstOrderID = "000000"

// NextLineStatus returns the status one step ahead of current. Lines advance
// Pending -> Ongoing -> Completed, one step per staff action, never backward.
func NextLineStatus(current string) (string, error) {
	switch current {
	case models.LinePending:
		return models.LineOngoing, nil
	case models.LineOngoing:
		return models.LineCompleted, nil
	default:
		return "", fmt.Errorf("%w: no advance from %q", ErrBadTransition, current)
	}
}

// PrevLineStatus returns the unique predecessor of next. The store uses it to
// build the compare-and-set guard for line updates.
func PrevLineStatus(next string) (string, error) {
	switch next {
	case models.LineOngoing:
		return models.LinePending, nil
	case models.LineCompleted:
		return models.LineOngoing, nil
	default:
		return "", fmt.Errorf("%w: no advance to %q", ErrBadTransition, next)
	}
}

// CanRemoveLine reports whether a line may still be pulled from its order.
// A served line is not cancellable through this path.
func CanRemoveLine(status string) bool {
	return status == models.LinePending || status == models.LineOngoing
}

// CanSettle reports whether the order may transition to Paid. The transition
// is one-directional; a Paid order stays Paid.
func CanSettle(order models.Order) error {
	if order.Status != models.OrderPending {
		return ErrNotOpen
	}
	return nil
}

// IsOpen reports whether the order counts toward table availability and the
// staff order board.
func IsOpen(order models.Order) bool {
	return order.Status == models.OrderPending
}

// NextOrderID increments a zero-padded six-digit order id. The id space is
// caller-managed: the table board fetches the greatest existing id and
// pre-computes the next one before assigning a table.
func NextOrderID(lastID string) (string, error) {
	n, err := strconv.Atoi(lastID)
	if err != nil {
		return "", fmt.Errorf("malformed order id %q: %w", lastID, err)
	}
	return fmt.Sprintf("%06d", n+1), nil
}
