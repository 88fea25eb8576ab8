package session

import (
	"context"
	"errors"

	"github.com/TpPoom/POS-System/models"
)

var ErrOrderClosed = errors.New("order is no longer open")

// CustomerSession drives one customer order page: a QR code fixes the table
// and order id, the cart lives locally until submission, and the bill mirrors
// what the store has accepted.
type CustomerSession struct {
	api      *Client
	notifier *Notifier

	Table   string
	OrderID string
	Cart    Cart

	bill []models.OrderLine
}

func NewCustomerSession(api *Client, notifier *Notifier, table, orderID string) *CustomerSession {
	return &CustomerSession{api: api, notifier: notifier, Table: table, OrderID: orderID}
}

// Load fetches the order behind the QR code. A missing or already settled
// order means the code is stale and the page should bail out.
func (s *CustomerSession) Load(ctx context.Context) error {
	order, err := s.api.Order(ctx, s.Table, s.OrderID)
	if err != nil {
		return err
	}
	if order.Status != models.OrderPending {
		return ErrOrderClosed
	}
	s.bill = order.Items
	return nil
}

// AddToCart prices and stores the selection locally. Cart additions are
// optimistic; nothing reaches the server until SubmitCart.
func (s *CustomerSession) AddToCart(item models.Item, size string, addOns []string, quantity int) (models.OrderLine, error) {
	return s.Cart.Add(item, size, addOns, quantity)
}

// SubmitCart appends the cart to the order and announces it to the kitchen.
// An empty cart is rejected locally without a network call. The cart is only
// cleared once the store confirms the append.
func (s *CustomerSession) SubmitCart(ctx context.Context) error {
	if s.Cart.Len() == 0 {
		return ErrEmptyCart
	}

	order, err := s.api.AppendItems(ctx, s.Table, s.OrderID, s.Cart.Lines())
	if err != nil {
		return err
	}

	s.bill = order.Items
	s.Cart.Clear()

	if s.notifier != nil {
		return s.notifier.Publish(models.NotifyOrder, s.Table)
	}
	return nil
}

// RequestBill calls for the check. With nothing on the order it is rejected
// locally.
func (s *CustomerSession) RequestBill(ctx context.Context) error {
	if len(s.bill) == 0 {
		return ErrEmptyBill
	}
	if s.notifier == nil {
		return nil
	}
	return s.notifier.Publish(models.NotifyBill, s.Table)
}

// CallService pages the staff to the table.
func (s *CustomerSession) CallService(ctx context.Context) error {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.Publish(models.NotifyService, s.Table)
}

// Refresh re-queries the authoritative order state, typically after a relay
// event; notification payloads themselves are never trusted for contents.
func (s *CustomerSession) Refresh(ctx context.Context) error {
	order, err := s.api.Order(ctx, s.Table, s.OrderID)
	if err != nil {
		return err
	}
	s.bill = order.Items
	return nil
}

func (s *CustomerSession) BillItems() []models.OrderLine {
	return s.bill
}

func (s *CustomerSession) BillTotal() float64 {
	var total float64
	for _, line := range s.bill {
		total += line.Price * float64(line.Quantity)
	}
	return total
}
