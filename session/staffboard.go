package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/TpPoom/POS-System/models"
	"github.com/TpPoom/POS-System/orderflow"
	"github.com/TpPoom/POS-System/projection"
)

var (
	ErrTableOccupied = errors.New("table already has an open order")
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownLine   = errors.New("unknown line")
)

// BoardLine is one order line on the staff board, with enough context to
// target it.
type BoardLine struct {
	OrderID string
	Table   string
	Line    models.OrderLine
}

// OrderBoard is the staff kitchen view: today's lines in three columns, each
// advanced one at a time.
type OrderBoard struct {
	api    *Client
	orders []models.Order
}

func NewOrderBoard(api *Client) *OrderBoard {
	return &OrderBoard{api: api}
}

// Refresh re-queries today's orders. Called on load and after every relay
// event; the board never mutates local state on another client's behalf.
func (b *OrderBoard) Refresh(ctx context.Context) error {
	orders, err := b.api.StaffOrders(ctx)
	if err != nil {
		return err
	}
	b.orders = orders
	return nil
}

// Lines returns the column for one status. An order can appear in all three
// columns at once; lines are independent.
func (b *OrderBoard) Lines(status string) []BoardLine {
	var lines []BoardLine
	for _, order := range b.orders {
		if !orderflow.IsOpen(order) {
			continue
		}
		for _, line := range order.Items {
			if line.Status == status {
				lines = append(lines, BoardLine{OrderID: order.Order_id, Table: order.Table, Line: line})
			}
		}
	}
	return lines
}

// Accept advances exactly one targeted Pending line to Ongoing.
func (b *OrderBoard) Accept(ctx context.Context, orderID, lineID string) error {
	return b.advance(ctx, orderID, lineID, models.LinePending)
}

// Serve advances exactly one targeted Ongoing line to Completed.
func (b *OrderBoard) Serve(ctx context.Context, orderID, lineID string) error {
	return b.advance(ctx, orderID, lineID, models.LineOngoing)
}

func (b *OrderBoard) advance(ctx context.Context, orderID, lineID, from string) error {
	line, err := b.findLine(orderID, lineID)
	if err != nil {
		return err
	}
	if line.Status != from {
		return fmt.Errorf("%w: line is %s, not %s", orderflow.ErrBadTransition, line.Status, from)
	}

	next, err := orderflow.NextLineStatus(line.Status)
	if err != nil {
		return err
	}

	updated, err := b.api.UpdateItemStatus(ctx, orderID, lineID, next)
	if err != nil {
		return err
	}

	for i := range b.orders {
		if b.orders[i].Order_id == updated.Order_id {
			b.orders[i] = updated
		}
	}
	return nil
}

func (b *OrderBoard) findLine(orderID, lineID string) (models.OrderLine, error) {
	for _, order := range b.orders {
		if order.Order_id != orderID {
			continue
		}
		for _, line := range order.Items {
			if line.Line_id == lineID {
				return line, nil
			}
		}
	}
	return models.OrderLine{}, ErrUnknownLine
}

// TableBoard is the staff front-of-house view: table availability, order
// assignment and billing.
type TableBoard struct {
	api *Client

	tables []models.Table
	open   []models.Order
	lastID string
}

func NewTableBoard(api *Client) *TableBoard {
	return &TableBoard{api: api}
}

// Refresh re-queries tables and open orders and keeps the greatest existing
// order id for pre-computing the next assignment.
func (tb *TableBoard) Refresh(ctx context.Context) error {
	views, err := tb.api.Tables(ctx)
	if err != nil {
		return err
	}

	open, lastID, err := tb.api.PendingOrders(ctx)
	if err != nil {
		return err
	}

	tables := make([]models.Table, 0, len(views))
	for _, v := range views {
		tables = append(tables, v.Table)
	}

	tb.tables = tables
	tb.open = open
	tb.lastID = lastID
	return nil
}

// Views projects availability from the locally known open orders. The same
// pure function backs every screen, so the board cannot drift from the server
// view.
func (tb *TableBoard) Views() []projection.TableView {
	return projection.Project(tb.tables, tb.open)
}

// OpenOrder returns the open order currently occupying a table, if any.
func (tb *TableBoard) OpenOrder(tableName string) (models.Order, bool) {
	for _, order := range tb.open {
		if order.Table == tableName && orderflow.IsOpen(order) {
			return order, true
		}
	}
	return models.Order{}, false
}

// AssignOrder opens a fresh order on an Available table, keeping the
// one-open-order-per-table invariant. The new id is derived from the greatest
// existing one.
func (tb *TableBoard) AssignOrder(ctx context.Context, tableName string) (string, error) {
	if !tb.hasTable(tableName) {
		return "", ErrUnknownTable
	}
	if _, occupied := tb.OpenOrder(tableName); occupied {
		return "", ErrTableOccupied
	}

	id, err := orderflow.NextOrderID(tb.lastID)
	if err != nil {
		return "", err
	}

	order, err := tb.api.CreateOrder(ctx, tableName, id)
	if err != nil {
		return "", err
	}

	tb.open = append(tb.open, order)
	tb.lastID = id
	return id, nil
}

// RemoveLine strikes one non-served line from a table's open order.
func (tb *TableBoard) RemoveLine(ctx context.Context, tableName, orderID, lineID string) error {
	updated, err := tb.api.RemoveItem(ctx, tableName, orderID, lineID)
	if err != nil {
		return err
	}
	tb.replaceOpen(updated)
	return nil
}

// Settle bills the order. Local state changes only after the server confirms;
// the next projection then flips the table back to Available.
func (tb *TableBoard) Settle(ctx context.Context, orderID string) error {
	if _, err := tb.api.SettleOrder(ctx, orderID); err != nil {
		return err
	}

	kept := tb.open[:0]
	for _, order := range tb.open {
		if order.Order_id != orderID {
			kept = append(kept, order)
		}
	}
	tb.open = kept
	return nil
}

func (tb *TableBoard) hasTable(name string) bool {
	for _, t := range tb.tables {
		if t.Name == name {
			return true
		}
	}
	return false
}

func (tb *TableBoard) replaceOpen(updated models.Order) {
	for i := range tb.open {
		if tb.open[i].Order_id == updated.Order_id {
			tb.open[i] = updated
		}
	}
}
