// Package projection derives table availability from the set of open orders.
// Every screen that shows table status goes through Project so the rule lives
// in exactly one place.
package projection

import (
	"github.com/TpPoom/POS-System/models"
	"github.com/TpPoom/POS-System/orderflow"
)

const (
	Available   = "Available"
	Unavailable = "Unavailable"
)

// TableView is a table plus its derived status. The status is never stored.
type TableView struct {
	models.Table
	Status string `json:"status"`
}

// Project marks a table Unavailable iff some open (Pending) order references
// its name. Paid orders do not hold a table.
func Project(tables []models.Table, orders []models.Order) []TableView {
	occupied := make(map[string]bool, len(orders))
	for _, order := range orders {
		if orderflow.IsOpen(order) {
			occupied[order.Table] = true
		}
	}

	views := make([]TableView, 0, len(tables))
	for _, table := range tables {
		status := Available
		if occupied[table.Name] {
			status = Unavailable
		}
		views = append(views, TableView{Table: table, Status: status})
	}
	return views
}
