package models

// Notification messages relayed between customer pages and staff dashboards.
const (
	NotifyOrder   = "Order"
	NotifyBill    = "Bill"
	NotifyService = "Service"
)

// Notification lives only in the relay's in-memory backlog; it is a signal to
// re-query the order store, never a source of truth for order contents.
type Notification struct {
	ID        int64  `json:"id"`
	Message   string `json:"message" validate:"required,eq=Order|eq=Bill|eq=Service"`
	Table     string `json:"table" validate:"required"`
	Timestamp string `json:"timestamp"`
}
