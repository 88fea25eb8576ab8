package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator"
	"github.com/gorilla/mux"

	database "github.com/TpPoom/POS-System/config"
	"github.com/TpPoom/POS-System/models"
	"github.com/TpPoom/POS-System/orderflow"
	"github.com/TpPoom/POS-System/store"
)

var orderStore *store.OrderStore = store.New(database.OpenCollection(database.Client, "order"))

var validate = validator.New()

// orderData shapes an order for responses, with the total always recomputed
// from the current lines.
func orderData(o models.Order) map[string]interface{} {
	return map[string]interface{}{
		"id":         o.Order_id,
		"table":      o.Table,
		"status":     o.Status,
		"items":      o.Items,
		"total":      o.Total(),
		"created_at": o.Created_at,
		"updated_at": o.Updated_at,
	}
}

func ordersData(orders []models.Order) []map[string]interface{} {
	data := make([]map[string]interface{}, 0, len(orders))
	for _, o := range orders {
		data = append(data, orderData(o))
	}
	return data
}

func writeJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// writeOrderError maps store/orderflow failures onto the HTTP surface.
func writeOrderError(w http.ResponseWriter, err error) {
	var vErrs validator.ValidationErrors
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "Order id already exists")
	case errors.Is(err, store.ErrAlreadySettled):
		writeError(w, http.StatusConflict, "Order already settled")
	case errors.Is(err, store.ErrStaleLine):
		writeError(w, http.StatusConflict, "Item was updated by someone else, refresh and retry")
	case errors.Is(err, orderflow.ErrLineServed):
		writeError(w, http.StatusConflict, "A served item cannot be removed")
	case errors.Is(err, orderflow.ErrNotOpen):
		writeError(w, http.StatusConflict, "Order is no longer open")
	case errors.Is(err, orderflow.ErrBadTransition):
		writeError(w, http.StatusBadRequest, "Illegal status transition")
	case errors.As(err, &vErrs):
		writeError(w, http.StatusBadRequest, "Invalid order payload")
	default:
		writeError(w, http.StatusInternalServerError, "Error handling order")
	}
}

// GetOrders returns every order; with start/end query parameters
// (YYYY-MM-DD) it narrows to orders updated in that range, end day inclusive.
func GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var orders []models.Order
	var err error

	startParam := r.URL.Query().Get("start")
	endParam := r.URL.Query().Get("end")
	if startParam != "" && endParam != "" {
		start, sErr := time.Parse("2006-01-02", startParam)
		end, eErr := time.Parse("2006-01-02", endParam)
		if sErr != nil || eErr != nil {
			writeError(w, http.StatusBadRequest, "Invalid date range")
			return
		}
		orders, err = orderStore.ListRange(ctx, start, end)
	} else {
		orders, err = orderStore.ListAll(ctx)
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error retrieving orders")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Orders retrieved successfully",
		"data":    ordersData(orders),
	})
}

// GetOrder fetches one order by id and table. Both must match so one table's
// QR code cannot read another table's order.
func GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	params := mux.Vars(r)
	order, err := orderStore.Get(ctx, params["id"], params["table"])
	if err != nil {
		writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order retrieved successfully",
		"data":    orderData(order),
	})
}

// CreateOrder assigns a fresh order to a table. The caller pre-computes the id
// from the lastId returned by GetPendingOrders.
func CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	params := mux.Vars(r)
	order, err := orderStore.Create(ctx, params["id"], params["table"])
	if err != nil {
		writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Order created successfully",
		"data":    orderData(order),
	})
}

// AppendOrderItems appends submitted cart lines to the order. Prices arrive
// frozen from add-to-cart time and are stored as-is.
func AppendOrderItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	params := mux.Vars(r)

	var body struct {
		Items []models.OrderLine `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(body.Items) == 0 {
		writeError(w, http.StatusBadRequest, "No items to add")
		return
	}

	order, err := orderStore.AppendLines(ctx, params["id"], body.Items)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Order updated",
		"data":    orderData(order),
	})
}

// RemoveOrderItem pulls one line, targeted by its stable line id, never by
// position. Served lines are refused.
func RemoveOrderItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	params := mux.Vars(r)

	var body struct {
		LineID string `json:"line_id" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.LineID == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := orderStore.RemoveLine(ctx, params["id"], params["table"], body.LineID)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Item removed and order updated",
		"data":    orderData(order),
	})
}

// GetStaffOrders returns today's orders for the staff board.
func GetStaffOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	orders, err := orderStore.ListToday(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error retrieving orders")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Orders retrieved successfully",
		"data":    ordersData(orders),
	})
}

// UpdateItemStatus advances one targeted line by one step
// (Pending -> Ongoing on Accept, Ongoing -> Completed on Serve).
func UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var body struct {
		ID     string `json:"id" validate:"required"`
		LineID string `json:"line_id" validate:"required"`
		Status string `json:"status" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, "Missing id, line_id or status")
		return
	}

	order, err := orderStore.UpdateLineStatus(ctx, body.ID, body.LineID, body.Status)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Item status updated",
		"data":    orderData(order),
	})
}

// GetPendingOrders returns every open order plus the greatest existing order
// id, from which the table board derives the next id to assign.
func GetPendingOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	orders, lastID, err := orderStore.ListOpen(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error retrieving orders")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Orders retrieved successfully",
		"data": map[string]interface{}{
			"orders": ordersData(orders),
			"lastId": lastID,
		},
	})
}

// SettleOrder closes the order (Pending -> Paid). Settling twice reports a
// conflict instead of silently re-applying.
func SettleOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var body struct {
		ID string `json:"id" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := orderStore.Settle(ctx, body.ID)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order settled",
		"data":    orderData(order),
	})
}
