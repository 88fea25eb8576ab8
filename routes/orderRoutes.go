package routes

import (
	"net/http"

	controller "github.com/TpPoom/POS-System/controllers"
	"github.com/gorilla/mux"
)

// Order ids are zero-padded six-digit sequences; the pattern keeps these
// routes from swallowing /order/staff/... paths.
const orderPath = "/order/{table}/{id:[0-9]{6}}"

// OrderPublicRoutes are reachable from the customer order page, which is
// opened from a QR code without a staff session.
func OrderPublicRoutes(router *mux.Router) {
	router.HandleFunc(orderPath, controller.GetOrder).Methods(http.MethodGet)
	router.HandleFunc(orderPath, controller.AppendOrderItems).Methods(http.MethodPut)
	router.HandleFunc(orderPath, controller.RemoveOrderItem).Methods(http.MethodDelete)
}

func OrderProtectedRoutes(router *mux.Router) {
	router.HandleFunc("/order", controller.GetOrders).Methods(http.MethodGet)

	router.HandleFunc("/order/staff", controller.GetStaffOrders).Methods(http.MethodGet)
	router.HandleFunc("/order/staff", controller.UpdateItemStatus).Methods(http.MethodPut)

	router.HandleFunc("/order/staff/pending", controller.GetPendingOrders).Methods(http.MethodGet)
	router.HandleFunc("/order/staff/pending", controller.SettleOrder).Methods(http.MethodPut)

	// Assigning an order to a table is a staff action.
	router.HandleFunc(orderPath, controller.CreateOrder).Methods(http.MethodPost)
}
