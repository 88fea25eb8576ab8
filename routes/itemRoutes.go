package routes

import (
	"net/http"

	controller "github.com/TpPoom/POS-System/controllers"
	"github.com/gorilla/mux"
)

// ItemPublicRoutes let customers browse the catalog without a session.
func ItemPublicRoutes(router *mux.Router) {
	router.HandleFunc("/item", controller.GetItems).Methods(http.MethodGet)
	router.HandleFunc("/item/categories", controller.GetItemCategories).Methods(http.MethodGet)
}

func ItemManagerRoutes(router *mux.Router) {
	router.HandleFunc("/item", controller.CreateItem).Methods(http.MethodPost)
	router.HandleFunc("/item", controller.UpdateItem).Methods(http.MethodPut)
	router.HandleFunc("/item", controller.DeleteItem).Methods(http.MethodDelete)
}
