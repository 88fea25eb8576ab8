package routes

import (
	"net/http"

	controller "github.com/TpPoom/POS-System/controllers"
	"github.com/gorilla/mux"
)

func TableProtectedRoutes(router *mux.Router) {
	router.HandleFunc("/table", controller.GetTables).Methods(http.MethodGet)
}

func TableManagerRoutes(router *mux.Router) {
	router.HandleFunc("/table", controller.CreateTable).Methods(http.MethodPost)
	router.HandleFunc("/table", controller.UpdateTable).Methods(http.MethodPut)
	router.HandleFunc("/table", controller.DeleteTable).Methods(http.MethodDelete)
}
