package routes

import (
	"net/http"

	controller "github.com/TpPoom/POS-System/controllers"
	"github.com/gorilla/mux"
)

func UserPublicRoutes(router *mux.Router) {
	router.HandleFunc("/user/login", controller.Login).Methods(http.MethodPost)
	router.HandleFunc("/identity", controller.GetIdentity).Methods(http.MethodGet)
}

// UserManagerRoutes cover staff account administration.
func UserManagerRoutes(router *mux.Router) {
	router.HandleFunc("/user", controller.GetUsers).Methods(http.MethodGet)
	router.HandleFunc("/user", controller.SignUp).Methods(http.MethodPost)
	router.HandleFunc("/user", controller.UpdateUser).Methods(http.MethodPut)
	router.HandleFunc("/user", controller.DeleteUser).Methods(http.MethodDelete)
}
