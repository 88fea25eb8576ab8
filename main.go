package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	middleware "github.com/TpPoom/POS-System/middlewares"
	"github.com/TpPoom/POS-System/notification"
	routes "github.com/TpPoom/POS-System/routes"
)

// LoadEnv loads environment variables from the .env file
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func main() {
	// Load environment variables
	LoadEnv()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	// The notification hub owns the backlog for the life of the process.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := notification.NewHub()
	go hub.Run(ctx)

	router := mux.NewRouter()
	router.HandleFunc("/ws", hub.ServeWS)

	// Public Routes (No Authentication)
	routes.OrderPublicRoutes(router)
	routes.ItemPublicRoutes(router)
	routes.UserPublicRoutes(router)

	// Staff routes require a Bearer token
	securedRoutes := router.PathPrefix("/").Subrouter()
	securedRoutes.Use(middleware.Authentication)
	routes.OrderProtectedRoutes(securedRoutes)
	routes.TableProtectedRoutes(securedRoutes)

	// Manager-only administration
	managerRoutes := securedRoutes.PathPrefix("/").Subrouter()
	managerRoutes.Use(middleware.RequireManager)
	routes.TableManagerRoutes(managerRoutes)
	routes.ItemManagerRoutes(managerRoutes)
	routes.UserManagerRoutes(managerRoutes)

	log.Printf("Server running on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}
