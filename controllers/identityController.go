package controller

import (
	"net/http"

	database "github.com/TpPoom/POS-System/config"
)

// GetIdentity returns the restaurant name, address and phone used on receipt
// headers.
func GetIdentity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Identity retrieved successfully",
		"data":    database.Identity(),
	})
}
