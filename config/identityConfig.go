package database

import "os"

// StoreIdentity is printed on receipt headers. Read-only, sourced from env.
type StoreIdentity struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func Identity() StoreIdentity {
	return StoreIdentity{
		Name:    os.Getenv("STORE_NAME"),
		Address: os.Getenv("STORE_ADDRESS"),
		Phone:   os.Getenv("STORE_PHONE"),
	}
}
