package models

type Device struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	UniqueID string `json:"uniqueId" db:"uniqueid"`
}
