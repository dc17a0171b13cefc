package models

import "time"

// Vehicle is a customer's electric vehicle identified by its plate.
type Vehicle struct {
	ID         int64     `db:"id" json:"id"`
	CustomerID int64     `db:"customer_id" json:"customer_id"`
	Plate      string    `db:"plate" json:"plate"`
	Model      string    `db:"model" json:"model"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
