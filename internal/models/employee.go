package models

import "time"

// Employee roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// EmployeeCodePrefix prefixes generated employee ids (NV001, NV002, ...).
const EmployeeCodePrefix = "NV"

// Employee is a staff account tied to a station. Unapproved employees
// cannot authenticate.
type Employee struct {
	ID           string    `db:"id" json:"id"`
	StationID    string    `db:"station_id" json:"station_id"`
	FullName     string    `db:"full_name" json:"full_name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Approved     bool      `db:"approved" json:"approved"`
	FirstLogin   bool      `db:"first_login" json:"first_login"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
