package models

import "time"

// User is a trusted caller of the verification API (storefront operators and
// server-side clients). Shopper accounts live on the hosted identity provider
// and never touch this table.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"unique" json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"` // "client" or "admin"
	CreatedAt time.Time `json:"created_at"`
}
