package main

import "time"

// User is the demo user model served under /users/.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	HashedPassword string    `gorm:"not null" json:"hashed_password"`
	IsSuperuser    bool      `gorm:"not null;default:false" json:"is_superuser"`
	CreatedAt      time.Time `json:"created_at"`
}

// Order is the demo model served under /orders/.
type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Customer  string    `gorm:"not null" json:"customer"`
	Total     float64   `json:"total"`
	Status    string    `gorm:"default:new" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// demoModels are registered by the server command besides User.
func demoModels() []any {
	return []any{&Order{}}
}
