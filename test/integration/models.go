package integration

import "time"

// User mirrors the adminctl demo user model so the binary and inline
// servers see the same tables.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex;not null"`
	HashedPassword string `gorm:"not null"`
	IsSuperuser    bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time
}

// Order mirrors the adminctl demo order model.
type Order struct {
	ID        uint   `gorm:"primaryKey"`
	Customer  string `gorm:"not null"`
	Total     float64
	Status    string `gorm:"default:new"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
