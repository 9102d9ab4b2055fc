// Package entity defines the domain models for the symbollist feature.
package entity

import (
	"errors"
	"time"
)

// ErrSymbolNotFound is returned when no symbol matches the requested code.
var ErrSymbolNotFound = errors.New("symbol not found")

// Symbol represents a stock ticker symbol that can be rendered as terrain.
// Inactive symbols stay in the table but are neither listed nor ingested.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Market    string    `gorm:"size:100;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
