package models

import "time"

// RateLimitWindowModel represents one fixed rate-limit window. The unique
// index over the key triple guarantees at most one current window per key.
type RateLimitWindowModel struct {
	ID           uint      `gorm:"primarykey"`
	SubjectType  string    `gorm:"size:32;not null;uniqueIndex:idx_rate_limit_key"`
	SubjectValue string    `gorm:"size:255;not null;uniqueIndex:idx_rate_limit_key"`
	Endpoint     string    `gorm:"size:64;not null;uniqueIndex:idx_rate_limit_key"`
	Counter      int       `gorm:"not null;default:0"`
	WindowStart  time.Time `gorm:"not null"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (RateLimitWindowModel) TableName() string {
	return "rate_limits"
}
