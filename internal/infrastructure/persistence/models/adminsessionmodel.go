package models

import "time"

// AdminSessionModel represents the database persistence model for admin
// sessions.
type AdminSessionModel struct {
	ID             string    `gorm:"primarykey;size:64"`
	AdminID        uint      `gorm:"not null;index"`
	IPAddress      string    `gorm:"size:45"`
	UserAgent      string    `gorm:"size:512"`
	RotatedAt      time.Time `gorm:"not null"`
	LastActivityAt time.Time `gorm:"not null;index"`
	AnomalyCount   int       `gorm:"not null;default:0"`
	Suspicious     bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time
}

// TableName specifies the table name for GORM
func (AdminSessionModel) TableName() string {
	return "admin_sessions"
}
