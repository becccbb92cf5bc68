package models

import "time"

// FailedAttemptModel represents the database persistence model for
// ephemeral failed-authentication records.
type FailedAttemptModel struct {
	ID          uint      `gorm:"primarykey"`
	Subject     string    `gorm:"size:255;not null;index"`
	IPAddress   string    `gorm:"size:45"`
	UserAgent   string    `gorm:"size:512"`
	Reason      string    `gorm:"size:255"`
	AttemptedAt time.Time `gorm:"not null;index"`
	ExpiresAt   time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (FailedAttemptModel) TableName() string {
	return "failed_login_attempts"
}
