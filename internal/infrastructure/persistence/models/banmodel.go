package models

import "time"

// BanModel represents the database persistence model for progressive bans.
// One row per issued ban; superseded rows are kept as history.
type BanModel struct {
	ID          uint      `gorm:"primarykey"`
	Subject     string    `gorm:"size:255;not null;index"`
	BanCount    int       `gorm:"not null"`
	BannedUntil time.Time `gorm:"not null;index"`
	Reason      string    `gorm:"size:255"`
	IPAddress   string    `gorm:"size:45"`
	UserAgent   string    `gorm:"size:512"`
	Removed     bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM
func (BanModel) TableName() string {
	return "account_bans"
}
