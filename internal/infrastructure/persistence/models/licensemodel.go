package models

import "time"

// LicenseModel represents the database persistence model for licenses.
// Only the bcrypt digest and the non-secret key prefix are stored; the
// plaintext key never reaches this table.
type LicenseModel struct {
	ID                     uint   `gorm:"primarykey"`
	SID                    string `gorm:"column:sid;size:32;uniqueIndex;not null"`
	KeyHash                string `gorm:"size:255;not null"`
	KeyPrefix              string `gorm:"size:16;index;not null"`
	ProductID              uint   `gorm:"not null;index"`
	OrderID                uint   `gorm:"index"`
	Status                 string `gorm:"size:20;not null;index"`
	MaxActivations         int    `gorm:"not null;default:1"`
	MaxActivationsOverride *int
	ActivationCount        int  `gorm:"not null;default:0"`
	RequireMachineBinding  bool `gorm:"not null;default:false"`
	ExpiresAt              *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// TableName specifies the table name for GORM
func (LicenseModel) TableName() string {
	return "licenses"
}
