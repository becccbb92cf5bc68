package models

import "time"

// ActivationModel represents the database persistence model for machine
// activations. Machine identifiers are stored only as server-salted hashes.
type ActivationModel struct {
	ID              uint   `gorm:"primarykey"`
	SID             string `gorm:"column:sid;size:32;uniqueIndex;not null"`
	LicenseID       uint   `gorm:"not null;index:idx_activation_license_hash"`
	FingerprintHash string `gorm:"size:64;index:idx_activation_license_hash"`
	MachineIDHash   string `gorm:"size:64;index"`
	Active          bool   `gorm:"not null;default:true;index"`
	Revoked         bool   `gorm:"not null;default:false"`
	RevokeReason    string `gorm:"size:255"`
	RevokedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for GORM
func (ActivationModel) TableName() string {
	return "license_activations"
}
