package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLogModel represents the database persistence model for audit
// entries. Append-only; sensitive values arrive already redacted.
type AuditLogModel struct {
	ID            uint   `gorm:"primarykey"`
	Action        string `gorm:"size:64;not null;index"`
	Success       bool   `gorm:"not null"`
	FailureReason string `gorm:"size:255"`
	Subject       string `gorm:"size:255;index"`
	LicenseSID    string `gorm:"column:license_sid;size:32;index"`
	IPAddress     string `gorm:"size:45"`
	UserAgent     string `gorm:"size:512"`
	Metadata      datatypes.JSONMap
	CreatedAt     time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (AuditLogModel) TableName() string {
	return "license_audit_logs"
}
