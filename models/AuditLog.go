package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records every admin mutation with a before/after snapshot.
type AuditLog struct {
	gorm.Model
	AdminUserID  uint           `json:"adminUserID" gorm:"index"`
	Action       string         `json:"action" gorm:"not null;index"`
	ResourceType string         `json:"resourceType" gorm:"not null"`
	ResourceID   string         `json:"resourceID"`
	Before       datatypes.JSON `json:"before"`
	After        datatypes.JSON `json:"after"`
	IPAddress    string         `json:"ipAddress"`
}
