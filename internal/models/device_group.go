package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Reserved group identifiers. "all" is a virtual group covering every device
// of an account; it is never persisted and always exists. "none" is an
// explicitly empty group by convention.
const (
	DeviceGroupAll  = "all"
	DeviceGroupNone = "none"
)

// IsGroupAll reports whether groupID names the virtual "all" group
func IsGroupAll(groupID string) bool {
	return strings.EqualFold(groupID, DeviceGroupAll)
}

// DeviceGroup represents a named collection of devices within one account
type DeviceGroup struct {
	ID          uint   `json:"id" gorm:"primarykey"`
	AccountID   string `json:"account_id" gorm:"not null;size:32;uniqueIndex:idx_device_groups_account_group" validate:"required"`
	GroupID     string `json:"group_id" gorm:"not null;size:32;uniqueIndex:idx_device_groups_account_group" validate:"required"`
	DisplayName string `json:"display_name" gorm:"size:64"`
	Description string `json:"description" gorm:"size:128"`
	Notes       string `json:"notes" gorm:"type:text"`

	// Notification settings (see Account.AllowNotify for the account default)
	AllowNotify bool   `json:"allow_notify" gorm:"not null;default:false"`
	NotifyEmail string `json:"notify_email" gorm:"size:128"`

	WorkOrderID string `json:"work_order_id" gorm:"size:512"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name for DeviceGroup model
func (DeviceGroup) TableName() string {
	return "device_groups"
}

// BeforeSave hook to normalize the composite key
func (g *DeviceGroup) BeforeSave(tx *gorm.DB) error {
	g.AccountID = strings.ToLower(strings.TrimSpace(g.AccountID))
	g.GroupID = strings.ToLower(strings.TrimSpace(g.GroupID))
	return nil
}

// SetCreationDefaults applies the defaults assigned once when a group is
// first created
func (g *DeviceGroup) SetCreationDefaults() {
	g.Description = ""
}
