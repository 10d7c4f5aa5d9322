package models

import (
	"strings"

	"gorm.io/gorm"
)

// GroupMember is a normal membership row: the device shares the account of
// the group. Presence of the row is the membership; there is no other
// payload.
type GroupMember struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	AccountID string `json:"account_id" gorm:"not null;size:32;uniqueIndex:idx_group_members_key" validate:"required"`
	GroupID   string `json:"group_id" gorm:"not null;size:32;uniqueIndex:idx_group_members_key" validate:"required"`
	DeviceID  string `json:"device_id" gorm:"not null;size:32;uniqueIndex:idx_group_members_key" validate:"required"`
}

// TableName specifies the table name for GroupMember model
func (GroupMember) TableName() string {
	return "group_members"
}

// BeforeSave hook to normalize the membership key
func (m *GroupMember) BeforeSave(tx *gorm.DB) error {
	m.AccountID = strings.ToLower(strings.TrimSpace(m.AccountID))
	m.GroupID = strings.ToLower(strings.TrimSpace(m.GroupID))
	m.DeviceID = strings.ToLower(strings.TrimSpace(m.DeviceID))
	return nil
}

// UniversalGroupMember is a universal membership row: it lets a group in one
// account reference a device owned by a different account.
type UniversalGroupMember struct {
	ID              uint   `json:"id" gorm:"primarykey"`
	AccountID       string `json:"account_id" gorm:"not null;size:32;uniqueIndex:idx_ugroup_members_key" validate:"required"`
	GroupID         string `json:"group_id" gorm:"not null;size:32;uniqueIndex:idx_ugroup_members_key" validate:"required"`
	DeviceAccountID string `json:"device_account_id" gorm:"not null;size:32;uniqueIndex:idx_ugroup_members_key" validate:"required"`
	DeviceID        string `json:"device_id" gorm:"not null;size:32;uniqueIndex:idx_ugroup_members_key" validate:"required"`
}

// TableName specifies the table name for UniversalGroupMember model
func (UniversalGroupMember) TableName() string {
	return "universal_group_members"
}

// BeforeSave hook to normalize the membership key
func (m *UniversalGroupMember) BeforeSave(tx *gorm.DB) error {
	m.AccountID = strings.ToLower(strings.TrimSpace(m.AccountID))
	m.GroupID = strings.ToLower(strings.TrimSpace(m.GroupID))
	m.DeviceAccountID = strings.ToLower(strings.TrimSpace(m.DeviceAccountID))
	m.DeviceID = strings.ToLower(strings.TrimSpace(m.DeviceID))
	return nil
}
