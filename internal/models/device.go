package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// SimOperator represents the SIM operator enum
type SimOperator string

const (
	SimOperatorNcell SimOperator = "Ncell"
	SimOperatorNtc   SimOperator = "Ntc"
)

// Protocol represents the device protocol enum
type Protocol string

const (
	ProtocolGT06 Protocol = "GT06"
)

// Device represents a GPS tracking device owned by exactly one account.
// A device may appear as a member of many device groups, in its own account
// or (through universal membership) in groups of other accounts.
type Device struct {
	ID          uint        `json:"id" gorm:"primarykey"`
	AccountID   string      `json:"account_id" gorm:"not null;size:32;uniqueIndex:idx_devices_account_device" validate:"required"`
	DeviceID    string      `json:"device_id" gorm:"not null;size:32;uniqueIndex:idx_devices_account_device" validate:"required"`
	DisplayName string      `json:"display_name" gorm:"size:64"`
	SimNo       string      `json:"sim_no" gorm:"size:20"`
	SimOperator SimOperator `json:"sim_operator" gorm:"type:varchar(10)"`
	Protocol    Protocol    `json:"protocol" gorm:"type:varchar(10);not null;default:'GT06'"`
	IsActive    bool        `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name for Device model
func (Device) TableName() string {
	return "devices"
}

// BeforeSave hook to normalize the composite key
func (d *Device) BeforeSave(tx *gorm.DB) error {
	d.AccountID = strings.ToLower(strings.TrimSpace(d.AccountID))
	d.DeviceID = strings.ToLower(strings.TrimSpace(d.DeviceID))
	return nil
}
