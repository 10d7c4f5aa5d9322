package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// UserDeviceAccess grants a user access to a single device. Membership
// resolution drops devices the requesting user holds no grant for.
type UserDeviceAccess struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	UserID    uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_user_device_access_key"`
	AccountID string `json:"account_id" gorm:"not null;size:32;uniqueIndex:idx_user_device_access_key"`
	DeviceID  string `json:"device_id" gorm:"not null;size:32;uniqueIndex:idx_user_device_access_key"`

	CreatedAt time.Time `json:"created_at"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName specifies the table name for UserDeviceAccess model
func (UserDeviceAccess) TableName() string {
	return "user_device_access"
}

// BeforeSave hook to normalize the device key
func (a *UserDeviceAccess) BeforeSave(tx *gorm.DB) error {
	a.AccountID = strings.ToLower(strings.TrimSpace(a.AccountID))
	a.DeviceID = strings.ToLower(strings.TrimSpace(a.DeviceID))
	return nil
}
