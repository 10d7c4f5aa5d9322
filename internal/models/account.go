package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Account represents a tenant that owns devices and device groups
type Account struct {
	ID          uint   `json:"id" gorm:"primarykey"`
	AccountID   string `json:"account_id" gorm:"uniqueIndex;not null;size:32" validate:"required"`
	Description string `json:"description" gorm:"size:128"`

	// Retention policy: events younger than this many days may never be
	// deleted. 0 disables the policy.
	RetainedEventDays uint `json:"retained_event_days" gorm:"not null;default:0"`

	// Default notification state inherited by groups that do not set their own
	AllowNotify bool `json:"allow_notify" gorm:"not null;default:false"`

	IsActive  bool           `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name for Account model
func (Account) TableName() string {
	return "accounts"
}

// BeforeSave hook to normalize the account key
func (a *Account) BeforeSave(tx *gorm.DB) error {
	a.AccountID = strings.ToLower(strings.TrimSpace(a.AccountID))
	return nil
}

// AdjustRetainedEventTime clamps a requested deletion cutoff so it cannot
// reach into the account's retained-event window. Returns the cutoff
// unchanged when no retention policy is configured.
func (a *Account) AdjustRetainedEventTime(oldTimeSec int64) int64 {
	if a.RetainedEventDays == 0 {
		return oldTimeSec
	}
	retainedTime := time.Now().Unix() - int64(a.RetainedEventDays)*86400
	if oldTimeSec > retainedTime {
		return retainedTime
	}
	return oldTimeSec
}
