package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Event represents a single GPS tracking event reported by a device. This is
// the (potentially very large) history the retention sweeper maintains.
type Event struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	AccountID string `json:"account_id" gorm:"not null;size:32;index:idx_events_device_time" validate:"required"`
	DeviceID  string `json:"device_id" gorm:"not null;size:32;index:idx_events_device_time" validate:"required"`

	// Event time in epoch seconds; retention cutoffs compare against this
	Timestamp int64 `json:"timestamp" gorm:"not null;index:idx_events_device_time"`

	// GPS Location Data
	Latitude  *float64 `json:"latitude" gorm:"type:decimal(15,12)"`
	Longitude *float64 `json:"longitude" gorm:"type:decimal(15,12)"`
	Speed     *int     `json:"speed"`    // km/h
	Course    *int     `json:"course"`   // degrees (0-360)
	Altitude  *int     `json:"altitude"` // meters

	StatusCode   int    `json:"status_code"`
	ProtocolName string `json:"protocol_name"`
	RawPacket    string `json:"raw_packet"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Event model
func (Event) TableName() string {
	return "events"
}

// BeforeCreate hook to normalize keys and default the event time
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	e.AccountID = strings.ToLower(strings.TrimSpace(e.AccountID))
	e.DeviceID = strings.ToLower(strings.TrimSpace(e.DeviceID))
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().Unix()
	}
	return nil
}

// IsValidLocation checks if GPS coordinates are valid
func (e *Event) IsValidLocation() bool {
	return e.Latitude != nil && e.Longitude != nil &&
		*e.Latitude >= -90 && *e.Latitude <= 90 &&
		*e.Longitude >= -180 && *e.Longitude <= 180
}

// GetLocationString returns a formatted location string
func (e *Event) GetLocationString() string {
	if !e.IsValidLocation() {
		return "No valid location"
	}
	return fmt.Sprintf("%.12f,%.12f", *e.Latitude, *e.Longitude)
}
