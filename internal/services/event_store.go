package services

import (
	"fmt"
	"strings"

	"fleettrack_server/internal/models"

	"gorm.io/gorm"
)

// EventCountUnknown signals that the storage engine could not report an
// exact figure. Some engines (MySQL InnoDB among them) cannot cheaply count
// rows, so the store returns this sentinel instead of failing. It is a valid
// "indeterminate" result, distinct from zero.
const EventCountUnknown int64 = -1

// EventStore is the event-history collaborator of the retention sweeper.
// Both operations return a non-negative count, or EventCountUnknown when the
// engine cannot produce an exact figure. msg receives optional diagnostics
// for the caller's per-device log line.
type EventStore interface {
	CountEventsBefore(accountID, deviceID string, oldTimeSec int64, msg *strings.Builder) (int64, error)
	DeleteEventsBefore(accountID, deviceID string, oldTimeSec int64, msg *strings.Builder) (int64, error)
}

// GormEventStore is the gorm-backed event store
type GormEventStore struct {
	db *gorm.DB
}

// NewGormEventStore creates an event store on the given database
func NewGormEventStore(database *gorm.DB) *GormEventStore {
	return &GormEventStore{db: database}
}

// CountEventsBefore counts events of the device older than oldTimeSec
func (s *GormEventStore) CountEventsBefore(accountID, deviceID string, oldTimeSec int64, msg *strings.Builder) (int64, error) {
	var count int64
	err := s.db.Model(&models.Event{}).
		Where("account_id = ? AND device_id = ? AND timestamp < ?",
			normalizeID(accountID), normalizeID(deviceID), oldTimeSec).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting events %s/%s: %w", accountID, deviceID, err)
	}
	return count, nil
}

// DeleteEventsBefore deletes events of the device older than oldTimeSec and
// returns the number of rows removed, or EventCountUnknown when the driver
// does not report affected rows.
func (s *GormEventStore) DeleteEventsBefore(accountID, deviceID string, oldTimeSec int64, msg *strings.Builder) (int64, error) {
	result := s.db.
		Where("account_id = ? AND device_id = ? AND timestamp < ?",
			normalizeID(accountID), normalizeID(deviceID), oldTimeSec).
		Delete(&models.Event{})
	if result.Error != nil {
		return 0, fmt.Errorf("deleting events %s/%s: %w", accountID, deviceID, result.Error)
	}
	if result.RowsAffected < 0 {
		if msg != nil {
			msg.WriteString("driver did not report affected rows")
		}
		return EventCountUnknown, nil
	}
	return result.RowsAffected, nil
}
