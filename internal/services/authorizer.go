package services

import (
	"errors"

	"fleettrack_server/internal/models"

	"gorm.io/gorm"
)

// DeviceAuthorizer decides whether the caller may see a device. A nil
// authorizer means no authorization trim is applied.
type DeviceAuthorizer interface {
	IsAuthorizedDevice(accountID, deviceID string) bool
}

// UserAuthorizer adapts a user's device grants to the resolver's
// authorization trim. Admin users are authorized for every device.
type UserAuthorizer struct {
	db   *gorm.DB
	user *models.User
}

// NewUserAuthorizer creates an authorizer for the given user
func NewUserAuthorizer(database *gorm.DB, user *models.User) *UserAuthorizer {
	return &UserAuthorizer{db: database, user: user}
}

// IsAuthorizedDevice reports whether the user holds a grant for the device
func (a *UserAuthorizer) IsAuthorizedDevice(accountID, deviceID string) bool {
	if a.user == nil {
		return false
	}
	if a.user.Role == models.UserRoleAdmin {
		return true
	}
	var access models.UserDeviceAccess
	err := a.db.
		Where("user_id = ? AND account_id = ? AND device_id = ?",
			a.user.ID, normalizeID(accountID), normalizeID(deviceID)).
		First(&access).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	// a lookup failure trims the device rather than failing resolution
	return err == nil
}
