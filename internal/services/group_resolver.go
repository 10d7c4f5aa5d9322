package services

import (
	"errors"
	"fmt"
	"strings"

	"fleettrack_server/internal/models"
	"fleettrack_server/pkg/colors"

	"gorm.io/gorm"
)

// GroupDevice identifies one member of a universal group: the device and the
// account that owns it, which may differ from the group's account.
type GroupDevice struct {
	AccountID string `json:"account_id"`
	DeviceID  string `json:"device_id"`
}

// GroupResolver turns (account, group-id) into an ordered, duplicate-free
// list of member devices. The virtual "all" group resolves to every device
// of the account without touching the membership tables.
//
// Resolution materializes the full filtered set in memory; it is not meant
// for groups beyond a few hundred devices.
type GroupResolver struct {
	db *gorm.DB
}

// NewGroupResolver creates a resolver on the given database
func NewGroupResolver(database *gorm.DB) *GroupResolver {
	return &GroupResolver{db: database}
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// DeviceIDsForGroup resolves the members of a normal group, ordered by
// device-id. A blank account or group yields an empty list, not an error.
// limit caps the raw membership scan; -1 means unbounded. When
// includeInactive is false, devices that are missing or inactive are
// dropped; when auth is non-nil, devices the caller holds no grant for are
// dropped.
func (r *GroupResolver) DeviceIDsForGroup(accountID, groupID string, auth DeviceAuthorizer, includeInactive bool, limit int) ([]string, error) {
	accountID = normalizeID(accountID)
	groupID = normalizeID(groupID)

	if accountID == "" || groupID == "" {
		return []string{}, nil
	}

	// the virtual "all" group bypasses the membership tables entirely
	if models.IsGroupAll(groupID) {
		return r.DeviceIDsForAccount(accountID, auth, includeInactive)
	}

	// the inactive trim needs the owning account; a missing account means
	// no matching devices, not a failure
	if !includeInactive {
		var account models.Account
		err := r.db.Where("account_id = ?", accountID).First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			colors.PrintWarning("Account not found? %s", accountID)
			return []string{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading account %s: %w", accountID, err)
		}
	}

	query := r.db.Model(&models.GroupMember{}).
		Where("account_id = ? AND group_id = ?", accountID, groupID).
		Order("device_id")
	if limit >= 0 {
		query = query.Limit(limit)
	}

	var rows []models.GroupMember
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("reading group member list %s/%s: %w", accountID, groupID, err)
	}

	devList := make([]string, 0, len(rows))
	for _, row := range rows {
		if !includeInactive && !r.deviceIsActive(accountID, row.DeviceID) {
			continue
		}
		if auth != nil && !auth.IsAuthorizedDevice(accountID, row.DeviceID) {
			continue
		}
		devList = append(devList, row.DeviceID)
	}
	return devList, nil
}

// AllDevicesForGroup resolves the members of a universal group as
// (device-account, device) pairs, ordered by device-account-id then
// device-id. The virtual "all" group resolves to the account's own devices.
func (r *GroupResolver) AllDevicesForGroup(accountID, groupID string, auth DeviceAuthorizer, includeInactive bool, limit int) ([]GroupDevice, error) {
	accountID = normalizeID(accountID)
	groupID = normalizeID(groupID)

	if accountID == "" || groupID == "" {
		return []GroupDevice{}, nil
	}

	if models.IsGroupAll(groupID) {
		ids, err := r.DeviceIDsForAccount(accountID, auth, includeInactive)
		if err != nil {
			return nil, err
		}
		devList := make([]GroupDevice, 0, len(ids))
		for _, devID := range ids {
			devList = append(devList, GroupDevice{AccountID: accountID, DeviceID: devID})
		}
		return devList, nil
	}

	// same guard as the normal path: the account read only pays off when
	// the inactive trim needs it
	if !includeInactive {
		var account models.Account
		err := r.db.Where("account_id = ?", accountID).First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			colors.PrintWarning("Universal group member list - account not found? %s", accountID)
			return []GroupDevice{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading account %s: %w", accountID, err)
		}
	}

	query := r.db.Model(&models.UniversalGroupMember{}).
		Where("account_id = ? AND group_id = ?", accountID, groupID).
		Order("device_account_id, device_id")
	if limit >= 0 {
		query = query.Limit(limit)
	}

	var rows []models.UniversalGroupMember
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("reading universal group member list %s/%s: %w", accountID, groupID, err)
	}

	devList := make([]GroupDevice, 0, len(rows))
	for _, row := range rows {
		if !includeInactive && !r.deviceIsActive(row.DeviceAccountID, row.DeviceID) {
			continue
		}
		if auth != nil && !auth.IsAuthorizedDevice(row.DeviceAccountID, row.DeviceID) {
			continue
		}
		devList = append(devList, GroupDevice{AccountID: row.DeviceAccountID, DeviceID: row.DeviceID})
	}
	return devList, nil
}

// DeviceIDsForAccount lists every device owned by the account, ordered by
// device-id, with the same optional trims as group resolution. This is the
// expansion of the virtual "all" group.
func (r *GroupResolver) DeviceIDsForAccount(accountID string, auth DeviceAuthorizer, includeInactive bool) ([]string, error) {
	accountID = normalizeID(accountID)
	if accountID == "" {
		return []string{}, nil
	}

	query := r.db.Model(&models.Device{}).
		Where("account_id = ?", accountID).
		Order("device_id")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var devices []models.Device
	if err := query.Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("reading devices for account %s: %w", accountID, err)
	}

	devList := make([]string, 0, len(devices))
	for _, device := range devices {
		if auth != nil && !auth.IsAuthorizedDevice(accountID, device.DeviceID) {
			continue
		}
		devList = append(devList, device.DeviceID)
	}
	return devList, nil
}

// deviceIsActive reports whether the device record exists and is active.
// Missing devices count as inactive for the resolution trim.
func (r *GroupResolver) deviceIsActive(accountID, deviceID string) bool {
	var device models.Device
	err := r.db.Where("account_id = ? AND device_id = ?", accountID, deviceID).First(&device).Error
	if err != nil {
		return false
	}
	return device.IsActive
}
