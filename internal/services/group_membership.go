package services

import (
	"fmt"

	"fleettrack_server/internal/models"

	"gorm.io/gorm"
)

// GroupMembershipService mutates the normal and universal membership
// relations. Adds are idempotent; removals of non-members are silent no-ops
// at the relation layer, but a missing device is always a NotFoundError.
type GroupMembershipService struct {
	db       *gorm.DB
	resolver *GroupResolver
}

// NewGroupMembershipService creates a membership service on the given database
func NewGroupMembershipService(database *gorm.DB) *GroupMembershipService {
	return &GroupMembershipService{
		db:       database,
		resolver: NewGroupResolver(database),
	}
}

// GroupExists reports whether the group exists in the account. The virtual
// "all" group always exists; blank identifiers never do.
func (s *GroupMembershipService) GroupExists(accountID, groupID string) (bool, error) {
	accountID = normalizeID(accountID)
	groupID = normalizeID(groupID)
	if accountID == "" || groupID == "" {
		return false, nil
	}
	if models.IsGroupAll(groupID) {
		return true, nil
	}
	return s.storedGroupExists(accountID, groupID)
}

// storedGroupExists checks the device_groups table only, so that mutations
// can reject the virtual "all" group as a target.
func (s *GroupMembershipService) storedGroupExists(accountID, groupID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.DeviceGroup{}).
		Where("account_id = ? AND group_id = ?", accountID, groupID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking group existence %s/%s: %w", accountID, groupID, err)
	}
	return count > 0, nil
}

// DeviceExists reports whether the device exists under the account
func (s *GroupMembershipService) DeviceExists(accountID, deviceID string) (bool, error) {
	accountID = normalizeID(accountID)
	deviceID = normalizeID(deviceID)
	if accountID == "" || deviceID == "" {
		return false, nil
	}
	var count int64
	err := s.db.Model(&models.Device{}).
		Where("account_id = ? AND device_id = ?", accountID, deviceID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking device existence %s/%s: %w", accountID, deviceID, err)
	}
	return count > 0, nil
}

// IsDeviceInGroup reports whether the device is a member of the normal
// group. Every device is a member of the virtual "all" group.
func (s *GroupMembershipService) IsDeviceInGroup(accountID, groupID, deviceID string) (bool, error) {
	accountID = normalizeID(accountID)
	groupID = normalizeID(groupID)
	deviceID = normalizeID(deviceID)
	if accountID == "" || groupID == "" || deviceID == "" {
		return false, nil
	}
	if models.IsGroupAll(groupID) {
		return true, nil
	}
	var count int64
	err := s.db.Model(&models.GroupMember{}).
		Where("account_id = ? AND group_id = ? AND device_id = ?", accountID, groupID, deviceID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking group membership %s/%s/%s: %w", accountID, groupID, deviceID, err)
	}
	return count > 0, nil
}

// IsDeviceInUniversalGroup reports whether the device is a member of the
// universal group
func (s *GroupMembershipService) IsDeviceInUniversalGroup(accountID, groupID, deviceAccountID, deviceID string) (bool, error) {
	accountID = normalizeID(accountID)
	groupID = normalizeID(groupID)
	deviceAccountID = normalizeID(deviceAccountID)
	deviceID = normalizeID(deviceID)
	if accountID == "" || groupID == "" || deviceAccountID == "" || deviceID == "" {
		return false, nil
	}
	if models.IsGroupAll(groupID) {
		return true, nil
	}
	var count int64
	err := s.db.Model(&models.UniversalGroupMember{}).
		Where("account_id = ? AND group_id = ? AND device_account_id = ? AND device_id = ?",
			accountID, groupID, deviceAccountID, deviceID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking universal group membership %s/%s/%s/%s: %w",
			accountID, groupID, deviceAccountID, deviceID, err)
	}
	return count > 0, nil
}

// AddDevice adds a device to a normal group. The device and group must both
// exist; the virtual "all" group is never a valid mutation target. Re-adding
// an existing member is a silent no-op.
func (s *GroupMembershipService) AddDevice(accountID, groupID, deviceID string) error {
	accountID = normalizeID(accountID)
	groupID = normalizeID(groupID)
	deviceID = normalizeID(deviceID)

	exists, err := s.DeviceExists(accountID, deviceID)
	if err != nil {
		return err
	}
	if !exists {
		return deviceNotFound(accountID, deviceID)
	}

	if models.IsGroupAll(groupID) {
		return groupNotFound(accountID, groupID)
	}
	exists, err = s.storedGroupExists(accountID, groupID)
	if err != nil {
		return err
	}
	if !exists {
		return groupNotFound(accountID, groupID)
	}

	member, err := s.IsDeviceInGroup(accountID, groupID, deviceID)
	if err != nil {
		return err
	}
	if member {
		// already exists
		return nil
	}

	row := models.GroupMember{AccountID: accountID, GroupID: groupID, DeviceID: deviceID}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("adding group member %s/%s/%s: %w", accountID, groupID, deviceID, err)
	}
	return nil
}

// AddUniversalDevice adds a device owned by deviceAccountID to a universal
// group owned by accountID. A blank deviceAccountID defaults to the group's
// account.
func (s *GroupMembershipService) AddUniversalDevice(accountID, groupID, deviceAccountID, deviceID string) error {
	accountID = normalizeID(accountID)
	groupID = normalizeID(groupID)
	deviceAccountID = normalizeID(deviceAccountID)
	deviceID = normalizeID(deviceID)
	if deviceAccountID == "" {
		deviceAccountID = accountID
	}

	exists, err := s.DeviceExists(deviceAccountID, deviceID)
	if err != nil {
		return err
	}
	if !exists {
		return deviceNotFound(deviceAccountID, deviceID)
	}

	if models.IsGroupAll(groupID) {
		return groupNotFound(accountID, groupID)
	}
	exists, err = s.storedGroupExists(accountID, groupID)
	if err != nil {
		return err
	}
	if !exists {
		return groupNotFound(accountID, groupID)
	}

	member, err := s.IsDeviceInUniversalGroup(accountID, groupID, deviceAccountID, deviceID)
	if err != nil {
		return err
	}
	if member {
		// already exists
		return nil
	}

	row := models.UniversalGroupMember{
		AccountID:       accountID,
		GroupID:         groupID,
		DeviceAccountID: deviceAccountID,
		DeviceID:        deviceID,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("adding universal group member %s/%s/%s/%s: %w",
			accountID, groupID, deviceAccountID, deviceID, err)
	}
	return nil
}

// RemoveDevice removes a device from a normal group. The device must exist;
// group existence is not re-validated so stale memberships can be cleaned up
// after a group has emptied. The removal never cascades.
func (s *GroupMembershipService) RemoveDevice(accountID, groupID, deviceID string) error {
	accountID = normalizeID(accountID)
	groupID = normalizeID(groupID)
	deviceID = normalizeID(deviceID)

	exists, err := s.DeviceExists(accountID, deviceID)
	if err != nil {
		return err
	}
	if !exists {
		return deviceNotFound(accountID, deviceID)
	}

	err = s.db.
		Where("account_id = ? AND group_id = ? AND device_id = ?", accountID, groupID, deviceID).
		Delete(&models.GroupMember{}).Error
	if err != nil {
		return fmt.Errorf("removing group member %s/%s/%s: %w", accountID, groupID, deviceID, err)
	}
	return nil
}

// RemoveUniversalDevice removes a device from a universal group
func (s *GroupMembershipService) RemoveUniversalDevice(accountID, groupID, deviceAccountID, deviceID string) error {
	accountID = normalizeID(accountID)
	groupID = normalizeID(groupID)
	deviceAccountID = normalizeID(deviceAccountID)
	deviceID = normalizeID(deviceID)
	if deviceAccountID == "" {
		deviceAccountID = accountID
	}

	exists, err := s.DeviceExists(deviceAccountID, deviceID)
	if err != nil {
		return err
	}
	if !exists {
		return deviceNotFound(deviceAccountID, deviceID)
	}

	err = s.db.
		Where("account_id = ? AND group_id = ? AND device_account_id = ? AND device_id = ?",
			accountID, groupID, deviceAccountID, deviceID).
		Delete(&models.UniversalGroupMember{}).Error
	if err != nil {
		return fmt.Errorf("removing universal group member %s/%s/%s/%s: %w",
			accountID, groupID, deviceAccountID, deviceID, err)
	}
	return nil
}

// ClearDevices removes every member of the normal group. Members are
// resolved with inactive devices included so nothing is left behind.
func (s *GroupMembershipService) ClearDevices(accountID, groupID string) error {
	devList, err := s.resolver.DeviceIDsForGroup(accountID, groupID, nil, true, -1)
	if err != nil {
		return err
	}
	for _, deviceID := range devList {
		if err := s.RemoveDevice(accountID, groupID, deviceID); err != nil {
			return err
		}
	}
	return nil
}

// ClearUniversalDevices removes every member of the universal group
func (s *GroupMembershipService) ClearUniversalDevices(accountID, groupID string) error {
	devList, err := s.resolver.AllDevicesForGroup(accountID, groupID, nil, true, -1)
	if err != nil {
		return err
	}
	for _, member := range devList {
		if err := s.RemoveUniversalDevice(accountID, groupID, member.AccountID, member.DeviceID); err != nil {
			return err
		}
	}
	return nil
}

// SetMembers replaces the normal group's membership with deviceIDs. The
// current members are removed first, then the new set is added; this is not
// transactional, so a failure midway leaves a mixed state. A nil or empty
// deviceIDs fully clears the group.
func (s *GroupMembershipService) SetMembers(accountID, groupID string, deviceIDs []string) error {
	if err := s.ClearDevices(accountID, groupID); err != nil {
		return err
	}
	for _, deviceID := range deviceIDs {
		if err := s.AddDevice(accountID, groupID, deviceID); err != nil {
			return err
		}
	}
	return nil
}

// SetUniversalMembers replaces the universal group's membership with
// members. Same best-effort semantics as SetMembers.
func (s *GroupMembershipService) SetUniversalMembers(accountID, groupID string, members []GroupDevice) error {
	if err := s.ClearUniversalDevices(accountID, groupID); err != nil {
		return err
	}
	for _, member := range members {
		if err := s.AddUniversalDevice(accountID, groupID, member.AccountID, member.DeviceID); err != nil {
			return err
		}
	}
	return nil
}
