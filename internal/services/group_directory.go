package services

import (
	"errors"
	"fmt"

	"fleettrack_server/internal/models"

	"gorm.io/gorm"
)

// GroupDirectory lists and fetches device groups. Listings are ordered by
// group-id and can prepend the virtual "all" token.
type GroupDirectory struct {
	db *gorm.DB
}

// NewGroupDirectory creates a directory on the given database
func NewGroupDirectory(database *gorm.DB) *GroupDirectory {
	return &GroupDirectory{db: database}
}

// GroupsForAccount lists the group ids owned by the account, ordered by
// group-id. When includeAll is true the virtual "all" token is prepended.
func (d *GroupDirectory) GroupsForAccount(accountID string, includeAll bool) ([]string, error) {
	accountID = normalizeID(accountID)

	groupList := []string{}
	if includeAll {
		groupList = append(groupList, models.DeviceGroupAll)
	}
	if accountID == "" {
		return groupList, nil
	}

	var groups []models.DeviceGroup
	err := d.db.
		Where("account_id = ?", accountID).
		Order("group_id").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("reading device groups for account %s: %w", accountID, err)
	}

	for _, group := range groups {
		groupList = append(groupList, group.GroupID)
	}
	return groupList, nil
}

// GroupsForDevice lists the normal groups the device is a member of, ordered
// by group-id, optionally prepending the virtual "all" token. A missing
// device yields a nil list rather than an error. Universal membership is not
// included in this reverse lookup.
func (d *GroupDirectory) GroupsForDevice(accountID, deviceID string, includeAll bool) ([]string, error) {
	accountID = normalizeID(accountID)
	deviceID = normalizeID(deviceID)
	if accountID == "" || deviceID == "" {
		return nil, nil
	}

	var count int64
	err := d.db.Model(&models.Device{}).
		Where("account_id = ? AND device_id = ?", accountID, deviceID).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("checking device existence %s/%s: %w", accountID, deviceID, err)
	}
	if count == 0 {
		return nil, nil
	}

	groupList := []string{}
	if includeAll {
		groupList = append(groupList, models.DeviceGroupAll)
	}

	var rows []models.GroupMember
	err = d.db.
		Where("account_id = ? AND device_id = ?", accountID, deviceID).
		Order("group_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("reading groups for device %s/%s: %w", accountID, deviceID, err)
	}

	for _, row := range rows {
		groupList = append(groupList, row.GroupID)
	}
	return groupList, nil
}

// GetGroup fetches a group record, or nil when it does not exist
func (d *GroupDirectory) GetGroup(accountID, groupID string) (*models.DeviceGroup, error) {
	accountID = normalizeID(accountID)
	groupID = normalizeID(groupID)
	if accountID == "" || groupID == "" {
		return nil, nil
	}

	var group models.DeviceGroup
	err := d.db.Where("account_id = ? AND group_id = ?", accountID, groupID).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading device group %s/%s: %w", accountID, groupID, err)
	}
	return &group, nil
}

// CreateGroup creates a new group with creation defaults applied. The
// reserved virtual ids can never be persisted.
func (d *GroupDirectory) CreateGroup(accountID, groupID string) (*models.DeviceGroup, error) {
	accountID = normalizeID(accountID)
	groupID = normalizeID(groupID)
	if accountID == "" || groupID == "" {
		return nil, fmt.Errorf("invalid account/group specified: %q/%q", accountID, groupID)
	}
	if models.IsGroupAll(groupID) || groupID == models.DeviceGroupNone {
		return nil, fmt.Errorf("group id %q is reserved", groupID)
	}

	group := &models.DeviceGroup{AccountID: accountID, GroupID: groupID}
	group.SetCreationDefaults()
	if err := d.db.Create(group).Error; err != nil {
		return nil, fmt.Errorf("creating device group %s/%s: %w", accountID, groupID, err)
	}
	return group, nil
}

// GetOrCreateGroup fetches a group, creating it with defaults when absent
func (d *GroupDirectory) GetOrCreateGroup(accountID, groupID string) (*models.DeviceGroup, error) {
	group, err := d.GetGroup(accountID, groupID)
	if err != nil {
		return nil, err
	}
	if group != nil {
		return group, nil
	}
	return d.CreateGroup(accountID, groupID)
}
