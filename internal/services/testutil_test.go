package services

import (
	"fmt"
	"testing"

	"fleettrack_server/internal/db"
	"fleettrack_server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a uniquely named in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	return database
}

func seedAccount(t *testing.T, database *gorm.DB, accountID string, retainedDays uint) *models.Account {
	t.Helper()
	account := &models.Account{AccountID: accountID, RetainedEventDays: retainedDays, IsActive: true}
	require.NoError(t, database.Create(account).Error)
	return account
}

func seedDevice(t *testing.T, database *gorm.DB, accountID, deviceID string, active bool) {
	t.Helper()
	device := &models.Device{AccountID: accountID, DeviceID: deviceID, IsActive: active}
	require.NoError(t, database.Create(device).Error)
	// GORM skips zero-valued fields carrying a `default` tag on Create, so
	// IsActive=false would be persisted as the default true without this
	require.NoError(t, database.Model(device).Update("is_active", active).Error)
}

func seedGroup(t *testing.T, database *gorm.DB, accountID, groupID string) {
	t.Helper()
	group := &models.DeviceGroup{AccountID: accountID, GroupID: groupID}
	require.NoError(t, database.Create(group).Error)
}

func seedMember(t *testing.T, database *gorm.DB, accountID, groupID, deviceID string) {
	t.Helper()
	row := &models.GroupMember{AccountID: accountID, GroupID: groupID, DeviceID: deviceID}
	require.NoError(t, database.Create(row).Error)
}

func seedUniversalMember(t *testing.T, database *gorm.DB, accountID, groupID, deviceAccountID, deviceID string) {
	t.Helper()
	row := &models.UniversalGroupMember{
		AccountID:       accountID,
		GroupID:         groupID,
		DeviceAccountID: deviceAccountID,
		DeviceID:        deviceID,
	}
	require.NoError(t, database.Create(row).Error)
}

func seedEvent(t *testing.T, database *gorm.DB, accountID, deviceID string, timestamp int64) {
	t.Helper()
	event := &models.Event{AccountID: accountID, DeviceID: deviceID, Timestamp: timestamp}
	require.NoError(t, database.Create(event).Error)
}

// allowListAuth authorizes exactly the "account/device" keys it contains
type allowListAuth map[string]bool

func (a allowListAuth) IsAuthorizedDevice(accountID, deviceID string) bool {
	return a[accountID+"/"+deviceID]
}
