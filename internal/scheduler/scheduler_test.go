package scheduler

import (
	"fmt"
	"testing"
	"time"

	"fleettrack_server/config"
	"fleettrack_server/internal/db"
	"fleettrack_server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func TestStartDisabledDoesNothing(t *testing.T) {
	database := newTestDB(t)
	sched := NewScheduler(database, &config.RetentionConfig{Enabled: false})

	require.NoError(t, sched.Start())
	assert.False(t, sched.IsRunning())
	assert.Nil(t, sched.NextRun())
}

func TestStartRejectsBadCronSpec(t *testing.T) {
	database := newTestDB(t)
	sched := NewScheduler(database, &config.RetentionConfig{
		Enabled:  true,
		CronSpec: "not a cron spec",
	})

	require.Error(t, sched.Start())
	assert.False(t, sched.IsRunning())
}

func TestStartAndStop(t *testing.T) {
	database := newTestDB(t)
	sched := NewScheduler(database, &config.RetentionConfig{
		Enabled:  true,
		CronSpec: "0 3 * * *",
	})

	require.NoError(t, sched.Start())
	assert.True(t, sched.IsRunning())
	require.NotNil(t, sched.NextRun())

	sched.Stop()
	assert.False(t, sched.IsRunning())
}

func TestSweepAllAccountsAppliesRetentionPolicy(t *testing.T) {
	database := newTestDB(t)
	now := time.Now().Unix()

	account := &models.Account{AccountID: "acme", RetainedEventDays: 30, IsActive: true}
	require.NoError(t, database.Create(account).Error)
	device := &models.Device{AccountID: "acme", DeviceID: "d1", IsActive: true}
	require.NoError(t, database.Create(device).Error)
	for _, ts := range []int64{now - 40*86400, now - 35*86400, now - 10*86400} {
		event := &models.Event{AccountID: "acme", DeviceID: "d1", Timestamp: ts}
		require.NoError(t, database.Create(event).Error)
	}

	// an account without any policy falls back to the configured default;
	// with no default either its events are left alone
	other := &models.Account{AccountID: "beta", RetainedEventDays: 0, IsActive: true}
	require.NoError(t, database.Create(other).Error)
	otherDevice := &models.Device{AccountID: "beta", DeviceID: "d9", IsActive: true}
	require.NoError(t, database.Create(otherDevice).Error)
	oldEvent := &models.Event{AccountID: "beta", DeviceID: "d9", Timestamp: now - 400*86400}
	require.NoError(t, database.Create(oldEvent).Error)

	sched := NewScheduler(database, &config.RetentionConfig{DefaultRetainedDays: 0})
	sched.SweepAllAccounts()

	var count int64
	require.NoError(t, database.Model(&models.Event{}).
		Where("account_id = ?", "acme").Count(&count).Error)
	assert.Equal(t, int64(1), count, "events older than the 30 day policy should be gone")

	require.NoError(t, database.Model(&models.Event{}).
		Where("account_id = ?", "beta").Count(&count).Error)
	assert.Equal(t, int64(1), count, "accounts without a policy are not swept")
}
