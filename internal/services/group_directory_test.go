package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupsForAccountOrderedWithAll(t *testing.T) {
	database := newTestDB(t)
	seedAccount(t, database, "acme", 0)
	seedGroup(t, database, "acme", "west")
	seedGroup(t, database, "acme", "east")

	directory := NewGroupDirectory(database)

	groups, err := directory.GroupsForAccount("acme", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"all", "east", "west"}, groups)

	groups, err = directory.GroupsForAccount("acme", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"east", "west"}, groups)
}

func TestGroupsForDevice(t *testing.T) {
	database := newTestDB(t)
	seedAccount(t, database, "acme", 0)
	seedDevice(t, database, "acme", "d1", true)
	seedGroup(t, database, "acme", "west")
	seedGroup(t, database, "acme", "east")
	seedMember(t, database, "acme", "west", "d1")
	seedMember(t, database, "acme", "east", "d1")

	directory := NewGroupDirectory(database)

	groups, err := directory.GroupsForDevice("acme", "d1", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"all", "east", "west"}, groups)
}

func TestGroupsForDeviceMissingDevice(t *testing.T) {
	database := newTestDB(t)
	seedAccount(t, database, "acme", 0)

	directory := NewGroupDirectory(database)

	groups, err := directory.GroupsForDevice("acme", "nope", true)
	require.NoError(t, err)
	assert.Nil(t, groups)
}

func TestGroupsForDeviceStorageFailurePropagates(t *testing.T) {
	database := newTestDB(t)
	directory := NewGroupDirectory(database)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// a dead connection must fail loudly, never read as "device missing"
	_, err = directory.GroupsForDevice("acme", "d1", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checking device existence")
}

func TestGetGroupAbsentIsNil(t *testing.T) {
	database := newTestDB(t)
	directory := NewGroupDirectory(database)

	group, err := directory.GetGroup("acme", "nope")
	require.NoError(t, err)
	assert.Nil(t, group)
}

func TestCreateGroupRejectsReservedIDs(t *testing.T) {
	database := newTestDB(t)
	directory := NewGroupDirectory(database)

	for _, groupID := range []string{"all", "ALL", "none"} {
		_, err := directory.CreateGroup("acme", groupID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reserved")
	}
}

func TestCreateGroupRejectsBlankIDs(t *testing.T) {
	database := newTestDB(t)
	directory := NewGroupDirectory(database)

	_, err := directory.CreateGroup("", "fleet1")
	require.Error(t, err)
	_, err = directory.CreateGroup("acme", "  ")
	require.Error(t, err)
}

func TestGetOrCreateGroup(t *testing.T) {
	database := newTestDB(t)
	seedAccount(t, database, "acme", 0)

	directory := NewGroupDirectory(database)

	created, err := directory.GetOrCreateGroup("acme", "fleet1")
	require.NoError(t, err)
	require.NotNil(t, created)

	fetched, err := directory.GetOrCreateGroup("acme", "fleet1")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, created.ID, fetched.ID)
}
