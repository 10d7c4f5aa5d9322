package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceIDsForGroupOrdersByDeviceID(t *testing.T) {
	database := newTestDB(t)
	seedAccount(t, database, "acme", 0)
	seedGroup(t, database, "acme", "fleet1")
	for _, devID := range []string{"d3", "d1", "d2"} {
		seedDevice(t, database, "acme", devID, true)
	}
	seedMember(t, database, "acme", "fleet1", "d3")
	seedMember(t, database, "acme", "fleet1", "d1")
	seedMember(t, database, "acme", "fleet1", "d2")

	resolver := NewGroupResolver(database)
	devList, err := resolver.DeviceIDsForGroup("acme", "fleet1", nil, false, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2", "d3"}, devList)
}

func TestVirtualAllGroupResolvesEveryAccountDevice(t *testing.T) {
	database := newTestDB(t)
	seedAccount(t, database, "acme", 0)
	seedDevice(t, database, "acme", "d2", true)
	seedDevice(t, database, "acme", "d1", true)
	// no membership rows anywhere

	resolver := NewGroupResolver(database)
	devList, err := resolver.DeviceIDsForGroup("acme", "all", nil, false, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2"}, devList)

	// the virtual group id is case-insensitive
	upper, err := resolver.DeviceIDsForGroup("acme", "ALL", nil, false, -1)
	require.NoError(t, err)
	assert.Equal(t, devList, upper)

	// and matches a direct account-wide listing
	direct, err := resolver.DeviceIDsForAccount("acme", nil, false)
	require.NoError(t, err)
	assert.Equal(t, devList, direct)
}

func TestBlankIdentifiersResolveEmpty(t *testing.T) {
	database := newTestDB(t)
	resolver := NewGroupResolver(database)

	devList, err := resolver.DeviceIDsForGroup("", "fleet1", nil, true, -1)
	require.NoError(t, err)
	assert.Empty(t, devList)

	devList, err = resolver.DeviceIDsForGroup("acme", "  ", nil, true, -1)
	require.NoError(t, err)
	assert.Empty(t, devList)
}

func TestMissingAccountResolvesEmpty(t *testing.T) {
	database := newTestDB(t)
	seedDevice(t, database, "ghost", "d1", true)
	seedMember(t, database, "ghost", "fleet1", "d1")

	resolver := NewGroupResolver(database)
	devList, err := resolver.DeviceIDsForGroup("ghost", "fleet1", nil, false, -1)
	require.NoError(t, err)
	assert.Empty(t, devList)
}

func TestInactiveTrim(t *testing.T) {
	database := newTestDB(t)
	seedAccount(t, database, "acme", 0)
	seedGroup(t, database, "acme", "fleet1")
	seedDevice(t, database, "acme", "d1", true)
	seedDevice(t, database, "acme", "d2", false)
	seedMember(t, database, "acme", "fleet1", "d1")
	seedMember(t, database, "acme", "fleet1", "d2")
	// stale membership for a device record that no longer exists
	seedMember(t, database, "acme", "fleet1", "d9")

	resolver := NewGroupResolver(database)

	devList, err := resolver.DeviceIDsForGroup("acme", "fleet1", nil, false, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, devList)

	// includeInactive keeps inactive members but still requires the record
	devList, err = resolver.DeviceIDsForGroup("acme", "fleet1", nil, true, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2", "d9"}, devList)
}

func TestAuthorizationTrim(t *testing.T) {
	database := newTestDB(t)
	seedAccount(t, database, "acme", 0)
	seedGroup(t, database, "acme", "fleet1")
	seedDevice(t, database, "acme", "d1", true)
	seedDevice(t, database, "acme", "d2", true)
	seedMember(t, database, "acme", "fleet1", "d1")
	seedMember(t, database, "acme", "fleet1", "d2")

	resolver := NewGroupResolver(database)
	auth := allowListAuth{"acme/d2": true}

	devList, err := resolver.DeviceIDsForGroup("acme", "fleet1", auth, false, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"d2"}, devList)

	// the trim applies to the virtual "all" group too
	devList, err = resolver.DeviceIDsForGroup("acme", "all", auth, false, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"d2"}, devList)
}

func TestLimitCapsMembershipScan(t *testing.T) {
	database := newTestDB(t)
	seedAccount(t, database, "acme", 0)
	seedGroup(t, database, "acme", "fleet1")
	for _, devID := range []string{"d1", "d2", "d3"} {
		seedDevice(t, database, "acme", devID, true)
		seedMember(t, database, "acme", "fleet1", devID)
	}

	resolver := NewGroupResolver(database)
	devList, err := resolver.DeviceIDsForGroup("acme", "fleet1", nil, false, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2"}, devList)
}

func TestAllDevicesForGroupUniversal(t *testing.T) {
	database := newTestDB(t)
	seedAccount(t, database, "beta", 0)
	seedAccount(t, database, "acme", 0)
	seedGroup(t, database, "beta", "shared")
	seedDevice(t, database, "beta", "d9", true)
	seedDevice(t, database, "acme", "d1", true)
	seedUniversalMember(t, database, "beta", "shared", "beta", "d9")
	seedUniversalMember(t, database, "beta", "shared", "acme", "d1")

	resolver := NewGroupResolver(database)
	devList, err := resolver.AllDevicesForGroup("beta", "shared", nil, false, -1)
	require.NoError(t, err)
	assert.Equal(t, []GroupDevice{
		{AccountID: "acme", DeviceID: "d1"},
		{AccountID: "beta", DeviceID: "d9"},
	}, devList)
}

func TestAllDevicesForGroupMissingAccount(t *testing.T) {
	database := newTestDB(t)
	seedDevice(t, database, "ghost", "d1", true)
	seedUniversalMember(t, database, "ghost", "shared", "ghost", "d1")

	resolver := NewGroupResolver(database)

	// with the inactive trim active, a missing account reads as empty
	devList, err := resolver.AllDevicesForGroup("ghost", "shared", nil, false, -1)
	require.NoError(t, err)
	assert.Empty(t, devList)

	// without the trim the account record is never consulted, matching the
	// normal-group path
	devList, err = resolver.AllDevicesForGroup("ghost", "shared", nil, true, -1)
	require.NoError(t, err)
	assert.Equal(t, []GroupDevice{{AccountID: "ghost", DeviceID: "d1"}}, devList)
}

func TestAllDevicesForGroupVirtualAll(t *testing.T) {
	database := newTestDB(t)
	seedAccount(t, database, "acme", 0)
	seedDevice(t, database, "acme", "d1", true)
	seedDevice(t, database, "acme", "d2", true)

	resolver := NewGroupResolver(database)
	devList, err := resolver.AllDevicesForGroup("acme", "all", nil, false, -1)
	require.NoError(t, err)
	assert.Equal(t, []GroupDevice{
		{AccountID: "acme", DeviceID: "d1"},
		{AccountID: "acme", DeviceID: "d2"},
	}, devList)
}

func TestAllDevicesForGroupInactiveTrim(t *testing.T) {
	database := newTestDB(t)
	seedAccount(t, database, "beta", 0)
	seedAccount(t, database, "acme", 0)
	seedGroup(t, database, "beta", "shared")
	seedDevice(t, database, "acme", "d1", false)
	seedDevice(t, database, "beta", "d9", true)
	seedUniversalMember(t, database, "beta", "shared", "acme", "d1")
	seedUniversalMember(t, database, "beta", "shared", "beta", "d9")

	resolver := NewGroupResolver(database)
	devList, err := resolver.AllDevicesForGroup("beta", "shared", nil, false, -1)
	require.NoError(t, err)
	assert.Equal(t, []GroupDevice{{AccountID: "beta", DeviceID: "d9"}}, devList)
}
