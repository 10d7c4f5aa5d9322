package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleettrack_server/internal/db"
	"fleettrack_server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testAdminToken = "test-admin-token"

// setupTestRouter wires the full route table against a fresh in-memory
// database seeded with an admin user and the acme fixture
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	db.SetDB(database)

	exp := time.Now().Add(time.Hour)
	admin := &models.User{
		AccountID: "acme",
		Name:      "Admin",
		Email:     uuid.New().String() + "@example.com",
		Password:  "password",
		Role:      models.UserRoleAdmin,
		Token:     testAdminToken,
		TokenExp:  &exp,
	}
	require.NoError(t, database.Create(admin).Error)
	// GORM skips zero-valued fields carrying a `default` tag on Create, so
	// Role=UserRoleAdmin (0) would be persisted as the default 1 (Client)
	require.NoError(t, database.Model(admin).Update("role", models.UserRoleAdmin).Error)

	require.NoError(t, database.Create(&models.Account{AccountID: "acme", IsActive: true}).Error)
	for _, devID := range []string{"d1", "d2"} {
		require.NoError(t, database.Create(&models.Device{AccountID: "acme", DeviceID: devID, IsActive: true}).Error)
	}
	require.NoError(t, database.Create(&models.DeviceGroup{AccountID: "acme", GroupID: "fleet1"}).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	InitializeWebSocket()
	SetupRoutes(router)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testAdminToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAccountRoutesRequireAuth(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/accounts/acme/groups", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, nethttp.StatusUnauthorized, w.Code)
}

func TestAddAndResolveGroupMembers(t *testing.T) {
	router := setupTestRouter(t)

	for _, devID := range []string{"d2", "d1"} {
		w := doRequest(t, router, "POST", "/api/v1/accounts/acme/groups/fleet1/devices",
			gin.H{"device_id": devID})
		require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())
	}

	w := doRequest(t, router, "GET", "/api/v1/accounts/acme/groups/fleet1/devices", nil)
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data  []string `json:"data"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"d1", "d2"}, resp.Data)
	assert.Equal(t, 2, resp.Count)
}

func TestAddToVirtualAllGroupFails(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(t, router, "POST", "/api/v1/accounts/acme/groups/all/devices",
		gin.H{"device_id": "d1"})
	assert.Equal(t, nethttp.StatusNotFound, w.Code, w.Body.String())
}

func TestGroupListingIncludesVirtualAll(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(t, router, "GET", "/api/v1/accounts/acme/groups", nil)
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"all", "fleet1"}, resp.Data)
}

func TestDeleteOldEventsRequiresConfirm(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(t, router, "POST", "/api/v1/accounts/acme/events/delete-old",
		gin.H{"group_id": "all", "cutoff": 1000})
	assert.Equal(t, nethttp.StatusBadRequest, w.Code, w.Body.String())
}

func TestDeleteOldEventsZeroCutoffUsesRetentionPolicy(t *testing.T) {
	router := setupTestRouter(t)
	database := db.GetDB()

	require.NoError(t, database.Model(&models.Account{}).
		Where("account_id = ?", "acme").
		Update("retained_event_days", 30).Error)

	now := time.Now().Unix()
	require.NoError(t, database.Create(&models.Event{AccountID: "acme", DeviceID: "d1", Timestamp: now - 400*86400}).Error)
	require.NoError(t, database.Create(&models.Event{AccountID: "acme", DeviceID: "d1", Timestamp: now - 10*86400}).Error)

	// omitting the cutoff sweeps up to the edge of the retained window
	w := doRequest(t, router, "POST", "/api/v1/accounts/acme/events/delete-old",
		gin.H{"group_id": "all", "confirm": true})
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Total  int64 `json:"total"`
			Cutoff int64 `json:"cutoff"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.Total)
	assert.Greater(t, resp.Data.Cutoff, int64(0))

	var count int64
	require.NoError(t, database.Model(&models.Event{}).
		Where("account_id = ? AND device_id = ?", "acme", "d1").
		Count(&count).Error)
	assert.Equal(t, int64(1), count, "the event inside the retained window must survive")
}

func TestCountOldEventsEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	database := db.GetDB()

	require.NoError(t, database.Create(&models.Event{AccountID: "acme", DeviceID: "d1", Timestamp: 100}).Error)
	require.NoError(t, database.Create(&models.Event{AccountID: "acme", DeviceID: "d1", Timestamp: 2000}).Error)

	w := doRequest(t, router, "POST", "/api/v1/accounts/acme/events/count-old",
		gin.H{"group_id": "all", "cutoff": 1000})
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Total        int64  `json:"total"`
			Mode         string `json:"mode"`
			CountUnknown bool   `json:"count_unknown"`
			RunID        string `json:"run_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.Total)
	assert.Equal(t, "count", resp.Data.Mode)
	assert.False(t, resp.Data.CountUnknown)
	assert.NotEmpty(t, resp.Data.RunID)
}
