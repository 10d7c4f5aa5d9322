package controllers

import (
	"net/http"

	"fleettrack_server/internal/db"
	"fleettrack_server/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DeviceController handles device-related HTTP requests
type DeviceController struct{}

// NewDeviceController creates a new device controller
func NewDeviceController() *DeviceController {
	return &DeviceController{}
}

// GetDevices returns all devices of the account
func (dc *DeviceController) GetDevices(c *gin.Context) {
	accountID := c.Param("account_id")

	var devices []models.Device
	err := db.GetDB().
		Where("account_id = ?", accountID).
		Order("device_id").
		Find(&devices).Error
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
			"Unable to retrieve devices from database",
			map[string]string{"database_error": err.Error()})
		return
	}

	successResponse(c, http.StatusOK, "Devices retrieved successfully", devices, len(devices))
}

// GetDevice returns a single device by account and device id
func (dc *DeviceController) GetDevice(c *gin.Context) {
	accountID := c.Param("account_id")
	deviceID := c.Param("device_id")

	var device models.Device
	err := db.GetDB().
		Where("account_id = ? AND device_id = ?", accountID, deviceID).
		First(&device).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			errorResponse(c, http.StatusNotFound, "DEVICE_NOT_FOUND",
				"Device does not exist",
				map[string]string{"account_id": accountID, "device_id": deviceID})
		} else {
			errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
				"Unable to retrieve device from database",
				map[string]string{"database_error": err.Error()})
		}
		return
	}

	successResponse(c, http.StatusOK, "Device retrieved successfully", device, 0)
}

// CreateDeviceRequest is the device creation payload
type CreateDeviceRequest struct {
	DeviceID    string             `json:"device_id" binding:"required"`
	DisplayName string             `json:"display_name"`
	SimNo       string             `json:"sim_no"`
	SimOperator models.SimOperator `json:"sim_operator"`
	IsActive    *bool              `json:"is_active"`
}

// CreateDevice registers a new device under the account
func (dc *DeviceController) CreateDevice(c *gin.Context) {
	accountID := c.Param("account_id")

	var req CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST",
			"device_id is required", nil)
		return
	}

	device := models.Device{
		AccountID:   accountID,
		DeviceID:    req.DeviceID,
		DisplayName: req.DisplayName,
		SimNo:       req.SimNo,
		SimOperator: req.SimOperator,
		Protocol:    models.ProtocolGT06,
		IsActive:    true,
	}
	if req.IsActive != nil {
		device.IsActive = *req.IsActive
	}

	if err := db.GetDB().Create(&device).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
			"Unable to create device",
			map[string]string{"database_error": err.Error()})
		return
	}

	successResponse(c, http.StatusCreated, "Device created successfully", device, 0)
}

// GetDeviceGroups returns the groups the device belongs to (normal
// membership only, optionally with the virtual "all" token)
func (dc *DeviceController) GetDeviceGroups(c *gin.Context) {
	accountID := c.Param("account_id")
	deviceID := c.Param("device_id")
	includeAll := c.DefaultQuery("include_all", "true") == "true"

	directory := newGroupDirectory()
	groups, err := directory.GroupsForDevice(accountID, deviceID, includeAll)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
			"Unable to retrieve groups for device",
			map[string]string{"database_error": err.Error()})
		return
	}
	if groups == nil {
		errorResponse(c, http.StatusNotFound, "DEVICE_NOT_FOUND",
			"Device does not exist",
			map[string]string{"account_id": accountID, "device_id": deviceID})
		return
	}

	successResponse(c, http.StatusOK, "Groups retrieved successfully", groups, len(groups))
}
