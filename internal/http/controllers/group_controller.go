package controllers

import (
	"net/http"
	"strconv"

	"fleettrack_server/internal/db"
	"fleettrack_server/internal/http/middleware"
	"fleettrack_server/internal/models"
	"fleettrack_server/internal/services"

	"github.com/gin-gonic/gin"
)

// GroupController handles device group directory and membership requests
type GroupController struct{}

// NewGroupController creates a new group controller
func NewGroupController() *GroupController {
	return &GroupController{}
}

func newGroupDirectory() *services.GroupDirectory {
	return services.NewGroupDirectory(db.GetDB())
}

func newMembershipService() *services.GroupMembershipService {
	return services.NewGroupMembershipService(db.GetDB())
}

func newGroupResolver() *services.GroupResolver {
	return services.NewGroupResolver(db.GetDB())
}

// callerAuthorizer returns the authorization trim for the requesting user.
// Admins resolve without a trim.
func callerAuthorizer(c *gin.Context) services.DeviceAuthorizer {
	user := middleware.GetUser(c)
	if user == nil || user.Role == models.UserRoleAdmin {
		return nil
	}
	return services.NewUserAuthorizer(db.GetDB(), user)
}

// GetGroups lists the groups owned by the account
func (gc *GroupController) GetGroups(c *gin.Context) {
	accountID := c.Param("account_id")
	includeAll := c.DefaultQuery("include_all", "true") == "true"

	groups, err := newGroupDirectory().GroupsForAccount(accountID, includeAll)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
			"Unable to retrieve device groups",
			map[string]string{"database_error": err.Error()})
		return
	}
	successResponse(c, http.StatusOK, "Groups retrieved successfully", groups, len(groups))
}

// GetGroup returns a single group record
func (gc *GroupController) GetGroup(c *gin.Context) {
	accountID := c.Param("account_id")
	groupID := c.Param("group_id")

	group, err := newGroupDirectory().GetGroup(accountID, groupID)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
			"Unable to retrieve device group",
			map[string]string{"database_error": err.Error()})
		return
	}
	if group == nil {
		errorResponse(c, http.StatusNotFound, "GROUP_NOT_FOUND",
			"Device group does not exist",
			map[string]string{"account_id": accountID, "group_id": groupID})
		return
	}
	successResponse(c, http.StatusOK, "Group retrieved successfully", group, 0)
}

// CreateGroupRequest is the group creation payload
type CreateGroupRequest struct {
	GroupID     string `json:"group_id" binding:"required"`
	DisplayName string `json:"display_name"`
	Notes       string `json:"notes"`
	AllowNotify bool   `json:"allow_notify"`
	NotifyEmail string `json:"notify_email"`
	WorkOrderID string `json:"work_order_id"`
}

// CreateGroup creates a new device group under the account
func (gc *GroupController) CreateGroup(c *gin.Context) {
	accountID := c.Param("account_id")

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST",
			"group_id is required", nil)
		return
	}

	group, err := newGroupDirectory().CreateGroup(accountID, req.GroupID)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "GROUP_CREATE_FAILED",
			err.Error(), nil)
		return
	}

	group.DisplayName = req.DisplayName
	group.Notes = req.Notes
	group.AllowNotify = req.AllowNotify
	group.NotifyEmail = req.NotifyEmail
	group.WorkOrderID = req.WorkOrderID
	if err := db.GetDB().Save(group).Error; err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
			"Unable to save device group",
			map[string]string{"database_error": err.Error()})
		return
	}

	successResponse(c, http.StatusCreated, "Group created successfully", group, 0)
}

// GetGroupDevices resolves the members of a normal group
func (gc *GroupController) GetGroupDevices(c *gin.Context) {
	accountID := c.Param("account_id")
	groupID := c.Param("group_id")
	includeInactive := c.DefaultQuery("include_inactive", "false") == "true"
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "-1"))
	if err != nil {
		limit = -1
	}

	devices, err := newGroupResolver().DeviceIDsForGroup(
		accountID, groupID, callerAuthorizer(c), includeInactive, limit)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
			"Unable to resolve group members",
			map[string]string{"database_error": err.Error()})
		return
	}
	successResponse(c, http.StatusOK, "Group members retrieved successfully", devices, len(devices))
}

// GetGroupAllDevices resolves the members of a universal group as
// (device-account, device) pairs
func (gc *GroupController) GetGroupAllDevices(c *gin.Context) {
	accountID := c.Param("account_id")
	groupID := c.Param("group_id")
	includeInactive := c.DefaultQuery("include_inactive", "false") == "true"
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "-1"))
	if err != nil {
		limit = -1
	}

	devices, err := newGroupResolver().AllDevicesForGroup(
		accountID, groupID, callerAuthorizer(c), includeInactive, limit)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
			"Unable to resolve universal group members",
			map[string]string{"database_error": err.Error()})
		return
	}
	successResponse(c, http.StatusOK, "Group members retrieved successfully", devices, len(devices))
}

// AddMemberRequest is the membership add payload. A device_account_id makes
// the add universal.
type AddMemberRequest struct {
	DeviceID        string `json:"device_id" binding:"required"`
	DeviceAccountID string `json:"device_account_id"`
}

// AddGroupDevice adds a device to the group
func (gc *GroupController) AddGroupDevice(c *gin.Context) {
	accountID := c.Param("account_id")
	groupID := c.Param("group_id")

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST",
			"device_id is required", nil)
		return
	}

	membership := newMembershipService()
	var err error
	if req.DeviceAccountID != "" && req.DeviceAccountID != accountID {
		err = membership.AddUniversalDevice(accountID, groupID, req.DeviceAccountID, req.DeviceID)
	} else {
		err = membership.AddDevice(accountID, groupID, req.DeviceID)
	}
	if err != nil {
		if services.IsNotFound(err) {
			errorResponse(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		} else {
			errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
				"Unable to add group member",
				map[string]string{"database_error": err.Error()})
		}
		return
	}
	successResponse(c, http.StatusOK, "Device added to group", nil, 0)
}

// RemoveGroupDevice removes a device from the group. An optional
// device_account_id query targets the universal relation.
func (gc *GroupController) RemoveGroupDevice(c *gin.Context) {
	accountID := c.Param("account_id")
	groupID := c.Param("group_id")
	deviceID := c.Param("device_id")
	deviceAccountID := c.Query("device_account_id")

	membership := newMembershipService()
	var err error
	if deviceAccountID != "" && deviceAccountID != accountID {
		err = membership.RemoveUniversalDevice(accountID, groupID, deviceAccountID, deviceID)
	} else {
		err = membership.RemoveDevice(accountID, groupID, deviceID)
	}
	if err != nil {
		if services.IsNotFound(err) {
			errorResponse(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		} else {
			errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
				"Unable to remove group member",
				map[string]string{"database_error": err.Error()})
		}
		return
	}
	successResponse(c, http.StatusOK, "Device removed from group", nil, 0)
}

// SetMembersRequest is the replace-membership payload. An empty or omitted
// device list fully clears the group.
type SetMembersRequest struct {
	DeviceIDs []string               `json:"device_ids"`
	Members   []services.GroupDevice `json:"members"` // universal form
	Universal bool                   `json:"universal"`
}

// SetGroupDevices replaces the group's membership wholesale. This is not
// transactional; a failure midway leaves a mixed state.
func (gc *GroupController) SetGroupDevices(c *gin.Context) {
	accountID := c.Param("account_id")
	groupID := c.Param("group_id")

	var req SetMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Malformed membership payload", nil)
		return
	}

	membership := newMembershipService()
	var err error
	if req.Universal {
		err = membership.SetUniversalMembers(accountID, groupID, req.Members)
	} else {
		err = membership.SetMembers(accountID, groupID, req.DeviceIDs)
	}
	if err != nil {
		if services.IsNotFound(err) {
			errorResponse(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		} else {
			errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
				"Unable to replace group membership",
				map[string]string{"database_error": err.Error()})
		}
		return
	}
	successResponse(c, http.StatusOK, "Group membership replaced", nil, 0)
}
