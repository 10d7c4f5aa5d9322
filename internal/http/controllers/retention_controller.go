package controllers

import (
	"net/http"
	"strconv"
	"time"

	"fleettrack_server/internal/db"
	"fleettrack_server/internal/models"
	"fleettrack_server/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SweepBroadcast, when set, is called with the result of every sweep. The
// server wires it to the websocket hub at startup.
var SweepBroadcast func(result SweepResult, sweepErr error)

// RetentionController exposes the old-event sweep operations
type RetentionController struct{}

// NewRetentionController creates a new retention controller
func NewRetentionController() *RetentionController {
	return &RetentionController{}
}

// SweepRequest is the sweep payload. Cutoff is epoch seconds; zero in delete
// mode means "now", which the account retention policy then clamps back to
// the edge of its retained window.
type SweepRequest struct {
	GroupID string `json:"group_id" binding:"required"`
	Cutoff  int64  `json:"cutoff"`
	Confirm bool   `json:"confirm"`
	Verbose bool   `json:"verbose"`
}

// SweepResult is returned to the caller and broadcast over the websocket feed
type SweepResult struct {
	RunID        string `json:"run_id"`
	Mode         string `json:"mode"`
	AccountID    string `json:"account_id"`
	GroupID      string `json:"group_id"`
	Cutoff       int64  `json:"cutoff"`
	Total        int64  `json:"total"`
	CountUnknown bool   `json:"count_unknown"`
	DurationMS   int64  `json:"duration_ms"`
}

// CountOldEvents counts events older than the cutoff across the group
func (rc *RetentionController) CountOldEvents(c *gin.Context) {
	rc.sweep(c, false)
}

// DeleteOldEvents deletes events older than the cutoff across the group.
// Requires confirm=true; deletion is irreversible.
func (rc *RetentionController) DeleteOldEvents(c *gin.Context) {
	rc.sweep(c, true)
}

func (rc *RetentionController) sweep(c *gin.Context, del bool) {
	accountID := c.Param("account_id")

	var req SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "INVALID_REQUEST",
			"group_id is required", nil)
		return
	}
	if del && !req.Confirm {
		errorResponse(c, http.StatusBadRequest, "CONFIRM_REQUIRED",
			"Deleting old events requires confirm=true", nil)
		return
	}

	// A missing account is swept as nil, which yields zero
	var account *models.Account
	var rec models.Account
	err := db.GetDB().Where("account_id = ?", accountID).First(&rec).Error
	if err == nil {
		account = &rec
	} else if err != gorm.ErrRecordNotFound {
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR",
			"Unable to load account",
			map[string]string{"database_error": err.Error()})
		return
	}

	retention := services.NewRetentionService(db.GetDB(), nil)
	mode := "count"
	if del {
		mode = "delete"
	}

	cutoff := req.Cutoff
	if del && cutoff <= 0 {
		cutoff = time.Now().Unix()
	}

	start := time.Now()
	var total int64
	if del {
		total, err = retention.DeleteOldEvents(account, req.GroupID, cutoff, req.Verbose)
	} else {
		total, err = retention.CountOldEvents(account, req.GroupID, cutoff, req.Verbose)
	}
	elapsed := time.Since(start)

	result := SweepResult{
		RunID:        uuid.New().String(),
		Mode:         mode,
		AccountID:    accountID,
		GroupID:      req.GroupID,
		Cutoff:       cutoff,
		Total:        total,
		CountUnknown: total == services.EventCountUnknown,
		DurationMS:   elapsed.Milliseconds(),
	}

	if SweepBroadcast != nil {
		SweepBroadcast(result, err)
	}

	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "SWEEP_FAILED",
			"Sweep did not complete",
			map[string]string{
				"partial_total": strconv.FormatInt(total, 10),
				"sweep_error":   err.Error(),
			})
		return
	}
	successResponse(c, http.StatusOK, "Sweep completed", result, 0)
}
