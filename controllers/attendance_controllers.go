package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/childcheck-app/services"
	"github.com/yeremiapane/childcheck-app/utils"
)

type AttendanceController struct {
	Service *services.AttendanceService
}

func NewAttendanceController(service *services.AttendanceService) *AttendanceController {
	return &AttendanceController{Service: service}
}

// staffIDFromContext mengambil id staff yang diset auth middleware.
func staffIDFromContext(c *gin.Context) (string, bool) {
	v, exists := c.Get("staff_id")
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// CheckIn
func (ac *AttendanceController) CheckIn(c *gin.Context) {
	staffID, ok := staffIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("staff id not found in context"))
		return
	}

	var req struct {
		ChildID string `json:"child_id" binding:"required"`
		Notes   string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res := ac.Service.CheckIn(req.ChildID, staffID, req.Notes)
	utils.RespondResult(c, "Check-in successful", res)
}

// CheckOut menutup satu record berdasarkan id record
func (ac *AttendanceController) CheckOut(c *gin.Context) {
	staffID, ok := staffIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("staff id not found in context"))
		return
	}

	var req struct {
		RecordID string `json:"record_id" binding:"required"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res := ac.Service.CheckOut(req.RecordID, staffID, req.Notes)
	utils.RespondResult(c, "Check-out successful", res)
}

// CheckOutByChild
func (ac *AttendanceController) CheckOutByChild(c *gin.Context) {
	staffID, ok := staffIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("staff id not found in context"))
		return
	}

	var req struct {
		ChildID string `json:"child_id" binding:"required"`
		Notes   string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res := ac.Service.CheckOutByChild(req.ChildID, staffID, req.Notes)
	utils.RespondResult(c, "Check-out successful", res)
}

// CheckOutByParent menutup semua record terbuka milik parent sekaligus
func (ac *AttendanceController) CheckOutByParent(c *gin.Context) {
	staffID, ok := staffIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("staff id not found in context"))
		return
	}

	var req struct {
		ParentID string `json:"parent_id" binding:"required"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res := ac.Service.CheckOutByParent(req.ParentID, staffID, req.Notes)
	utils.RespondResult(c, "Check-out successful", res)
}

// Mark mencatat kehadiran massal (CheckIn | CheckOut)
func (ac *AttendanceController) Mark(c *gin.Context) {
	staffID, ok := staffIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("staff id not found in context"))
		return
	}

	var req struct {
		ChildIDs []string `json:"child_ids" binding:"required"`
		Action   string   `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res := ac.Service.MarkAttendance(req.ChildIDs, req.Action, staffID)
	utils.RespondResult(c, "Attendance marked", res)
}

// GetAllRecords
func (ac *AttendanceController) GetAllRecords(c *gin.Context) {
	res := ac.Service.GetAttendanceRecords()
	utils.RespondResult(c, "Attendance records", res)
}

// SessionReport menerima kunci sesi lewat body (POST) atau query (GET)
func (ac *AttendanceController) SessionReport(c *gin.Context) {
	date := c.Query("date")
	if c.Request.Method == http.MethodPost {
		var req struct {
			Date string `json:"date" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		date = req.Date
	}

	res := ac.Service.GetSessionReport(date)
	utils.RespondResult(c, "Session report", res)
}

// Today -> record kehadiran hari berjalan (UTC)
func (ac *AttendanceController) Today(c *gin.Context) {
	res := ac.Service.GetTodaysAttendance()
	utils.RespondResult(c, "Today's attendance", res)
}

// Recent -> 10 entri log terbaru untuk dashboard
func (ac *AttendanceController) Recent(c *gin.Context) {
	res := ac.Service.GetRecentActivity()
	utils.RespondResult(c, "Recent activity", res)
}

// CheckedInByParent -> record terbuka hari ini milik satu parent
func (ac *AttendanceController) CheckedInByParent(c *gin.Context) {
	res := ac.Service.GetCheckedInChildrenByParent(c.Param("parent_id"))
	utils.RespondResult(c, "Checked-in children", res)
}
