package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/config"
	"attendance-backend/internal/middleware"
	"attendance-backend/internal/models"
)

type AttendanceHandler struct {
	DB  *gorm.DB
	Cfg config.Config
}

type scanRequest struct {
	QRCode   string           `json:"qrCode" binding:"required"`
	Location *locationPayload `json:"location"`
}

func NewAttendanceHandler(db *gorm.DB, cfg config.Config) *AttendanceHandler {
	return &AttendanceHandler{DB: db, Cfg: cfg}
}

func parseAdminTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, nil
	}
	localFormats := []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
	for _, format := range localFormats {
		parsed, err := time.ParseInLocation(format, value, time.Local)
		if err == nil {
			return parsed, nil
		}
	}
	if parsed, err := time.Parse("15:04", value); err == nil {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location()), nil
	}
	return time.Time{}, fmt.Errorf("invalid time format")
}

func respondRuleError(c *gin.Context, err error) {
	kind := attendance.KindOf(err)
	if kind == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scan failed"})
		return
	}

	status := http.StatusBadRequest
	switch kind {
	case attendance.KindNotFound:
		status = http.StatusNotFound
	case attendance.KindDuplicateCheckIn, attendance.KindDuplicateCheckOut, attendance.KindStorageConflict:
		status = http.StatusConflict
	case attendance.KindUnauthorized:
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{"errorKind": kind, "error": err.Error()})
}

// Scan is the single entry point for both check-in and check-out; the code's
// type decides which. Validation is pure, the write goes through the recorder.
func (h *AttendanceHandler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errorKind": attendance.KindValidationError, "error": "invalid input"})
		return
	}

	contextEmployeeID, ok := c.Get(middleware.ContextEmployeeID)
	if !ok || contextEmployeeID == "" {
		c.JSON(http.StatusForbidden, gin.H{"errorKind": attendance.KindUnauthorized, "error": "no employee linked to this account"})
		return
	}
	employeeID, err := uuid.Parse(contextEmployeeID.(string))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"errorKind": attendance.KindUnauthorized, "error": "no employee linked to this account"})
		return
	}

	var employee models.Employee
	if err := h.DB.First(&employee, "id = ?", employeeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errorKind": attendance.KindNotFound, "error": "employee not found"})
		return
	}

	var code *models.QRCode
	var found models.QRCode
	if err := h.DB.Where("code = ?", req.QRCode).First(&found).Error; err == nil {
		code = &found
	} else if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scan failed"})
		return
	}

	scanTime := time.Now()
	dateKey := models.DateKey(scanTime)

	var existing *models.Attendance
	var row models.Attendance
	if err := h.DB.Where("employee_id = ? AND date = ?", employeeID, dateKey).First(&row).Error; err == nil {
		existing = &row
	} else if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scan failed"})
		return
	}

	var scanLoc *attendance.Point
	if req.Location != nil {
		scanLoc = &attendance.Point{Latitude: req.Location.Latitude, Longitude: req.Location.Longitude}
	}

	rules := EffectiveRules(h.DB, h.Cfg)
	decision, err := attendance.Validate(code, scanTime, scanLoc, existing, employee.ExpectedArrival(scanTime), employee.ScheduledHours(), rules)
	if err != nil {
		respondRuleError(c, err)
		return
	}

	record, err := attendance.Record(h.DB, employeeID, dateKey, decision)
	if err != nil {
		respondRuleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      record.Status,
		"minutesLate": record.MinutesLate,
		"workHours":   record.WorkHours,
		"attendance":  record,
	})
}

func (h *AttendanceHandler) List(c *gin.Context) {
	query := h.DB.Order("date desc, check_in_at desc")

	role, _ := c.Get(middleware.ContextRole)
	if role == "employee" {
		employeeID, ok := c.Get(middleware.ContextEmployeeID)
		if !ok || employeeID == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		id, err := uuid.Parse(employeeID.(string))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employeeId"})
			return
		}
		query = query.Where("employee_id = ?", id)
	}

	var records []models.Attendance
	if err := query.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load attendance"})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *AttendanceHandler) Report(c *gin.Context) {
	startDate, err := time.Parse("2006-01-02", c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return
	}
	endDate, err := time.Parse("2006-01-02", c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
		return
	}
	if endDate.Before(startDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate cannot be before startDate"})
		return
	}

	query := h.DB.Where("date >= ? AND date <= ?", models.DateKey(startDate), models.DateKey(endDate))
	if employeeID := c.Query("employeeId"); employeeID != "" {
		id, err := uuid.Parse(employeeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employeeId"})
			return
		}
		query = query.Where("employee_id = ?", id)
	}

	var records []models.Attendance
	if err := query.Order("date desc, check_in_at desc").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load report"})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *AttendanceHandler) History(c *gin.Context) {
	role, _ := c.Get(middleware.ContextRole)

	employeeIDValue := c.Query("employeeId")
	if role == "employee" {
		contextEmployeeID, ok := c.Get(middleware.ContextEmployeeID)
		if !ok || contextEmployeeID == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		employeeIDValue = contextEmployeeID.(string)
	} else if employeeIDValue == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employeeId required"})
		return
	}

	employeeID, err := uuid.Parse(employeeIDValue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employeeId"})
		return
	}

	var employee models.Employee
	if err := h.DB.First(&employee, "id = ?", employeeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -30)
	if value := c.Query("startDate"); value != "" {
		startDate, err = time.Parse("2006-01-02", value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
			return
		}
	}
	if value := c.Query("endDate"); value != "" {
		endDate, err = time.Parse("2006-01-02", value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
			return
		}
	}

	records, summary, err := attendance.History(h.DB, employee, startDate, endDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records, "summary": summary})
}

func (h *AttendanceHandler) Delete(c *gin.Context) {
	attendanceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.DB.Delete(&models.Attendance{}, "id = ?", attendanceID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// DeleteByEmployee is the administrative bulk reset: the only path that removes
// attendance rows wholesale.
func (h *AttendanceHandler) DeleteByEmployee(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("employeeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employeeId"})
		return
	}

	if err := h.DB.Where("employee_id = ?", employeeID).Delete(&models.Attendance{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
