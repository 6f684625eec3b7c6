package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/models"
)

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := attendance.Stats(h.DB, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) RecentAttendance(c *gin.Context) {
	dateKey := models.DateKey(time.Now())

	var records []models.Attendance
	if err := h.DB.Where("date = ?", dateKey).
		Order("check_in_at desc").Limit(20).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load attendance"})
		return
	}

	ids := make([]uuid.UUID, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.EmployeeID)
	}
	names := map[uuid.UUID]string{}
	if len(ids) > 0 {
		var employees []models.Employee
		if err := h.DB.Where("id IN ?", ids).Find(&employees).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load attendance"})
			return
		}
		for _, employee := range employees {
			names[employee.ID] = employee.FirstName + " " + employee.LastName
		}
	}

	rows := make([]gin.H, 0, len(records))
	for _, record := range records {
		rows = append(rows, gin.H{
			"attendance":   record,
			"employeeName": names[record.EmployeeID],
		})
	}
	c.JSON(http.StatusOK, rows)
}
