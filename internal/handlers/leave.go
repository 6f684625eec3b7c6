package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendance-backend/internal/middleware"
	"attendance-backend/internal/models"
)

type LeaveHandler struct {
	DB *gorm.DB
}

type createLeaveRequest struct {
	EmployeeID string `json:"employeeId"`
	Type       string `json:"type" binding:"required"`
	StartDate  string `json:"startDate" binding:"required"`
	EndDate    string `json:"endDate" binding:"required"`
	Reason     string `json:"reason"`
}

func NewLeaveHandler(db *gorm.DB) *LeaveHandler {
	return &LeaveHandler{DB: db}
}

func (h *LeaveHandler) ListRequests(c *gin.Context) {
	query := h.DB.Model(&models.LeaveRequest{})

	role, _ := c.Get(middleware.ContextRole)
	if role == "employee" {
		employeeID, ok := c.Get(middleware.ContextEmployeeID)
		if !ok || employeeID == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		query = query.Where("employee_id = ?", employeeID)
	} else if employeeID := c.Query("employeeId"); employeeID != "" {
		id, err := uuid.Parse(employeeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employeeId"})
			return
		}
		query = query.Where("employee_id = ?", id)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.LeaveRequest
	if err := query.Order("created_at desc").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load leaves"})
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *LeaveHandler) CreateRequest(c *gin.Context) {
	var req createLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	role, _ := c.Get(middleware.ContextRole)
	if role == "employee" {
		employeeID, ok := c.Get(middleware.ContextEmployeeID)
		if !ok || employeeID == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		req.EmployeeID = employeeID.(string)
	} else if req.EmployeeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employeeId required"})
		return
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employeeId"})
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
		return
	}
	if endDate.Before(startDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate cannot be before startDate"})
		return
	}

	var employee models.Employee
	if err := h.DB.First(&employee, "id = ?", employeeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}

	request := models.LeaveRequest{
		EmployeeID: employeeID,
		Type:       req.Type,
		StartDate:  models.DateKey(startDate),
		EndDate:    models.DateKey(endDate),
		Reason:     req.Reason,
		Status:     models.LeavePending,
	}
	if err := h.DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *LeaveHandler) Approve(c *gin.Context) {
	h.resolve(c, models.LeaveApproved)
}

func (h *LeaveHandler) Reject(c *gin.Context) {
	h.resolve(c, models.LeaveRejected)
}

func (h *LeaveHandler) resolve(c *gin.Context, status string) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var request models.LeaveRequest
	if err := h.DB.First(&request, "id = ?", requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "leave request not found"})
		return
	}
	if request.Status != models.LeavePending {
		c.JSON(http.StatusConflict, gin.H{"error": "leave request already resolved"})
		return
	}

	now := time.Now()
	request.Status = status
	request.ApprovedAt = &now
	if userID, ok := c.Get(middleware.ContextUserID); ok {
		if parsed, err := uuid.Parse(userID.(string)); err == nil {
			request.ApproverID = &parsed
		}
	}

	if err := h.DB.Save(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, request)
}

func (h *LeaveHandler) DeleteRequest(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var request models.LeaveRequest
	if err := h.DB.First(&request, "id = ?", requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "leave request not found"})
		return
	}

	role, _ := c.Get(middleware.ContextRole)
	if role == "employee" {
		employeeID, _ := c.Get(middleware.ContextEmployeeID)
		if employeeID == nil || request.EmployeeID.String() != employeeID.(string) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		if request.Status != models.LeavePending {
			c.JSON(http.StatusConflict, gin.H{"error": "only pending requests can be withdrawn"})
			return
		}
	}

	if err := h.DB.Delete(&models.LeaveRequest{}, "id = ?", requestID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
