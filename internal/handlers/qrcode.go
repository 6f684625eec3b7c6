package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"attendance-backend/internal/middleware"
	"attendance-backend/internal/models"
	"attendance-backend/internal/utils"
)

type QRHandler struct {
	DB *gorm.DB
}

type locationPayload struct {
	Latitude  float64 `json:"latitude" binding:"latitude"`
	Longitude float64 `json:"longitude" binding:"longitude"`
}

type generateQRRequest struct {
	DepartmentID string           `json:"departmentId" binding:"required"`
	Type         string           `json:"type" binding:"required,oneof=checkIn checkOut"`
	ValidFrom    string           `json:"validFrom" binding:"required"`
	ValidUntil   string           `json:"validUntil" binding:"required"`
	Location     *locationPayload `json:"location"`
}

type validateQRRequest struct {
	Code string `json:"code" binding:"required"`
}

func NewQRHandler(db *gorm.DB) *QRHandler {
	return &QRHandler{DB: db}
}

func (h *QRHandler) Generate(c *gin.Context) {
	var req generateQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departmentId"})
		return
	}

	var department models.Department
	if err := h.DB.First(&department, "id = ?", departmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "department not found"})
		return
	}

	validFrom, err := parseAdminTime(req.ValidFrom)
	if err != nil || validFrom.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid validFrom"})
		return
	}
	validUntil, err := parseAdminTime(req.ValidUntil)
	if err != nil || validUntil.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid validUntil"})
		return
	}
	if !validFrom.Before(validUntil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validFrom must be before validUntil"})
		return
	}

	// The code binds to the department's coordinates unless the caller pins
	// a different spot.
	latitude := department.Latitude
	longitude := department.Longitude
	if req.Location != nil {
		latitude = req.Location.Latitude
		longitude = req.Location.Longitude
	}

	token, err := utils.GenerateQRToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "code generation failed"})
		return
	}

	var createdBy *uuid.UUID
	if userID, ok := c.Get(middleware.ContextUserID); ok {
		if parsed, err := uuid.Parse(userID.(string)); err == nil {
			createdBy = &parsed
		}
	}

	code := models.QRCode{
		Code:         token,
		DepartmentID: departmentID,
		Type:         req.Type,
		ValidFrom:    validFrom,
		ValidUntil:   validUntil,
		IsActive:     true,
		Latitude:     latitude,
		Longitude:    longitude,
		CreatedBy:    createdBy,
	}
	if err := h.DB.Create(&code).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "code creation failed"})
		return
	}

	c.JSON(http.StatusCreated, code)
}

func (h *QRHandler) List(c *gin.Context) {
	query := h.DB.Order("created_at desc")
	if departmentID := c.Query("departmentId"); departmentID != "" {
		parsed, err := uuid.Parse(departmentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departmentId"})
			return
		}
		query = query.Where("department_id = ?", parsed)
	}

	var codes []models.QRCode
	if err := query.Find(&codes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load qr codes"})
		return
	}
	c.JSON(http.StatusOK, codes)
}

// Deactivate is idempotent: repeating it on an inactive code succeeds.
func (h *QRHandler) Deactivate(c *gin.Context) {
	codeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var code models.QRCode
	if err := h.DB.First(&code, "id = ?", codeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "qr code not found"})
		return
	}

	if code.IsActive {
		if err := h.DB.Model(&code).Update("is_active", false).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "deactivate failed"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "deactivated"})
}

// Validate answers whether a code would currently be accepted, without touching
// attendance state.
func (h *QRHandler) Validate(c *gin.Context) {
	var req validateQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	var code models.QRCode
	if err := h.DB.Where("code = ?", req.Code).First(&code).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusOK, gin.H{"valid": false})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation failed"})
		return
	}

	now := time.Now()
	valid := code.IsActive && !now.Before(code.ValidFrom) && !now.After(code.ValidUntil)
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

func (h *QRHandler) Image(c *gin.Context) {
	codeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var code models.QRCode
	if err := h.DB.First(&code, "id = ?", codeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "qr code not found"})
		return
	}

	png, err := qrcode.Encode(code.Code, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "image generation failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
