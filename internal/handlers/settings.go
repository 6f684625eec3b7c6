package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/config"
	"attendance-backend/internal/models"
)

type SettingsHandler struct {
	DB  *gorm.DB
	Cfg config.Config
}

type updatePolicyRequest struct {
	LateGraceMinutes   *int     `json:"lateGraceMinutes"`
	GeoToleranceMeters *float64 `json:"geoToleranceMeters"`
}

const (
	lateGraceSettingKey    = "late_grace_minutes"
	geoToleranceSettingKey = "geo_tolerance_meters"
)

func NewSettingsHandler(db *gorm.DB, cfg config.Config) *SettingsHandler {
	return &SettingsHandler{DB: db, Cfg: cfg}
}

// EffectiveRules resolves the scan policy: stored overrides win, config
// defaults otherwise.
func EffectiveRules(db *gorm.DB, cfg config.Config) attendance.Rules {
	rules := attendance.Rules{
		LateGraceMinutes:   cfg.LateGraceMinutes,
		GeoToleranceMeters: cfg.GeoToleranceMeters,
	}

	var settings []models.Setting
	if err := db.Where("`key` IN ?", []string{lateGraceSettingKey, geoToleranceSettingKey}).
		Find(&settings).Error; err != nil {
		return rules
	}
	for _, setting := range settings {
		switch setting.Key {
		case lateGraceSettingKey:
			if parsed, err := strconv.Atoi(setting.Value); err == nil && parsed >= 0 {
				rules.LateGraceMinutes = parsed
			}
		case geoToleranceSettingKey:
			if parsed, err := strconv.ParseFloat(setting.Value, 64); err == nil && parsed > 0 {
				rules.GeoToleranceMeters = parsed
			}
		}
	}
	return rules
}

func (h *SettingsHandler) GetAttendancePolicy(c *gin.Context) {
	rules := EffectiveRules(h.DB, h.Cfg)
	c.JSON(http.StatusOK, gin.H{
		"lateGraceMinutes":   rules.LateGraceMinutes,
		"geoToleranceMeters": rules.GeoToleranceMeters,
	})
}

func (h *SettingsHandler) UpdateAttendancePolicy(c *gin.Context) {
	var req updatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if req.LateGraceMinutes == nil && req.GeoToleranceMeters == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	updates := map[string]string{}
	if req.LateGraceMinutes != nil {
		if *req.LateGraceMinutes < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lateGraceMinutes cannot be negative"})
			return
		}
		updates[lateGraceSettingKey] = strconv.Itoa(*req.LateGraceMinutes)
	}
	if req.GeoToleranceMeters != nil {
		if *req.GeoToleranceMeters <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "geoToleranceMeters must be positive"})
			return
		}
		updates[geoToleranceSettingKey] = strconv.FormatFloat(*req.GeoToleranceMeters, 'f', -1, 64)
	}

	for key, value := range updates {
		var setting models.Setting
		err := h.DB.Where("`key` = ?", key).Take(&setting).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				setting = models.Setting{Key: key, Value: value}
				if createErr := h.DB.Create(&setting).Error; createErr != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
					return
				}
				continue
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}

		setting.Value = value
		if err := h.DB.Save(&setting).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
	}

	rules := EffectiveRules(h.DB, h.Cfg)
	c.JSON(http.StatusOK, gin.H{
		"lateGraceMinutes":   rules.LateGraceMinutes,
		"geoToleranceMeters": rules.GeoToleranceMeters,
	})
}
