package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendance-backend/internal/middleware"
	"attendance-backend/internal/models"
)

func qrTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uuid.NewString())
		c.Set(middleware.ContextRole, "admin")
		c.Next()
	})

	handler := NewQRHandler(db)
	router.POST("/api/qr/generate", handler.Generate)
	router.POST("/api/qr/validate", handler.Validate)
	router.POST("/api/qr/:id/deactivate", handler.Deactivate)
	router.GET("/api/qr/:id/image", handler.Image)
	return router
}

func seedDepartment(t *testing.T, db *gorm.DB) models.Department {
	t.Helper()
	department := models.Department{
		Name:      "Engineering " + uuid.NewString(),
		Branch:    "HQ",
		Latitude:  13.7563,
		Longitude: 100.5018,
	}
	if err := db.Create(&department).Error; err != nil {
		t.Fatalf("seed department: %v", err)
	}
	return department
}

func postJSON(t *testing.T, router *gin.Engine, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestGenerateQRCode(t *testing.T) {
	db := openTestDB(t)
	router := qrTestRouter(db)
	department := seedDepartment(t, db)

	now := time.Now()
	recorder := postJSON(t, router, "/api/qr/generate", map[string]any{
		"departmentId": department.ID.String(),
		"type":         models.QRTypeCheckIn,
		"validFrom":    now.Format(time.RFC3339),
		"validUntil":   now.Add(time.Hour).Format(time.RFC3339),
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", recorder.Code, recorder.Body.String())
	}

	var code models.QRCode
	if err := json.Unmarshal(recorder.Body.Bytes(), &code); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if code.Code == "" {
		t.Fatal("expected a generated code token")
	}
	if code.Latitude != department.Latitude || code.Longitude != department.Longitude {
		t.Fatal("expected code to inherit department coordinates")
	}
	if code.CreatedBy == nil {
		t.Fatal("expected createdBy to be recorded")
	}
}

func TestGenerateQRCodeRejectsBadWindow(t *testing.T) {
	db := openTestDB(t)
	router := qrTestRouter(db)
	department := seedDepartment(t, db)

	now := time.Now()
	recorder := postJSON(t, router, "/api/qr/generate", map[string]any{
		"departmentId": department.ID.String(),
		"type":         models.QRTypeCheckIn,
		"validFrom":    now.Add(time.Hour).Format(time.RFC3339),
		"validUntil":   now.Format(time.RFC3339),
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestGenerateQRCodeUnknownDepartment(t *testing.T) {
	db := openTestDB(t)
	router := qrTestRouter(db)

	now := time.Now()
	recorder := postJSON(t, router, "/api/qr/generate", map[string]any{
		"departmentId": uuid.NewString(),
		"type":         models.QRTypeCheckOut,
		"validFrom":    now.Format(time.RFC3339),
		"validUntil":   now.Add(time.Hour).Format(time.RFC3339),
	})
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestValidateQRCode(t *testing.T) {
	db := openTestDB(t)
	router := qrTestRouter(db)

	now := time.Now()
	code := models.QRCode{
		Code:         "validate-me",
		DepartmentID: uuid.New(),
		Type:         models.QRTypeCheckIn,
		ValidFrom:    now.Add(-time.Hour),
		ValidUntil:   now.Add(time.Hour),
		IsActive:     true,
	}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("seed code: %v", err)
	}

	recorder := postJSON(t, router, "/api/qr/validate", map[string]any{"code": "validate-me"})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if body := decodeBody(t, recorder); body["valid"] != true {
		t.Fatalf("expected valid=true, got %v", body["valid"])
	}

	recorder = postJSON(t, router, "/api/qr/validate", map[string]any{"code": "missing"})
	if body := decodeBody(t, recorder); body["valid"] != false {
		t.Fatalf("expected valid=false for unknown code, got %v", body["valid"])
	}
}

func TestDeactivateQRCodeIdempotent(t *testing.T) {
	db := openTestDB(t)
	router := qrTestRouter(db)

	now := time.Now()
	code := models.QRCode{
		Code:         "deactivate-me",
		DepartmentID: uuid.New(),
		Type:         models.QRTypeCheckIn,
		ValidFrom:    now.Add(-time.Hour),
		ValidUntil:   now.Add(time.Hour),
		IsActive:     true,
	}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("seed code: %v", err)
	}

	for i := 0; i < 2; i++ {
		recorder := postJSON(t, router, "/api/qr/"+code.ID.String()+"/deactivate", map[string]any{})
		if recorder.Code != http.StatusOK {
			t.Fatalf("deactivate %d: expected 200, got %d", i, recorder.Code)
		}
	}

	var reloaded models.QRCode
	db.First(&reloaded, "id = ?", code.ID)
	if reloaded.IsActive {
		t.Fatal("expected code to be inactive")
	}

	recorder := postJSON(t, router, "/api/qr/validate", map[string]any{"code": "deactivate-me"})
	if body := decodeBody(t, recorder); body["valid"] != false {
		t.Fatalf("expected valid=false after deactivation, got %v", body["valid"])
	}
}

func TestQRCodeImage(t *testing.T) {
	db := openTestDB(t)
	router := qrTestRouter(db)

	now := time.Now()
	code := models.QRCode{
		Code:         "image-me",
		DepartmentID: uuid.New(),
		Type:         models.QRTypeCheckIn,
		ValidFrom:    now,
		ValidUntil:   now.Add(time.Hour),
		IsActive:     true,
	}
	if err := db.Create(&code).Error; err != nil {
		t.Fatalf("seed code: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/qr/"+code.ID.String()+"/image", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if got := recorder.Header().Get("Content-Type"); got != "image/png" {
		t.Fatalf("expected image/png, got %s", got)
	}
	if recorder.Body.Len() == 0 {
		t.Fatal("expected png bytes")
	}
}
