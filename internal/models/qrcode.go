package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QRTypeCheckIn  = "checkIn"
	QRTypeCheckOut = "checkOut"
)

type QRCode struct {
	ID           uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	Code         string     `gorm:"uniqueIndex;size:64;not null" json:"code"`
	DepartmentID uuid.UUID  `gorm:"type:char(36);index;not null" json:"departmentId"`
	Type         string     `gorm:"size:20;index;not null" json:"type"`
	ValidFrom    time.Time  `gorm:"not null" json:"validFrom"`
	ValidUntil   time.Time  `gorm:"not null" json:"validUntil"`
	IsActive     bool       `gorm:"not null;default:true" json:"isActive"`
	Latitude     float64    `gorm:"type:decimal(10,7)" json:"latitude"`
	Longitude    float64    `gorm:"type:decimal(10,7)" json:"longitude"`
	CreatedBy    *uuid.UUID `gorm:"type:char(36)" json:"createdBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (q *QRCode) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
