package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// On-leave and absent are derived at read time and never stored, so only the
// statuses a scan can write get constants.
const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusHalfDay = "half_day"
)

// Attendance holds at most one row per employee per calendar day; the composite
// unique index is what settles concurrent check-in scans.
type Attendance struct {
	ID              uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	EmployeeID      uuid.UUID  `gorm:"type:char(36);uniqueIndex:idx_employee_date;not null" json:"employeeId"`
	Date            string     `gorm:"size:10;uniqueIndex:idx_employee_date;not null" json:"date"`
	ExpectedArrival time.Time  `gorm:"not null" json:"expectedArrival"`
	CheckInAt       time.Time  `gorm:"not null" json:"checkInAt"`
	CheckInLat      float64    `gorm:"type:decimal(10,7)" json:"checkInLat"`
	CheckInLng      float64    `gorm:"type:decimal(10,7)" json:"checkInLng"`
	CheckOutAt      *time.Time `json:"checkOutAt,omitempty"`
	CheckOutLat     float64    `gorm:"type:decimal(10,7)" json:"checkOutLat"`
	CheckOutLng     float64    `gorm:"type:decimal(10,7)" json:"checkOutLng"`
	MinutesLate     int        `gorm:"not null" json:"minutesLate"`
	WorkHours       float64    `gorm:"type:decimal(5,2)" json:"workHours"`
	Status          string     `gorm:"size:20;index;not null" json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// DateKey formats a timestamp as the attendance day key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
