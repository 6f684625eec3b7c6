package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID           uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	FirstName    string     `gorm:"size:120;not null" json:"firstName"`
	LastName     string     `gorm:"size:120;not null" json:"lastName"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role         string     `gorm:"size:50;not null;default:employee" json:"role"`
	Phone        string     `gorm:"size:50" json:"phone"`
	Position     string     `gorm:"size:120" json:"position"`
	Salary       float64    `gorm:"type:decimal(12,2)" json:"salary"`
	DepartmentID *uuid.UUID `gorm:"type:char(36);index" json:"departmentId,omitempty"`
	JoiningDate  time.Time  `json:"joiningDate"`
	WorkStart    string     `gorm:"size:5;not null;default:'09:00'" json:"workStart"`
	WorkEnd      string     `gorm:"size:5;not null;default:'17:00'" json:"workEnd"`
	IsActive     bool       `gorm:"not null;default:true" json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ExpectedArrival anchors the employee's WorkStart ("HH:MM") onto the given day.
func (e *Employee) ExpectedArrival(day time.Time) time.Time {
	parsed, err := time.Parse("15:04", e.WorkStart)
	if err != nil {
		parsed, _ = time.Parse("15:04", "09:00")
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, day.Location())
}

// ScheduledHours is the length of the working day in hours.
func (e *Employee) ScheduledHours() float64 {
	start, err := time.Parse("15:04", e.WorkStart)
	if err != nil {
		return 8
	}
	end, err := time.Parse("15:04", e.WorkEnd)
	if err != nil {
		return 8
	}
	hours := end.Sub(start).Hours()
	if hours <= 0 {
		return 8
	}
	return hours
}
