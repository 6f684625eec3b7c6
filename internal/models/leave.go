package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

type LeaveRequest struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	EmployeeID uuid.UUID  `gorm:"type:char(36);index;not null" json:"employeeId"`
	Type       string     `gorm:"size:50;index;not null" json:"type"`
	StartDate  string     `gorm:"size:10;index;not null" json:"startDate"`
	EndDate    string     `gorm:"size:10;index;not null" json:"endDate"`
	Reason     string     `gorm:"size:500" json:"reason"`
	Status     string     `gorm:"size:20;index;not null" json:"status"`
	ApproverID *uuid.UUID `gorm:"type:char(36)" json:"approverId,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (r *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Covers reports whether the request spans the given day key ("YYYY-MM-DD").
// Date keys compare correctly as strings.
func (r *LeaveRequest) Covers(dateKey string) bool {
	return r.StartDate <= dateKey && dateKey <= r.EndDate
}
