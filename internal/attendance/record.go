package attendance

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendance-backend/internal/models"
)

// Record applies a validated decision to storage. The check-in path relies on
// the (employee_id, date) unique index rather than a check-then-act read, so a
// concurrent duplicate scan loses deterministically. The check-out path guards
// the update with check_out_at IS NULL for the same reason.
func Record(db *gorm.DB, employeeID uuid.UUID, date string, decision Decision) (models.Attendance, error) {
	if decision.Intent == models.QRTypeCheckIn {
		return recordCheckIn(db, employeeID, date, decision)
	}
	return recordCheckOut(db, employeeID, date, decision)
}

func recordCheckIn(db *gorm.DB, employeeID uuid.UUID, date string, decision Decision) (models.Attendance, error) {
	record := models.Attendance{
		EmployeeID:      employeeID,
		Date:            date,
		ExpectedArrival: decision.ExpectedArrival,
		CheckInAt:       decision.ScanTime,
		MinutesLate:     decision.MinutesLate,
		Status:          decision.Status,
	}
	if decision.Location != nil {
		record.CheckInLat = decision.Location.Latitude
		record.CheckInLng = decision.Location.Longitude
	}

	if err := db.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Attendance{}, ruleError(KindDuplicateCheckIn, "already checked in for this day")
		}
		return models.Attendance{}, err
	}
	return record, nil
}

func recordCheckOut(db *gorm.DB, employeeID uuid.UUID, date string, decision Decision) (models.Attendance, error) {
	updates := map[string]any{
		"check_out_at": decision.ScanTime,
		"work_hours":   decision.WorkHours,
		"status":       decision.Status,
	}
	if decision.Location != nil {
		updates["check_out_lat"] = decision.Location.Latitude
		updates["check_out_lng"] = decision.Location.Longitude
	}

	result := db.Model(&models.Attendance{}).
		Where("employee_id = ? AND date = ? AND check_out_at IS NULL", employeeID, date).
		Updates(updates)
	if result.Error != nil {
		return models.Attendance{}, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost a race: the row was checked out between validation and here.
		return models.Attendance{}, ruleError(KindDuplicateCheckOut, "already checked out for this day")
	}

	var record models.Attendance
	if err := db.Where("employee_id = ? AND date = ?", employeeID, date).First(&record).Error; err != nil {
		return models.Attendance{}, err
	}
	return record, nil
}
