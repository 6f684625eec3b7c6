package attendance

import (
	"math"
	"time"

	"gorm.io/gorm"

	"attendance-backend/internal/models"
)

type DashboardStats struct {
	TotalEmployees  int64 `json:"totalEmployees"`
	TodayAttendance int64 `json:"todayAttendance"`
	PresentToday    int64 `json:"presentToday"`
	LateToday       int64 `json:"lateToday"`
	OnLeaveToday    int64 `json:"onLeaveToday"`
	AbsentToday     int64 `json:"absentToday"`
}

type HistorySummary struct {
	TotalDays            int     `json:"totalDays"`
	PresentDays          int     `json:"presentDays"`
	LateDays             int     `json:"lateDays"`
	LeaveDays            int     `json:"leaveDays"`
	AbsentDays           int     `json:"absentDays"`
	AttendancePercentage float64 `json:"attendancePercentage"`
}

var presentStatuses = []string{models.StatusPresent, models.StatusLate, models.StatusHalfDay}

// Stats projects the day's dashboard counts. Employees with no attendance row
// and no approved leave for the day count as absent.
func Stats(db *gorm.DB, asOf time.Time) (DashboardStats, error) {
	dateKey := models.DateKey(asOf)
	var stats DashboardStats

	if err := db.Model(&models.Employee{}).Where("is_active = ?", true).Count(&stats.TotalEmployees).Error; err != nil {
		return stats, err
	}

	if err := db.Model(&models.Attendance{}).
		Where("date = ? AND status IN ?", dateKey, presentStatuses).
		Count(&stats.PresentToday).Error; err != nil {
		return stats, err
	}
	stats.TodayAttendance = stats.PresentToday

	if err := db.Model(&models.Attendance{}).
		Where("date = ? AND status = ?", dateKey, models.StatusLate).
		Count(&stats.LateToday).Error; err != nil {
		return stats, err
	}

	onLeave, err := onLeaveEmployeeCount(db, dateKey)
	if err != nil {
		return stats, err
	}
	stats.OnLeaveToday = onLeave

	stats.AbsentToday = stats.TotalEmployees - stats.PresentToday - stats.OnLeaveToday
	if stats.AbsentToday < 0 {
		stats.AbsentToday = 0
	}
	return stats, nil
}

func onLeaveEmployeeCount(db *gorm.DB, dateKey string) (int64, error) {
	activeIDs := db.Model(&models.Employee{}).Select("id").Where("is_active = ?", true)

	var leaves []models.LeaveRequest
	if err := db.Where("status = ? AND start_date <= ? AND end_date >= ?",
		models.LeaveApproved, dateKey, dateKey).
		Where("employee_id IN (?)", activeIDs).Find(&leaves).Error; err != nil {
		return 0, err
	}
	if len(leaves) == 0 {
		return 0, nil
	}

	var scanned []models.Attendance
	if err := db.Select("employee_id").Where("date = ?", dateKey).Find(&scanned).Error; err != nil {
		return 0, err
	}
	hasRecord := map[string]bool{}
	for _, record := range scanned {
		hasRecord[record.EmployeeID.String()] = true
	}

	counted := map[string]bool{}
	var count int64
	for _, leave := range leaves {
		id := leave.EmployeeID.String()
		if counted[id] || hasRecord[id] {
			continue
		}
		counted[id] = true
		count++
	}
	return count, nil
}

// History returns an employee's attendance rows for a date range together with
// the derived summary. The range is clamped to [joiningDate, today]; days under
// approved leave are excluded from the denominator.
func History(db *gorm.DB, employee models.Employee, from time.Time, to time.Time) ([]models.Attendance, HistorySummary, error) {
	today := time.Now()
	if employee.JoiningDate.After(from) {
		from = employee.JoiningDate
	}
	if to.After(today) {
		to = today
	}
	from = midnight(from)
	to = midnight(to)

	summary := HistorySummary{}
	if to.Before(from) {
		return []models.Attendance{}, summary, nil
	}

	fromKey := models.DateKey(from)
	toKey := models.DateKey(to)

	var records []models.Attendance
	if err := db.Where("employee_id = ? AND date >= ? AND date <= ?", employee.ID, fromKey, toKey).
		Order("date desc").Find(&records).Error; err != nil {
		return nil, summary, err
	}

	var leaves []models.LeaveRequest
	if err := db.Where("employee_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
		employee.ID, models.LeaveApproved, toKey, fromKey).Find(&leaves).Error; err != nil {
		return nil, summary, err
	}

	byDate := map[string]models.Attendance{}
	for _, record := range records {
		byDate[record.Date] = record
	}

	calendarDays := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		calendarDays++
		key := models.DateKey(day)
		record, ok := byDate[key]
		if ok {
			switch record.Status {
			case models.StatusLate:
				summary.PresentDays++
				summary.LateDays++
			case models.StatusPresent, models.StatusHalfDay:
				summary.PresentDays++
			}
			continue
		}
		for _, leave := range leaves {
			if leave.Covers(key) {
				summary.LeaveDays++
				break
			}
		}
	}

	summary.TotalDays = calendarDays - summary.LeaveDays
	summary.AbsentDays = summary.TotalDays - summary.PresentDays
	if summary.AbsentDays < 0 {
		summary.AbsentDays = 0
	}
	summary.AttendancePercentage = Percentage(summary.PresentDays, summary.TotalDays)
	return records, summary, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Percentage is presentDays/totalDays*100 rounded to one decimal; 0 for an
// empty range rather than NaN.
func Percentage(presentDays int, totalDays int) float64 {
	if totalDays <= 0 {
		return 0
	}
	return math.Round(float64(presentDays)/float64(totalDays)*1000) / 10
}
