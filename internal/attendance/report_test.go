package attendance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendance-backend/internal/models"
)

func seedEmployee(t *testing.T, db *gorm.DB, joined time.Time) models.Employee {
	t.Helper()
	employee := models.Employee{
		FirstName:   "Test",
		LastName:    "Employee",
		Email:       uuid.NewString() + "@example.com",
		Role:        "employee",
		JoiningDate: joined,
		WorkStart:   "09:00",
		WorkEnd:     "17:00",
		IsActive:    true,
	}
	if err := db.Create(&employee).Error; err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return employee
}

func seedAttendance(t *testing.T, db *gorm.DB, employeeID uuid.UUID, date string, status string) {
	t.Helper()
	day, _ := time.Parse("2006-01-02", date)
	record := models.Attendance{
		EmployeeID:      employeeID,
		Date:            date,
		ExpectedArrival: day.Add(9 * time.Hour),
		CheckInAt:       day.Add(9 * time.Hour),
		Status:          status,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("seed attendance: %v", err)
	}
}

func TestStats(t *testing.T) {
	db := openTestDB(t)
	asOf := time.Now()
	today := models.DateKey(asOf)
	longAgo := asOf.AddDate(-1, 0, 0)

	var employees []models.Employee
	for i := 0; i < 10; i++ {
		employees = append(employees, seedEmployee(t, db, longAgo))
	}

	seedAttendance(t, db, employees[0].ID, today, models.StatusPresent)
	seedAttendance(t, db, employees[1].ID, today, models.StatusPresent)
	seedAttendance(t, db, employees[2].ID, today, models.StatusLate)
	seedAttendance(t, db, employees[3].ID, today, models.StatusLate)
	seedAttendance(t, db, employees[4].ID, today, models.StatusHalfDay)
	seedAttendance(t, db, employees[5].ID, today, models.StatusPresent)

	leave := models.LeaveRequest{
		EmployeeID: employees[6].ID,
		Type:       "vacation",
		StartDate:  today,
		EndDate:    today,
		Status:     models.LeaveApproved,
	}
	if err := db.Create(&leave).Error; err != nil {
		t.Fatalf("seed leave: %v", err)
	}

	stats, err := Stats(db, asOf)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalEmployees != 10 {
		t.Fatalf("expected 10 employees, got %d", stats.TotalEmployees)
	}
	if stats.PresentToday != 6 {
		t.Fatalf("expected 6 present, got %d", stats.PresentToday)
	}
	if stats.LateToday != 2 {
		t.Fatalf("expected 2 late, got %d", stats.LateToday)
	}
	if stats.OnLeaveToday != 1 {
		t.Fatalf("expected 1 on leave, got %d", stats.OnLeaveToday)
	}
	if stats.AbsentToday != 3 {
		t.Fatalf("expected 3 absent, got %d", stats.AbsentToday)
	}
}

func TestStatsLeaveWithScanCountsAsPresent(t *testing.T) {
	db := openTestDB(t)
	asOf := time.Now()
	today := models.DateKey(asOf)

	employee := seedEmployee(t, db, asOf.AddDate(-1, 0, 0))
	seedAttendance(t, db, employee.ID, today, models.StatusPresent)

	leave := models.LeaveRequest{
		EmployeeID: employee.ID,
		Type:       "vacation",
		StartDate:  today,
		EndDate:    today,
		Status:     models.LeaveApproved,
	}
	if err := db.Create(&leave).Error; err != nil {
		t.Fatalf("seed leave: %v", err)
	}

	stats, err := Stats(db, asOf)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.PresentToday != 1 || stats.OnLeaveToday != 0 {
		t.Fatalf("scanned employee should count as present, got present=%d onLeave=%d",
			stats.PresentToday, stats.OnLeaveToday)
	}
}

func TestStatsIgnoresInactiveEmployeeLeave(t *testing.T) {
	db := openTestDB(t)
	asOf := time.Now()
	today := models.DateKey(asOf)

	seedEmployee(t, db, asOf.AddDate(-1, 0, 0))
	seedEmployee(t, db, asOf.AddDate(-1, 0, 0))

	former := seedEmployee(t, db, asOf.AddDate(-1, 0, 0))
	if err := db.Model(&former).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate employee: %v", err)
	}

	// A standing approved leave from a deactivated employee must not shrink
	// the absent count.
	leave := models.LeaveRequest{
		EmployeeID: former.ID,
		Type:       "vacation",
		StartDate:  today,
		EndDate:    today,
		Status:     models.LeaveApproved,
	}
	if err := db.Create(&leave).Error; err != nil {
		t.Fatalf("seed leave: %v", err)
	}

	stats, err := Stats(db, asOf)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalEmployees != 2 {
		t.Fatalf("expected 2 active employees, got %d", stats.TotalEmployees)
	}
	if stats.OnLeaveToday != 0 {
		t.Fatalf("expected 0 on leave, got %d", stats.OnLeaveToday)
	}
	if stats.AbsentToday != 2 {
		t.Fatalf("expected 2 absent, got %d", stats.AbsentToday)
	}
}

func TestHistorySummary(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()
	employee := seedEmployee(t, db, now.AddDate(-1, 0, 0))

	// Five calendar days ending yesterday: present, late, half day, leave, nothing.
	end := now.AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -4)
	days := make([]string, 5)
	for i := range days {
		days[i] = models.DateKey(start.AddDate(0, 0, i))
	}

	seedAttendance(t, db, employee.ID, days[0], models.StatusPresent)
	seedAttendance(t, db, employee.ID, days[1], models.StatusLate)
	seedAttendance(t, db, employee.ID, days[2], models.StatusHalfDay)
	leave := models.LeaveRequest{
		EmployeeID: employee.ID,
		Type:       "sick",
		StartDate:  days[3],
		EndDate:    days[3],
		Status:     models.LeaveApproved,
	}
	if err := db.Create(&leave).Error; err != nil {
		t.Fatalf("seed leave: %v", err)
	}

	records, summary, err := History(db, employee, start, end)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if summary.TotalDays != 4 {
		t.Fatalf("leave day should leave the denominator, expected 4, got %d", summary.TotalDays)
	}
	if summary.PresentDays != 3 {
		t.Fatalf("expected 3 present days, got %d", summary.PresentDays)
	}
	if summary.LateDays != 1 {
		t.Fatalf("expected 1 late day, got %d", summary.LateDays)
	}
	if summary.LeaveDays != 1 {
		t.Fatalf("expected 1 leave day, got %d", summary.LeaveDays)
	}
	if summary.AbsentDays != 1 {
		t.Fatalf("expected 1 absent day, got %d", summary.AbsentDays)
	}
	if summary.AttendancePercentage != 75 {
		t.Fatalf("expected 75%%, got %f", summary.AttendancePercentage)
	}
}

func TestHistoryClampsToJoiningDate(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()
	joined := now.AddDate(0, 0, -2)
	employee := seedEmployee(t, db, joined)

	_, summary, err := History(db, employee, now.AddDate(0, 0, -30), now)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if summary.TotalDays != 3 {
		t.Fatalf("expected 3 days since joining, got %d", summary.TotalDays)
	}
}

func TestHistoryEmptyRange(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()
	employee := seedEmployee(t, db, now.AddDate(0, 0, 10))

	records, summary, err := History(db, employee, now.AddDate(0, 0, -5), now)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(records) != 0 || summary.TotalDays != 0 {
		t.Fatalf("expected empty history, got %d records, %d days", len(records), summary.TotalDays)
	}
	if summary.AttendancePercentage != 0 {
		t.Fatalf("expected 0%% for empty range, got %f", summary.AttendancePercentage)
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		present, total int
		want           float64
	}{
		{0, 0, 0},
		{5, 0, 0},
		{3, 4, 75},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{10, 10, 100},
	}
	for _, tc := range cases {
		if got := Percentage(tc.present, tc.total); got != tc.want {
			t.Errorf("Percentage(%d, %d) = %f, want %f", tc.present, tc.total, got, tc.want)
		}
	}
}
