package attendance

import (
	"testing"
	"time"

	"attendance-backend/internal/models"
)

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(testDay.Year(), testDay.Month(), testDay.Day(), hour, minute, 0, 0, time.UTC)
}

func checkInCode() *models.QRCode {
	return &models.QRCode{
		Code:       "test-code",
		Type:       models.QRTypeCheckIn,
		ValidFrom:  at(9, 0),
		ValidUntil: at(9, 30),
		IsActive:   true,
		Latitude:   13.7563,
		Longitude:  100.5018,
	}
}

func checkOutCode() *models.QRCode {
	code := checkInCode()
	code.Type = models.QRTypeCheckOut
	code.ValidFrom = at(16, 0)
	code.ValidUntil = at(23, 0)
	return code
}

func defaultRules() Rules {
	return Rules{LateGraceMinutes: 0, GeoToleranceMeters: 100}
}

func expectKind(t *testing.T, err error, kind string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, got, err)
	}
}

func TestValidateCodeState(t *testing.T) {
	rules := defaultRules()

	_, err := Validate(nil, at(9, 10), nil, nil, at(9, 0), 8, rules)
	expectKind(t, err, KindNotFound)

	inactive := checkInCode()
	inactive.IsActive = false
	_, err = Validate(inactive, at(9, 10), nil, nil, at(9, 0), 8, rules)
	expectKind(t, err, KindInactive)

	_, err = Validate(checkInCode(), at(8, 59), nil, nil, at(9, 0), 8, rules)
	expectKind(t, err, KindExpired)

	_, err = Validate(checkInCode(), at(9, 35), nil, nil, at(9, 0), 8, rules)
	expectKind(t, err, KindExpired)

	unknown := checkInCode()
	unknown.Type = "lunch"
	_, err = Validate(unknown, at(9, 10), nil, nil, at(9, 0), 8, rules)
	expectKind(t, err, KindValidationError)
}

func TestValidateWindowBoundariesInclusive(t *testing.T) {
	rules := defaultRules()

	if _, err := Validate(checkInCode(), at(9, 0), nil, nil, at(9, 0), 8, rules); err != nil {
		t.Fatalf("scan at validFrom should pass: %v", err)
	}
	if _, err := Validate(checkInCode(), at(9, 30), nil, nil, at(9, 0), 8, rules); err != nil {
		t.Fatalf("scan at validUntil should pass: %v", err)
	}
}

func TestValidateGeofence(t *testing.T) {
	rules := defaultRules()
	code := checkInCode()

	near := &Point{Latitude: 13.7568, Longitude: 100.5018}
	if _, err := Validate(code, at(9, 5), near, nil, at(9, 0), 8, rules); err != nil {
		t.Fatalf("scan ~55m away should pass with 100m tolerance: %v", err)
	}

	far := &Point{Latitude: 13.7663, Longitude: 100.5018}
	_, err := Validate(code, at(9, 5), far, nil, at(9, 0), 8, rules)
	expectKind(t, err, KindLocationMismatch)

	// Without a reported location the geofence is skipped.
	if _, err := Validate(code, at(9, 5), nil, nil, at(9, 0), 8, rules); err != nil {
		t.Fatalf("scan without location should pass: %v", err)
	}
}

func TestValidateCheckIn(t *testing.T) {
	rules := defaultRules()

	decision, err := Validate(checkInCode(), at(9, 0), nil, nil, at(9, 0), 8, rules)
	if err != nil {
		t.Fatalf("on-time check-in failed: %v", err)
	}
	if decision.Status != models.StatusPresent || decision.MinutesLate != 0 {
		t.Fatalf("expected present/0, got %s/%d", decision.Status, decision.MinutesLate)
	}

	decision, err = Validate(checkInCode(), at(9, 20), nil, nil, at(9, 0), 8, rules)
	if err != nil {
		t.Fatalf("late check-in failed: %v", err)
	}
	if decision.Status != models.StatusLate || decision.MinutesLate != 20 {
		t.Fatalf("expected late/20, got %s/%d", decision.Status, decision.MinutesLate)
	}

	existing := &models.Attendance{CheckInAt: at(9, 5)}
	_, err = Validate(checkInCode(), at(9, 10), nil, existing, at(9, 0), 8, rules)
	expectKind(t, err, KindDuplicateCheckIn)
}

func TestValidateCheckInGrace(t *testing.T) {
	rules := Rules{LateGraceMinutes: 15, GeoToleranceMeters: 100}

	decision, err := Validate(checkInCode(), at(9, 10), nil, nil, at(9, 0), 8, rules)
	if err != nil {
		t.Fatalf("check-in within grace failed: %v", err)
	}
	if decision.Status != models.StatusPresent || decision.MinutesLate != 10 {
		t.Fatalf("expected present/10, got %s/%d", decision.Status, decision.MinutesLate)
	}

	decision, err = Validate(checkInCode(), at(9, 16), nil, nil, at(9, 0), 8, rules)
	if err != nil {
		t.Fatalf("check-in past grace failed: %v", err)
	}
	if decision.Status != models.StatusLate || decision.MinutesLate != 16 {
		t.Fatalf("expected late/16, got %s/%d", decision.Status, decision.MinutesLate)
	}
}

func TestValidateCheckOut(t *testing.T) {
	rules := defaultRules()

	_, err := Validate(checkOutCode(), at(17, 0), nil, nil, at(9, 0), 8, rules)
	expectKind(t, err, KindNoCheckInFound)

	checkedOut := &models.Attendance{CheckInAt: at(8, 55), Status: models.StatusPresent}
	out := at(12, 0)
	checkedOut.CheckOutAt = &out
	_, err = Validate(checkOutCode(), at(17, 0), nil, checkedOut, at(9, 0), 8, rules)
	expectKind(t, err, KindDuplicateCheckOut)

	// In-window scan time that still precedes the recorded check-in.
	lateCheckIn := &models.Attendance{CheckInAt: at(22, 0), Status: models.StatusPresent}
	_, err = Validate(checkOutCode(), at(17, 0), nil, lateCheckIn, at(9, 0), 8, rules)
	expectKind(t, err, KindInvalidOrder)

	existing := &models.Attendance{CheckInAt: at(8, 55), Status: models.StatusPresent}
	decision, err := Validate(checkOutCode(), at(17, 0), nil, existing, at(9, 0), 8, rules)
	if err != nil {
		t.Fatalf("check-out failed: %v", err)
	}
	if decision.WorkHours != 8.08 {
		t.Fatalf("expected 8.08 work hours, got %f", decision.WorkHours)
	}
	if decision.Status != models.StatusPresent {
		t.Fatalf("expected status preserved, got %s", decision.Status)
	}
}

func TestValidateCheckOutHalfDay(t *testing.T) {
	rules := defaultRules()
	existing := &models.Attendance{CheckInAt: at(9, 0), Status: models.StatusPresent}

	decision, err := Validate(checkOutCode(), at(23, 0), nil, existing, at(9, 0), 8, rules)
	if err != nil {
		t.Fatalf("check-out failed: %v", err)
	}
	if decision.Status == models.StatusHalfDay {
		t.Fatalf("full day should not become half_day")
	}

	early := checkOutCode()
	early.ValidFrom = at(11, 0)
	decision, err = Validate(early, at(12, 0), nil, existing, at(9, 0), 8, rules)
	if err != nil {
		t.Fatalf("early check-out failed: %v", err)
	}
	if decision.Status != models.StatusHalfDay {
		t.Fatalf("3h of an 8h day should be half_day, got %s", decision.Status)
	}
	if decision.WorkHours != 3 {
		t.Fatalf("expected 3 work hours, got %f", decision.WorkHours)
	}
}

func TestValidateCheckOutPreservesLate(t *testing.T) {
	rules := defaultRules()
	existing := &models.Attendance{CheckInAt: at(9, 20), MinutesLate: 20, Status: models.StatusLate}

	decision, err := Validate(checkOutCode(), at(17, 30), nil, existing, at(9, 0), 8, rules)
	if err != nil {
		t.Fatalf("check-out failed: %v", err)
	}
	if decision.Status != models.StatusLate || decision.MinutesLate != 20 {
		t.Fatalf("expected late/20 preserved, got %s/%d", decision.Status, decision.MinutesLate)
	}
}
