package attendance

import (
	"math"
	"time"

	"attendance-backend/internal/models"
)

// Rules carries the scan acceptance policy. Defaults come from config and can
// be overridden at runtime through the settings store.
type Rules struct {
	LateGraceMinutes   int
	GeoToleranceMeters float64
}

// Decision is the advisory outcome of a validated scan. It carries everything
// the recorder needs; validation itself never touches storage.
type Decision struct {
	Intent          string
	Status          string
	MinutesLate     int
	WorkHours       float64
	ScanTime        time.Time
	ExpectedArrival time.Time
	Location        *Point
}

// Validate applies the scan acceptance rules in order: code state, validity
// window, geofence, then per-intent day-state checks. existing is the
// employee's attendance row for the scan day, nil when there is none.
func Validate(code *models.QRCode, scanTime time.Time, scanLoc *Point, existing *models.Attendance, expectedArrival time.Time, scheduledHours float64, rules Rules) (Decision, error) {
	if code == nil {
		return Decision{}, ruleError(KindNotFound, "qr code not found")
	}
	if !code.IsActive {
		return Decision{}, ruleError(KindInactive, "qr code is no longer active")
	}
	if scanTime.Before(code.ValidFrom) || scanTime.After(code.ValidUntil) {
		return Decision{}, ruleError(KindExpired, "qr code is outside its validity window")
	}
	if scanLoc != nil {
		bound := Point{Latitude: code.Latitude, Longitude: code.Longitude}
		if DistanceMeters(*scanLoc, bound) > rules.GeoToleranceMeters {
			return Decision{}, ruleError(KindLocationMismatch, "scan location is outside the allowed radius")
		}
	}

	switch code.Type {
	case models.QRTypeCheckIn:
		return validateCheckIn(scanTime, scanLoc, existing, expectedArrival, rules)
	case models.QRTypeCheckOut:
		return validateCheckOut(scanTime, scanLoc, existing, scheduledHours)
	default:
		return Decision{}, ruleError(KindValidationError, "unknown qr code type")
	}
}

func validateCheckIn(scanTime time.Time, scanLoc *Point, existing *models.Attendance, expectedArrival time.Time, rules Rules) (Decision, error) {
	if existing != nil {
		return Decision{}, ruleError(KindDuplicateCheckIn, "already checked in for this day")
	}

	minutesLate := 0
	if scanTime.After(expectedArrival) {
		minutesLate = int(scanTime.Sub(expectedArrival).Minutes())
	}
	status := models.StatusPresent
	if minutesLate > rules.LateGraceMinutes {
		status = models.StatusLate
	}

	return Decision{
		Intent:          models.QRTypeCheckIn,
		Status:          status,
		MinutesLate:     minutesLate,
		ScanTime:        scanTime,
		ExpectedArrival: expectedArrival,
		Location:        scanLoc,
	}, nil
}

func validateCheckOut(scanTime time.Time, scanLoc *Point, existing *models.Attendance, scheduledHours float64) (Decision, error) {
	if existing == nil {
		return Decision{}, ruleError(KindNoCheckInFound, "no check-in found for this day")
	}
	if existing.CheckOutAt != nil {
		return Decision{}, ruleError(KindDuplicateCheckOut, "already checked out for this day")
	}
	// Unreachable with a monotonic clock, checked anyway.
	if scanTime.Before(existing.CheckInAt) {
		return Decision{}, ruleError(KindInvalidOrder, "check-out cannot precede check-in")
	}

	workHours := math.Round(scanTime.Sub(existing.CheckInAt).Hours()*100) / 100
	status := existing.Status
	if scheduledHours > 0 && workHours < scheduledHours/2 {
		status = models.StatusHalfDay
	}

	return Decision{
		Intent:      models.QRTypeCheckOut,
		Status:      status,
		MinutesLate: existing.MinutesLate,
		WorkHours:   workHours,
		ScanTime:    scanTime,
		Location:    scanLoc,
	}, nil
}
