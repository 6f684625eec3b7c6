package attendance

import "errors"

// Error kinds surfaced to API clients. Business-rule failures map to 4xx with
// the kind in the response body; anything else is a 5xx.
const (
	KindNotFound          = "NotFound"
	KindInactive          = "Inactive"
	KindExpired           = "Expired"
	KindLocationMismatch  = "LocationMismatch"
	KindDuplicateCheckIn  = "DuplicateCheckIn"
	KindDuplicateCheckOut = "DuplicateCheckOut"
	KindNoCheckInFound    = "NoCheckInFound"
	KindInvalidOrder      = "InvalidOrder"
	KindUnauthorized      = "Unauthorized"
	KindValidationError   = "ValidationError"
	KindStorageConflict   = "StorageConflict"
)

type RuleError struct {
	Kind    string
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

func ruleError(kind string, message string) *RuleError {
	return &RuleError{Kind: kind, Message: message}
}

// KindOf extracts the rule-error kind, or "" for non-rule errors.
func KindOf(err error) string {
	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr.Kind
	}
	return ""
}
