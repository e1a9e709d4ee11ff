package enums

import "fmt"

// SecurityStatus is the sub-state of the physical inspection gate attached to
// an order between loading and departure.
type SecurityStatus string

const (
	SecurityStatusPending    SecurityStatus = "pending"
	SecurityStatusCompleted  SecurityStatus = "completed"
	SecurityStatusIncomplete SecurityStatus = "incomplete"
	SecurityStatusBypassed   SecurityStatus = "bypassed"
)

var validSecurityStatuses = []SecurityStatus{
	SecurityStatusPending,
	SecurityStatusCompleted,
	SecurityStatusIncomplete,
	SecurityStatusBypassed,
}

// IsValid reports whether the value is a known SecurityStatus.
func (s SecurityStatus) IsValid() bool {
	for _, candidate := range validSecurityStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// SecurityReason is the fixed taxonomy an inspector can flag when failing a
// security check.
type SecurityReason string

const (
	SecurityReasonMissingQuantity       SecurityReason = "missing_quantity"
	SecurityReasonDamagedProduct        SecurityReason = "damaged_product"
	SecurityReasonIncorrectLabeling     SecurityReason = "incorrect_labeling"
	SecurityReasonUnauthorizedProduct   SecurityReason = "unauthorized_product"
	SecurityReasonDocumentationMismatch SecurityReason = "documentation_mismatch"
	SecurityReasonExpiredProduct        SecurityReason = "expired_product"
	SecurityReasonImproperlyLoaded      SecurityReason = "improperly_loaded"
)

var validSecurityReasons = []SecurityReason{
	SecurityReasonMissingQuantity,
	SecurityReasonDamagedProduct,
	SecurityReasonIncorrectLabeling,
	SecurityReasonUnauthorizedProduct,
	SecurityReasonDocumentationMismatch,
	SecurityReasonExpiredProduct,
	SecurityReasonImproperlyLoaded,
}

// IsValid reports whether the value is a known SecurityReason.
func (s SecurityReason) IsValid() bool {
	for _, candidate := range validSecurityReasons {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSecurityReason converts the raw string to SecurityReason.
func ParseSecurityReason(value string) (SecurityReason, error) {
	for _, candidate := range validSecurityReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid security reason %q", value)
}
