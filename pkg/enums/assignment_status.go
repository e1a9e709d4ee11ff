package enums

import "fmt"

// AssignmentStatus tracks on-demand stock handed to a field agent.
type AssignmentStatus string

const (
	AssignmentStatusActive    AssignmentStatus = "active"
	AssignmentStatusCompleted AssignmentStatus = "completed"
	AssignmentStatusCancelled AssignmentStatus = "cancelled"
)

var validAssignmentStatuses = []AssignmentStatus{
	AssignmentStatusActive,
	AssignmentStatusCompleted,
	AssignmentStatusCancelled,
}

// IsValid reports whether the value is a known AssignmentStatus.
func (a AssignmentStatus) IsValid() bool {
	for _, candidate := range validAssignmentStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the assignment can no longer record sales or
// returns.
func (a AssignmentStatus) IsTerminal() bool {
	return a == AssignmentStatusCompleted || a == AssignmentStatusCancelled
}

// ParseAssignmentStatus converts the raw string to AssignmentStatus.
func ParseAssignmentStatus(value string) (AssignmentStatus, error) {
	for _, candidate := range validAssignmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assignment status %q", value)
}
