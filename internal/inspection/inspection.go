// Package inspection builds the security-gate note variants attached to
// orders. It validates inspector payloads and enforces the working-hours rule
// on bypasses; persisting the note is the order engine's job.
package inspection

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/farmgatehq/farmgate-backend/pkg/clock"
	"github.com/farmgatehq/farmgate-backend/pkg/db/types"
	"github.com/farmgatehq/farmgate-backend/pkg/enums"
	pkgerrors "github.com/farmgatehq/farmgate-backend/pkg/errors"
)

// IncompleteInput carries the inspector's findings for a failed check.
type IncompleteInput struct {
	Reasons []string `json:"reasons,omitempty" validate:"omitempty,dive,required"`
	Note    string   `json:"note,omitempty"`
}

// BypassInput carries the off-hours bypass justification.
type BypassInput struct {
	Reason      string    `json:"reason" validate:"required"`
	Note        string    `json:"note,omitempty"`
	ActorUserID uuid.UUID `json:"-"`
}

// BuildCompleted marks the security check as passed.
func BuildCompleted() types.SecurityNote {
	return types.SecurityNote{Status: enums.SecurityStatusCompleted}
}

// BuildIncomplete validates and assembles the incomplete variant. An
// inspector must supply at least one taxonomy reason or a non-empty note.
// Re-editing an incomplete check just rebuilds the note from scratch.
func BuildIncomplete(input IncompleteInput) (types.SecurityNote, error) {
	note := strings.TrimSpace(input.Note)
	if len(input.Reasons) == 0 && note == "" {
		return types.SecurityNote{}, pkgerrors.New(pkgerrors.CodeValidation, "at least one reason or a note is required")
	}

	reasons := make([]enums.SecurityReason, 0, len(input.Reasons))
	seen := map[enums.SecurityReason]bool{}
	for _, raw := range input.Reasons {
		reason, err := enums.ParseSecurityReason(raw)
		if err != nil {
			return types.SecurityNote{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		if seen[reason] {
			continue
		}
		seen[reason] = true
		reasons = append(reasons, reason)
	}

	return types.SecurityNote{
		Status: enums.SecurityStatusIncomplete,
		Incomplete: &types.IncompleteNote{
			Reasons: reasons,
			Note:    note,
		},
	}, nil
}

// BuildBypass validates and assembles the bypass variant. Bypassing is only
// legal outside the configured working-hours window; inside it the gate must
// be inspected properly.
func BuildBypass(input BypassInput, hours clock.WorkingHours, now time.Time) (types.SecurityNote, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return types.SecurityNote{}, pkgerrors.New(pkgerrors.CodeValidation, "bypass reason required")
	}
	if input.ActorUserID == uuid.Nil {
		return types.SecurityNote{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if hours.Contains(now) {
		return types.SecurityNote{}, pkgerrors.New(pkgerrors.CodeInvalidTransition, "bypass not permitted during working hours")
	}

	return types.SecurityNote{
		Status: enums.SecurityStatusBypassed,
		Bypass: &types.BypassNote{
			Reason:      reason,
			ActorUserID: input.ActorUserID,
			BypassedAt:  now,
			Note:        strings.TrimSpace(input.Note),
		},
	}, nil
}
