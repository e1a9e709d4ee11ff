package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmgatehq/farmgate-backend/pkg/enums"
)

// IncompleteNote carries the inspector's findings when a security check fails.
// At least one reason or a non-empty free-text note is required; construction
// is validated by the inspection package.
type IncompleteNote struct {
	Reasons []enums.SecurityReason `json:"reasons"`
	Note    string                 `json:"note,omitempty"`
}

// BypassNote records who skipped the security gate, when, and why. Only
// constructible outside the configured working-hours window.
type BypassNote struct {
	Reason      string    `json:"reason"`
	ActorUserID uuid.UUID `json:"actor_user_id"`
	BypassedAt  time.Time `json:"bypassed_at"`
	Note        string    `json:"note,omitempty"`
}

// SecurityNote is the tagged variant persisted on an order. Exactly one of
// Incomplete/Bypass is set, matching Status; both are nil while the check is
// pending or completed.
type SecurityNote struct {
	Status     enums.SecurityStatus `json:"status"`
	Incomplete *IncompleteNote      `json:"incomplete,omitempty"`
	Bypass     *BypassNote          `json:"bypass,omitempty"`
}

// NoSecurityNote is the zero state attached to new orders.
func NoSecurityNote() SecurityNote {
	return SecurityNote{Status: enums.SecurityStatusPending}
}
