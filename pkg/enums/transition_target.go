package enums

import "fmt"

// TransitionTarget is the state an actor requests for an order. It covers the
// persisted statuses plus two virtual payment triggers that are never stored:
// both route through payment reconciliation and commit as "delivered".
type TransitionTarget string

const (
	TargetPending                 TransitionTarget = TransitionTarget(OrderStatusPending)
	TargetAssigned                TransitionTarget = TransitionTarget(OrderStatusAssigned)
	TargetProductsLoaded          TransitionTarget = TransitionTarget(OrderStatusProductsLoaded)
	TargetProductReloaded         TransitionTarget = TransitionTarget(OrderStatusProductReloaded)
	TargetSecurityCheckIncomplete TransitionTarget = TransitionTarget(OrderStatusSecurityCheckIncomplete)
	TargetSecurityChecked         TransitionTarget = TransitionTarget(OrderStatusSecurityChecked)
	TargetSecurityCheckBypassed   TransitionTarget = TransitionTarget(OrderStatusSecurityCheckBypassed)
	TargetDepartedFarm            TransitionTarget = TransitionTarget(OrderStatusDepartedFarm)
	TargetCompleted               TransitionTarget = TransitionTarget(OrderStatusCompleted)
	TargetCancelled               TransitionTarget = TransitionTarget(OrderStatusCancelled)

	TargetDeliveredPaymentCollected          TransitionTarget = "delivered_payment_collected"
	TargetDeliveredPaymentPartiallyCollected TransitionTarget = "delivered_payment_partially_collected"
)

var validTransitionTargets = []TransitionTarget{
	TargetPending,
	TargetAssigned,
	TargetProductsLoaded,
	TargetProductReloaded,
	TargetSecurityCheckIncomplete,
	TargetSecurityChecked,
	TargetSecurityCheckBypassed,
	TargetDepartedFarm,
	TargetCompleted,
	TargetCancelled,
	TargetDeliveredPaymentCollected,
	TargetDeliveredPaymentPartiallyCollected,
}

// String implements fmt.Stringer.
func (t TransitionTarget) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransitionTarget.
func (t TransitionTarget) IsValid() bool {
	for _, candidate := range validTransitionTargets {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsPaymentTrigger reports whether the target is one of the virtual payment
// triggers that commit as OrderStatusDelivered.
func (t TransitionTarget) IsPaymentTrigger() bool {
	return t == TargetDeliveredPaymentCollected || t == TargetDeliveredPaymentPartiallyCollected
}

// CommittedStatus returns the persisted status a successful transition to this
// target writes.
func (t TransitionTarget) CommittedStatus() OrderStatus {
	if t.IsPaymentTrigger() {
		return OrderStatusDelivered
	}
	return OrderStatus(t)
}

// ParseTransitionTarget converts the raw string to TransitionTarget.
func ParseTransitionTarget(value string) (TransitionTarget, error) {
	for _, candidate := range validTransitionTargets {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transition target %q", value)
}
