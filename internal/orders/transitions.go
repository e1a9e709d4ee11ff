package orders

import "github.com/farmgatehq/farmgate-backend/pkg/enums"

// transitionGraph maps each persisted status to the targets reachable from
// it, independent of role. Cancellation stays open until an order settles;
// an incomplete check may be re-submitted in place to amend its note.
var transitionGraph = map[enums.OrderStatus][]enums.TransitionTarget{
	enums.OrderStatusPending: {
		enums.TargetAssigned,
		enums.TargetCancelled,
	},
	enums.OrderStatusAssigned: {
		enums.TargetProductsLoaded,
		enums.TargetCancelled,
	},
	enums.OrderStatusProductsLoaded: {
		enums.TargetSecurityChecked,
		enums.TargetSecurityCheckIncomplete,
		enums.TargetSecurityCheckBypassed,
		enums.TargetCancelled,
	},
	enums.OrderStatusProductReloaded: {
		enums.TargetSecurityChecked,
		enums.TargetSecurityCheckIncomplete,
		enums.TargetSecurityCheckBypassed,
		enums.TargetCancelled,
	},
	enums.OrderStatusSecurityCheckIncomplete: {
		enums.TargetSecurityCheckIncomplete,
		enums.TargetProductReloaded,
		enums.TargetCancelled,
	},
	enums.OrderStatusSecurityChecked: {
		enums.TargetDepartedFarm,
		enums.TargetCancelled,
	},
	enums.OrderStatusSecurityCheckBypassed: {
		enums.TargetDepartedFarm,
		enums.TargetCancelled,
	},
	enums.OrderStatusDepartedFarm: {
		enums.TargetDeliveredPaymentCollected,
		enums.TargetDeliveredPaymentPartiallyCollected,
		enums.TargetCancelled,
	},
	enums.OrderStatusDelivered: {
		enums.TargetCompleted,
	},
	enums.OrderStatusCompleted: {},
	enums.OrderStatusCancelled: {},
}

// graphAllowsTransition reports whether target is reachable from current.
func graphAllowsTransition(current enums.OrderStatus, target enums.TransitionTarget) bool {
	for _, allowed := range transitionGraph[current] {
		if allowed == target {
			return true
		}
	}
	return false
}
