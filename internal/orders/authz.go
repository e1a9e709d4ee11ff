package orders

import "github.com/farmgatehq/farmgate-backend/pkg/enums"

// fieldAgentTargets enumerates the forward path a field agent may drive. The
// agent moves the truck; inspecting and settling are other roles' jobs.
var fieldAgentTargets = map[enums.OrderStatus][]enums.TransitionTarget{
	enums.OrderStatusAssigned:                {enums.TargetProductsLoaded},
	enums.OrderStatusSecurityCheckIncomplete: {enums.TargetProductReloaded},
	enums.OrderStatusSecurityChecked:         {enums.TargetDepartedFarm},
	enums.OrderStatusSecurityCheckBypassed:   {enums.TargetDepartedFarm},
	enums.OrderStatusDepartedFarm: {
		enums.TargetDeliveredPaymentCollected,
		enums.TargetDeliveredPaymentPartiallyCollected,
	},
}

// inspectorTargets covers the security gate, including idempotent re-edits of
// an incomplete check.
var inspectorTargets = map[enums.OrderStatus][]enums.TransitionTarget{
	enums.OrderStatusProductsLoaded: {
		enums.TargetSecurityChecked,
		enums.TargetSecurityCheckIncomplete,
		enums.TargetSecurityCheckBypassed,
	},
	enums.OrderStatusProductReloaded: {
		enums.TargetSecurityChecked,
		enums.TargetSecurityCheckIncomplete,
		enums.TargetSecurityCheckBypassed,
	},
	enums.OrderStatusSecurityCheckIncomplete: {enums.TargetSecurityCheckIncomplete},
}

// roleAllowsTransition is the static authorization table. Back-office roles
// may request anything except the bypass, which is reserved for inspectors.
func roleAllowsTransition(role enums.Role, current enums.OrderStatus, target enums.TransitionTarget) bool {
	if target == enums.TargetSecurityCheckBypassed {
		return role == enums.RoleInspector
	}
	if role.IsBackOffice() {
		return true
	}

	var table map[enums.OrderStatus][]enums.TransitionTarget
	switch role {
	case enums.RoleFieldAgent:
		table = fieldAgentTargets
	case enums.RoleInspector:
		table = inspectorTargets
	default:
		return false
	}
	for _, allowed := range table[current] {
		if allowed == target {
			return true
		}
	}
	return false
}
