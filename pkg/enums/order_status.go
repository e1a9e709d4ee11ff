package enums

import "fmt"

// OrderStatus tracks a sales order through fulfillment and settlement.
type OrderStatus string

const (
	OrderStatusPending                 OrderStatus = "pending"
	OrderStatusAssigned                OrderStatus = "assigned"
	OrderStatusProductsLoaded          OrderStatus = "products_loaded"
	OrderStatusProductReloaded         OrderStatus = "product_reloaded"
	OrderStatusSecurityCheckIncomplete OrderStatus = "security_check_incomplete"
	OrderStatusSecurityChecked         OrderStatus = "security_checked"
	OrderStatusSecurityCheckBypassed   OrderStatus = "security_check_bypassed"
	OrderStatusDepartedFarm            OrderStatus = "departed_farm"
	OrderStatusDelivered               OrderStatus = "delivered"
	OrderStatusCompleted               OrderStatus = "completed"
	OrderStatusCancelled               OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAssigned,
	OrderStatusProductsLoaded,
	OrderStatusProductReloaded,
	OrderStatusSecurityCheckIncomplete,
	OrderStatusSecurityChecked,
	OrderStatusSecurityCheckBypassed,
	OrderStatusDepartedFarm,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// listPriority orders statuses for the order list view. Lower sorts first.
var listPriority = map[OrderStatus]int{
	OrderStatusAssigned:                0,
	OrderStatusProductsLoaded:          1,
	OrderStatusSecurityChecked:         2,
	OrderStatusSecurityCheckIncomplete: 2,
	OrderStatusDepartedFarm:            3,
	OrderStatusDelivered:               4,
	OrderStatusCompleted:               5,
	OrderStatusPending:                 6,
	OrderStatusProductReloaded:         7,
	OrderStatusCancelled:               8,
	OrderStatusSecurityCheckBypassed:   9,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions leave this status.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusCompleted || o == OrderStatusCancelled
}

// ListPriority returns the sort rank used by order listings.
func (o OrderStatus) ListPriority() int {
	if p, ok := listPriority[o]; ok {
		return p
	}
	return len(listPriority)
}

// ParseOrderStatus converts the raw string to OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
