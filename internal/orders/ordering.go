package orders

import (
	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
)

// Compare ranks two orders the way the dispatch board lists them: dated
// orders first by delivery date, then status priority, then insertion order.
// It returns -1 when a sorts before b, 1 when after, 0 when tied.
func Compare(a, b *models.Order) int {
	switch {
	case a.DeliveryDate != nil && b.DeliveryDate == nil:
		return -1
	case a.DeliveryDate == nil && b.DeliveryDate != nil:
		return 1
	case a.DeliveryDate != nil && b.DeliveryDate != nil:
		if a.DeliveryDate.Before(*b.DeliveryDate) {
			return -1
		}
		if b.DeliveryDate.Before(*a.DeliveryDate) {
			return 1
		}
	}

	if pa, pb := a.Status.ListPriority(), b.Status.ListPriority(); pa != pb {
		if pa < pb {
			return -1
		}
		return 1
	}

	if a.CreatedAt.Before(b.CreatedAt) {
		return -1
	}
	if b.CreatedAt.Before(a.CreatedAt) {
		return 1
	}
	return 0
}
