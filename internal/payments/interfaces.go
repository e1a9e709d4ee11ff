package payments

import (
	"context"

	"gorm.io/gorm"
)

// Repository defines persistence operations for payment settlement.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ClaimReceiptNumber(ctx context.Context) (int64, error)
}
