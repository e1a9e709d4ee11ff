package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/farmgatehq/farmgate-backend/pkg/db/models"
)

// counterRow is the singleton id of the receipt counter.
const counterRow = 1

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// ClaimReceiptNumber advances the counter and returns the claimed value. The
// row update takes a lock for the rest of the caller's transaction, so two
// concurrent settlements can never observe the same number.
func (r *repository) ClaimReceiptNumber(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ReceiptCounter{}).
		Where("id = ?", counterRow).
		UpdateColumn("last_no", gorm.Expr("last_no + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		seed := models.ReceiptCounter{ID: counterRow, LastNo: 1}
		if err := r.db.WithContext(ctx).Create(&seed).Error; err != nil {
			return 0, err
		}
		return seed.LastNo, nil
	}

	var counter models.ReceiptCounter
	if err := r.db.WithContext(ctx).First(&counter, "id = ?", counterRow).Error; err != nil {
		return 0, err
	}
	return counter.LastNo, nil
}
