package models

// ReceiptCounter backs receipt number generation. A single row holds the last
// issued number; claims happen inside the payment transaction so a number is
// never reused even across concurrent settlements.
type ReceiptCounter struct {
	ID     int   `gorm:"column:id;primaryKey"`
	LastNo int64 `gorm:"column:last_no;not null;default:0"`
}
