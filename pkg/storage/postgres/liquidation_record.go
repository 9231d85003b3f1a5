package postgres

import "time"

// LiquidationRecord archives one liquidation event. Liquidations carry
// no upstream identity and duplicates are legitimate, so there is no
// unique constraint; every inserted event is kept.
type LiquidationRecord struct {
	ID uint `gorm:"primaryKey"`

	Symbol    string    `gorm:"type:text;not null;index:idx_liq_symbol"`
	Side      string    `gorm:"type:varchar(8);not null"`
	Price     float64   `gorm:"type:numeric;not null"`
	AmountUSD float64   `gorm:"type:numeric;not null"`
	Timestamp time.Time `gorm:"not null;index:idx_liq_timestamp"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the default table name for GORM.
func (LiquidationRecord) TableName() string {
	return "liquidation_record"
}
