package postgres

import (
	"context"
	"time"

	"liqheat/internal/heatmap"
)

// ArchiveLiquidations batch-inserts liquidation events. Satisfies the
// overlay.Archiver interface.
func (p *PostgresClient) ArchiveLiquidations(ctx context.Context, symbol string, events []heatmap.LiquidationEvent) error {
	if len(events) == 0 {
		return nil
	}

	records := make([]LiquidationRecord, 0, len(events))
	for _, ev := range events {
		records = append(records, *ToLiquidationRecord(symbol, ev))
	}

	return p.DB.WithContext(ctx).CreateInBatches(records, 200).Error
}

func (p *PostgresClient) GetRecentLiquidations(ctx context.Context, symbol string, since time.Time) ([]LiquidationRecord, error) {
	var records []LiquidationRecord
	err := p.DB.WithContext(ctx).
		Where("symbol = ? AND timestamp >= ?", symbol, since).
		Order("timestamp ASC").
		Find(&records).Error

	if err != nil {
		return nil, err
	}
	return records, nil
}

func (p *PostgresClient) DeleteOldLiquidations(ctx context.Context, before time.Time) error {
	return p.DB.WithContext(ctx).
		Where("timestamp < ?", before).
		Delete(&LiquidationRecord{}).Error
}

// ToLiquidationRecord converts an event into an archive row.
func ToLiquidationRecord(symbol string, ev heatmap.LiquidationEvent) *LiquidationRecord {
	return &LiquidationRecord{
		Symbol:    symbol,
		Side:      string(ev.Side),
		Price:     ev.Price,
		AmountUSD: ev.AmountUSD,
		Timestamp: time.UnixMilli(ev.TimestampMs).UTC(),
	}
}
