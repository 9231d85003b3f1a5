package postgres

import (
	"context"
	"time"

	"liqheat/internal/heatmap"

	"gorm.io/gorm/clause"
)

// InsertCandle archives a candle; re-fetched duplicates of the same
// (symbol, interval, start) are skipped silently.
func (p *PostgresClient) InsertCandle(ctx context.Context, record *CandleRecord) error {
	return p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "symbol"},
			{Name: "interval"},
			{Name: "start"},
		},
		DoNothing: true,
	}).Create(record).Error
}

// ArchiveCandles batch-archives a fetched candle window. Satisfies the
// overlay.Archiver interface.
func (p *PostgresClient) ArchiveCandles(ctx context.Context, symbol, interval string, candles []heatmap.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	records := make([]CandleRecord, 0, len(candles))
	for _, c := range candles {
		records = append(records, *ToCandleRecord(symbol, interval, c))
	}

	return p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "symbol"},
			{Name: "interval"},
			{Name: "start"},
		},
		DoNothing: true,
	}).CreateInBatches(records, 200).Error
}

func (p *PostgresClient) GetCandle(ctx context.Context, symbol, interval string, start time.Time) (*CandleRecord, error) {
	var candle CandleRecord
	err := p.DB.WithContext(ctx).
		Where("symbol = ? AND interval = ? AND start = ?", symbol, interval, start).
		First(&candle).Error

	if err != nil {
		return nil, err
	}
	return &candle, nil
}

func (p *PostgresClient) DeleteOldCandles(ctx context.Context, before time.Time) error {
	return p.DB.WithContext(ctx).
		Where("start < ?", before).
		Delete(&CandleRecord{}).Error
}

// ToCandleRecord converts a candle and its symbol/interval into an
// archive row.
func ToCandleRecord(symbol, interval string, c heatmap.Candle) *CandleRecord {
	return &CandleRecord{
		Symbol:   symbol,
		Interval: interval,
		Start:    time.Unix(int64(c.Time), 0).UTC(),
		Open:     c.Open,
		High:     c.High,
		Low:      c.Low,
		Close:    c.Close,
	}
}
