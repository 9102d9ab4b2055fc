// Package adapters は candles 機能の永続化層の実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_terrain/internal/feature/candles/domain/entity"
	"stock_terrain/internal/feature/candles/usecase"
)

type sampleGorm struct {
	db *gorm.DB
}

var _ usecase.SampleRepository = (*sampleGorm)(nil)

// NewSampleRepository は gorm を使った SampleRepository を返します。
func NewSampleRepository(db *gorm.DB) *sampleGorm {
	return &sampleGorm{db: db}
}

// SampleModel は samples テーブルの行です。
// interval / time は Postgres の予約語のため列名を変えています。
type SampleModel struct {
	ID         uint      `gorm:"primaryKey"`
	Symbol     string    `gorm:"size:32;not null;uniqueIndex:sample_sym_int_time,priority:1"`
	Interval   string    `gorm:"column:bar_interval;size:16;not null;uniqueIndex:sample_sym_int_time,priority:2"`
	ObservedAt time.Time `gorm:"column:observed_at;not null;uniqueIndex:sample_sym_int_time,priority:3"`

	Open   float64 `gorm:"not null"`
	High   float64 `gorm:"not null"`
	Low    float64 `gorm:"not null"`
	Close  float64 `gorm:"not null"`
	Volume int64   `gorm:"not null;default:0"`
}

func (SampleModel) TableName() string {
	return "samples"
}

func toModel(e entity.Sample) SampleModel {
	return SampleModel{
		Symbol:     e.Symbol,
		Interval:   e.Interval,
		ObservedAt: e.Time.UTC(),
		Open:       e.Open,
		High:       e.High,
		Low:        e.Low,
		Close:      e.Close,
		Volume:     e.Volume,
	}
}

func toEntity(m SampleModel) entity.Sample {
	return entity.Sample{
		Symbol:   m.Symbol,
		Interval: m.Interval,
		Time:     m.ObservedAt.UTC(),
		Open:     m.Open,
		High:     m.High,
		Low:      m.Low,
		Close:    m.Close,
		Volume:   m.Volume,
	}
}

func (r *sampleGorm) UpsertBatch(ctx context.Context, samples []entity.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	ms := make([]SampleModel, 0, len(samples))
	for _, e := range samples {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "bar_interval"}, {Name: "observed_at"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).CreateInBatches(&ms, 500).Error
}

func (r *sampleGorm) Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error) {
	var rows []SampleModel
	q := r.db.WithContext(ctx).
		Where("symbol = ? AND bar_interval = ?", symbol, interval).
		Order("observed_at DESC")
	if outputsize > 0 {
		q = q.Limit(outputsize)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Sample, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

func (r *sampleGorm) FindRange(ctx context.Context, symbol, interval string, from, to time.Time) ([]entity.Sample, error) {
	var rows []SampleModel
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND bar_interval = ? AND observed_at >= ? AND observed_at < ?", symbol, interval, from.UTC(), to.UTC()).
		Order("observed_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.Sample, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
