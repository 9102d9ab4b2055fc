// Package adapters はsymbollistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_terrain/internal/feature/symbollist/domain/entity"
	"stock_terrain/internal/feature/symbollist/usecase"
)

// symbolGorm はSymbolRepositoryインターフェースのgorm実装です。
type symbolGorm struct {
	db *gorm.DB
}

var _ usecase.SymbolRepository = (*symbolGorm)(nil)

// NewSymbolRepository は指定されたDB接続でリポジトリの新しいインスタンスを生成します。
func NewSymbolRepository(db *gorm.DB) *symbolGorm {
	return &symbolGorm{db: db}
}

// ListActive はsort_key順にすべてのアクティブな銘柄を返します。
func (r *symbolGorm) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// ListActiveCodes はsort_key順にアクティブな銘柄のコードのみを返します。
func (r *symbolGorm) ListActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Symbol{}).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// FindByCode はコードに一致するアクティブな銘柄を返します。
// 見つからない場合は entity.ErrSymbolNotFound を返します。
func (r *symbolGorm) FindByCode(ctx context.Context, code string) (entity.Symbol, error) {
	var s entity.Symbol
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", code, true).
		Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Symbol{}, entity.ErrSymbolNotFound
	}
	if err != nil {
		return entity.Symbol{}, err
	}
	return s, nil
}

// Upsert はコードをキーに銘柄を登録または更新します（名称・市場・並び順・有効フラグ）。
func (r *symbolGorm) Upsert(ctx context.Context, symbols []entity.Symbol) error {
	if len(symbols) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "market", "sort_key", "is_active", "updated_at"}),
	}).Create(&symbols).Error
}
