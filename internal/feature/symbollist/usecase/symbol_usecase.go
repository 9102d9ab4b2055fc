// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"errors"
	"strings"

	"stock_terrain/internal/feature/symbollist/domain/entity"
)

// ErrInvalidCode is returned for an empty or whitespace-only symbol code.
var ErrInvalidCode = errors.New("symbol code is required")

// SymbolRepository abstracts the persistence layer for symbol (stock ticker) data.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	FindByCode(ctx context.Context, code string) (entity.Symbol, error)
	Upsert(ctx context.Context, symbols []entity.Symbol) error
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols returns all active symbols from the repository.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// ActiveCodes returns the codes the ingest job should fetch.
func (u *SymbolUsecase) ActiveCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}

// Lookup returns the active symbol for code. Codes are matched case-insensitively
// against the upper-cased form stored in the table.
func (u *SymbolUsecase) Lookup(ctx context.Context, code string) (entity.Symbol, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return entity.Symbol{}, ErrInvalidCode
	}
	return u.repo.FindByCode(ctx, code)
}

// Seed registers the given symbols, normalizing codes and skipping blanks.
// The position in the slice becomes the sort key.
func (u *SymbolUsecase) Seed(ctx context.Context, symbols []entity.Symbol) (int, error) {
	out := make([]entity.Symbol, 0, len(symbols))
	for i, s := range symbols {
		s.Code = strings.ToUpper(strings.TrimSpace(s.Code))
		if s.Code == "" {
			continue
		}
		if s.Name == "" {
			s.Name = s.Code
		}
		s.SortKey = i + 1
		s.IsActive = true
		out = append(out, s)
	}
	if err := u.repo.Upsert(ctx, out); err != nil {
		return 0, err
	}
	return len(out), nil
}
