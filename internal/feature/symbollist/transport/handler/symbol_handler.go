// Package handler はsymbollistフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_terrain/internal/feature/symbollist/domain/entity"
	"stock_terrain/internal/feature/symbollist/transport/http/dto"
	"stock_terrain/internal/feature/symbollist/usecase"
)

// SymbolUsecase は銘柄情報に関するユースケースのインターフェースです。
type SymbolUsecase interface {
	ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error)
	Lookup(ctx context.Context, code string) (entity.Symbol, error)
}

// SymbolHandler は銘柄情報に関するHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List は有効な銘柄の一覧を返します。Usecaseでエラーが発生した場合は500を返します。
func (h *SymbolHandler) List(c *gin.Context) {
	symbols, err := h.uc.ListActiveSymbols(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, toItem(s))
	}
	c.JSON(http.StatusOK, out)
}

// Get は GET /symbols/:code で1銘柄を返します。
func (h *SymbolHandler) Get(c *gin.Context) {
	s, err := h.uc.Lookup(c.Request.Context(), c.Param("code"))
	switch {
	case errors.Is(err, usecase.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, entity.ErrSymbolNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toItem(s))
}

func toItem(s entity.Symbol) dto.SymbolItem {
	return dto.SymbolItem{Code: s.Code, Name: s.Name, Market: s.Market}
}
