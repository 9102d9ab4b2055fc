// Package handler はterrainフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stock_terrain/internal/feature/terrain/transport/http/dto"
	"stock_terrain/internal/feature/terrain/usecase"
)

// TerrainUsecase は地形シーン生成のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TerrainUsecase interface {
	BuildCalendar(ctx context.Context, symbol string, year int) (*usecase.Scene, error)
	BuildSynthetic(seed int64, size int) (*usecase.Scene, error)
}

// TerrainHandler は地形データのHTTPリクエストを処理します。
type TerrainHandler struct {
	uc          TerrainUsecase
	defaultSeed int64
	now         func() time.Time
}

// NewTerrainHandler は新しいTerrainHandlerを生成します。
// defaultSeed は seed クエリが省略された合成地形に使われます。
func NewTerrainHandler(uc TerrainUsecase, defaultSeed int64) *TerrainHandler {
	return &TerrainHandler{uc: uc, defaultSeed: defaultSeed, now: time.Now}
}

// GetCalendarTerrain は銘柄と年から12×31の価格地形を返します。year を省略した場合は今年です。
//
// エンドポイント例:
// GET /terrain/:code?year=2023
func (h *TerrainHandler) GetCalendarTerrain(c *gin.Context) {
	year := h.now().Year()
	if y := c.Query("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "year must be an integer"})
			return
		}
		year = v
	}

	s, err := h.uc.BuildCalendar(c.Request.Context(), c.Param("code"), year)
	if err != nil {
		c.JSON(statusOf(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toTerrainResponse(s))
}

// GetSyntheticTerrain はノイズから生成したデモ用地形を返します。
//
// エンドポイント例:
// GET /terrain/synthetic?seed=42&size=64
func (h *TerrainHandler) GetSyntheticTerrain(c *gin.Context) {
	seed := h.defaultSeed
	if v := c.Query("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "seed must be an integer"})
			return
		}
		seed = n
	}
	size := 0
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "size must be an integer"})
			return
		}
		size = n
	}

	s, err := h.uc.BuildSynthetic(seed, size)
	if err != nil {
		c.JSON(statusOf(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toTerrainResponse(s))
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidSymbol),
		errors.Is(err, usecase.ErrInvalidYear),
		errors.Is(err, usecase.ErrInvalidSize):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrViewerNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrTooManyViewers):
		return http.StatusTooManyRequests
	case errors.Is(err, usecase.ErrStaleBuild), errors.Is(err, usecase.ErrNoScene):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
