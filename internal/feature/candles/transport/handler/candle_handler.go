// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_terrain/internal/feature/candles/domain/entity"
	"stock_terrain/internal/feature/candles/transport/http/dto"
	"stock_terrain/internal/feature/candles/usecase"
)

// CandlesUsecase はローソク足データ操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CandlesUsecase interface {
	GetCandles(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error)
	YearSamples(ctx context.Context, symbol string, year int) ([]entity.Sample, error)
}

// CandlesHandler はローソク足データのHTTPリクエストを処理します。
type CandlesHandler struct {
	uc CandlesUsecase
}

// NewCandlesHandler は指定されたusecaseでCandlesHandlerの新しいインスタンスを生成します。
func NewCandlesHandler(uc CandlesUsecase) *CandlesHandler {
	return &CandlesHandler{uc: uc}
}

// GetCandlesHandler は銘柄コードと時間間隔を受け取り、ローソク足データをJSONで返します。
// year が指定された場合はその年の日足を古い順に返します。
//
// エンドポイント例:
// GET /candles/:code?interval=1day&outputsize=200
// GET /candles/:code?year=2023
func (h *CandlesHandler) GetCandlesHandler(c *gin.Context) {
	code := c.Param("code")

	var (
		samples []entity.Sample
		err     error
	)
	if y := c.Query("year"); y != "" {
		year, convErr := strconv.Atoi(y)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "year must be an integer"})
			return
		}
		samples, err = h.uc.YearSamples(c.Request.Context(), code, year)
	} else {
		// 未指定の場合はデフォルト値を使用
		interval := c.DefaultQuery("interval", usecase.DefaultInterval)
		outputsize, _ := strconv.Atoi(c.DefaultQuery("outputsize", "200"))
		samples, err = h.uc.GetCandles(c.Request.Context(), code, interval, outputsize)
	}

	if err != nil {
		c.JSON(statusOf(err), dto.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.CandleResponse, 0, len(samples))
	for _, x := range samples {
		out = append(out, dto.CandleResponse{
			Time:   x.Time.UTC().Format("2006-01-02"),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}

	c.JSON(http.StatusOK, out)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidSymbol), errors.Is(err, usecase.ErrInvalidYear):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
