package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_terrain/internal/feature/symbollist/domain/entity"
	"stock_terrain/internal/feature/symbollist/transport/handler"
	"stock_terrain/internal/feature/symbollist/usecase"
)

// mockSymbolUsecase はSymbolUsecaseインターフェースのモック実装です。
type mockSymbolUsecase struct {
	ListFunc   func(ctx context.Context) ([]entity.Symbol, error)
	LookupFunc func(ctx context.Context, code string) (entity.Symbol, error)
}

func (m *mockSymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return m.ListFunc(ctx)
}

func (m *mockSymbolUsecase) Lookup(ctx context.Context, code string) (entity.Symbol, error) {
	return m.LookupFunc(ctx, code)
}

func newRouter(uc handler.SymbolUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewSymbolHandler(uc)
	r := gin.New()
	r.GET("/symbols", h.List)
	r.GET("/symbols/:code", h.Get)
	return r
}

// TestSymbolHandler_List は一覧APIのレスポンスを検証します。
func TestSymbolHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		list           func(ctx context.Context) ([]entity.Symbol, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: returns symbols with market",
			list: func(ctx context.Context) ([]entity.Symbol, error) {
				return []entity.Symbol{{Code: "7203.T", Name: "Toyota Motor", Market: "TSE", SortKey: 1}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"code":"7203.T","name":"Toyota Motor","market":"TSE"}]`,
		},
		{
			name:           "success: empty list",
			list:           func(ctx context.Context) ([]entity.Symbol, error) { return nil, nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "error: usecase fails",
			list:           func(ctx context.Context) ([]entity.Symbol, error) { return nil, errors.New("database error") },
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"database error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&mockSymbolUsecase{ListFunc: tt.list})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/symbols", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestSymbolHandler_Get は1銘柄取得APIのステータスコードを検証します。
func TestSymbolHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"found", nil, http.StatusOK},
		{"invalid code", usecase.ErrInvalidCode, http.StatusBadRequest},
		{"not found", entity.ErrSymbolNotFound, http.StatusNotFound},
		{"db error", errors.New("database error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&mockSymbolUsecase{LookupFunc: func(ctx context.Context, code string) (entity.Symbol, error) {
				assert.Equal(t, "AAPL", code)
				return entity.Symbol{Code: "AAPL", Name: "Apple", Market: "NASDAQ"}, tt.err
			}})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/symbols/AAPL", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.err == nil {
				assert.JSONEq(t, `{"code":"AAPL","name":"Apple","market":"NASDAQ"}`, w.Body.String())
			}
		})
	}
}
