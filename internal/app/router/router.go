// Package router はHTTPルーティングを組み立てます。
package router

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	candleshandler "stock_terrain/internal/feature/candles/transport/handler"
	symbollisthandler "stock_terrain/internal/feature/symbollist/transport/handler"
	terrainhandler "stock_terrain/internal/feature/terrain/transport/handler"
	"stock_terrain/internal/platform/http/handler"
	jwtmw "stock_terrain/internal/platform/jwt"
)

// Config はルーターの設定です。
type Config struct {
	JWTSecret      string
	AllowedOrigins []string // 空の場合はすべてのOriginを許可
}

// LoadConfig は環境変数からルーター設定を読み込みます。
// CORS_ALLOWED_ORIGINS はカンマ区切りで指定します。
func LoadConfig() Config {
	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return Config{
		JWTSecret:      os.Getenv(jwtmw.EnvKeyJWTSecret),
		AllowedOrigins: origins,
	}
}

// Handlers は登録するハンドラー一式です。
type Handlers struct {
	Candles *candleshandler.CandlesHandler
	Symbols *symbollisthandler.SymbolHandler
	Terrain *terrainhandler.TerrainHandler
	Views   *terrainhandler.ViewsHandler
	Ready   gin.HandlerFunc // nil の場合 /readyz は登録しない
}

// NewRouter はルーターを生成します。
func NewRouter(cfg Config, h Handlers) *gin.Engine {
	r := gin.Default()

	// Webサイトのフロントエンドから呼ばれるためCORSを許可する
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	if h.Ready != nil {
		r.GET("/readyz", h.Ready)
	}

	// 公開データ（マーケティングサイトのチャート・地形表示）
	r.GET("/symbols", h.Symbols.List)
	r.GET("/symbols/:code", h.Symbols.Get)
	r.GET("/candles/:code", h.Candles.GetCandlesHandler)
	r.GET("/terrain/synthetic", h.Terrain.GetSyntheticTerrain)
	r.GET("/terrain/:code", h.Terrain.GetCalendarTerrain)

	// 認証必須のルート
	// ビューアはユーザーごとの表示状態を持つため JWT の subject を所有者とする
	views := r.Group("/views")
	views.Use(jwtmw.AuthRequired(cfg.JWTSecret))
	{
		views.POST("", h.Views.Create)
		views.GET("/:id", h.Views.Get)
		views.DELETE("/:id", h.Views.Delete)
		views.PUT("/:id/scene", h.Views.PutScene)
		views.PUT("/:id/camera", h.Views.PutCamera)
		views.POST("/:id/pointer", h.Views.PostPointer)
		views.GET("/:id/stream", h.Views.Stream)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
