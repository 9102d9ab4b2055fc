// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// Check は依存サービス（DB・Redis）の疎通確認です。
type Check func(ctx context.Context) error

// Health は /healthz の liveness を返します。依存サービスは確認しません。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Readiness は登録された全チェックを実行し、1つでも失敗すれば 503 を返します。
// 任意の依存（Redis未設定など）は checks に含めないでください。
func Readiness(checks map[string]Check) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for n := range checks {
		names = append(names, n)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		status := http.StatusOK
		result := make(map[string]string, len(names))
		for _, n := range names {
			if err := checks[n](ctx); err != nil {
				status = http.StatusServiceUnavailable
				result[n] = err.Error()
				continue
			}
			result[n] = "ok"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": result})
	}
}
