// Package twelvedata はTwelve Data株式市場APIのクライアントを提供します。
package twelvedata

import (
	"os"
	"time"
)

// DefaultBaseURL は TWELVE_DATA_BASE_URL が未設定の場合に使うエンドポイントです。
const DefaultBaseURL = "https://api.twelvedata.com"

// Config はTwelve Data APIクライアントの設定を保持します。
type Config struct {
	TwelveDataAPIKey string        // 認証用APIキー
	BaseURL          string        // APIのベースURL（例: "https://api.twelvedata.com"）
	Timeout          time.Duration // HTTPリクエストタイムアウト
}

// LoadConfig は環境変数からTwelve Dataの設定を読み込みます。
func LoadConfig() Config {
	base := os.Getenv("TWELVE_DATA_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return Config{
		TwelveDataAPIKey: os.Getenv("TWELVE_DATA_API_KEY"),
		BaseURL:          base,
		Timeout:          10 * time.Second,
	}
}

// Enabled はAPIキーが設定されているかを返します。
// キーが無い環境（ローカル開発など）では外部APIへの読み込みを行いません。
func (c Config) Enabled() bool {
	return c.TwelveDataAPIKey != ""
}
