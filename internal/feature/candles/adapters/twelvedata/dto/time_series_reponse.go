// Package dto はTwelve Data APIレスポンスのデータ転送オブジェクトを定義します。
package dto

// TimeSeriesResponse はTwelve Data time_seriesエンドポイントからのJSONレスポンスを表します。
// エラー時は HTTP 200 のまま status="error" と code/message が返ります。
type TimeSeriesResponse struct {
	Status  string  `json:"status"`
	Code    int     `json:"code,omitempty"`
	Message string  `json:"message,omitempty"`
	Meta    Meta    `json:"meta"`
	Values  []Value `json:"values"`
}

// Meta はレスポンスのメタ情報です。
type Meta struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Exchange string `json:"exchange,omitempty"`
	Timezone string `json:"exchange_timezone,omitempty"`
}

// Value は1本のバーです。数値はすべて文字列で返されます。
type Value struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}
