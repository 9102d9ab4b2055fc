package usecase

import "errors"

var (
	// ErrFetchFailure は株価データの取得（DB・キャッシュ・外部API）に失敗したことを示します。
	// 呼び出し側はサンプル0件として扱い、画面に注意メッセージを出して処理を続けます。
	ErrFetchFailure = errors.New("failed to fetch samples")

	// ErrInvalidSymbol は銘柄コードが空の場合に返されます。
	ErrInvalidSymbol = errors.New("symbol is required")

	// ErrInvalidYear は対象年が取り扱い範囲外の場合に返されます。
	ErrInvalidYear = errors.New("year is out of range")
)
