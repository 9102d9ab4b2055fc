package usecase

import "errors"

var (
	// ErrInvalidSymbol は銘柄コードが空の場合に返されます。
	ErrInvalidSymbol = errors.New("symbol is required")
	// ErrInvalidYear は対象年が取り扱い範囲外の場合に返されます。
	ErrInvalidYear = errors.New("year is out of range")
	// ErrInvalidSize は合成地形の解像度が範囲外の場合に返されます。
	ErrInvalidSize = errors.New("synthetic size is out of range")

	// ErrStaleBuild は新しいリクエストに追い越されて破棄されたビルドを示します。
	ErrStaleBuild = errors.New("build superseded by a newer request")

	// ErrViewerNotFound は指定IDのビューアが存在しない場合に返されます。
	ErrViewerNotFound = errors.New("viewer not found")
	// ErrForbidden は他のユーザーのビューアを操作しようとした場合に返されます。
	ErrForbidden = errors.New("viewer belongs to another user")
	// ErrTooManyViewers はビューア数が上限に達している場合に返されます。
	ErrTooManyViewers = errors.New("too many viewers")
	// ErrNoScene はシーン未ロードのビューアでピックしようとした場合に返されます。
	ErrNoScene = errors.New("no scene loaded")
)
