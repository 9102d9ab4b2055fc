// Package dto はterrainフィーチャーのHTTPリクエスト/レスポンスDTOを定義します。
package dto

import (
	"stock_terrain/internal/feature/terrain/domain/grid"
	"stock_terrain/internal/feature/terrain/domain/mesh"
)

// TerrainResponse はビルド済みシーンのレスポンスDTOです。
type TerrainResponse struct {
	Kind       string             `json:"kind"`             // calendar | synthetic
	Symbol     string             `json:"symbol,omitempty"` // 銘柄コード（カレンダー地形のみ）
	Year       int                `json:"year,omitempty"`   // 対象年（カレンダー地形のみ）
	Seed       *int64             `json:"seed,omitempty"`   // 乱数シード（合成地形のみ）
	Rows       int                `json:"rows"`
	Cols       int                `json:"cols"`
	Grid       [][]*float64       `json:"grid"` // 未充填のセルは null
	Range      grid.Range         `json:"range"`
	Mapping    mesh.ValueMapping  `json:"mapping"`
	Mesh       MeshResponse       `json:"mesh"`
	Advisories []AdvisoryResponse `json:"advisories"`
	Report     ReportResponse     `json:"report"`
}

// MeshResponse は描画エンジンへそのまま渡せるよう平坦化した頂点バッファです。
type MeshResponse struct {
	VertexCount   int       `json:"vertexCount"`
	TriangleCount int       `json:"triangleCount"`
	Positions     []float64 `json:"positions"` // x,y,z の繰り返し
	Normals       []float64 `json:"normals"`   // x,y,z の繰り返し
	Colors        []float64 `json:"colors"`    // r,g,b の繰り返し
	Heights       []float64 `json:"heights"`   // 正規化高さ [0,1]
	Indices       []int     `json:"indices"`   // 三角形ごとに3つ
	Bounds        Bounds    `json:"bounds"`
	Pickable      bool      `json:"pickable"`
}

// Bounds は軸平行境界ボックスです。
type Bounds struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// AdvisoryResponse は画面に表示する注意メッセージです。
type AdvisoryResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ReportResponse はグリッド構築時のサンプル集計です。
type ReportResponse struct {
	Written int  `json:"written"`
	Dropped int  `json:"dropped"`
	Empty   bool `json:"empty"`
}

// ErrorResponse はエラー時のレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}
