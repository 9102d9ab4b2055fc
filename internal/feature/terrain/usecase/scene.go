package usecase

import (
	"fmt"
	"time"

	"stock_terrain/internal/feature/terrain/domain/grid"
	"stock_terrain/internal/feature/terrain/domain/mesh"
	"stock_terrain/internal/feature/terrain/domain/pick"
)

// Kind はシーンのデータソース種別です。
type Kind string

const (
	KindCalendar  Kind = "calendar"
	KindSynthetic Kind = "synthetic"
)

// AdvisoryCode は画面に表示する注意メッセージの種別です。
type AdvisoryCode string

const (
	// AdvisoryFetchFailure は株価データを取得できず、0件として描画したことを示します。
	AdvisoryFetchFailure AdvisoryCode = "fetch_failure"
	// AdvisoryEmptyGrid は観測値が1件も無く、平坦なメッシュになったことを示します。
	AdvisoryEmptyGrid AdvisoryCode = "empty_grid"
	// AdvisoryDroppedSamples は対象年外・不正なサンプルを除外したことを示します。
	AdvisoryDroppedSamples AdvisoryCode = "dropped_samples"
)

// Advisory はビルドを止めない注意事項です。
type Advisory struct {
	Code    AdvisoryCode
	Message string
}

// Scene はビルド済みの地形一式です。生成後は変更されません。
type Scene struct {
	Kind       Kind
	Symbol     string
	Year       int
	Seed       int64
	Grid       *grid.Grid
	Range      grid.Range
	Mesh       *mesh.Mesh
	Projector  *mesh.Projector
	Report     grid.Report
	Advisories []Advisory
	BuiltAt    time.Time

	resolver *pick.Resolver
}

func newScene(kind Kind, g *grid.Grid, rng grid.Range, p *mesh.Projector, m *mesh.Mesh) *Scene {
	return &Scene{
		Kind:      kind,
		Grid:      g,
		Range:     rng,
		Mesh:      m,
		Projector: p,
		BuiltAt:   time.Now(),
		resolver:  pick.NewResolver(p),
	}
}

// Mapping returns the value mapping shared by projection and picking.
func (s *Scene) Mapping() mesh.ValueMapping { return s.Projector.Mapping() }

// Pick resolves r against the scene mesh.
func (s *Scene) Pick(r pick.Ray) pick.Result {
	return s.resolver.Resolve(r, s.Mesh)
}

// Key identifies the build parameters of the scene.
func (s *Scene) Key() string {
	if s.Kind == KindSynthetic {
		return fmt.Sprintf("synthetic:%d:%d", s.Seed, s.Grid.Rows())
	}
	return fmt.Sprintf("calendar:%s:%d", s.Symbol, s.Year)
}

// HasAdvisory reports whether the scene carries an advisory with code.
func (s *Scene) HasAdvisory(code AdvisoryCode) bool {
	for _, a := range s.Advisories {
		if a.Code == code {
			return true
		}
	}
	return false
}

func (s *Scene) advise(code AdvisoryCode, format string, args ...any) {
	s.Advisories = append(s.Advisories, Advisory{Code: code, Message: fmt.Sprintf(format, args...)})
}
