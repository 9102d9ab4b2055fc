package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"stock_terrain/internal/feature/terrain/domain/camera"
	"stock_terrain/internal/feature/terrain/domain/pick"
)

// SceneBuilder はシーンを生成するインターフェースです（TerrainUsecaseが実装します）。
type SceneBuilder interface {
	BuildCalendar(ctx context.Context, symbol string, year int) (*Scene, error)
	BuildSynthetic(seed int64, size int) (*Scene, error)
}

// Request はビューアに読み込むシーンの指定です。
type Request struct {
	Symbol    string
	Year      int
	Synthetic bool
	Seed      int64
	Size      int
}

// PickState は直近のピック結果と、最後に当たったピック結果です。
// Last は一度も当たっていない場合 nil です。Kind はピック時点のシーン種別です。
type PickState struct {
	Kind    Kind
	Current pick.Result
	Last    *pick.Result
}

// Viewer は1画面分の表示状態（シーン・カメラ・ポインタ・ホバー）を保持します。
//
// シーンは不変で、ビルド完了後に丸ごと差し替えます。ビルド要求ごとに連番を振り、
// 最新でない連番の結果は破棄します（最後に要求された銘柄が勝つ）。
type Viewer struct {
	id      string
	owner   string
	builder SceneBuilder
	tracker *GeometryTracker

	scene atomic.Pointer[Scene]

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	camera  camera.Camera
	pointer *[2]float64
	current pick.Result
	hover   *pick.Result
	emitted pick.Result
	closed  bool
}

// NewViewer はビューアを生成します。tracker が nil の場合は専用のトラッカーを使います。
func NewViewer(id, owner string, builder SceneBuilder, cam camera.Camera, tracker *GeometryTracker) *Viewer {
	if tracker == nil {
		tracker = NewGeometryTracker()
	}
	return &Viewer{id: id, owner: owner, builder: builder, camera: cam, tracker: tracker}
}

func (v *Viewer) ID() string    { return v.id }
func (v *Viewer) Owner() string { return v.owner }

// Scene returns the current scene, or nil before the first successful Load.
func (v *Viewer) Scene() *Scene { return v.scene.Load() }

// Load はシーンをビルドして差し替えます。
//
// 実行中の前回ビルドはキャンセルされます。ビルド完了時点でより新しい Load が
// 呼ばれていた場合は結果を破棄して ErrStaleBuild を返し、現在のシーンは変わりません。
func (v *Viewer) Load(ctx context.Context, req Request) (*Scene, error) {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	if v.cancel != nil {
		v.cancel()
	}
	bctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.mu.Unlock()
	defer cancel()

	s, err := v.build(bctx, req)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || seq != v.seq {
		slog.Info("discarded stale terrain build", "viewer", v.id, "seq", seq, "latest", v.seq, "symbol", req.Symbol, "year", req.Year)
		return nil, ErrStaleBuild
	}
	v.cancel = nil
	if err != nil {
		return nil, err
	}

	v.tracker.Acquire(s)
	if old := v.scene.Swap(s); old != nil {
		v.tracker.Release(old)
	}
	// 旧シーンの座標系のピックは意味を持たないため引き継がない
	v.current = pick.Result{}
	v.hover = nil
	v.emitted = pick.Result{}
	return s, nil
}

func (v *Viewer) build(ctx context.Context, req Request) (*Scene, error) {
	if req.Synthetic {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return v.builder.BuildSynthetic(req.Seed, req.Size)
	}
	return v.builder.BuildCalendar(ctx, req.Symbol, req.Year)
}

// SetCamera replaces the camera used for pointer rays.
func (v *Viewer) SetCamera(c camera.Camera) error {
	if err := c.Validate(); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.camera = c
	return nil
}

// Camera returns the current camera.
func (v *Viewer) Camera() camera.Camera {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.camera
}

// PointerMove はポインタ位置（正規化デバイス座標）を記録し、その場でピックします。
// 外れた場合も Last は保持されます。
func (v *Viewer) PointerMove(x, y float64) (PickState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ray, err := v.camera.Ray(x, y)
	if err != nil {
		return PickState{}, err
	}
	v.pointer = &[2]float64{x, y}

	s := v.scene.Load()
	if s == nil {
		return v.stateLocked(), ErrNoScene
	}
	v.resolveLocked(s, ray)
	return v.stateLocked(), nil
}

// Tick は最後のポインタ位置を現在のシーンとカメラで再ピックします。
// 前回の Tick から結果が変わった場合のみ changed が true になります。
func (v *Viewer) Tick() (state PickState, changed bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.scene.Load()
	if s != nil && v.pointer != nil {
		if ray, err := v.camera.Ray(v.pointer[0], v.pointer[1]); err == nil {
			v.resolveLocked(s, ray)
		}
	}
	changed = v.current != v.emitted
	v.emitted = v.current
	return v.stateLocked(), changed
}

// Last returns the last pick that hit, or nil.
func (v *Viewer) Last() *pick.Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return copyResult(v.hover)
}

// Close cancels an in-flight build and releases the current scene.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	if old := v.scene.Swap(nil); old != nil {
		v.tracker.Release(old)
	}
}

func (v *Viewer) resolveLocked(s *Scene, ray pick.Ray) {
	res := s.Pick(ray)
	v.current = res
	if res.Hit {
		v.hover = &res
	}
}

func (v *Viewer) stateLocked() PickState {
	st := PickState{Current: v.current, Last: copyResult(v.hover)}
	if s := v.scene.Load(); s != nil {
		st.Kind = s.Kind
	}
	return st
}

func copyResult(r *pick.Result) *pick.Result {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// IsCanceled reports whether err comes from a canceled or superseded build.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrStaleBuild) || errors.Is(err, context.Canceled)
}
