package usecase

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"stock_terrain/internal/feature/terrain/domain/camera"
)

// DefaultMaxViewers は同時に保持するビューア数の既定上限です。
const DefaultMaxViewers = 256

// Registry はビューアをIDで管理します。各ビューアは作成したユーザー（JWTのsubject）に属します。
type Registry struct {
	builder SceneBuilder
	camera  camera.Camera
	max     int
	tracker *GeometryTracker
	newID   func() string

	mu      sync.RWMutex
	viewers map[string]*Viewer
}

// NewRegistry は新しいRegistryを生成します。maxViewers が0以下の場合は DefaultMaxViewers を使います。
func NewRegistry(builder SceneBuilder, cam camera.Camera, maxViewers int) *Registry {
	if maxViewers <= 0 {
		maxViewers = DefaultMaxViewers
	}
	return &Registry{
		builder: builder,
		camera:  cam,
		max:     maxViewers,
		tracker: NewGeometryTracker(),
		newID:   uuid.NewString,
		viewers: map[string]*Viewer{},
	}
}

// Tracker returns the geometry tracker shared by all viewers.
func (r *Registry) Tracker() *GeometryTracker { return r.tracker }

// Len returns the number of open viewers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.viewers)
}

// Create opens a viewer owned by owner.
func (r *Registry) Create(owner string) (*Viewer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.viewers) >= r.max {
		return nil, ErrTooManyViewers
	}
	id := r.newID()
	v := NewViewer(id, owner, r.builder, r.camera, r.tracker)
	r.viewers[id] = v
	slog.Info("viewer created", "viewer", id, "owner", owner)
	return v, nil
}

// Get returns the viewer id if it belongs to owner.
func (r *Registry) Get(id, owner string) (*Viewer, error) {
	r.mu.RLock()
	v, ok := r.viewers[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrViewerNotFound
	}
	if v.Owner() != owner {
		return nil, ErrForbidden
	}
	return v, nil
}

// Delete closes and removes the viewer id.
func (r *Registry) Delete(id, owner string) error {
	v, err := r.Get(id, owner)
	if err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.viewers, id)
	r.mu.Unlock()
	v.Close()
	slog.Info("viewer closed", "viewer", id, "owner", owner)
	return nil
}

// CloseAll closes every viewer. Used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	vs := r.viewers
	r.viewers = map[string]*Viewer{}
	r.mu.Unlock()
	for _, v := range vs {
		v.Close()
	}
}
