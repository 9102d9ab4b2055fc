package usecase

import "sync"

// GeometryTracker counts the scenes currently held by viewers and the
// geometry bytes they keep alive. A scene shared by several viewers is
// counted once.
type GeometryTracker struct {
	mu    sync.Mutex
	refs  map[*Scene]int
	bytes int64
}

// NewGeometryTracker returns an empty tracker.
func NewGeometryTracker() *GeometryTracker {
	return &GeometryTracker{refs: map[*Scene]int{}}
}

// Acquire registers one more holder of s.
func (t *GeometryTracker) Acquire(s *Scene) {
	if s == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.refs[s] == 0 {
		t.bytes += s.Mesh.SizeBytes()
	}
	t.refs[s]++
}

// Release drops one holder of s. Releasing an unknown scene is a no-op.
func (t *GeometryTracker) Release(s *Scene) {
	if s == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.refs[s]
	if !ok {
		return
	}
	if n <= 1 {
		delete(t.refs, s)
		t.bytes -= s.Mesh.SizeBytes()
		return
	}
	t.refs[s] = n - 1
}

// Live returns the number of distinct scenes held.
func (t *GeometryTracker) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.refs)
}

// Bytes returns the geometry size of all held scenes.
func (t *GeometryTracker) Bytes() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bytes
}
