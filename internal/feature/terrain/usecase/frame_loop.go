package usecase

import (
	"context"
	"time"
)

// DefaultFrameInterval はフレームループの既定間隔（約30fps）です。
const DefaultFrameInterval = 33 * time.Millisecond

// FrameSource is re-resolved once per frame.
type FrameSource interface {
	Tick() (PickState, bool)
}

// FrameLoop は一定間隔で FrameSource を再ピックし、結果が変わったときだけ emit します。
type FrameLoop struct {
	interval time.Duration
}

// NewFrameLoop returns a loop ticking every interval. A non-positive
// interval uses DefaultFrameInterval.
func NewFrameLoop(interval time.Duration) *FrameLoop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &FrameLoop{interval: interval}
}

// Interval returns the tick interval.
func (l *FrameLoop) Interval() time.Duration { return l.interval }

// Run は ctx が終了するか emit がエラーを返すまでブロックします。
func (l *FrameLoop) Run(ctx context.Context, src FrameSource, emit func(PickState) error) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			state, changed := src.Tick()
			if !changed {
				continue
			}
			if err := emit(state); err != nil {
				return err
			}
		}
	}
}
