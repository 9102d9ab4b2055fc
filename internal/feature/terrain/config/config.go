// Package config は地形表示パラメータ（YAML）の読み込みを提供します。
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"stock_terrain/internal/feature/terrain/domain/camera"
	"stock_terrain/internal/feature/terrain/domain/grid"
	"stock_terrain/internal/feature/terrain/domain/mesh"
	"stock_terrain/internal/feature/terrain/usecase"
)

// Config is the root terrain presentation config.
type Config struct {
	Mesh      MeshConfig      `yaml:"mesh"`
	Range     RangeConfig     `yaml:"range"`
	Synthetic SyntheticConfig `yaml:"synthetic"`
	Camera    CameraConfig    `yaml:"camera"`
	Viewer    ViewerConfig    `yaml:"viewer"`
}

// MeshConfig holds world-space axis settings and the colour ramp.
type MeshConfig struct {
	Axes mesh.Axes `yaml:"axes"`
	Ramp mesh.Ramp `yaml:"ramp"`
}

// RangeConfig controls degenerate-range widening and the empty-grid fallback.
type RangeConfig struct {
	MinSpan    float64 `yaml:"min_span"`
	DefaultMin float64 `yaml:"default_min"`
	DefaultMax float64 `yaml:"default_max"`
}

// SyntheticConfig holds demo terrain parameters.
type SyntheticConfig struct {
	Size      int     `yaml:"size"`
	MaxSize   int     `yaml:"max_size"`
	Seed      int64   `yaml:"seed"` // seed used when a request omits one
	Octaves   int     `yaml:"octaves"`
	Scale     float64 `yaml:"scale"` // base noise frequency across the grid
	BasePrice float64 `yaml:"base_price"`
	Spread    float64 `yaml:"spread"`
}

// CameraConfig is the initial camera of new viewers.
type CameraConfig struct {
	Position []float64 `yaml:"position"`
	Target   []float64 `yaml:"target"`
	Up       []float64 `yaml:"up"`
	FovY     float64   `yaml:"fov_y"`
	Aspect   float64   `yaml:"aspect"`
	Near     float64   `yaml:"near"`
	Far      float64   `yaml:"far"`
}

// ViewerConfig holds viewer and stream settings.
type ViewerConfig struct {
	FrameInterval time.Duration `yaml:"frame_interval"`
	MaxViewers    int           `yaml:"max_viewers"`
	BuildTimeout  time.Duration `yaml:"build_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	def := usecase.DefaultOptions()
	cam := camera.Default()

	if c.Mesh.Axes.ScaleX == 0 {
		c.Mesh.Axes.ScaleX = def.Axes.ScaleX
	}
	if c.Mesh.Axes.ScaleZ == 0 {
		c.Mesh.Axes.ScaleZ = def.Axes.ScaleZ
	}
	if c.Mesh.Axes.Height == 0 {
		c.Mesh.Axes.Height = def.Axes.Height
	}
	if len(c.Mesh.Ramp) == 0 {
		c.Mesh.Ramp = mesh.DefaultRamp()
	}

	if c.Range.MinSpan == 0 {
		c.Range.MinSpan = grid.DefaultMinSpan
	}
	if c.Range.DefaultMin == 0 && c.Range.DefaultMax == 0 {
		c.Range.DefaultMin = grid.DefaultRange.Min
		c.Range.DefaultMax = grid.DefaultRange.Max
	}

	s := &c.Synthetic
	if s.Size == 0 {
		s.Size = def.Synthetic.Size
	}
	if s.MaxSize == 0 {
		s.MaxSize = def.Synthetic.MaxSize
	}
	if s.Octaves == 0 {
		s.Octaves = def.Synthetic.Octaves
	}
	if s.Scale == 0 {
		s.Scale = def.Synthetic.Scale
	}
	if s.BasePrice == 0 {
		s.BasePrice = def.Synthetic.BasePrice
	}
	if s.Spread == 0 {
		s.Spread = def.Synthetic.Spread
	}

	cc := &c.Camera
	if cc.Position == nil {
		cc.Position = cam.Position[:]
	}
	if cc.Target == nil {
		cc.Target = cam.Target[:]
	}
	if cc.Up == nil {
		cc.Up = cam.Up[:]
	}
	if cc.FovY == 0 {
		cc.FovY = cam.FovY
	}
	if cc.Aspect == 0 {
		cc.Aspect = cam.Aspect
	}
	if cc.Near == 0 {
		cc.Near = cam.Near
	}
	if cc.Far == 0 {
		cc.Far = cam.Far
	}

	if c.Viewer.FrameInterval == 0 {
		c.Viewer.FrameInterval = usecase.DefaultFrameInterval
	}
	if c.Viewer.MaxViewers == 0 {
		c.Viewer.MaxViewers = usecase.DefaultMaxViewers
	}
	if c.Viewer.BuildTimeout == 0 {
		c.Viewer.BuildTimeout = def.BuildTimeout
	}
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Mesh.Axes.Validate(); err != nil {
		errs = append(errs, err)
	}
	for i, st := range c.Mesh.Ramp {
		if st.At < 0 || st.At > 1 {
			errs = append(errs, fmt.Errorf("mesh.ramp[%d].at must be within [0,1]", i))
		}
	}
	if c.Range.MinSpan <= 0 {
		errs = append(errs, errors.New("range.min_span must be positive"))
	}
	if c.Range.DefaultMax < c.Range.DefaultMin {
		errs = append(errs, errors.New("range.default_max must be >= range.default_min"))
	}
	s := c.Synthetic
	if s.Size < 2 || s.Size > s.MaxSize {
		errs = append(errs, fmt.Errorf("synthetic.size must be within [2,%d]", s.MaxSize))
	}
	if s.Octaves < 1 {
		errs = append(errs, errors.New("synthetic.octaves must be positive"))
	}
	if s.Scale <= 0 {
		errs = append(errs, errors.New("synthetic.scale must be positive"))
	}
	if s.Spread <= 0 {
		errs = append(errs, errors.New("synthetic.spread must be positive"))
	}
	if _, err := c.Camera.camera(); err != nil {
		errs = append(errs, err)
	}
	if c.Viewer.FrameInterval < 0 || c.Viewer.MaxViewers < 0 || c.Viewer.BuildTimeout < 0 {
		errs = append(errs, errors.New("viewer settings must not be negative"))
	}
	return errors.Join(errs...)
}

// Options converts the config into terrain usecase options.
func (c *Config) Options() usecase.Options {
	return usecase.Options{
		Axes: c.Mesh.Axes,
		Ramp: c.Mesh.Ramp,
		Policy: grid.RangePolicy{
			MinSpan: c.Range.MinSpan,
			Default: grid.Range{Min: c.Range.DefaultMin, Max: c.Range.DefaultMax},
		},
		Synthetic: usecase.SyntheticOptions{
			Size:      c.Synthetic.Size,
			MaxSize:   c.Synthetic.MaxSize,
			Octaves:   c.Synthetic.Octaves,
			Scale:     c.Synthetic.Scale,
			BasePrice: c.Synthetic.BasePrice,
			Spread:    c.Synthetic.Spread,
		},
		BuildTimeout: c.Viewer.BuildTimeout,
	}
}

// InitialCamera returns the configured camera. The config must have passed Validate.
func (c *Config) InitialCamera() camera.Camera {
	cam, err := c.Camera.camera()
	if err != nil {
		return camera.Default()
	}
	return cam
}

func (cc CameraConfig) camera() (camera.Camera, error) {
	pos, err := vec3("camera.position", cc.Position)
	if err != nil {
		return camera.Camera{}, err
	}
	target, err := vec3("camera.target", cc.Target)
	if err != nil {
		return camera.Camera{}, err
	}
	up, err := vec3("camera.up", cc.Up)
	if err != nil {
		return camera.Camera{}, err
	}
	cam := camera.Camera{
		Position: pos,
		Target:   target,
		Up:       up,
		FovY:     cc.FovY,
		Aspect:   cc.Aspect,
		Near:     cc.Near,
		Far:      cc.Far,
	}
	if err := cam.Validate(); err != nil {
		return camera.Camera{}, err
	}
	return cam, nil
}

func vec3(name string, v []float64) (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("%s must have 3 components, got %d", name, len(v))
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}
