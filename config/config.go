package config

import (
	"io/ioutil"
	"math"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CategoryParams drives placement of one ornament category on the tree
// surface. BaseRadius/HeightSpan/Apex describe the cone the category is
// wrapped onto, PhaseOffset de-aligns it angularly from other categories
// and PushOut lifts instances off the idealized surface.
type CategoryParams struct {
	Name        string     `yaml:"name" json:"name"`
	Count       int        `yaml:"count" json:"count"`
	BaseRadius  float32    `yaml:"base_radius" json:"base_radius"`
	HeightSpan  float32    `yaml:"height_span" json:"height_span"`
	Apex        float32    `yaml:"apex" json:"apex"`
	PhaseOffset float32    `yaml:"phase_offset" json:"phase_offset"`
	PushOut     float32    `yaml:"push_out" json:"push_out"`
	ScaleBase   [3]float32 `yaml:"scale_base" json:"scale_base"`
	// ScaleVariance is the uniform size jitter, AspectVariance the
	// additional per-axis jitter for box-like shapes.
	ScaleVariance  float32 `yaml:"scale_variance" json:"scale_variance"`
	AspectVariance float32 `yaml:"aspect_variance" json:"aspect_variance"`
}

type Layout struct {
	// TaperFactor < 1 keeps the lowest band of the spiral unfilled so the
	// tree base does not end in a hard ring.
	TaperFactor         float32          `yaml:"taper_factor" json:"taper_factor"`
	ChaosRadius         float32          `yaml:"chaos_radius" json:"chaos_radius"`
	PortraitChaosRadius float32          `yaml:"portrait_chaos_radius" json:"portrait_chaos_radius"`
	ChaosHeightRange    float32          `yaml:"chaos_height_range" json:"chaos_height_range"`
	ChaosTiltRange      float32          `yaml:"chaos_tilt_range" json:"chaos_tilt_range"`
	ChaosScaleBoost     [2]float32       `yaml:"chaos_scale_boost" json:"chaos_scale_boost"`
	Categories          []CategoryParams `yaml:"categories" json:"categories"`
}

type Interp struct {
	SmoothingRate    float32 `yaml:"smoothing_rate" json:"smoothing_rate"`
	MaxDelta         float32 `yaml:"max_delta" json:"max_delta"`
	OutwardThreshold float32 `yaml:"outward_threshold" json:"outward_threshold"`
	TumbleThreshold  float32 `yaml:"tumble_threshold" json:"tumble_threshold"`
	TumbleSpeed      float32 `yaml:"tumble_speed" json:"tumble_speed"`
	GlowMin          float32 `yaml:"glow_min" json:"glow_min"`
	GlowMax          float32 `yaml:"glow_max" json:"glow_max"`
}

type Input struct {
	BaseSpin       float32 `yaml:"base_spin" json:"base_spin"`
	SpinRelaxRate  float32 `yaml:"spin_relax_rate" json:"spin_relax_rate"`
	DragGain       float32 `yaml:"drag_gain" json:"drag_gain"`
	AngularGain    float32 `yaml:"angular_gain" json:"angular_gain"`
	RotationRate   float32 `yaml:"rotation_rate" json:"rotation_rate"`
	GrabSmoothRate float32 `yaml:"grab_smooth_rate" json:"grab_smooth_rate"`
	// ParallaxRate is deliberately slower than RotationRate: the external
	// detector signal is noisy and the camera must feel stable.
	ParallaxRate   float32 `yaml:"parallax_rate" json:"parallax_rate"`
	ParallaxScaleX float32 `yaml:"parallax_scale_x" json:"parallax_scale_x"`
	ParallaxScaleY float32 `yaml:"parallax_scale_y" json:"parallax_scale_y"`
	WidenFactor    float32 `yaml:"widen_factor" json:"widen_factor"`
	ZoomRate       float32 `yaml:"zoom_rate" json:"zoom_rate"`
	WheelGain      float32 `yaml:"wheel_gain" json:"wheel_gain"`
	PinchGain      float32 `yaml:"pinch_gain" json:"pinch_gain"`
	MinDistance    float32 `yaml:"min_distance" json:"min_distance"`
	MaxDistance    float32 `yaml:"max_distance" json:"max_distance"`
	StartDistance  float32 `yaml:"start_distance" json:"start_distance"`
	CameraHeight   float32 `yaml:"camera_height" json:"camera_height"`
	LookAtHeight   float32 `yaml:"look_at_height" json:"look_at_height"`
	VelocityEps    float32 `yaml:"velocity_eps" json:"velocity_eps"`
	MaxDelta       float32 `yaml:"max_delta" json:"max_delta"`
	// GestureDrivesAssembly maps the detection flag onto the assembly
	// target (open hand absent = chaos, hand detected = formed).
	GestureDrivesAssembly bool `yaml:"gesture_drives_assembly" json:"gesture_drives_assembly"`
}

type Engine struct {
	TickHz            int     `yaml:"tick_hz" json:"tick_hz"`
	GestureStaleAfter float32 `yaml:"gesture_stale_after" json:"gesture_stale_after"`
}

type Config struct {
	Layout Layout `yaml:"layout" json:"layout"`
	Interp Interp `yaml:"interp" json:"interp"`
	Input  Input  `yaml:"input" json:"input"`
	Engine Engine `yaml:"engine" json:"engine"`
}

// Default returns the full documented default configuration: a six-plus-one
// category tree 18 units tall with its apex at y=9.
func Default() *Config {
	categories := []CategoryParams{
		{Name: "sphere", Count: 60, BaseRadius: 7.5, ScaleBase: [3]float32{0.5, 0.5, 0.5}, ScaleVariance: 0.25},
		{Name: "box", Count: 40, BaseRadius: 7.2, ScaleBase: [3]float32{0.6, 0.6, 0.6}, ScaleVariance: 0.2, AspectVariance: 0.4},
		{Name: "star", Count: 24, BaseRadius: 7.8, ScaleBase: [3]float32{0.55, 0.55, 0.2}, ScaleVariance: 0.2},
		{Name: "rod", Count: 30, BaseRadius: 7.4, ScaleBase: [3]float32{0.15, 0.9, 0.15}, ScaleVariance: 0.3},
		{Name: "plate", Count: 18, BaseRadius: 7.6, ScaleBase: [3]float32{0.7, 0.7, 0.08}, ScaleVariance: 0.15},
		{Name: "crystal", Count: 20, BaseRadius: 7.7, ScaleBase: [3]float32{0.3, 0.7, 0.3}, ScaleVariance: 0.35},
		{Name: "portrait", Count: 12, BaseRadius: 8.2, ScaleBase: [3]float32{1.0, 1.3, 0.06}, ScaleVariance: 0.1},
	}
	pushOuts := []float32{1.05, 1.08, 1.15, 1.1, 1.12, 1.18, 1.25}
	for i := range categories {
		categories[i].HeightSpan = 18
		categories[i].Apex = 9
		// distinct phase per category spans the full circle so no two
		// categories align radially
		categories[i].PhaseOffset = float32(i) * (2 * math.Pi / float32(len(categories)))
		categories[i].PushOut = pushOuts[i]
	}

	return &Config{
		Layout: Layout{
			TaperFactor:         0.92,
			ChaosRadius:         10,
			PortraitChaosRadius: 16,
			ChaosHeightRange:    12,
			ChaosTiltRange:      0.3,
			ChaosScaleBoost:     [2]float32{3.5, 5.0},
			Categories:          categories,
		},
		Interp: Interp{
			SmoothingRate:    3,
			MaxDelta:         0.1,
			OutwardThreshold: 0.8,
			TumbleThreshold:  0.5,
			TumbleSpeed:      0.9,
			GlowMin:          0.1,
			GlowMax:          2.5,
		},
		Input: Input{
			BaseSpin:       0.12, // 0.002 rad per frame at 60Hz
			SpinRelaxRate:  1.2,
			DragGain:       0.005,
			AngularGain:    3,
			RotationRate:   6,
			GrabSmoothRate: 8,
			ParallaxRate:   1.5,
			ParallaxScaleX: 6,
			ParallaxScaleY: 3,
			WidenFactor:    6,
			ZoomRate:       4,
			WheelGain:      0.01,
			PinchGain:      0.05,
			MinDistance:    12,
			MaxDistance:    60,
			StartDistance:  32,
			CameraHeight:   2,
			LookAtHeight:   1,
			VelocityEps:    0.005,
			MaxDelta:       0.1,
		},
		Engine: Engine{
			TickHz:            60,
			GestureStaleAfter: 1,
		},
	}
}

// Load reads a YAML file over the defaults. Missing fields keep their
// default value; a present `layout.categories` list replaces the default
// list wholesale.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read config %q", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse config %q", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	l := &c.Layout
	if l.TaperFactor <= 0 || l.TaperFactor > 1 {
		return errors.Errorf("layout: taper_factor %v outside (0, 1]", l.TaperFactor)
	}
	if l.ChaosRadius <= 0 || l.PortraitChaosRadius <= 0 {
		return errors.Errorf("layout: chaos radii must be positive")
	}
	if l.ChaosScaleBoost[0] <= 0 || l.ChaosScaleBoost[1] < l.ChaosScaleBoost[0] {
		return errors.Errorf("layout: chaos_scale_boost %v is not a positive range", l.ChaosScaleBoost)
	}
	for i := range l.Categories {
		p := &l.Categories[i]
		if p.Count < 0 {
			return errors.Errorf("layout: category %q count %d is negative", p.Name, p.Count)
		}
		if p.Count == 0 {
			continue // empty category is allowed, not an error
		}
		if p.BaseRadius <= 0 {
			return errors.Errorf("layout: category %q base_radius %v must be positive", p.Name, p.BaseRadius)
		}
		if p.HeightSpan <= 0 {
			return errors.Errorf("layout: category %q height_span %v must be positive", p.Name, p.HeightSpan)
		}
		if p.PushOut <= 0 {
			return errors.Errorf("layout: category %q push_out %v must be positive", p.Name, p.PushOut)
		}
		for _, s := range p.ScaleBase {
			if s <= 0 {
				return errors.Errorf("layout: category %q scale_base %v has non-positive component", p.Name, p.ScaleBase)
			}
		}
		if p.ScaleVariance < 0 || p.ScaleVariance >= 1 {
			return errors.Errorf("layout: category %q scale_variance %v outside [0, 1)", p.Name, p.ScaleVariance)
		}
	}

	if c.Interp.SmoothingRate <= 0 {
		return errors.Errorf("interp: smoothing_rate must be positive")
	}
	if c.Interp.MaxDelta <= 0 {
		return errors.Errorf("interp: max_delta must be positive")
	}
	if c.Interp.GlowMax < c.Interp.GlowMin {
		return errors.Errorf("interp: glow_max %v below glow_min %v", c.Interp.GlowMax, c.Interp.GlowMin)
	}

	in := &c.Input
	if in.MinDistance <= 0 || in.MaxDistance <= in.MinDistance {
		return errors.Errorf("input: distance bounds [%v, %v] invalid", in.MinDistance, in.MaxDistance)
	}
	if in.StartDistance < in.MinDistance || in.StartDistance > in.MaxDistance {
		return errors.Errorf("input: start_distance %v outside [%v, %v]", in.StartDistance, in.MinDistance, in.MaxDistance)
	}
	if in.RotationRate <= 0 || in.ZoomRate <= 0 || in.ParallaxRate <= 0 || in.GrabSmoothRate <= 0 {
		return errors.Errorf("input: smoothing rates must be positive")
	}
	if in.MaxDelta <= 0 {
		return errors.Errorf("input: max_delta must be positive")
	}

	if c.Engine.TickHz <= 0 {
		return errors.Errorf("engine: tick_hz must be positive")
	}
	if c.Engine.GestureStaleAfter <= 0 {
		return errors.Errorf("engine: gesture_stale_after must be positive")
	}
	return nil
}

func (e *Engine) TickInterval() time.Duration {
	return time.Second / time.Duration(e.TickHz)
}

func (e *Engine) StaleAfter() time.Duration {
	return time.Duration(float64(e.GestureStaleAfter) * float64(time.Second))
}
