// Package layout places ornament instances: a phyllotaxis spiral for the
// assembled tree and a scatter cloud for the dispersed state. Position,
// radius and angle are pure functions of the instance index; only rotation,
// scale jitter and tilt draw from the injected random source.
package layout

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/glimmerlab/ornascene/config"
	"github.com/glimmerlab/ornascene/scene"
)

// GoldenAngle is the irrational phyllotaxis step pi*(3-sqrt(5)). Stepping
// by it never repeats an angle, so instances pack evenly with no radial
// alignment between categories as long as each category gets a distinct
// phase offset.
var GoldenAngle = math.Pi * (3.0 - math.Sqrt(5.0))

// scale jitter never collapses an instance below this
const minScale = 0.05

type Engine struct {
	cfg *config.Layout
	rng *rand.Rand

	byName map[scene.Category]*config.CategoryParams
}

var _ scene.PairGenerator = (*Engine)(nil)

// New validates the layout parameters and returns an engine. A nil rng
// gets a time-seeded source; tests inject a fixed seed to make the jitter
// terms reproducible.
func New(cfg *config.Layout, rng *rand.Rand) (*Engine, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		cfg:    cfg,
		rng:    rng,
		byName: make(map[scene.Category]*config.CategoryParams),
	}
	for i := range cfg.Categories {
		p := &cfg.Categories[i]
		cat, err := scene.ParseCategory(p.Name)
		if err != nil {
			return nil, err
		}
		if p.Count > 0 {
			if p.BaseRadius <= 0 {
				return nil, errors.Errorf("Category %q: base radius %v must be positive", p.Name, p.BaseRadius)
			}
			if p.HeightSpan <= 0 {
				return nil, errors.Errorf("Category %q: height span %v must be positive", p.Name, p.HeightSpan)
			}
		}
		e.byName[cat] = p
	}
	return e, nil
}

// params fails loudly for a category the configuration never described,
// instead of dereferencing a nil entry a few frames later.
func (e *Engine) params(cat scene.Category) *config.CategoryParams {
	p, ok := e.byName[cat]
	if !ok {
		panic(errors.Errorf("No layout parameters for category %q", cat))
	}
	return p
}

// Pair computes both endpoint poses for instance i of a category with
// count n.
func (e *Engine) Pair(cat scene.Category, i, n int) scene.TransformPair {
	p := e.params(cat)

	pair := scene.TransformPair{
		Formed: scene.Pose{
			Position: e.FormedPosition(cat, i, n),
			Rotation: e.randomRotation(),
			Scale:    e.randomScale(p),
		},
	}

	if cat.ScatterWide() {
		pair.Chaos = scene.Pose{
			Position: e.wideScatterPosition(p, i, n),
			Rotation: e.randomRotation(),
			Scale:    pair.Formed.Scale.Mul(e.chaosBoost()),
		}
		pair.Tilt = (e.rng.Float32() - 0.5) * 2 * e.cfg.ChaosTiltRange
	} else {
		pair.Chaos = scene.Pose{
			Position: e.sphereScatterPosition(),
			Rotation: e.randomRotation(),
			Scale:    e.randomScale(p),
		}
	}
	return pair
}

// FormedPosition is the deterministic phyllotaxis placement. sqrt spreads
// instances evenly over the cone surface area; the taper factor keeps the
// lowest band unfilled.
func (e *Engine) FormedPosition(cat scene.Category, i, n int) mgl32.Vec3 {
	p := e.params(cat)
	progress := math.Sqrt(float64(i+1)/float64(n)) * float64(e.cfg.TaperFactor)
	r := progress * float64(p.BaseRadius)
	y := float64(p.Apex) - progress*float64(p.HeightSpan)
	theta := float64(i)*GoldenAngle + float64(p.PhaseOffset)
	return mgl32.Vec3{
		float32(r * math.Cos(theta)),
		float32(y),
		float32(r * math.Sin(theta)),
	}.Mul(p.PushOut)
}

// wideScatterPosition fans dispersed portraits out on a banded spiral so
// they read as floating objects instead of a clump.
func (e *Engine) wideScatterPosition(p *config.CategoryParams, i, n int) mgl32.Vec3 {
	progress := math.Sqrt(float64(i+1) / float64(n))
	r := progress * float64(e.cfg.PortraitChaosRadius)
	y := (float64(i)/float64(n) - 0.5) * float64(e.cfg.ChaosHeightRange)
	theta := float64(i)*GoldenAngle + float64(p.PhaseOffset)
	return mgl32.Vec3{
		float32(r * math.Cos(theta)),
		float32(y),
		float32(r * math.Sin(theta)),
	}
}

// sphereScatterPosition rejection-samples a uniform point inside the chaos
// sphere.
func (e *Engine) sphereScatterPosition() mgl32.Vec3 {
	for {
		v := mgl32.Vec3{
			e.rng.Float32()*2 - 1,
			e.rng.Float32()*2 - 1,
			e.rng.Float32()*2 - 1,
		}
		if v.Dot(v) <= 1 {
			return v.Mul(e.cfg.ChaosRadius)
		}
	}
}

// chaosBoost exaggerates dispersed portrait scale so scattered instances
// read as close to the viewer. Presentational, not a physical size change.
func (e *Engine) chaosBoost() float32 {
	lo, hi := e.cfg.ChaosScaleBoost[0], e.cfg.ChaosScaleBoost[1]
	return lo + e.rng.Float32()*(hi-lo)
}

func (e *Engine) randomScale(p *config.CategoryParams) mgl32.Vec3 {
	s := mgl32.Vec3{p.ScaleBase[0], p.ScaleBase[1], p.ScaleBase[2]}
	if p.AspectVariance > 0 {
		for a := 0; a < 3; a++ {
			s[a] *= 1 + (e.rng.Float32()-0.5)*2*p.AspectVariance
		}
	}
	s = s.Mul(1 + (e.rng.Float32()-0.5)*2*p.ScaleVariance)
	for a := 0; a < 3; a++ {
		if s[a] < minScale {
			s[a] = minScale
		}
	}
	return s
}

// randomRotation draws a uniformly distributed unit quaternion (Shoemake).
func (e *Engine) randomRotation() mgl32.Quat {
	u1 := e.rng.Float64()
	u2 := e.rng.Float64() * 2 * math.Pi
	u3 := e.rng.Float64() * 2 * math.Pi

	a := math.Sqrt(1 - u1)
	b := math.Sqrt(u1)
	return mgl32.Quat{
		W: float32(b * math.Cos(u3)),
		V: mgl32.Vec3{
			float32(a * math.Sin(u2)),
			float32(a * math.Cos(u2)),
			float32(b * math.Sin(u3)),
		},
	}
}
