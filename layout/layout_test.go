package layout

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glimmerlab/ornascene/config"
	"github.com/glimmerlab/ornascene/scene"
)

func newEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	cfg := config.Default()
	e, err := New(&cfg.Layout, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return e
}

// Formed positions must be bit-reproducible across runs regardless of the
// jitter seed.
func TestFormedPositionDeterminism(t *testing.T) {
	a := newEngine(t, 1)
	b := newEngine(t, 99999)
	for i := 0; i < 60; i++ {
		pa := a.FormedPosition(scene.CategorySphere, i, 60)
		pb := b.FormedPosition(scene.CategorySphere, i, 60)
		require.Equal(t, pa, pb, "instance %d", i)
	}
}

// The golden-angle step must not cluster: no two of the first n instances
// may share an angular sector.
func TestGoldenAngleSpread(t *testing.T) {
	e := newEngine(t, 1)
	const n = 500
	angles := make([]float64, n)
	for i := 0; i < n; i++ {
		p := e.FormedPosition(scene.CategorySphere, i, n)
		angles[i] = math.Mod(math.Atan2(float64(p[2]), float64(p[0]))+2*math.Pi, 2*math.Pi)
	}
	sort.Float64s(angles)
	for i := 1; i < n; i++ {
		assert.Greater(t, angles[i]-angles[i-1], 1e-4,
			"instances %d and %d share an angular sector", i-1, i)
	}
}

// 60 sphere ornaments, apex=9, height=18, radius=7.5: the first instance
// sits near the apex with near-zero radius, the last is the lowest and
// widest.
func TestSphereScenario(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.Categories = []config.CategoryParams{{
		Name: "sphere", Count: 60,
		BaseRadius: 7.5, HeightSpan: 18, Apex: 9,
		PushOut: 1.05, ScaleBase: [3]float32{0.5, 0.5, 0.5},
	}}
	e, err := New(&cfg.Layout, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	radius := func(p [3]float32) float64 {
		return math.Hypot(float64(p[0]), float64(p[2]))
	}

	first := e.FormedPosition(scene.CategorySphere, 0, 60)
	assert.InDelta(t, 9*1.05, first[1], 3.0, "first instance should sit near apex*pushOut")
	assert.Less(t, radius([3]float32(first)), 1.0)

	maxR, minY := radius([3]float32(first)), float64(first[1])
	for i := 1; i < 60; i++ {
		p := e.FormedPosition(scene.CategorySphere, i, 60)
		if r := radius([3]float32(p)); r > maxR {
			maxR = r
		}
		if float64(p[1]) < minY {
			minY = float64(p[1])
		}
	}
	last := e.FormedPosition(scene.CategorySphere, 59, 60)
	assert.InDelta(t, maxR, radius([3]float32(last)), 1e-6, "instance 59 should have the largest radius")
	assert.InDelta(t, minY, float64(last[1]), 1e-6, "instance 59 should be the lowest")
}

func TestValidationFailsFast(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.Categories[0].BaseRadius = 0
	_, err := New(&cfg.Layout, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base radius")

	cfg = config.Default()
	cfg.Layout.Categories[0].HeightSpan = -3
	_, err = New(&cfg.Layout, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "height span")
}

// Zero-count categories are allowed and must not trip the fail-fast
// parameter checks.
func TestEmptyCategoryNotAnError(t *testing.T) {
	cfg := config.Default()
	for i := range cfg.Layout.Categories {
		cfg.Layout.Categories[i].Count = 0
		cfg.Layout.Categories[i].BaseRadius = 0
	}
	_, err := New(&cfg.Layout, nil)
	require.NoError(t, err)
}

func TestUnconfiguredCategoryFailsLoudly(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.Categories = cfg.Layout.Categories[:1] // spheres only
	e, err := New(&cfg.Layout, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.PanicsWithError(t, `No layout parameters for category "star"`, func() {
		e.Pair(scene.CategoryStar, 0, 1)
	})
}

func TestChaosInsideSphere(t *testing.T) {
	e := newEngine(t, 3)
	cfg := config.Default()
	for i := 0; i < 200; i++ {
		pair := e.Pair(scene.CategorySphere, i, 200)
		assert.LessOrEqual(t, float64(pair.Chaos.Position.Len()), float64(cfg.Layout.ChaosRadius)+1e-4)
	}
}

func TestScaleAlwaysPositive(t *testing.T) {
	e := newEngine(t, 4)
	cats := []scene.Category{
		scene.CategorySphere, scene.CategoryBox, scene.CategoryStar,
		scene.CategoryRod, scene.CategoryPlate, scene.CategoryCrystal,
		scene.CategoryPortrait,
	}
	for _, cat := range cats {
		for i := 0; i < 100; i++ {
			pair := e.Pair(cat, i, 100)
			for a := 0; a < 3; a++ {
				assert.Greater(t, pair.Chaos.Scale[a], float32(0), "%v chaos", cat)
				assert.Greater(t, pair.Formed.Scale[a], float32(0), "%v formed", cat)
			}
		}
	}
}

// Dispersed portraits are boosted 3.5-5x and spread over the wide banded
// spiral rather than the scatter sphere.
func TestPortraitChaos(t *testing.T) {
	e := newEngine(t, 5)
	cfg := config.Default()
	lo := float64(cfg.Layout.ChaosScaleBoost[0])
	hi := float64(cfg.Layout.ChaosScaleBoost[1])
	var sawTilt bool
	for i := 0; i < 12; i++ {
		pair := e.Pair(scene.CategoryPortrait, i, 12)
		ratio := float64(pair.Chaos.Scale[0] / pair.Formed.Scale[0])
		assert.GreaterOrEqual(t, ratio, lo-1e-3)
		assert.LessOrEqual(t, ratio, hi+1e-3)
		yRange := float64(cfg.Layout.ChaosHeightRange) / 2
		assert.LessOrEqual(t, math.Abs(float64(pair.Chaos.Position[1])), yRange+1e-4)
		if pair.Tilt != 0 {
			sawTilt = true
		}
	}
	assert.True(t, sawTilt, "portrait instances should carry a chaos tilt")
}

func TestRotationsAreUnit(t *testing.T) {
	e := newEngine(t, 6)
	for i := 0; i < 50; i++ {
		pair := e.Pair(scene.CategoryBox, i, 50)
		assert.InDelta(t, 1.0, float64(pair.Formed.Rotation.Len()), 1e-4)
		assert.InDelta(t, 1.0, float64(pair.Chaos.Rotation.Len()), 1e-4)
	}
}
