package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/glimmerlab/ornascene/config"
)

// Pose is one rigid placement of an instance.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// TransformPair holds the two endpoint poses an instance is blended
// between. Immutable once computed. Tilt is only meaningful while the
// instance is dispersed.
type TransformPair struct {
	Chaos  Pose
	Formed Pose
	Tilt   float32
}

// Instance is one decorative object. Index is stable for the lifetime of
// the collection; reconfiguration rebuilds the whole collection instead of
// mutating instances in place.
type Instance struct {
	Index    int
	Category Category
	Pair     TransformPair
	Color    mgl32.Vec3
	Caption  string
	Image    string
}

// PairGenerator computes both endpoint poses for one instance. The layout
// package provides the real implementation; tests substitute fixed pairs.
type PairGenerator interface {
	Pair(cat Category, index, count int) TransformPair
}

type Collection struct {
	Instances []Instance
	counts    map[Category]int
}

func (c *Collection) Count(cat Category) int {
	return c.counts[cat]
}

// christmas-ish palette, picked per instance deterministically
var palette = []mgl32.Vec3{
	{0.82, 0.14, 0.16},
	{0.94, 0.77, 0.22},
	{0.13, 0.46, 0.26},
	{0.85, 0.85, 0.88},
	{0.25, 0.32, 0.64},
	{0.78, 0.42, 0.68},
}

// NewCollection builds every instance of every configured category. The
// whole collection is regenerated on any reconfiguration; partial mutation
// is not supported.
func NewCollection(cfg *config.Config, gen PairGenerator) (*Collection, error) {
	if gen == nil {
		return nil, errors.Errorf("Pair generator is required")
	}
	coll := &Collection{counts: make(map[Category]int)}
	captions := NewCaptionGenerator(0)

	index := 0
	for i := range cfg.Layout.Categories {
		p := &cfg.Layout.Categories[i]
		cat, err := ParseCategory(p.Name)
		if err != nil {
			return nil, err
		}
		for j := 0; j < p.Count; j++ {
			inst := Instance{
				Index:    index,
				Category: cat,
				Pair:     gen.Pair(cat, j, p.Count),
				Color:    palette[index%len(palette)],
			}
			if cat == CategoryPortrait {
				inst.Caption = captions.Next()
			}
			coll.Instances = append(coll.Instances, inst)
			index++
		}
		coll.counts[cat] += p.Count
	}
	return coll, nil
}
