package scene

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// CaptionGenerator hands out unique captions for portrait ornaments.
type CaptionGenerator struct {
	used map[string]struct{}
}

// NewCaptionGenerator seeds the shared randomdata source so caption sets
// are reproducible for a given seed.
func NewCaptionGenerator(seed int64) *CaptionGenerator {
	randomdata.CustomRand(rand.New(rand.NewSource(seed)))
	return &CaptionGenerator{used: make(map[string]struct{})}
}

func (g *CaptionGenerator) Next() string {
	for {
		name := randomdata.SillyName()
		// avoid duplicate captions
		if _, exists := g.used[name]; !exists {
			g.used[name] = struct{}{}
			return name
		}
	}
}
