package scene

import "github.com/pkg/errors"

// Category is the fixed set of ornament kinds. Dispatch on it is by tag,
// never by dynamic type.
type Category int

const (
	CategorySphere Category = iota
	CategoryBox
	CategoryStar
	CategoryRod
	CategoryPlate
	CategoryCrystal
	CategoryPortrait
)

var categoryNames = map[Category]string{
	CategorySphere:   "sphere",
	CategoryBox:      "box",
	CategoryStar:     "star",
	CategoryRod:      "rod",
	CategoryPlate:    "plate",
	CategoryCrystal:  "crystal",
	CategoryPortrait: "portrait",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

func ParseCategory(name string) (Category, error) {
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return 0, errors.Errorf("Unknown ornament category %q", name)
}

// FacesOutward reports whether assembled instances of this category must
// look away from the tree axis instead of keeping their blended rotation.
func (c Category) FacesOutward() bool {
	switch c {
	case CategoryStar, CategoryCrystal, CategoryPortrait:
		return true
	}
	return false
}

// Billboards reports whether dispersed instances face the camera so they
// stay readable while scattered.
func (c Category) Billboards() bool {
	return c == CategoryPortrait
}

// ScatterWide reports whether the category uses the wide banded spiral for
// its chaos placement instead of the default sphere scatter.
func (c Category) ScatterWide() bool {
	return c == CategoryPortrait
}
