// This file contains the fixed catalogs of MobileNeRF sample scenes and the categories they belong to.
// A scene name belongs to exactly one catalog, and the catalog decides the subdirectory the scene is downloaded into.

// Catalogs are read-only. Accessors hand out copies so no caller can reorder or extend them.

package scene

import (
	"errors"
	"path/filepath"
	"slices"
)

var (
	ErrUnknownScene = errors.New("unknown sample scene")
)

// Category is the kind of a sample scene. Its value doubles as the name of the category subdirectory.
type Category string

const (
	Category360           Category = "Sample_Scenes_360"
	CategoryForwardFacing Category = "Sample_Scenes_forward_facing"
)

// Categories lists every category in the order they are downloaded.
var Categories = []Category{Category360, CategoryForwardFacing}

var (
	scenes360 = []string{
		"chair", "drums", "ficus", "hotdog", "lego", "materials",
		"mic", "ship", "bicycle", "gardenvase", "stump",
	}
	scenesForwardFacing = []string{
		"fern", "flower", "fortress", "horns", "leaves", "orchids", "room", "trex",
	}
)

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// Scenes returns a copy of the catalog for the category, or nil for an unknown category.
func (c Category) Scenes() []string {
	switch c {
	case Category360:
		return slices.Clone(scenes360)
	case CategoryForwardFacing:
		return slices.Clone(scenesForwardFacing)
	default:
		return nil
	}
}

// Dir returns the category subdirectory under basePath.
func (c Category) Dir(basePath string) string {
	return filepath.Join(basePath, string(c))
}

// AllScenes returns every scene of every catalog, 360 scenes first.
func AllScenes() []string {
	return slices.Concat(scenes360, scenesForwardFacing)
}

// CategoryOf returns the category containing name.
// Returns ErrUnknownScene if no catalog contains it.
func CategoryOf(name string) (Category, error) {
	switch {
	case slices.Contains(scenes360, name):
		return Category360, nil
	case slices.Contains(scenesForwardFacing, name):
		return CategoryForwardFacing, nil
	default:
		return "", ErrUnknownScene
	}
}

// IsKnownScene checks if name is present in one of the catalogs.
func IsKnownScene(name string) bool {
	_, err := CategoryOf(name)
	return err == nil
}
