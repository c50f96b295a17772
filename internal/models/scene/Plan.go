// This file contains the download plan of a scene: which remote files exist for it and where they land on disk.
// The layout is computed without touching the network, and file names are yielded lazily, one object at a time.
//
// Every object i of a scene consists of two feature textures and eight mesh parts:
//
//	shape{i}.pngfeat0.png
//	shape{i}.pngfeat1.png
//	shape{i}_0.obj ... shape{i}_7.obj

package scene

import (
	"fmt"
	"iter"
	"path/filepath"
	"strings"
)

const (
	// FeatureImagesPerObject is the number of feature textures per object.
	FeatureImagesPerObject = 2
	// MeshPartsPerObject is the number of .obj files per object.
	MeshPartsPerObject = 8
	// FilesPerObject is the number of files fetched per object.
	FilesPerObject = FeatureImagesPerObject + MeshPartsPerObject

	// preallocObjects caps how many objects ObjectFileNames reserves room for up front.
	preallocObjects = 1024
)

// Target represents a single scene to download and the directory it is downloaded into.
type Target struct {
	SceneID  string   `bson:"scene_id" json:"scene_id"`
	Category Category `bson:"category" json:"category"`
	Dir      string   `bson:"dir" json:"dir"`
}

// NewTarget returns the target for sceneID inside the category directory categoryDir.
func NewTarget(categoryDir string, category Category, sceneID string) Target {
	return Target{
		SceneID:  sceneID,
		Category: category,
		Dir:      filepath.Join(categoryDir, sceneID),
	}
}

// RootURL returns the remote directory of the target, ending in a slash.
func (t Target) RootURL(baseURL string) string {
	return SceneRootURL(baseURL, t.SceneID)
}

// Asset is a single remote file and its local destination.
type Asset struct {
	URL  string
	Path string
}

// SceneRootURL builds "<baseURL>/<sceneID>_mac/". A missing trailing slash on baseURL is tolerated.
func SceneRootURL(baseURL, sceneID string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + sceneID + "_mac/"
}

// FeatureImageName returns the name of feature texture k of object i.
func FeatureImageName(i, k int) string {
	return fmt.Sprintf("shape%d.pngfeat%d.png", i, k)
}

// MeshPartName returns the name of mesh part j of object i.
func MeshPartName(i, j int) string {
	return fmt.Sprintf("shape%d_%d.obj", i, j)
}

// ObjectFiles yields the ordered file names for objNum objects: for each object
// the two feature textures followed by the mesh parts in ascending order.
// Names are generated lazily, one object at a time.
func ObjectFiles(objNum int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; i < objNum; i++ {
			for k := 0; k < FeatureImagesPerObject; k++ {
				if !yield(FeatureImageName(i, k)) {
					return
				}
			}
			for j := 0; j < MeshPartsPerObject; j++ {
				if !yield(MeshPartName(i, j)) {
					return
				}
			}
		}
	}
}

// ObjectFileNames collects ObjectFiles into a slice.
func ObjectFileNames(objNum int) []string {
	if objNum <= 0 {
		return nil
	}
	names := make([]string, 0, min(objNum, preallocObjects)*FilesPerObject)
	for name := range ObjectFiles(objNum) {
		names = append(names, name)
	}
	return names
}

// ManifestAsset returns the manifest asset of the target.
func (t Target) ManifestAsset(baseURL string) Asset {
	return t.asset(baseURL, ManifestFileName)
}

// ObjectAssets yields the assets of objNum objects, in download order. All of them land directly in t.Dir.
func (t Target) ObjectAssets(baseURL string, objNum int) iter.Seq[Asset] {
	return func(yield func(Asset) bool) {
		for name := range ObjectFiles(objNum) {
			if !yield(t.asset(baseURL, name)) {
				return
			}
		}
	}
}

func (t Target) asset(baseURL, name string) Asset {
	return Asset{
		URL:  t.RootURL(baseURL) + name,
		Path: filepath.Join(t.Dir, name),
	}
}
