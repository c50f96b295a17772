// This file contains the Manifest struct, which describes the mlp.json file published alongside every sample scene.
// The file also carries the MLP weights and biases used by the viewer, but the downloader only needs obj_num:
// the number of 3D objects in the scene, which drives how many textures and meshes are fetched.

package scene

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/goccy/go-json"
)

// ManifestFileName is the name of the manifest, both remotely and on disk.
const ManifestFileName = "mlp.json"

// MaxObjNum is the largest obj_num accepted. Above it the number of files of a scene no longer fits in an int.
const MaxObjNum = math.MaxInt / FilesPerObject

var (
	// ErrMissingObjNum is returned when the manifest has no (or a null) obj_num field.
	ErrMissingObjNum = errors.New("manifest has no obj_num")
	// ErrNegativeObjNum is returned when obj_num is below zero.
	ErrNegativeObjNum = errors.New("manifest obj_num is negative")
	// ErrObjNumTooLarge is returned when obj_num is above MaxObjNum.
	ErrObjNumTooLarge = errors.New("manifest obj_num is too large")
)

// Manifest represents the relevant part of a scene's mlp.json.
type Manifest struct {
	ObjNum *int `json:"obj_num"`
}

// ParseManifest decodes data and returns the validated object count.
func ParseManifest(data []byte) (int, error) {
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return 0, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if manifest.ObjNum == nil {
		return 0, ErrMissingObjNum
	}
	if *manifest.ObjNum < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeObjNum, *manifest.ObjNum)
	}
	if *manifest.ObjNum > MaxObjNum {
		return 0, fmt.Errorf("%w: %d", ErrObjNumTooLarge, *manifest.ObjNum)
	}
	return *manifest.ObjNum, nil
}

// LoadManifest reads the manifest file at path and returns the validated object count.
func LoadManifest(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read manifest: %w", err)
	}
	n, err := ParseManifest(data)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}
