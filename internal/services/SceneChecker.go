// This file contains the implementation of SceneChecker, which reports whether downloaded scenes are complete.
// A scene is complete when its directory holds mlp.json and every texture and mesh that the local mlp.json announces.
// The checker never touches the network and never repairs anything. It only reports.
//
// When a download history is available, the recorded download of each scene is reported next to what is on disk.

package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/log"
	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/models/scene"
)

// maxReportedMissing caps the missing file names kept per scene. Scanning stops once it is reached.
const maxReportedMissing = 100

// SceneStatus is the outcome of checking a scene directory.
type SceneStatus string

const (
	// SceneStatusComplete means every announced file is present
	SceneStatusComplete SceneStatus = "complete"
	// SceneStatusIncomplete means the directory exists but files are missing
	SceneStatusIncomplete SceneStatus = "incomplete"
	// SceneStatusAbsent means the scene directory does not exist
	SceneStatusAbsent SceneStatus = "absent"
)

// RecordLookup returns the recorded download of a scene, or scene.ErrRecordNotFound.
type RecordLookup interface {
	GetRecord(ctx context.Context, category scene.Category, sceneID string) (*scene.DownloadRecord, error)
}

// CheckResult is the report for a single scene.
type CheckResult struct {
	Target  scene.Target
	Status  SceneStatus
	ObjNum  int
	Missing []string
	// Truncated is set when more than maxReportedMissing files are missing.
	Truncated bool
	// Record is the recorded download, nil without history or when the scene was never recorded.
	Record *scene.DownloadRecord
}

type SceneChecker struct {
	history RecordLookup
	logger  *log.Logger
}

// NewSceneChecker creates a checker. history may be nil.
func NewSceneChecker(logger *log.Logger, history RecordLookup) *SceneChecker {
	return &SceneChecker{history: history, logger: logger}
}

// CheckJob checks every scene of the job. A malformed manifest is returned as an error.
func (c *SceneChecker) CheckJob(ctx context.Context, job Job) ([]CheckResult, error) {
	results := make([]CheckResult, 0, len(job.Scenes))
	for _, target := range job.Targets() {
		result, err := c.CheckScene(ctx, target)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// CheckScene checks a single scene directory.
func (c *SceneChecker) CheckScene(ctx context.Context, target scene.Target) (CheckResult, error) {
	result := CheckResult{Target: target}
	result.Record = c.lookup(ctx, target)

	if _, err := os.Stat(target.Dir); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return result, fmt.Errorf("failed to inspect %s: %w", target.Dir, err)
		}
		result.Status = SceneStatusAbsent
		c.report(result)
		return result, nil
	}

	manifestPath := filepath.Join(target.Dir, scene.ManifestFileName)
	if !isRegularFile(manifestPath) {
		result.Status = SceneStatusIncomplete
		result.Missing = []string{scene.ManifestFileName}
		c.report(result)
		return result, nil
	}

	objNum, err := scene.LoadManifest(manifestPath)
	if err != nil {
		return result, fmt.Errorf("scene %s: %w", target.SceneID, err)
	}
	result.ObjNum = objNum

	for asset := range target.ObjectAssets("", objNum) {
		if isRegularFile(asset.Path) {
			continue
		}
		if len(result.Missing) == maxReportedMissing {
			result.Truncated = true
			break
		}
		result.Missing = append(result.Missing, filepath.Base(asset.Path))
	}

	if len(result.Missing) == 0 {
		result.Status = SceneStatusComplete
	} else {
		result.Status = SceneStatusIncomplete
	}
	c.report(result)
	return result, nil
}

func (c *SceneChecker) lookup(ctx context.Context, target scene.Target) *scene.DownloadRecord {
	if c.history == nil {
		return nil
	}
	record, err := c.history.GetRecord(ctx, target.Category, target.SceneID)
	if err != nil {
		if !errors.Is(err, scene.ErrRecordNotFound) {
			c.logger.Errorf("Failed to read download record of %s: %v", target.SceneID, err)
		}
		return nil
	}
	return record
}

func (c *SceneChecker) report(result CheckResult) {
	id := result.Target.SceneID

	switch {
	case result.Status == SceneStatusComplete:
		c.logger.Infof("Scene %s: %s (%d objects)", id, result.Status, result.ObjNum)
	case result.Truncated:
		c.logger.Infof("Scene %s: %s, more than %d files missing", id, result.Status, maxReportedMissing)
	case len(result.Missing) > 0:
		c.logger.Infof("Scene %s: %s, %d file(s) missing", id, result.Status, len(result.Missing))
	default:
		c.logger.Infof("Scene %s: %s", id, result.Status)
	}
	for _, name := range result.Missing {
		c.logger.Debugf("Scene %s is missing %s", id, name)
	}

	if record := result.Record; record != nil {
		c.logger.Infof("Scene %s: recorded download of %d objects at %s", id, record.ObjNum,
			record.DownloadedAt.Format("2006-01-02T15:04:05Z07:00"))
		if result.Status != SceneStatusAbsent && record.ObjNum != result.ObjNum && len(result.Missing) == 0 {
			c.logger.Warnf("Scene %s: recorded obj_num %d differs from local mlp.json (%d)", id, record.ObjNum, result.ObjNum)
		}
	}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
