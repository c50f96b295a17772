// This file contains the implementation of SceneFetcher. This service downloads sample scenes, one after the other,
// into their target directories. For each scene it fetches mlp.json, reads obj_num from it, and then fetches the textures
// and meshes of every object in a fixed order.
//
// A scene whose directory already exists is considered downloaded and is skipped without any network access.
// The fetcher does not clean up after a failure: a directory left behind by a failed scene will be skipped on the next run.
// Any transfer or manifest error stops the fetcher immediately.

package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/log"
	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/models/scene"
)

// SceneRecorder is notified after a scene has been downloaded completely.
// Recorders are informational, so a failing recorder never stops the downloads.
type SceneRecorder interface {
	RecordScene(ctx context.Context, record *scene.DownloadRecord) error
}

// FetchStats counts what a SceneFetcher has done so far.
type FetchStats struct {
	Downloaded int
	Skipped    int
	Files      int
}

type SceneFetcher struct {
	transport Transport
	baseURL   string
	recorders []SceneRecorder
	logger    *log.Logger
	stats     FetchStats
}

// NewSceneFetcher creates a fetcher downloading scenes below baseURL through transport.
func NewSceneFetcher(transport Transport, baseURL string, logger *log.Logger, recorders ...SceneRecorder) *SceneFetcher {
	return &SceneFetcher{
		transport: transport,
		baseURL:   baseURL,
		recorders: recorders,
		logger:    logger,
	}
}

// Stats returns the counters accumulated over every call to FetchJob and FetchScene.
func (f *SceneFetcher) Stats() FetchStats {
	return f.stats
}

// FetchJob downloads every scene of the job in order. It stops at the first error.
func (f *SceneFetcher) FetchJob(ctx context.Context, job Job) error {
	f.logger.Infof("Downloading %d %s scene(s) into %s", len(job.Scenes), job.Category, job.Dir)

	for _, target := range job.Targets() {
		if _, err := f.FetchScene(ctx, target); err != nil {
			return err
		}
	}
	return nil
}

// FetchScene downloads a single scene. It returns false, nil when the scene directory already exists.
func (f *SceneFetcher) FetchScene(ctx context.Context, target scene.Target) (bool, error) {
	f.logger.Infof("Downloading MobileNeRF sample scene: %s", target.SceneID)

	_, err := os.Stat(target.Dir)
	if err == nil {
		f.logger.Infof("A folder of the scene %s already exists! Skipping...", target.SceneID)
		f.stats.Skipped++
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to inspect %s: %w", target.Dir, err)
	}

	if err := os.MkdirAll(target.Dir, os.ModePerm); err != nil {
		return false, fmt.Errorf("error creating directory: %w", err)
	}

	f.logger.Infof("From URL: %s", target.RootURL(f.baseURL))
	f.logger.Infof("To directory: %s", target.Dir)

	manifest := target.ManifestAsset(f.baseURL)
	if err := f.download(manifest); err != nil {
		return false, err
	}

	objNum, err := scene.LoadManifest(manifest.Path)
	if err != nil {
		return false, fmt.Errorf("scene %s: %w", target.SceneID, err)
	}
	f.logger.Debugf("Scene %s has %d objects", target.SceneID, objNum)

	files := 1
	for asset := range target.ObjectAssets(f.baseURL, objNum) {
		if err := f.download(asset); err != nil {
			return false, err
		}
		files++
	}

	f.stats.Downloaded++
	f.logger.Infof("Scene %s downloaded (%d objects, %d files)", target.SceneID, objNum, files)

	f.record(ctx, &scene.DownloadRecord{
		ID:           scene.RecordID(target.Category, target.SceneID),
		Target:       target,
		SourceURL:    target.RootURL(f.baseURL),
		ObjNum:       objNum,
		Files:        append([]string{scene.ManifestFileName}, scene.ObjectFileNames(objNum)...),
		DownloadedAt: time.Now().UTC(),
	})
	return true, nil
}

func (f *SceneFetcher) download(asset scene.Asset) error {
	f.logger.Debugf("Downloading %s", asset.URL)
	if err := f.transport.Download(asset.URL, asset.Path); err != nil {
		f.logger.Errorf("Error downloading file: %v", err)
		return err
	}
	f.stats.Files++
	f.logger.Debugf("File saved at %s", asset.Path)
	return nil
}

func (f *SceneFetcher) record(ctx context.Context, record *scene.DownloadRecord) {
	for _, recorder := range f.recorders {
		if err := recorder.RecordScene(ctx, record); err != nil {
			f.logger.Errorf("Failed to record download of %s: %v", record.ID, err)
		}
	}
}
