package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/log"
	"github.com/NeRF-or-Nothing/mobilenerf-samples/internal/models/scene"
)

func writeScene(t *testing.T, target scene.Target, manifest string, skip ...string) {
	t.Helper()
	if err := os.MkdirAll(target.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{scene.ManifestFileName: manifest}
	n, err := scene.ParseManifest([]byte(manifest))
	if err == nil {
		for _, name := range scene.ObjectFileNames(n) {
			files[name] = "data"
		}
	}
	for name, body := range files {
		if slices.Contains(skip, name) {
			continue
		}
		if err := os.WriteFile(filepath.Join(target.Dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCheckScene(t *testing.T) {
	checker := NewSceneChecker(log.NewNopLogger(), nil)
	base := t.TempDir()

	complete := scene.NewTarget(base, scene.Category360, "lego")
	writeScene(t, complete, `{"obj_num": 2}`)

	incomplete := scene.NewTarget(base, scene.Category360, "ship")
	writeScene(t, incomplete, `{"obj_num": 2}`, "shape1.pngfeat1.png", "shape1_7.obj")

	noManifest := scene.NewTarget(base, scene.Category360, "mic")
	writeScene(t, noManifest, `{"obj_num": 1}`, scene.ManifestFileName)

	absent := scene.NewTarget(base, scene.Category360, "drums")

	tests := []struct {
		target  scene.Target
		status  SceneStatus
		missing []string
	}{
		{complete, SceneStatusComplete, nil},
		{incomplete, SceneStatusIncomplete, []string{"shape1.pngfeat1.png", "shape1_7.obj"}},
		{noManifest, SceneStatusIncomplete, []string{scene.ManifestFileName}},
		{absent, SceneStatusAbsent, nil},
	}

	for _, tt := range tests {
		result, err := checker.CheckScene(context.Background(), tt.target)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.target.SceneID, err)
		}
		if result.Status != tt.status {
			t.Errorf("%s: expected status %s, got %s", tt.target.SceneID, tt.status, result.Status)
		}
		if !slices.Equal(result.Missing, tt.missing) {
			t.Errorf("%s: expected missing %v, got %v", tt.target.SceneID, tt.missing, result.Missing)
		}
	}
}

func TestCheckSceneMalformedManifest(t *testing.T) {
	target := scene.NewTarget(t.TempDir(), scene.CategoryForwardFacing, "room")
	writeScene(t, target, `{"obj_num": "many"}`)

	if _, err := NewSceneChecker(log.NewNopLogger(), nil).CheckScene(context.Background(), target); err == nil {
		t.Fatal("Expected an error for a malformed manifest")
	}
}

func TestCheckJob(t *testing.T) {
	base := t.TempDir()
	jobs, err := Select(base, "", true)
	if err != nil {
		t.Fatal(err)
	}
	writeScene(t, scene.NewTarget(jobs[1].Dir, scene.CategoryForwardFacing, "fern"), `{"obj_num": 1}`)

	results, err := NewSceneChecker(log.NewNopLogger(), nil).CheckJob(context.Background(), jobs[1])
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != len(jobs[1].Scenes) {
		t.Fatalf("Expected %d results, got %d", len(jobs[1].Scenes), len(results))
	}
	for _, result := range results {
		want := SceneStatusAbsent
		if result.Target.SceneID == "fern" {
			want = SceneStatusComplete
		}
		if result.Status != want {
			t.Errorf("%s: expected %s, got %s", result.Target.SceneID, want, result.Status)
		}
	}
}

func TestCheckSceneTruncatesMissing(t *testing.T) {
	target := scene.NewTarget(t.TempDir(), scene.Category360, "chair")
	if err := os.MkdirAll(target.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := []byte(`{"obj_num": 1000000000}`)
	if err := os.WriteFile(filepath.Join(target.Dir, scene.ManifestFileName), manifest, 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := NewSceneChecker(log.NewNopLogger(), nil).CheckScene(context.Background(), target)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Status != SceneStatusIncomplete {
		t.Errorf("Expected %s, got %s", SceneStatusIncomplete, result.Status)
	}
	if !result.Truncated {
		t.Error("Expected the missing list to be truncated")
	}
	if len(result.Missing) != maxReportedMissing {
		t.Fatalf("Expected %d missing files, got %d", maxReportedMissing, len(result.Missing))
	}
	if result.Missing[0] != "shape0.pngfeat0.png" {
		t.Errorf("Expected shape0.pngfeat0.png first, got %s", result.Missing[0])
	}
}

type fakeHistory struct {
	records map[string]*scene.DownloadRecord
	err     error
	calls   []string
}

func (h *fakeHistory) GetRecord(_ context.Context, category scene.Category, sceneID string) (*scene.DownloadRecord, error) {
	id := scene.RecordID(category, sceneID)
	h.calls = append(h.calls, id)
	if h.err != nil {
		return nil, h.err
	}
	record, ok := h.records[id]
	if !ok {
		return nil, scene.ErrRecordNotFound
	}
	return record, nil
}

func TestCheckSceneHistory(t *testing.T) {
	base := t.TempDir()
	lego := scene.NewTarget(base, scene.Category360, "lego")
	writeScene(t, lego, `{"obj_num": 2}`)
	ship := scene.NewTarget(base, scene.Category360, "ship")
	writeScene(t, ship, `{"obj_num": 1}`)
	drums := scene.NewTarget(base, scene.Category360, "drums")

	downloadedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	legoRecord := &scene.DownloadRecord{ID: scene.RecordID(scene.Category360, "lego"), Target: lego, ObjNum: 2, DownloadedAt: downloadedAt}
	drumsRecord := &scene.DownloadRecord{ID: scene.RecordID(scene.Category360, "drums"), Target: drums, ObjNum: 4, DownloadedAt: downloadedAt}
	history := &fakeHistory{records: map[string]*scene.DownloadRecord{
		legoRecord.ID:  legoRecord,
		drumsRecord.ID: drumsRecord,
	}}
	checker := NewSceneChecker(log.NewNopLogger(), history)

	tests := []struct {
		target scene.Target
		status SceneStatus
		record *scene.DownloadRecord
	}{
		{lego, SceneStatusComplete, legoRecord},
		{ship, SceneStatusComplete, nil},
		{drums, SceneStatusAbsent, drumsRecord},
	}

	for _, tt := range tests {
		result, err := checker.CheckScene(context.Background(), tt.target)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.target.SceneID, err)
		}
		if result.Status != tt.status {
			t.Errorf("%s: expected status %s, got %s", tt.target.SceneID, tt.status, result.Status)
		}
		if result.Record != tt.record {
			t.Errorf("%s: expected record %v, got %v", tt.target.SceneID, tt.record, result.Record)
		}
	}

	want := []string{"Sample_Scenes_360/lego", "Sample_Scenes_360/ship", "Sample_Scenes_360/drums"}
	if !slices.Equal(history.calls, want) {
		t.Errorf("Expected lookups %v, got %v", want, history.calls)
	}
}

func TestCheckSceneHistoryError(t *testing.T) {
	target := scene.NewTarget(t.TempDir(), scene.CategoryForwardFacing, "fern")
	writeScene(t, target, `{"obj_num": 1}`)

	history := &fakeHistory{err: errors.New("connection refused")}
	result, err := NewSceneChecker(log.NewNopLogger(), history).CheckScene(context.Background(), target)
	if err != nil {
		t.Fatalf("Expected a history failure not to fail the check, got %v", err)
	}
	if result.Status != SceneStatusComplete {
		t.Errorf("Expected %s, got %s", SceneStatusComplete, result.Status)
	}
	if result.Record != nil {
		t.Errorf("Expected no record, got %v", result.Record)
	}
}
