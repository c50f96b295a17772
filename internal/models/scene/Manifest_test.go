package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestParseManifest(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr error
	}{
		{"count", `{"obj_num": 3}`, 3, nil},
		{"zero", `{"obj_num": 0}`, 0, nil},
		{"with weights", `{"0_weights": [[0.1, 0.2]], "0_bias": [0.3], "obj_num": 8}`, 8, nil},
		{"missing", `{"0_bias": [0.3]}`, 0, ErrMissingObjNum},
		{"null", `{"obj_num": null}`, 0, ErrMissingObjNum},
		{"negative", `{"obj_num": -1}`, 0, ErrNegativeObjNum},
		{"too large", `{"obj_num": 2305843009213693952}`, 0, ErrObjNumTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseManifest([]byte(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %d objects, got %d", tt.want, got)
			}
		})
	}
}

func TestParseManifestBound(t *testing.T) {
	got, err := ParseManifest([]byte(fmt.Sprintf(`{"obj_num": %d}`, MaxObjNum)))
	if err != nil {
		t.Fatalf("expected MaxObjNum to be accepted, got %v", err)
	}
	if got != MaxObjNum {
		t.Errorf("expected %d objects, got %d", MaxObjNum, got)
	}

	_, err = ParseManifest([]byte(fmt.Sprintf(`{"obj_num": %d}`, MaxObjNum+1)))
	if !errors.Is(err, ErrObjNumTooLarge) {
		t.Errorf("expected ErrObjNumTooLarge, got %v", err)
	}
}

func TestParseManifestMalformed(t *testing.T) {
	for _, data := range []string{``, `not json`, `{"obj_num": "three"}`, `[1, 2]`} {
		if _, err := ParseManifest([]byte(data)); err == nil {
			t.Errorf("expected error for %q", data)
		}
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(p, []byte(`{"obj_num": 2}`), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := LoadManifest(p)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("want 2 objects, got %d", n)
	}

	if _, err := LoadManifest(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for a missing manifest")
	}
}
