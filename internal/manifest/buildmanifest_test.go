package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBuildManifest_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), BuildManifestFileName)
	bm := NewBuildManifest([]string{"alpha"}, map[string]string{
		"rules/10-a.md": "alpha",
		"settings.json": "settings-compiler",
	})

	if _, err := time.Parse(time.RFC3339, bm.BuiltAt); err != nil {
		t.Errorf("BuiltAt %q is not RFC3339: %v", bm.BuiltAt, err)
	}

	if err := WriteBuildManifest(path, bm); err != nil {
		t.Fatalf("WriteBuildManifest error: %v", err)
	}

	got, err := LoadBuildManifest(path)
	if err != nil {
		t.Fatalf("LoadBuildManifest error: %v", err)
	}
	if got.BuiltAt != bm.BuiltAt {
		t.Errorf("BuiltAt = %q, want %q", got.BuiltAt, bm.BuiltAt)
	}
	if len(got.Files) != 2 || got.Files["rules/10-a.md"] != "alpha" {
		t.Errorf("Files = %v", got.Files)
	}
	paths := got.Paths()
	if len(paths) != 2 || paths[0] != "rules/10-a.md" || paths[1] != "settings.json" {
		t.Errorf("Paths = %v", paths)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}
}

func TestLoadBuildManifest_Missing(t *testing.T) {
	bm, err := LoadBuildManifest(filepath.Join(t.TempDir(), BuildManifestFileName))
	if err != nil {
		t.Fatalf("LoadBuildManifest error: %v", err)
	}
	if bm != nil {
		t.Errorf("bm = %+v, want nil", bm)
	}
}

func TestLoadBuildManifest_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), BuildManifestFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBuildManifest(path); err == nil {
		t.Error("expected error for corrupt build manifest")
	}
}
