package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProject(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ProjectFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadProjectDefaults(t *testing.T) {
	dir := t.TempDir()
	p, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if p.Index != DefaultIndexPath {
		t.Errorf("Index = %q, want %q", p.Index, DefaultIndexPath)
	}
	if got := p.SourceDirs(); len(got) != 1 || got[0] != dir {
		t.Errorf("SourceDirs = %v, want [%s]", got, dir)
	}
}

func TestLoadProjectFile(t *testing.T) {
	dir := writeProject(t, "index: build/index.db\nsources:\n  - lib\n  - test\n")
	p, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if want := filepath.Join(dir, "build/index.db"); p.IndexPath() != want {
		t.Errorf("IndexPath = %q, want %q", p.IndexPath(), want)
	}
	dirs := p.SourceDirs()
	if len(dirs) != 2 || dirs[0] != filepath.Join(dir, "lib") {
		t.Errorf("SourceDirs = %v", dirs)
	}
}

func TestLoadProjectRejectsAbsolutePaths(t *testing.T) {
	dir := writeProject(t, "index: /tmp/evil.db\n")
	if _, err := LoadProject(dir); err == nil {
		t.Fatal("expected an error for an absolute index path")
	}
}

func TestLoadProjectRejectsBadYAML(t *testing.T) {
	dir := writeProject(t, "index: [\n")
	if _, err := LoadProject(dir); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestIsSourceFile(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"lib/enum.ex", true},
		{"test/enum_test.exs", true},
		{"lib/Enum.EX", true},
		{"README.md", false},
		{"enum.erl", false},
	}
	for _, tc := range cases {
		if got := IsSourceFile(tc.path); got != tc.want {
			t.Errorf("IsSourceFile(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
