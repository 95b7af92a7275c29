package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	texerrors "github.com/wippyai/texsvg/errors"
)

func TestFromString(t *testing.T) {
	src := FromString("inline.js", "var x = 1;")

	if src.Name != "inline.js" {
		t.Errorf("Name = %q", src.Name)
	}
	if src.Size() != len("var x = 1;") {
		t.Errorf("Size = %d", src.Size())
	}
	if len(src.Digest) != 64 {
		t.Errorf("Digest length = %d, want 64", len(src.Digest))
	}
	if len(src.ShortDigest()) != 12 {
		t.Errorf("ShortDigest = %q", src.ShortDigest())
	}

	other := FromString("other.js", "var x = 1;")
	if other.Digest != src.Digest {
		t.Error("digest should depend on code only")
	}
	changed := FromString("inline.js", "var x = 2;")
	if changed.Digest == src.Digest {
		t.Error("digest should change with code")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.js")
	if err := os.WriteFile(path, []byte("globalThis.render = function (s) { return s; };"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if src.Name != "bundle.js" {
		t.Errorf("Name = %q, want bundle.js", src.Name)
	}
	if src.Code == "" {
		t.Error("Code should not be empty")
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.js"))
	if err == nil {
		t.Fatal("expected error for missing bundle")
	}
	if !errors.Is(err, texerrors.ErrInitialization) {
		t.Errorf("expected initialization error, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cause should be preserved, got %v", err)
	}
}

func TestPathAndDefault(t *testing.T) {
	t.Setenv(EnvPath, "")
	if Path() != DefaultPath {
		t.Errorf("Path() = %q, want %q", Path(), DefaultPath)
	}

	path := filepath.Join(t.TempDir(), "custom.js")
	if err := os.WriteFile(path, []byte("1"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPath, path)
	if Path() != path {
		t.Errorf("Path() = %q, want %q", Path(), path)
	}

	src, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if src.Name != "custom.js" {
		t.Errorf("Name = %q, want custom.js", src.Name)
	}
}
