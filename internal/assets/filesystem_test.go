package assets

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeAsset(t *testing.T, base string, kind Kind, name, content string) {
	t.Helper()

	dir := filepath.Join(base, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create %s dir: %v", kind, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+assetExt), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write asset: %v", err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if loader == nil {
			t.Fatal("NewFilesystemLoader() returned nil")
		}
	})

	t.Run("empty path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader(\"\") error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory returns error", func(t *testing.T) {
		t.Parallel()

		filePath := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(filePath, []byte("test"), 0o644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		_, err := NewFilesystemLoader(filePath)
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_Load(t *testing.T) {
	t.Parallel()

	t.Run("loads existing theme", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		writeAsset(t, tmpDir, KindTheme, "custom", "name: custom\n")

		loader, err := NewFilesystemLoader(tmpDir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		got, err := loader.Load(KindTheme, "custom")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if string(got) != "name: custom\n" {
			t.Errorf("Load() = %q, want %q", got, "name: custom\n")
		}
	})

	t.Run("missing asset returns ErrAssetNotFound", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		_, err = loader.Load(KindPalette, "missing")
		if !errors.Is(err, ErrAssetNotFound) {
			t.Errorf("Load() error = %v, want ErrAssetNotFound", err)
		}
	})

	t.Run("symlink escaping base returns ErrPathTraversal", func(t *testing.T) {
		t.Parallel()

		outside := filepath.Join(t.TempDir(), "secret.yaml")
		if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
			t.Fatalf("failed to write outside file: %v", err)
		}

		tmpDir := t.TempDir()
		themes := filepath.Join(tmpDir, string(KindTheme))
		if err := os.MkdirAll(themes, 0o755); err != nil {
			t.Fatalf("failed to create themes dir: %v", err)
		}
		if err := os.Symlink(outside, filepath.Join(themes, "escape.yaml")); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}

		loader, err := NewFilesystemLoader(tmpDir)
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}

		_, err = loader.Load(KindTheme, "escape")
		if !errors.Is(err, ErrPathTraversal) {
			t.Errorf("Load() error = %v, want ErrPathTraversal", err)
		}
	})
}

func TestFilesystemLoader_List(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeAsset(t, tmpDir, KindTheme, "beta", "name: beta\n")
	writeAsset(t, tmpDir, KindTheme, "alpha", "name: alpha\n")
	if err := os.WriteFile(filepath.Join(tmpDir, string(KindTheme), "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write stray file: %v", err)
	}

	loader, err := NewFilesystemLoader(tmpDir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	got, err := loader.List(KindTheme)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if want := []string{"alpha", "beta"}; !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	got, err = loader.List(KindPalette)
	if err != nil {
		t.Fatalf("List(palettes) error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List(palettes) = %v, want empty", got)
	}
}
