package fontfind

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindDirectHit(t *testing.T) {
	root := t.TempDir()
	want := filepath.Join(root, "Arial.ttf")
	touch(t, want)

	got, err := NewWithRoots([]string{root}).Find("Arial")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if got != want {
		t.Errorf("Find = %q, want %q", got, want)
	}
}

func TestFindNested(t *testing.T) {
	root := t.TempDir()
	want := filepath.Join(root, "truetype", "dejavu", "DejaVuSans.ttf")
	touch(t, want)

	got, err := NewWithRoots([]string{root}).Find("DejaVuSans")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if got != want {
		t.Errorf("Find = %q, want %q", got, want)
	}
}

func TestFamilyPriorityOverDirectoryOrder(t *testing.T) {
	// The second family exists in the first root, the first family in the
	// second root. The first family must still win.
	rootA := t.TempDir()
	rootB := t.TempDir()
	touch(t, filepath.Join(rootA, "Fallback.ttf"))
	want := filepath.Join(rootB, "Preferred.otf")
	touch(t, want)

	got, err := NewWithRoots([]string{rootA, rootB}).Find("Preferred, Fallback")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if got != want {
		t.Errorf("Find = %q, want %q", got, want)
	}
}

func TestFindFallbackFamily(t *testing.T) {
	root := t.TempDir()
	want := filepath.Join(root, "Second.ttc")
	touch(t, want)

	got, err := NewWithRoots([]string{root}).Find("First, Second")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if got != want {
		t.Errorf("Find = %q, want %q", got, want)
	}
}

func TestFindIgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Arial.woff2"))

	_, err := NewWithRoots([]string{root}).Find("Arial")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindNotFound(t *testing.T) {
	_, err := NewWithRoots([]string{t.TempDir()}).Find("Nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = NewWithRoots([]string{t.TempDir()}).Find(" , ")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty family list, got %v", err)
	}
}

func TestFindMissingRoot(t *testing.T) {
	root := t.TempDir()
	want := filepath.Join(root, "Arial.ttf")
	touch(t, want)

	// A nonexistent root is skipped, not fatal.
	got, err := NewWithRoots([]string{"/does/not/exist", root}).Find("Arial")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if got != want {
		t.Errorf("Find = %q, want %q", got, want)
	}
}
