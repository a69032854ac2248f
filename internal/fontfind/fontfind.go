package fontfind

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// ErrNotFound is returned when no requested font family resolves to a file.
var ErrNotFound = errors.New("font not found")

var fontExts = []string{".otf", ".ttf", ".ttc"}

// Locator resolves font family names to font files by searching a set
// of platform font root directories.
type Locator struct {
	roots []string
}

// New returns a Locator over the platform's standard font directories.
func New() *Locator {
	return &Locator{roots: platformRoots()}
}

// NewWithRoots returns a Locator over an explicit set of root directories.
func NewWithRoots(roots []string) *Locator {
	return &Locator{roots: slices.Clone(roots)}
}

func platformRoots() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/System/Library/Fonts",
			"/Library/Fonts",
			filepath.Join(home, "Library", "Fonts"),
		}
	case "windows":
		return []string{`C:\Windows\Fonts`}
	default:
		return []string{
			"/usr/share/fonts",
			"/usr/local/share/fonts",
			filepath.Join(home, ".fonts"),
			filepath.Join(home, ".local", "share", "fonts"),
		}
	}
}

// Find resolves a comma-separated priority list of font family names to
// the first matching font file. Every root directory is exhausted for an
// earlier family name before a later family name is tried, so family
// priority always wins over directory order.
func (l *Locator) Find(familyList string) (string, error) {
	var families []string
	for _, name := range strings.Split(familyList, ",") {
		if name = strings.TrimSpace(name); name != "" {
			families = append(families, name)
		}
	}
	if len(families) == 0 {
		return "", errors.Wrap(ErrNotFound, "no font family given")
	}

	for _, family := range families {
		for _, root := range l.roots {
			if path := searchDir(root, family); path != "" {
				return path, nil
			}
		}
	}
	return "", errors.Wrapf(ErrNotFound, "%s", familyList)
}

// searchDir walks the directory tree under root depth-first with an
// explicit stack, returning the first file whose stem matches family
// and whose extension is a known font container format.
func searchDir(root, family string) string {
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, ext := range fontExts {
			candidate := filepath.Join(dir, family+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		// Push subdirectories in reverse so they pop in directory order.
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].IsDir() {
				stack = append(stack, filepath.Join(dir, entries[i].Name()))
			}
		}
	}
	return ""
}
