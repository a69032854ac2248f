package job

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/photomark/photomark/internal/config"
)

func testStyle(t *testing.T) *config.Style {
	t.Helper()
	fontFile := filepath.Join(t.TempDir(), "GoRegular.ttf")
	if err := os.WriteFile(fontFile, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	return &config.Style{
		Text:             "test watermark",
		Position:         config.Position{Horizontal: config.Right, Vertical: config.Bottom},
		FontSize:         config.DefaultFontSize,
		Opacity:          config.DefaultOpacity,
		LineSpacing:      config.DefaultLineSpacing,
		ShadowOffset:     config.DefaultShadowOffset,
		ShadowBlurRadius: config.DefaultShadowBlurRadius,
		ShadowColor:      config.DefaultShadowColor,
		FontFile:         fontFile,
	}
}

func TestRunUnsupportedExtension(t *testing.T) {
	for _, name := range []string{"notes.txt", "doc.pdf", "archive.tar.gz", "noext"} {
		j := &Job{
			InputPath:  name,
			OutputPath: "out" + filepath.Ext(name),
			Quality:    config.DefaultQuality,
			Style:      testStyle(t),
		}
		if err := j.Run(); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Run(%s): expected ErrUnsupportedFormat, got %v", name, err)
		}
	}
}

func TestRunRefusesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.jpg")
	if err := os.WriteFile(output, []byte("existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	j := &Job{
		// The input deliberately does not exist: the overwrite check must
		// fire before anything is opened.
		InputPath:  filepath.Join(dir, "missing.jpg"),
		OutputPath: output,
		Quality:    config.DefaultQuality,
		Style:      testStyle(t),
		Overwrite:  false,
	}
	err := j.Run()
	if err == nil {
		t.Fatal("expected an error for an existing output file")
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("wrong error kind: %v", err)
	}

	data, readErr := os.ReadFile(output)
	if readErr != nil || string(data) != "existing" {
		t.Error("existing output file was modified")
	}
}

func TestRunImageEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "out.png")

	src := imaging.New(320, 240, config.DefaultShadowColor)
	if err := imaging.Save(src, input); err != nil {
		t.Fatal(err)
	}

	j := &Job{
		InputPath:  input,
		OutputPath: output,
		Quality:    config.DefaultQuality,
		Style:      testStyle(t),
	}
	if err := j.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got, err := imaging.Open(output)
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	if got.Bounds().Dx() != 320 || got.Bounds().Dy() != 240 {
		t.Errorf("output dimensions %v, want 320x240", got.Bounds())
	}
}

func TestRunImageMissingInput(t *testing.T) {
	dir := t.TempDir()
	j := &Job{
		InputPath:  filepath.Join(dir, "missing.jpg"),
		OutputPath: filepath.Join(dir, "out.jpg"),
		Quality:    config.DefaultQuality,
		Style:      testStyle(t),
	}
	if err := j.Run(); err == nil {
		t.Error("expected an error for a missing input file")
	}
}
