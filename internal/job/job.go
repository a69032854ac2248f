package job

import (
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/photomark/photomark/internal/config"
	"github.com/photomark/photomark/internal/ffmpeg"
	"github.com/photomark/photomark/internal/logging"
	"github.com/photomark/photomark/internal/render"
)

// ErrUnsupportedFormat is returned for input files whose extension is
// neither a known image nor a known video format.
var ErrUnsupportedFormat = errors.New("unsupported file extension")

var (
	imageExts = []string{".jpg", ".jpeg", ".png", ".bmp"}
	videoExts = []string{".avi", ".m4a", ".mkv", ".mov", ".mp4", ".wmv"}
)

const tempDirPrefix = "photomark_"

// Job applies one watermark style to one input file. A Job is built
// from CLI flags or from a sidecar record and run exactly once.
type Job struct {
	InputPath  string
	OutputPath string
	Quality    int
	Style      *config.Style
	Overwrite  bool
}

// Run dispatches on the input file's extension: still images are
// composited and re-encoded directly, videos delegate the per-frame
// overlay to ffmpeg.
func (j *Job) Run() error {
	ext := strings.ToLower(filepath.Ext(j.InputPath))
	switch {
	case slices.Contains(imageExts, ext):
		return j.runImage()
	case slices.Contains(videoExts, ext):
		return j.runVideo()
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%s", ext)
	}
}

func (j *Job) refuseExistingOutput() error {
	if j.Overwrite {
		return nil
	}
	if _, err := os.Stat(j.OutputPath); err == nil {
		return errors.Errorf("output file already exists: %s", j.OutputPath)
	}
	return nil
}

func (j *Job) runImage() error {
	log := logging.WithComponent("job")

	if err := j.refuseExistingOutput(); err != nil {
		return err
	}

	src, err := imaging.Open(j.InputPath)
	if err != nil {
		return errors.Wrapf(err, "decode %s", j.InputPath)
	}

	comp, err := render.NewCompositor(j.Style.FontFile)
	if err != nil {
		return err
	}
	out, err := comp.Composite(src, j.Style)
	if err != nil {
		return errors.Wrapf(err, "watermark %s", j.InputPath)
	}

	log.Debug().Str("input", j.InputPath).Str("output", j.OutputPath).
		Int("quality", j.Quality).Msg("encoding watermarked image")

	if err := imaging.Save(out, j.OutputPath, imaging.JPEGQuality(j.Quality)); err != nil {
		return errors.Wrapf(err, "encode %s", j.OutputPath)
	}
	return nil
}

func (j *Job) runVideo() error {
	log := logging.WithComponent("job")

	if err := j.refuseExistingOutput(); err != nil {
		return err
	}

	meta, err := ffmpeg.Probe(j.InputPath)
	if err != nil {
		return err
	}
	log.Debug().Str("input", j.InputPath).
		Int("width", meta.Width).Int("height", meta.Height).
		Msg("probed video dimensions")

	// The watermark frame is rendered against a fully transparent base;
	// ffmpeg does the per-frame compositing.
	base := image.NewNRGBA(image.Rect(0, 0, meta.Width, meta.Height))

	comp, err := render.NewCompositor(j.Style.FontFile)
	if err != nil {
		return err
	}
	frame, err := comp.Composite(base, j.Style)
	if err != nil {
		return errors.Wrapf(err, "watermark %s", j.InputPath)
	}

	tempDir, err := os.MkdirTemp("", tempDirPrefix)
	if err != nil {
		return errors.WithStack(err)
	}
	defer os.RemoveAll(tempDir)

	framePath := filepath.Join(tempDir, "watermark.png")
	if err := imaging.Save(frame, framePath); err != nil {
		return errors.Wrapf(err, "write watermark frame for %s", j.InputPath)
	}

	return ffmpeg.Overlay(j.InputPath, framePath, j.OutputPath, j.Overwrite)
}
