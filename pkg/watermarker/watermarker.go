package watermarker

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/photomark/photomark/internal/config"
	"github.com/photomark/photomark/internal/fontfind"
	"github.com/photomark/photomark/internal/job"
	"github.com/photomark/photomark/internal/logging"
	"github.com/photomark/photomark/internal/sidecar"
)

// ErrSameFile is returned when input and output paths are identical;
// in-place overwriting is never allowed.
var ErrSameFile = errors.New("input file and output file are the same")

// Options carries the full watermark flag surface for one invocation.
type Options struct {
	Text             []string
	Position         string
	FontFamily       string
	FontSize         float64
	Opacity          float64
	LineSpacing      float64
	ShadowOffset     float64
	ShadowBlurRadius float64
	InputFile        string
	OutputFile       string
	Quality          int
	Verbose          bool
}

// RunSingle watermarks one explicitly named file and, on success,
// persists a sidecar record next to the input so batch mode can replay
// the same style later.
func RunSingle(opts *Options) error {
	log := logging.WithComponent("watermarker")

	if len(opts.Text) == 0 || opts.InputFile == "" || opts.OutputFile == "" {
		return errors.New("--text, --input-file and --output-file are required for single-file mode")
	}
	if opts.InputFile == opts.OutputFile {
		return errors.Wrapf(ErrSameFile, "%s", opts.InputFile)
	}

	pos, err := config.ParsePosition(opts.Position)
	if err != nil {
		return err
	}

	fontFile, err := fontfind.New().Find(opts.FontFamily)
	if err != nil {
		return err
	}
	log.Info().Str("input", opts.InputFile).Str("output", opts.OutputFile).
		Str("font", fontFile).Msg("processing file")

	text := strings.Join(opts.Text, "\n")
	j := &job.Job{
		InputPath:  opts.InputFile,
		OutputPath: opts.OutputFile,
		Quality:    opts.Quality,
		Style:      styleFor(text, pos, fontFile, opts),
		Overwrite:  false,
	}
	if err := j.Run(); err != nil {
		return errors.Wrapf(err, "watermark %s", opts.InputFile)
	}

	return sidecar.Save(opts.InputFile, &sidecar.Metadata{
		Text:             text,
		Position:         opts.Position,
		FontFamily:       opts.FontFamily,
		FontSize:         opts.FontSize,
		Opacity:          opts.Opacity,
		LineSpacing:      opts.LineSpacing,
		ShadowOffset:     opts.ShadowOffset,
		ShadowBlurRadius: opts.ShadowBlurRadius,
		OutputFile:       opts.OutputFile,
		Quality:          opts.Quality,
	})
}

// RunBatch replays recorded sidecar styles over the given files. Files
// without a sidecar are skipped; the first failing job aborts the batch.
func RunBatch(files []string, opts *Options) error {
	log := logging.WithComponent("watermarker")

	if len(opts.Text) > 0 || opts.InputFile != "" || opts.OutputFile != "" {
		return errors.New("--text, --input-file and --output-file are not allowed for batch mode")
	}

	files, err := expandBatchArgs(files)
	if err != nil {
		return err
	}
	log.Info().Int("candidates", len(files)).Msg("entering batch mode")

	locator := fontfind.New()
	for _, input := range files {
		if !sidecar.Exists(input) {
			log.Debug().Str("input", input).Msg("no sidecar, skipping")
			continue
		}

		meta, err := sidecar.Load(input)
		if err != nil {
			return err
		}
		if input == meta.OutputFile {
			return errors.Wrapf(ErrSameFile, "%s", input)
		}

		pos, err := config.ParsePosition(meta.Position)
		if err != nil {
			return errors.Wrapf(err, "sidecar for %s", input)
		}
		fontFile, err := locator.Find(meta.FontFamily)
		if err != nil {
			return errors.Wrapf(err, "sidecar for %s", input)
		}
		log.Info().Str("input", input).Str("output", meta.OutputFile).
			Str("font", fontFile).Msg("processing file")

		j := &job.Job{
			InputPath:  input,
			OutputPath: meta.OutputFile,
			Quality:    meta.Quality,
			Style: &config.Style{
				Text:             meta.Text,
				Position:         pos,
				FontSize:         meta.FontSize,
				Opacity:          meta.Opacity,
				LineSpacing:      meta.LineSpacing,
				ShadowOffset:     meta.ShadowOffset,
				ShadowBlurRadius: meta.ShadowBlurRadius,
				ShadowColor:      config.DefaultShadowColor,
				FontFile:         fontFile,
			},
			Overwrite: true,
		}
		if err := j.Run(); err != nil {
			return errors.Wrapf(err, "watermark %s", input)
		}
	}
	return nil
}

func styleFor(text string, pos config.Position, fontFile string, opts *Options) *config.Style {
	return &config.Style{
		Text:             text,
		Position:         pos,
		FontSize:         opts.FontSize,
		Opacity:          opts.Opacity,
		LineSpacing:      opts.LineSpacing,
		ShadowOffset:     opts.ShadowOffset,
		ShadowBlurRadius: opts.ShadowBlurRadius,
		ShadowColor:      config.DefaultShadowColor,
		FontFile:         fontFile,
	}
}

// expandBatchArgs expands a sole "." argument to the current
// directory's listing.
func expandBatchArgs(args []string) ([]string, error) {
	if len(args) != 1 || args[0] != "." {
		return args, nil
	}

	entries, err := os.ReadDir(".")
	if err != nil {
		return nil, errors.Wrap(err, "list current directory")
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}
