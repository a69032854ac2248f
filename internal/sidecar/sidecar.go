package sidecar

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// SchemaVersion is the current sidecar schema version. Version 0 marks
// legacy files written before the field existed and is read as v1.
const SchemaVersion = 1

// Metadata is the persisted watermark record written next to an input
// file as <input>.json. It stores the unresolved font family, never the
// resolved font path, so replays re-run font discovery.
type Metadata struct {
	SchemaVersion    int     `json:"schema_version"`
	Text             string  `json:"text"`
	Position         string  `json:"position"`
	FontFamily       string  `json:"font_family"`
	FontSize         float64 `json:"font_size"`
	Opacity          float64 `json:"opacity"`
	LineSpacing      float64 `json:"line_spacing"`
	ShadowOffset     float64 `json:"shadow_offset"`
	ShadowBlurRadius float64 `json:"shadow_blur_radius"`
	OutputFile       string  `json:"output_file"`
	Quality          int     `json:"quality"`
}

// Path returns the sidecar path for an input file.
func Path(inputPath string) string {
	return inputPath + ".json"
}

// Exists reports whether inputPath has a sidecar file.
func Exists(inputPath string) bool {
	info, err := os.Stat(Path(inputPath))
	return err == nil && !info.IsDir()
}

// Save writes the sidecar for inputPath, stamping the current schema
// version.
func Save(inputPath string, meta *Metadata) error {
	stamped := *meta
	stamped.SchemaVersion = SchemaVersion

	data, err := json.MarshalIndent(&stamped, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(Path(inputPath), data, 0o644); err != nil {
		return errors.Wrapf(err, "write sidecar for %s", inputPath)
	}
	return nil
}

// Load reads the sidecar for inputPath. Sidecars from a newer schema
// than this build understands are refused.
func Load(inputPath string) (*Metadata, error) {
	data, err := os.ReadFile(Path(inputPath))
	if err != nil {
		return nil, errors.Wrapf(err, "read sidecar for %s", inputPath)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "parse sidecar for %s", inputPath)
	}
	if meta.SchemaVersion > SchemaVersion {
		return nil, errors.Errorf("sidecar for %s has unsupported schema version %d",
			inputPath, meta.SchemaVersion)
	}
	return &meta, nil
}
