package types

import (
	"os"
	"path/filepath"
)

// ImageFormat is the encoding used for the intermediate page images.
type ImageFormat string

const (
	FormatJPG ImageFormat = "jpg"
	FormatPNG ImageFormat = "png"
)

// FlattenBackend selects the desktop application used to export a
// presentation file to PDF before conversion.
type FlattenBackend string

const (
	FlattenAuto        FlattenBackend = "auto"
	FlattenPowerPoint  FlattenBackend = "powerpoint"
	FlattenKeynote     FlattenBackend = "keynote"
	FlattenLibreOffice FlattenBackend = "libreoffice"
)

const (
	// DefaultDPI is the rasterization resolution for PDF pages.
	DefaultDPI = 300

	// DefaultJPEGQuality is the encoder quality used for jpg page images.
	DefaultJPEGQuality = 95
)

// ConversionConfig holds settings for a single PDF-to-PPTX run.
type ConversionConfig struct {
	// Format selects the page image encoding: jpg or png (default jpg).
	Format ImageFormat `json:"format" yaml:"format"`

	// DPI is the rendering resolution (default 300).
	DPI float64 `json:"dpi" yaml:"dpi"`

	// JPEGQuality is the jpg encoder quality, 1-100 (default 95).
	JPEGQuality int `json:"jpeg_quality" yaml:"jpeg_quality"`

	// OutputDir is where the .pptx is written (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// WorkDir is where the output_images_<base> directory is created (default ".").
	WorkDir string `json:"work_dir" yaml:"work_dir"`
}

// FlattenConfig holds settings for the presentation-to-PDF bridge.
type FlattenConfig struct {
	// Backend selects the application: auto, powerpoint, keynote, or libreoffice.
	Backend FlattenBackend `json:"backend" yaml:"backend"`

	// SofficePath overrides the LibreOffice binary location.
	SofficePath string `json:"soffice_path,omitempty" yaml:"soffice_path,omitempty"`
}

// HistoryConfig controls the optional run history database.
type HistoryConfig struct {
	// Enabled turns on recording of every run (default false).
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default warn).
	Level string `json:"level" yaml:"level"`

	// Format is console or json (default console).
	Format string `json:"format" yaml:"format"`
}

// Config groups every setting the CLI reads from flags, environment, and
// the optional config file.
type Config struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Flatten    FlattenConfig    `json:"flatten" yaml:"flatten"`
	History    HistoryConfig    `json:"history" yaml:"history"`
	Log        LogConfig        `json:"log" yaml:"log"`

	// Quiet suppresses progress bars and informational lines.
	Quiet bool `json:"quiet" yaml:"quiet"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Conversion: ConversionConfig{
			Format:      FormatJPG,
			DPI:         DefaultDPI,
			JPEGQuality: DefaultJPEGQuality,
			OutputDir:   ".",
			WorkDir:     ".",
		},
		Flatten: FlattenConfig{
			Backend: FlattenAuto,
		},
		History: HistoryConfig{
			Path: DefaultHistoryPath(),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// DefaultHistoryPath returns ~/.config/pdf2pptx/history.db, or a path in
// the current directory when the home directory is unknown.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pdf2pptx-history.db"
	}
	return filepath.Join(home, ".config", "pdf2pptx", "history.db")
}
