// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf2pptx CLI.
// The root command converts one PDF, PPT, or PPTX file into a PowerPoint
// deck with one full-slide picture per page; inspect, history, and version
// are subcommands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2pptx/internal/imagefile"
	"github.com/pdiddy/pdf2pptx/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts the file given as its single argument.
var rootCmd = &cobra.Command{
	Use:   "pdf2pptx <input>",
	Short: "Convert a PDF or PowerPoint file into an image-only PowerPoint deck",
	Long: `pdf2pptx renders every page of a PDF into an image and builds a new
PowerPoint presentation with one full-slide picture per page.

PowerPoint files (.ppt, .pptx) are first exported to PDF through Microsoft
PowerPoint, Keynote, or LibreOffice, whichever is installed, and the
resulting deck is named "<name> (flatten).pptx". Existing files are never
overwritten; a numeric suffix is added instead.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./pdf2pptx.yaml or ~/.config/pdf2pptx/pdf2pptx.yaml)")
	pf.String("log-level", "warn", "log level: debug, info, warn, or error")
	pf.String("log-format", "console", "log format: console or json")

	f := rootCmd.Flags()
	f.String("format", string(types.FormatJPG), "page image format: jpg or png")
	f.Float64("dpi", types.DefaultDPI, "rendering resolution in dots per inch")
	f.String("output-dir", ".", "directory for the new presentation")
	f.String("work-dir", ".", "directory for the temporary page images")
	f.String("flatten-backend", string(types.FlattenAuto), "application used to export presentations: auto, powerpoint, keynote, or libreoffice")
	f.Bool("quiet", false, "suppress progress bars and status messages")

	bindFlags(map[string]string{
		"log.level":             "log-level",
		"log.format":            "log-format",
		"conversion.format":     "format",
		"conversion.dpi":        "dpi",
		"conversion.output_dir": "output-dir",
		"conversion.work_dir":   "work-dir",
		"flatten.backend":       "flatten-backend",
		"quiet":                 "quiet",
	})

	defaults := types.DefaultConfig()
	viper.SetDefault("conversion.jpeg_quality", defaults.Conversion.JPEGQuality)
	viper.SetDefault("flatten.soffice_path", defaults.Flatten.SofficePath)
	viper.SetDefault("history.enabled", defaults.History.Enabled)
	viper.SetDefault("history.path", defaults.History.Path)
}

// bindFlags binds config keys to root flags, persistent or local.
func bindFlags(keys map[string]string) {
	for key, name := range keys {
		flag := rootCmd.PersistentFlags().Lookup(name)
		if flag == nil {
			flag = rootCmd.Flags().Lookup(name)
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf2pptx")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdf2pptx"))
		}
	}

	viper.SetEnvPrefix("PDF2PPTX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the effective configuration from flags, environment,
// the config file, and defaults.
func loadConfig() (types.Config, error) {
	format, err := imagefile.ParseFormat(viper.GetString("conversion.format"))
	if err != nil {
		return types.Config{}, err
	}
	backend, err := parseBackend(viper.GetString("flatten.backend"))
	if err != nil {
		return types.Config{}, err
	}
	dpi := viper.GetFloat64("conversion.dpi")
	if dpi <= 0 {
		return types.Config{}, fmt.Errorf("invalid dpi %v: must be positive", dpi)
	}
	quality := viper.GetInt("conversion.jpeg_quality")
	if quality < 1 || quality > 100 {
		return types.Config{}, fmt.Errorf("invalid jpeg_quality %d: must be between 1 and 100", quality)
	}

	return types.Config{
		Conversion: types.ConversionConfig{
			Format:      format,
			DPI:         dpi,
			JPEGQuality: quality,
			OutputDir:   viper.GetString("conversion.output_dir"),
			WorkDir:     viper.GetString("conversion.work_dir"),
		},
		Flatten: types.FlattenConfig{
			Backend:     backend,
			SofficePath: viper.GetString("flatten.soffice_path"),
		},
		History: types.HistoryConfig{
			Enabled: viper.GetBool("history.enabled"),
			Path:    viper.GetString("history.path"),
		},
		Log: types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
		Quiet: viper.GetBool("quiet"),
	}, nil
}

func parseBackend(s string) (types.FlattenBackend, error) {
	b := types.FlattenBackend(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case types.FlattenAuto, types.FlattenPowerPoint, types.FlattenKeynote, types.FlattenLibreOffice:
		return b, nil
	case "":
		return types.FlattenAuto, nil
	}
	return "", fmt.Errorf("unknown flatten backend %q (want auto, powerpoint, keynote, or libreoffice)", s)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
