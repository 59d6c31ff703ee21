package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf2pptx/internal/pptx"
	"github.com/pdiddy/pdf2pptx/internal/raster"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pptx|file.pdf>",
	Short: "Print a YAML summary of a presentation or PDF",
	Long: `Inspect reads a .pptx package and reports its canvas size and the pictures
on every slide, or reads a PDF's page count and document information. Use it
to check that a converted deck has one full-slide picture per page.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		var v any
		switch strings.ToLower(filepath.Ext(path)) {
		case ".pptx":
			summary, err := pptx.Inspect(path)
			if err != nil {
				return err
			}
			v = struct {
				pptx.Summary `yaml:",inline"`
				FullBleed    bool `yaml:"full_bleed"`
			}{summary, summary.FullBleed()}
		case ".pdf":
			info, err := raster.Inspect(path)
			if err != nil {
				return err
			}
			v = info
		default:
			return fmt.Errorf("cannot inspect %s: expected .pptx or .pdf", filepath.Base(path))
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding summary: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
