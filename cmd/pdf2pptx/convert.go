package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/pdf2pptx/internal/convert"
	"github.com/pdiddy/pdf2pptx/internal/flatten"
	"github.com/pdiddy/pdf2pptx/internal/history"
	"github.com/pdiddy/pdf2pptx/internal/logging"
	"github.com/pdiddy/pdf2pptx/internal/progress"
	"github.com/pdiddy/pdf2pptx/internal/raster"
	"github.com/pdiddy/pdf2pptx/pkg/types"
)

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	runID := uuid.NewString()
	logger = logger.With(zap.String("run", runID))

	var out io.Writer = os.Stdout
	if cfg.Quiet {
		out = io.Discard
	}

	c := &convert.Converter{
		Config:     cfg.Conversion,
		Backend:    cfg.Flatten.Backend,
		Rasterizer: raster.NewFitzRasterizer(),
		Flatteners: flatten.NewDetector(cfg.Flatten, logger),
		Progress:   progress.ForStdout(cfg.Quiet),
		Out:        out,
		Logger:     logger,
	}

	started := time.Now()
	res, runErr := c.Run(cmd.Context(), args[0])
	recordRun(cfg.History, runID, started, res, runErr, logger)
	if runErr != nil {
		return runErr
	}

	color.New(color.FgGreen).Fprintf(os.Stdout, "New presentation saved as %s\n", res.Output)
	return nil
}

// recordRun stores the outcome in the history database when enabled.
// Recording problems are logged; they never change the exit status.
func recordRun(cfg types.HistoryConfig, id string, started time.Time, res convert.Result, runErr error, logger *zap.Logger) {
	if !cfg.Enabled {
		return
	}
	store, err := history.Open(cfg.Path)
	if err != nil {
		logger.Warn("opening history", zap.String("path", cfg.Path), zap.Error(err))
		return
	}
	defer store.Close()

	rec := types.RunRecord{
		ID:        id,
		Input:     res.Input,
		Output:    res.Output,
		Pages:     res.Pages,
		Format:    res.Format,
		Flattened: res.Flattened,
		Status:    types.RunSucceeded,
		StartedAt: started,
		Duration:  res.Duration,
	}
	if runErr != nil {
		rec.Status = types.RunFailed
		rec.Error = runErr.Error()
	}

	// The run context may already be cancelled by Ctrl-C; the record is
	// still written.
	if err := store.Record(context.Background(), rec); err != nil {
		logger.Warn("recording run", zap.Error(err))
		return
	}
	logger.Debug("run recorded", zap.String("status", string(rec.Status)))
}
