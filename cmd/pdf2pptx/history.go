package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf2pptx/internal/history"
	"github.com/pdiddy/pdf2pptx/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent conversion runs",
	Long: `History lists the most recent runs recorded in the SQLite history database.
Recording is off by default; enable it with history.enabled in the config
file or PDF2PPTX_HISTORY_ENABLED=true.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.History.Enabled {
			if _, statErr := os.Stat(cfg.History.Path); statErr != nil {
				fmt.Fprintln(os.Stderr, "Run history is disabled; set history.enabled to record runs.")
				return nil
			}
		}

		limit, _ := cmd.Flags().GetInt("limit")
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		ok := color.New(color.FgGreen).SprintFunc()
		failed := color.New(color.FgRed).SprintFunc()
		for _, r := range runs {
			status := ok(string(r.Status))
			if r.Status == types.RunFailed {
				status = failed(string(r.Status))
			}
			fmt.Printf("%s  %-9s  %3d pages  %-4s  %6.1fs  %s\n",
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				status, r.Pages, r.Format, r.Duration.Seconds(), r.Input)
			if r.Output != "" {
				fmt.Printf("    -> %s\n", r.Output)
			}
			if r.Error != "" {
				fmt.Printf("    error: %s\n", r.Error)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}
