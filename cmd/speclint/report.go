package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codewithboateng/speclint/internal/reporting"
	"github.com/codewithboateng/speclint/internal/storage"
)

func reportCmd() *cobra.Command {
	var runID, outDir string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Re-render the reports of a stored run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(".")
			if err != nil {
				return err
			}
			if outDir != "" {
				cfg.Report.OutputDir = outDir
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			run, err := db.LoadRun(runID)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("run %s not found", runID)
			}
			if err != nil {
				return err
			}
			paths, err := reporting.WriteReports(&run, cfg.Report.Formats, cfg.Report.OutputDir, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			zap.L().Info("report complete", zap.String("run", run.ID), zap.Strings("reports", paths))
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "Run ID")
	cmd.Flags().StringVar(&outDir, "out", "", "Report output directory")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}
