package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/speclint/internal/model"
	"github.com/codewithboateng/speclint/internal/reporting"
	"github.com/codewithboateng/speclint/internal/storage"
)

func diffCmd() *cobra.Command {
	var baseID, headID, outDir string
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare the findings of two stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(".")
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.Report.OutputDir
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			base, err := loadRun(db, baseID)
			if err != nil {
				return err
			}
			head, err := loadRun(db, headID)
			if err != nil {
				return err
			}
			d := reporting.DiffRuns(&base, &head)
			path, err := reporting.WriteDiffJSON(outDir, &base, &head)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Diff %s → %s\n  new: %d  removed: %d  changed: %d\n  JSON: %s\n",
				base.ID, head.ID, d.Summary.NewCount, d.Summary.RemovedCount, d.Summary.ChangedCount, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseID, "base", "", "Base run ID")
	cmd.Flags().StringVar(&headID, "head", "", "Head run ID")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory")
	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("head")
	return cmd
}

func loadRun(db *storage.DB, id string) (model.Run, error) {
	run, err := db.LoadRun(id)
	if errors.Is(err, storage.ErrNotFound) {
		return run, fmt.Errorf("run %s not found", id)
	}
	return run, err
}
