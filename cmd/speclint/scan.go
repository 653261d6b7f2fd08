package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codewithboateng/speclint/internal/coverage"
	"github.com/codewithboateng/speclint/internal/model"
	"github.com/codewithboateng/speclint/internal/parser"
	"github.com/codewithboateng/speclint/internal/reporting"
	"github.com/codewithboateng/speclint/internal/rules"
	"github.com/codewithboateng/speclint/internal/shared"
)

type scanOptions struct {
	printConfig bool
	outDir      string
	formats     []string
	noStore     bool
}

func scanCmd() *cobra.Command {
	var opts scanOptions
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Discover, parse and lint requirement documents",
		Long: `Scan discovers requirement files under path (default "."), evaluates the
rule set and writes the configured reports. The process exits 1 when any
error-severity finding remains after waivers and 2 on configuration errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runScan(cmd, root, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.printConfig, "print-config", false, "Print the effective configuration and exit")
	cmd.Flags().StringVar(&opts.outDir, "out", "", "Report output directory (overrides report.output_dir)")
	cmd.Flags().StringSliceVar(&opts.formats, "format", nil, "Report formats (overrides report.formats)")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "Do not persist the run or apply stored waivers")
	return cmd
}

func runScan(cmd *cobra.Command, root string, opts scanOptions) error {
	cfg, src, err := loadConfig(root)
	if err != nil {
		return err
	}
	if opts.printConfig {
		b, err := cfg.Dump()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n%s", src, b)
		return nil
	}
	if opts.outDir != "" {
		cfg.Report.OutputDir = opts.outDir
	}
	if len(opts.formats) > 0 {
		cfg.Report.Formats = opts.formats
		if err := cfg.Validate(); err != nil {
			return configError(err)
		}
	}

	policy, err := rules.Compile(cfg.RulesConfig())
	if err != nil {
		return configError(err)
	}
	for _, name := range policy.Ignored() {
		zap.L().Warn("ignoring rule setting", zap.String("rule", name))
	}
	p, err := parser.New(cfg.ParserOptions())
	if err != nil {
		return configError(err)
	}

	run, err := scan(root, src, cfg, policy, p)
	if err != nil {
		return err
	}

	if !opts.noStore {
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		waivers, err := db.ListWaivers(true)
		if err != nil {
			return fmt.Errorf("load waivers: %w", err)
		}
		run.Findings, run.Waived = rules.ApplyWaivers(run.Findings, waivers, time.Now())
		run.Counts = model.CountFindings(run.Findings)

		if err := db.SaveRun(run); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}

	paths, err := reporting.WriteReports(run, cfg.Report.Formats, cfg.Report.OutputDir, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	zap.L().Info("scan complete",
		zap.String("run", run.ID),
		zap.Int("requirements", run.Summary.Requirements),
		zap.Int("errors", run.Counts.Error),
		zap.Int("warnings", run.Counts.Warning),
		zap.Int("waived", run.Waived),
		zap.Strings("reports", paths))

	if run.Counts.Error > 0 {
		return &exitError{code: exitFindings}
	}
	return nil
}

// scan runs discovery, parsing, JUnit collection and rule evaluation.
func scan(root, configSource string, cfg shared.Config, policy *rules.Policy, p *parser.Parser) (*model.Run, error) {
	started := time.Now().UTC()

	files, err := parser.Discover(root, cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}
	zap.L().Debug("discovered files", zap.Int("count", len(files)))

	reqs, diags := p.ParseAll(files)
	for _, w := range diags.Warnings {
		zap.L().Warn("parse warning", zap.String("detail", w))
	}

	confirmed, skipped, err := parser.CollectJUnitTestIDs(root, cfg.JUnit.Paths, cfg.JUnit.TestIDPrefix)
	if err != nil {
		return nil, fmt.Errorf("collect junit: %w", err)
	}
	for _, s := range skipped {
		zap.L().Warn("junit report skipped", zap.String("detail", s))
	}

	m := model.NewModel(reqs, confirmed)
	findings, counts := policy.Evaluate(&m)

	return &model.Run{
		ID:           "run-" + uuid.NewString(),
		StartedAt:    started,
		Source:       root,
		ConfigSource: configSource,
		Version:      model.Version,
		Summary:      coverage.Summarize(&m),
		Findings:     findings,
		Counts:       counts,
	}, nil
}
