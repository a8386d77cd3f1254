package main

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/dtree"
	"github.com/aretw0/dtree/internal/config"
	"github.com/aretw0/dtree/internal/logging"
	"github.com/aretw0/dtree/internal/validator"
	"github.com/aretw0/dtree/pkg/graph"
	"github.com/aretw0/dtree/pkg/policy"
	"github.com/aretw0/dtree/pkg/treefile"
	"github.com/aretw0/dtree/pkg/utility"
	"github.com/spf13/cobra"
)

// app carries the settings resolved before any subcommand runs.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logging.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "dtree",
		Short: "dtree analyzes decision trees by backward induction",
		Long: `dtree evaluates decision trees made of decision, chance and terminal nodes.
It computes expected values (or expected utilities under a utility transform),
extracts the optimal path and renders summaries and Mermaid diagrams.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("env-file", "", "Load environment variables from this file (default: .env when present)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.StringP("utility", "u", "", "Utility preset or expression over x (overrides the tree document)")
	flags.StringP("goal", "g", "", "Optimize for max or min (overrides the tree document)")
	flags.IntP("precision", "p", -1, "Fixed number of decimals (default: derived from the values)")
	flags.Bool("strict", false, "Treat structural warnings as errors")

	rootCmd.AddCommand(
		newEvalCmd(a),
		newPathCmd(a),
		newGraphCmd(a),
		newValidateCmd(a),
		newCompareCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// setup loads the configuration and lets explicit flags win over it.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("utility") {
		cfg.Utility, _ = flags.GetString("utility")
	}
	if flags.Changed("goal") {
		cfg.Goal, _ = flags.GetString("goal")
	}
	if flags.Changed("precision") {
		cfg.Precision, _ = flags.GetInt("precision")
	}
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
	return nil
}

// options turns the resolved settings into facade options. Unset settings
// leave the tree document in charge.
func (a *app) options() ([]dtree.Option, error) {
	opts := []dtree.Option{dtree.WithLogger(a.logger)}
	if a.cfg.Utility != "" {
		u, err := utility.Parse(a.cfg.Utility)
		if err != nil {
			return nil, fmt.Errorf("utility: %w", err)
		}
		opts = append(opts, dtree.WithUtility(u))
	}
	if a.cfg.Goal != "" {
		goal, err := policy.ParseGoal(a.cfg.Goal)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dtree.WithGoal(goal))
	}
	if p := a.cfg.PrecisionOverride(); p != nil {
		opts = append(opts, dtree.WithPrecision(*p))
	}
	return opts, nil
}

// defaults maps the resolved settings onto the fallbacks the servers apply
// when a posted document leaves them unset.
func (a *app) defaults() (dtree.Defaults, error) {
	var d dtree.Defaults
	if a.cfg.Utility != "" {
		u, err := utility.Parse(a.cfg.Utility)
		if err != nil {
			return d, fmt.Errorf("utility: %w", err)
		}
		d.Utility = u
	}
	if a.cfg.Goal != "" {
		goal, err := policy.ParseGoal(a.cfg.Goal)
		if err != nil {
			return d, err
		}
		d.Goal = &goal
	}
	d.Precision = a.cfg.PrecisionOverride()
	return d, nil
}

// analyze loads path, checks its structure and runs the full analysis.
func (a *app) analyze(path, start string, extra ...dtree.Option) (*dtree.Report, *graph.Graph, error) {
	doc, err := treefile.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if start != "" {
		doc.Start = start
	}
	opts, err := a.options()
	if err != nil {
		return nil, nil, err
	}

	report, g, err := dtree.New(append(opts, extra...)...).AnalyzeDocument(doc)
	if err != nil {
		return nil, nil, err
	}
	if err := a.check(g, report.Start); err != nil {
		return nil, nil, err
	}
	return report, g, nil
}

// check logs structural warnings, or fails on them in strict mode.
func (a *app) check(g *graph.Graph, start string) error {
	err := validator.ValidateGraph(g, start)
	if err == nil {
		return nil
	}
	if a.cfg.Strict {
		return fmt.Errorf("strict mode: %w", err)
	}
	for _, issue := range validator.Issues(err) {
		a.logger.Warn("Structural warning", "issue", issue.Error())
	}
	return nil
}
