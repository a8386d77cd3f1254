package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aretw0/dtree/internal/presentation/summary"
	"github.com/aretw0/dtree/internal/presentation/tui"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newEvalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <tree-file>",
		Short: "Evaluate a tree and print its summary",
		Long: `Evaluates every node of the tree by backward induction and prints a summary
with node values (EV, or EU under a utility) and the optimal path.
On a terminal the summary is rendered; otherwise raw Markdown is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, _ := cmd.Flags().GetString("start")
			asJSON, _ := cmd.Flags().GetBool("json")
			watch, _ := cmd.Flags().GetBool("watch")

			run := func() error {
				return a.eval(cmd.OutOrStdout(), args[0], start, asJSON)
			}
			if !watch {
				return run()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, args[0], run)
		},
	}
	cmd.Flags().String("start", "", "Start node for the optimal path (default: document start or first node)")
	cmd.Flags().Bool("json", false, "Print the report as JSON")
	cmd.Flags().BoolP("watch", "w", false, "Re-evaluate whenever the file changes")
	return cmd
}

func (a *app) eval(w io.Writer, path, start string, asJSON bool) error {
	report, g, err := a.analyze(path, start)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	out, err := tui.RendererFor(w)(summary.Render(g, report))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// watch runs fn once, then again on every write to path until ctx ends.
// Evaluation errors are logged so an invalid intermediate save does not stop
// the loop.
func (a *app) watch(ctx context.Context, path string, fn func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	if err := fn(); err != nil {
		a.logger.Error("Evaluation failed", "file", path, "err", err)
	}
	a.logger.Info("Watching for changes", "file", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			a.logger.Debug("File changed", "file", path, "op", event.Op.String())
			if err := fn(); err != nil {
				a.logger.Error("Evaluation failed", "file", path, "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("Watcher error", "err", err)
		}
	}
}
