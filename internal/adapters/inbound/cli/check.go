package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/guardrails/guardrails/internal/adapters/outbound/parser"
	"github.com/guardrails/guardrails/internal/adapters/outbound/tui"
	"github.com/guardrails/guardrails/internal/application"
	"github.com/guardrails/guardrails/internal/domain"
	"github.com/guardrails/guardrails/internal/domain/rule"
	"github.com/guardrails/guardrails/internal/domain/rules"
)

const watchDebounce = 300 * time.Millisecond

func newCheckCmd() *cobra.Command {
	var (
		jsonOutput bool
		watch      bool
		workspace  string
		path       string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the built-in policy rules",
		Long:  "Parse workspace sources and run every built-in rule, reporting violations with file positions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}

			svc := application.NewCheckService(rule.NewEngine(parser.New()), rules.Builtin(), cfg)

			if watch {
				return runCheckWatch(cmd, svc, cfg, path, workspace, jsonOutput)
			}
			return runCheckOnce(cmd, svc, cfg, path, workspace, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-run checks when source files change")
	cmd.Flags().StringVar(&workspace, "workspace", "", "Limit the check to one workspace")
	cmd.Flags().StringVar(&path, "path", ".", "Project path")

	return cmd
}

func runCheckOnce(
	cmd *cobra.Command,
	svc *application.CheckService,
	cfg domain.ProjectConfig,
	path, workspace string,
	jsonOutput bool,
) error {
	report, err := svc.Check(path, workspace)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if jsonOutput {
		return emitJSON(cmd, report)
	}
	emit(cmd, cfg, tui.RenderCheckReport(report))
	return nil
}

func runCheckWatch(
	cmd *cobra.Command,
	svc *application.CheckService,
	cfg domain.ProjectConfig,
	path, workspace string,
	jsonOutput bool,
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, path); err != nil {
		return err
	}

	if err := runCheckOnce(cmd, svc, cfg, path, workspace, jsonOutput); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "check: %v\n", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "watching for changes (ctrl-c to stop)")

	var timer *time.Timer
	runs := make(chan struct{}, 1)

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case <-runs:
			if err := runCheckOnce(cmd, svc, cfg, path, workspace, jsonOutput); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "check: %v\n", err)
			}
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSourceEvent(event) {
				continue
			}
			// Coalesce bursts of writes into one run.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case runs <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
		}
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if name == "node_modules" || name == "dist" || name == "build" ||
			(strings.HasPrefix(name, ".") && p != root) {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

func isSourceEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ext := filepath.Ext(event.Name)
	return ext == ".ts" || ext == ".tsx"
}
