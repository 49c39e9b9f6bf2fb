package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/livefir/neon/internal/dom"
)

// DefaultDebounce is how long watch waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// fileWatcher batches fsnotify events for a fixed set of files.
type fileWatcher struct {
	events <-chan fsnotify.Event
	errors <-chan error
	files  map[string]bool
	delay  time.Duration
	logger *slog.Logger
}

// newFileWatcher watches the directories holding files, so that editors
// replacing a file on save are still seen.
func newFileWatcher(files []string, delay time.Duration, logger *slog.Logger) (*fileWatcher, *fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw := &fileWatcher{
		events: w.Events,
		errors: w.Errors,
		files:  map[string]bool{},
		delay:  delay,
		logger: logger,
	}

	var dirs []string
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			w.Close()
			return nil, nil, err
		}
		fw.files[abs] = true
		if dir := filepath.Dir(abs); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return fw, w, nil
}

// run calls onChange with the changed files once events stop arriving for
// the debounce delay. It returns when ctx is done or the watcher closes.
func (fw *fileWatcher) run(ctx context.Context, onChange func(changed []string)) error {
	var (
		pending []string
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !fw.files[name] {
				continue
			}
			if !slices.Contains(pending, name) {
				pending = append(pending, name)
			}
			if timer == nil {
				timer = time.NewTimer(fw.delay)
			} else {
				timer.Reset(fw.delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := pending
			pending = nil
			onChange(changed)

		case err, ok := <-fw.errors:
			if !ok {
				return nil
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		dataFile string
		delay    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <template>",
		Short: "Re-render on file changes and print the DOM changes",
		Long: `Watch mounts the template with the data file, then re-renders whenever
either file changes, reconciling each rendering into the same live tree
and printing the changes applied to it.

Examples:
  neon watch page.html --data data.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templatePath := args[0]
			c, err := a.mount(templatePath, dataFile)
			if err != nil {
				return err
			}
			defer c.Close()
			live := c.Root()

			files := []string{templatePath}
			if dataFile != "" {
				files = append(files, dataFile)
			}
			fw, w, err := newFileWatcher(files, delay, a.logger)
			if err != nil {
				return err
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", headerStyle.Render("watching"), templatePath)
			return fw.run(ctx, func(changed []string) {
				a.rerender(out, live, templatePath, dataFile, changed)
			})
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "YAML data file")
	cmd.Flags().DurationVar(&delay, "debounce", DefaultDebounce, "wait for writes to settle")
	return cmd
}

// rerender mounts the current files and reconciles the result into live.
// Errors are reported and the live tree is kept, so the next save retries.
func (a *app) rerender(out io.Writer, live *dom.Node, templatePath, dataFile string, changed []string) {
	for _, name := range changed {
		fmt.Fprintf(out, "%s %s\n", mutedStyle.Render("changed"), name)
	}

	fresh, err := a.mount(templatePath, dataFile)
	if err != nil {
		a.logger.Error("failed to render", "template", templatePath, "error", err)
		fmt.Fprintf(out, "%s %v\n", warnStyle.Render("error"), err)
		return
	}
	defer fresh.Close()

	res := reconcileInto(live, fresh.Root())
	a.metrics.RecordReconcile(res.Stats)
	if err := writeDiff(out, res, false); err != nil {
		a.logger.Error("failed to write changes", "template", templatePath, "error", err)
	}
}
