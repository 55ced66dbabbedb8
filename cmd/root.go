// Package cmd implements the CLI command structure for tasks.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/nibzard/tasks-go/internal/app"
	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/notify"
	"github.com/nibzard/tasks-go/internal/output"
	"github.com/nibzard/tasks-go/internal/storage"
	"github.com/nibzard/tasks-go/internal/todo"
	"github.com/nibzard/tasks-go/internal/ui"
	"github.com/nibzard/tasks-go/internal/utils"
)

// Version is set via ldflags at build time.
var Version = "dev"

// cli carries the loaded config and the streams commands write to.
type cli struct {
	cws    *config.ConfigWithSources
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

// Run executes the tasks CLI.
func Run(ctx context.Context, args []string) error {
	return RunWithIO(ctx, args, os.Stdout, os.Stderr)
}

// RunWithIO executes the CLI with explicit output streams.
func RunWithIO(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	c := &cli{cws: cws, cfg: cws.Config, stdout: stdout, stderr: stderr}

	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return c.versionCommand()
	}

	// No subcommand opens the TUI
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return c.tuiCommand(ctx, remainingArgs)
	case "add":
		return c.addCommand(remainingArgs)
	case "ls", "list":
		return c.lsCommand(remainingArgs)
	case "done", "toggle":
		return c.doneCommand(remainingArgs)
	case "edit":
		return c.editCommand(remainingArgs)
	case "mv", "move":
		return c.mvCommand(remainingArgs)
	case "rm", "delete":
		return c.rmCommand(remainingArgs)
	case "clear":
		return c.clearCommand(remainingArgs)
	case "doctor":
		return c.doctorCommand(remainingArgs)
	case "log", "tail":
		return c.logCommand(ctx, remainingArgs)
	case "config":
		return c.configCommand(remainingArgs)
	case "version":
		return c.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// flagSet returns a subcommand flag set writing usage to stderr.
func (c *cli) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("tasks "+name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

// parse parses subcommand flags. -h prints usage and is not an error.
func parse(fs *flag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// openController loads the task list for a one-shot command. Notifications
// go to the stderr logger.
func (c *cli) openController() (*app.Controller, error) {
	logger := logging.New(c.stderr, c.cfg.LoggingOptions())
	store := storage.NewFileStore(c.cfg.StorageDir)
	ctrl, _, err := app.Open(store, c.cfg.StorageKey, notify.NewLogNotifier(logger), logger)
	return ctrl, err
}

// tuiCommand launches the interactive interface.
func (c *cli) tuiCommand(ctx context.Context, args []string) error {
	fs := c.flagSet("tui")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	runLog, err := logging.OpenRunLog(c.cfg.LogDir)
	if err != nil {
		return err
	}
	defer runLog.Close()

	opts := c.cfg.LoggingOptions()
	opts.Prefix = "tui"
	logger := logging.New(runLog.Writer(), opts)
	logger.Info("starting tui", "run_id", runLog.RunID, "storage", c.cfg.StoragePath())

	center := notify.NewCenter(c.cfg.NotifyTimeoutDuration())
	notifier := notify.Multi{center, notify.NewLogNotifier(logger)}

	store := storage.NewFileStore(c.cfg.StorageDir)
	ctrl, report, err := app.Open(store, c.cfg.StorageKey, notifier, logger)
	if err != nil {
		return err
	}
	if report.Recovered() {
		center.Notify(notify.SeverityWarning, "Stored tasks were unreadable; moved to "+report.Quarantined)
	}

	return ui.RunTUI(ctx, ctrl, center,
		ui.WithAltScreen(c.cfg.AltScreen),
		ui.WithLogger(logger),
	)
}

// addCommand appends a task.
func (c *cli) addCommand(args []string) error {
	fs := c.flagSet("add")
	deadline := fs.String("deadline", "", "Deadline date (YYYY-MM-DD)")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: tasks add [-deadline YYYY-MM-DD] <text>")
	}

	ctrl, err := c.openController()
	if err != nil {
		return err
	}
	added, err := ctrl.Add(strings.Join(fs.Args(), " "), *deadline)
	if err != nil || !added {
		return err
	}
	n := ctrl.Len()
	output.FormatTask(c.stdout, n, ctrl.Tasks()[n-1])
	return nil
}

// lsCommand lists tasks through a filter.
func (c *cli) lsCommand(args []string) error {
	fs := c.flagSet("ls")
	filterName := fs.String("filter", "all", "Filter: all, completed, incomplete")
	formatName := fs.String("format", "text", "Output format: text, json, yaml")
	summary := fs.Bool("summary", false, "Print task counts after the list (text format)")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		*filterName = remaining[0]
	}

	filter, err := todo.ParseFilter(*filterName)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	ctrl, err := c.openController()
	if err != nil {
		return err
	}
	ctrl.SetFilter(filter)
	if err := output.Write(c.stdout, format, ctrl.Visible()); err != nil {
		return err
	}
	if *summary && format == output.FormatText {
		output.Summary(c.stdout, ctrl.Tasks())
	}
	return nil
}

// doneCommand toggles completion of one or more tasks.
func (c *cli) doneCommand(args []string) error {
	fs := c.flagSet("done")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: tasks done <n>[,<n>...]")
	}
	indices, err := parseIndices(fs.Args())
	if err != nil {
		return err
	}

	ctrl, err := c.openController()
	if err != nil {
		return err
	}
	if err := checkIndices(indices, ctrl.Len()); err != nil {
		return err
	}
	for _, i := range indices {
		if err := ctrl.Toggle(i); err != nil {
			return err
		}
		output.FormatTask(c.stdout, i+1, ctrl.Tasks()[i])
	}
	return nil
}

// editCommand replaces a task's text.
func (c *cli) editCommand(args []string) error {
	fs := c.flagSet("edit")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: tasks edit <n> <text>")
	}
	i, err := parseIndex(fs.Arg(0))
	if err != nil {
		return err
	}

	ctrl, err := c.openController()
	if err != nil {
		return err
	}
	if err := checkIndices([]int{i}, ctrl.Len()); err != nil {
		return err
	}
	if err := ctrl.StartEdit(i); err != nil {
		return err
	}
	ctrl.SetDraft(strings.Join(fs.Args()[1:], " "))
	if err := ctrl.SaveEdit(); err != nil {
		return err
	}
	output.FormatTask(c.stdout, i+1, ctrl.Tasks()[i])
	return nil
}

// mvCommand moves a task to another position.
func (c *cli) mvCommand(args []string) error {
	fs := c.flagSet("mv")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: tasks mv <from> <to>")
	}
	from, err := parseIndex(fs.Arg(0))
	if err != nil {
		return err
	}
	to, err := parseIndex(fs.Arg(1))
	if err != nil {
		return err
	}

	ctrl, err := c.openController()
	if err != nil {
		return err
	}
	if err := checkIndices([]int{from}, ctrl.Len()); err != nil {
		return err
	}
	return ctrl.Reorder(from, to)
}

// rmCommand deletes one or more tasks.
func (c *cli) rmCommand(args []string) error {
	fs := c.flagSet("rm")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: tasks rm <n>[,<n>...]")
	}
	indices, err := parseIndices(fs.Args())
	if err != nil {
		return err
	}

	ctrl, err := c.openController()
	if err != nil {
		return err
	}
	if err := checkIndices(indices, ctrl.Len()); err != nil {
		return err
	}
	// Highest first so earlier numbers stay valid.
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))
	for _, i := range indices {
		if err := ctrl.Delete(i); err != nil {
			return err
		}
	}
	return nil
}

// clearCommand removes every task.
func (c *cli) clearCommand(args []string) error {
	fs := c.flagSet("clear")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	ctrl, err := c.openController()
	if err != nil {
		return err
	}
	return ctrl.ClearAll()
}

// doctorCommand checks config, storage, and log locations.
func (c *cli) doctorCommand(args []string) error {
	fs := c.flagSet("doctor")
	verbose := fs.Bool("v", false, "Verbose output")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	w := c.stdout
	fmt.Fprintln(w, "Tasks Doctor")
	fmt.Fprintln(w, "============")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config:")
	if len(c.cws.Files) == 0 {
		fmt.Fprintln(w, "  ✅ No config file (using defaults)")
	}
	for _, file := range c.cws.Files {
		fmt.Fprintf(w, "  ✅ %s\n", file)
	}
	if *verbose {
		for _, field := range sortedFields(c.cws.Sources) {
			fmt.Fprintf(w, "     %s: %s\n", field, c.cws.Sources[field])
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Storage dir: %s\n", c.cfg.StorageDir)
	if fi, err := os.Stat(c.cfg.StorageDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Does not exist yet (created on first save)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !fi.IsDir() {
		fmt.Fprintln(w, "  ❌ Not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	store := storage.NewFileStore(c.cfg.StorageDir)
	fmt.Fprintf(w, "Task file: %s\n", store.Path(c.cfg.StorageKey))
	if !c.checkTaskFile(w, store, *verbose) {
		allOK = false
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Log dir: %s\n", c.cfg.LogDir)
	logs, err := logging.ListRunLogs(c.cfg.LogDir)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case len(logs) == 0:
		fmt.Fprintln(w, "  ✅ OK (no run logs)")
	default:
		fmt.Fprintf(w, "  ✅ OK (%d run logs, latest %s)\n", len(logs), logs[0].RunID)
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "❌ Some checks failed")
	return fmt.Errorf("doctor found problems")
}

// checkTaskFile validates the stored list and reports quarantined copies.
func (c *cli) checkTaskFile(w io.Writer, store *storage.FileStore, verbose bool) bool {
	ok := true
	data, err := store.Get(c.cfg.StorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		fmt.Fprintln(w, "  ✅ OK (no tasks saved yet)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		ok = false
	default:
		list, err := todo.Decode(data)
		if err != nil {
			ok = false
			var raw interface{}
			if jerr := json.Unmarshal(data, &raw); jerr != nil {
				fmt.Fprintf(w, "  ❌ Invalid JSON: %v\n", jerr)
				break
			}
			fmt.Fprintln(w, "  ❌ Schema validation failed:")
			for _, verr := range todo.ValidateValue(raw).Errors {
				fmt.Fprintf(w, "     - %v\n", verr)
			}
			break
		}
		completed, _ := list.Counts()
		fmt.Fprintf(w, "  ✅ Valid (%d tasks, %d completed)\n", len(list), completed)
		if verbose {
			output.WriteText(w, list.View(todo.FilterAll))
		}
	}

	quarantined, err := store.Quarantined(c.cfg.StorageKey)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error listing quarantined files: %v\n", err)
		return false
	}
	for _, path := range quarantined {
		fmt.Fprintf(w, "  ⚠️  Quarantined: %s\n", path)
	}
	return ok
}

// logCommand prints the latest run log.
func (c *cli) logCommand(ctx context.Context, args []string) error {
	fs := c.flagSet("log")
	lines := fs.Int("n", 50, "Number of lines")
	follow := fs.Bool("f", false, "Follow log output")
	if ok, err := parse(fs, args); !ok {
		return err
	}

	path, err := logging.FindLatestLog(c.cfg.LogDir)
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("no log files found in %s", c.cfg.LogDir)
	}
	return logging.TailLog(ctx, c.stdout, path, *lines, *follow)
}

// configCommand prints the effective configuration and where each value
// came from.
func (c *cli) configCommand(args []string) error {
	fs := c.flagSet("config")
	example := fs.Bool("example", false, "Print an example config file")
	if ok, err := parse(fs, args); !ok {
		return err
	}
	if *example {
		fmt.Fprint(c.stdout, config.ExampleConfig())
		return nil
	}

	cfg := c.cfg
	values := map[string]string{
		"storage_dir":    cfg.StorageDir,
		"storage_key":    cfg.StorageKey,
		"log_dir":        cfg.LogDir,
		"log_level":      cfg.LogLevel,
		"log_format":     cfg.LogFormat,
		"log_timestamps": strconv.FormatBool(cfg.LogTimestamps),
		"log_caller":     strconv.FormatBool(cfg.LogCaller),
		"notify_timeout": cfg.NotifyTimeout,
		"alt_screen":     strconv.FormatBool(cfg.AltScreen),
	}
	for _, file := range c.cws.Files {
		fmt.Fprintf(c.stdout, "# %s\n", file)
	}
	for _, field := range sortedFields(values) {
		fmt.Fprintf(c.stdout, "%-15s = %-30q # %s\n", field, values[field], c.cws.Sources[field])
	}
	return nil
}

// versionCommand prints version information.
func (c *cli) versionCommand() error {
	fmt.Fprintf(c.stdout, "tasks version %s\n", Version)
	fmt.Fprintf(c.stdout, "Go version: %s\n", runtime.Version())
	return nil
}

// printUsage prints usage information.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `tasks - a small to-do list

Usage:
  tasks [global flags] [command] [command flags]

Commands:
  tui                      Open the interactive list (default)
  add [-deadline D] TEXT   Add a task
  ls [FILTER]              List tasks (-filter, -format text|json|yaml, -summary)
  done N[,N...]            Toggle completion
  edit N TEXT              Replace a task's text
  mv FROM TO               Move a task
  rm N[,N...]              Delete tasks
  clear                    Delete all tasks
  doctor [-v]              Check config, storage, and logs
  log [-n N] [-f]          Show the latest TUI run log
  config [-example]        Show effective configuration
  version                  Show version
  help                     Show this help

Task numbers are the 1-based positions shown by "tasks ls".

Global flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintf(w, `
Environment variables override config files; flags override both:
  %s, %s, %s, ...
`, config.EnvVar("storage_dir"), config.EnvVar("storage_key"), config.EnvVar("log_level"))
}

// parseIndex converts a 1-based task number into a list index.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid task number %q", s)
	}
	return n - 1, nil
}

// parseIndices accepts numbers as separate args or comma-separated, and
// drops duplicates.
func parseIndices(args []string) ([]int, error) {
	seen := make(map[int]bool)
	var indices []int
	for _, arg := range args {
		for _, part := range utils.SplitAndTrim(arg, ",") {
			i, err := parseIndex(part)
			if err != nil {
				return nil, err
			}
			if !seen[i] {
				seen[i] = true
				indices = append(indices, i)
			}
		}
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("no task numbers given")
	}
	return indices, nil
}

func checkIndices(indices []int, n int) error {
	for _, i := range indices {
		if i >= n {
			return fmt.Errorf("no task %d (have %d): %w", i+1, n, todo.ErrIndexOutOfRange)
		}
	}
	return nil
}

func sortedFields[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
