package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/storage"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// exitErr carries the exit code and an optional hint line.
type exitErr struct {
	code int
	msg  string
	hint string
}

func (e *exitErr) Error() string { return e.msg }

func failf(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// flags are the root flags that apply to every subcommand.
type flags struct {
	configPath string
	backend    string
	path       string
	theme      string
	verbose    bool
}

// app is what a subcommand works against once config is resolved.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	backend storage.Storage
	store   *store.Store
	close   func()
}

// open resolves config (file, env, then flags), opens the storage backend
// and loads the store.
func (f *flags) open(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, failf(exitError, "config: %v", err)
	}
	pf := cmd.Flags()
	if pf.Changed("storage") {
		cfg.Storage.Backend = f.backend
	}
	if pf.Changed("path") {
		cfg.Storage.Path = f.path
	}
	if pf.Changed("theme") {
		cfg.UI.Theme = f.theme
	}
	if f.verbose {
		cfg.Logging.Level = "debug"
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, failf(exitUsage, "config: %v", err)
	}

	log, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return nil, failf(exitUsage, "config: %v", err)
	}
	ui.SetTheme(cfg.UI.Theme)

	backend, closer, err := storage.Open(cfg.Storage, log)
	if err != nil {
		return nil, failf(exitError, "storage: %v", err)
	}
	s := store.New(
		store.WithStorage(backend),
		store.WithKey(cfg.Storage.Key),
		store.WithLogger(log),
	)
	s.Load()

	return &app{
		cfg:     cfg,
		log:     log,
		backend: backend,
		store:   s,
		close: func() {
			if err := closer.Close(); err != nil {
				log.Warn("close storage", zap.Error(err))
			}
			_ = log.Sync()
		},
	}, nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "tada",
		Short: "tada - a tiny todo list",
		Long: `tada keeps a todo list, newest first, persisted as one JSON record
in a file, SQLite or MySQL. Items are referenced by their 1-based position
in "tada ls", their id, or a unique id prefix.`,
		Example: `  tada add "Buy milk"
  tada ls
  tada done 2
  tada edit 1 Buy oat milk
  tada rm 3
  tada clear --all`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default ~/.tada/config.yaml)")
	pf.StringVar(&f.backend, "storage", "", "storage backend: file, sqlite, mysql, memory, none")
	pf.StringVar(&f.path, "path", "", "data directory (file) or database file (sqlite)")
	pf.StringVar(&f.theme, "theme", "", "list theme: classic, neon, mono")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newAddCmd(f),
		newListCmd(f),
		newDoneCmd(f),
		newEditCmd(f),
		newRemoveCmd(f),
		newClearCmd(f),
		newTUICmd(f),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return exitOK
	}
	var ee *exitErr
	if errors.As(err, &ee) {
		ui.Fail(stderr, ee.msg)
		if ee.hint != "" {
			ui.Hint(stderr, ee.hint)
		}
		return ee.code
	}
	// Anything else comes from cobra's own argument and flag checks.
	ui.Fail(stderr, err.Error())
	fmt.Fprintln(stderr, root.UsageString())
	return exitUsage
}
