package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"dayplan/internal/app"
	"dayplan/internal/config"
	"dayplan/internal/logging"
	"dayplan/internal/storage"
	"dayplan/internal/tasks"
	"dayplan/internal/ui"
)

// Options carries dependencies tests replace.
type Options struct {
	Clock app.Clock
}

// Execute runs the CLI and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer, opts *Options) int {
	root := NewRoot(stdout, stderr, opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func NewRoot(stdout, stderr io.Writer, opts *Options) *cobra.Command {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Clock == nil {
		opts.Clock = app.SystemClock{}
	}
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Plan tasks by day on a month calendar",
		Long:  "todo keeps short tasks on calendar days. Without a subcommand it opens the interactive planner.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(flags, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default: $DAYPLAN_CONFIG or the user config dir)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newUICmd(flags, opts),
		newAddCmd(stdout, stderr, flags, opts),
		newListCmd(stdout, stderr, flags, opts),
		newDoneCmd(stdout, stderr, flags, opts),
		newRemoveCmd(stdout, stderr, flags, opts),
		newCalCmd(stdout, stderr, flags, opts),
	)
	return cmd
}

// session is an opened store plus a controller over it.
type session struct {
	cfg    config.Config
	kv     storage.KV
	ctrl   *app.Controller
	logger *log.Logger
}

func (s *session) Close() error {
	return s.kv.Close()
}

func loadConfig(flags *globalFlags) (config.Config, error) {
	cfg, err := config.LoadOrCreate(config.ResolveConfigPath(flags.configPath))
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	return cfg, nil
}

func openSession(cfg config.Config, logger *log.Logger, clock app.Clock) (*session, error) {
	kv, err := storage.Open(storage.Options{
		Backend: cfg.Storage.Backend,
		DBPath:  cfg.Storage.DBPath,
		DataDir: cfg.Storage.DataDir,
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	store := tasks.NewStore(kv, cfg.Storage.Slot, clock.Now, logger)
	logger.Debug("storage opened", "backend", cfg.Storage.Backend, "slot", cfg.Storage.Slot)
	if db, ok := kv.(*storage.SQLite); ok {
		if at, found, err := db.UpdatedAt(cfg.Storage.Slot); err == nil && found {
			logger.Debug("slot last saved", "at", at.Format("2006-01-02 15:04:05"))
		}
	}
	return &session{
		cfg:    cfg,
		kv:     kv,
		ctrl:   app.New(store, clock, logger),
		logger: logger,
	}, nil
}

// openCLISession logs to stderr, since one-shot commands keep the terminal.
func openCLISession(stderr io.Writer, flags *globalFlags, opts *Options) (*session, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(stderr, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return openSession(cfg, logger, opts.Clock)
}

func runUI(flags *globalFlags, opts *Options) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger, closer, err := logging.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closer.Close()

	s, err := openSession(cfg, logger, opts.Clock)
	if err != nil {
		return err
	}
	defer s.Close()

	logger.Info("session started", "tasks", len(s.ctrl.Tasks()))
	return ui.Run(s.ctrl, cfg, logger)
}

func newUICmd(flags *globalFlags, opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive planner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(flags, opts)
		},
	}
}
