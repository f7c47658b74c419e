package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/artpar/favtag/internal/config"
	"github.com/artpar/favtag/internal/core"
	"github.com/artpar/favtag/internal/logging"
	"github.com/artpar/favtag/internal/store/sqlite"
	"github.com/artpar/favtag/internal/tagging"
	taghttp "github.com/artpar/favtag/internal/tagging/http"
	"github.com/artpar/favtag/internal/tui/views"
)

// GlobalOptions holds flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	ServerURL  string
	DBPath     string
	LogLevel   string
	LogFile    string
}

// backend is what the commands need from either the local store or a
// remote tagging server.
type backend interface {
	tagging.Service
	views.ResultSource
	GetResult(ctx context.Context, id uint) (core.Result, error)
	CreateResult(ctx context.Context, result core.Result) (core.Result, error)
	ListTags(ctx context.Context) ([]string, error)
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:     "favtag",
		Short:   "favtag - browse results and mark favorites",
		Long:    "favtag lists scan results in a TUI and tags them as favorites through a tagging service.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath(), "Config file")
	flags.StringVarP(&opts.ServerURL, "server", "s", "", "Tagging server URL (default: use the local database)")
	flags.StringVar(&opts.DBPath, "db", "", "SQLite database path")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.LogFile, "log-file", "", `Log file ("-" for stderr)`)

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewResultCommand(opts))
	cmd.AddCommand(NewTagCommand(opts))
	cmd.AddCommand(NewFavoriteCommand(opts))

	return cmd
}

// loadConfig reads the config file and applies flag overrides.
func (o *GlobalOptions) loadConfig() (config.Config, error) {
	var overrides []config.Option
	if o.ServerURL != "" {
		overrides = append(overrides, config.WithServerURL(o.ServerURL))
	}
	if o.DBPath != "" {
		overrides = append(overrides, config.WithDatabasePath(o.DBPath))
	}
	if o.LogLevel != "" {
		overrides = append(overrides, config.WithLogLevel(o.LogLevel))
	}
	if o.LogFile != "" {
		overrides = append(overrides, config.WithLogFile(o.LogFile))
	}
	return config.Load(o.ConfigPath, overrides...)
}

// setup loads configuration and builds the logger.
func (o *GlobalOptions) setup() (config.Config, *logrus.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// openBackend connects to the configured server, or opens the local database.
func openBackend(cfg config.Config) (backend, func() error, error) {
	if cfg.Client.ServerURL != "" {
		client := taghttp.NewClient(cfg.Client.ServerURL, taghttp.WithTimeout(cfg.Client.Timeout))
		return client, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	s, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

// tuiModel wraps the MainView for bubbletea
type tuiModel struct {
	view *views.MainView
}

func (m tuiModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.view.Update(msg)
	m.view = updated.(*views.MainView)
	return m, cmd
}

func (m tuiModel) View() string {
	return m.view.View()
}

// runTUI starts the TUI application
func runTUI(opts *GlobalOptions) error {
	cfg, logger, err := opts.setup()
	if err != nil {
		return err
	}

	b, closeFn, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	model := tuiModel{
		view: views.NewMainView(b, b, logger),
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		logger.WithError(err).Error("tui exited with error")
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
