package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/client"
	"github.com/javiermolinar/dayplan/internal/config"
	"github.com/javiermolinar/dayplan/internal/db"
	"github.com/javiermolinar/dayplan/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   calendar.Repository
	closer io.Closer
	config *config.Config
	root   *cobra.Command
	now    func() time.Time

	configPath string
	apiURL     string
	debug      bool // Enable debug logging
}

// Option configures an App.
type Option func(*App)

// WithRepository uses repo instead of opening one from the config.
func WithRepository(repo calendar.Repository) Option {
	return func(a *App) { a.repo = repo }
}

// WithConfig skips loading the config file.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) { a.config = cfg }
}

// WithClock replaces the clock used for "today".
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// NewApp creates a new CLI application.
func NewApp(opts ...Option) *App {
	a := &App{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}

	a.root = &cobra.Command{
		Use:   "dayplan",
		Short: "A terminal calendar for events, goals and tasks",
		Long: `Dayplan is a calendar for planning your days.

Run without a command to open the calendar in the terminal. Events live on a
time grid you can browse by day, week, month or year; goals group the tasks
you drag onto the calendar to schedule them.

The calendar opens the local database unless an API URL is configured, in
which case it talks to a server started with "dayplan serve".`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.loadConfig()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			return tui.RunWithDebug(repo, a.config, a.debug)
		},
	}

	// Add global flags
	flags := a.root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default "+config.DefaultConfigPath()+")")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to debug.log)")
	flags.StringVar(&a.apiURL, "api", "", "Server URL, overrides client.api_url")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.eventsCmd())
	a.root.AddCommand(a.goalsCmd())
	a.root.AddCommand(a.tasksCmd())
	a.root.AddCommand(a.gridCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dayplan %s (commit: %s)\n", Version, Commit)
		},
	}
}

// loadConfig reads the config file unless one was injected.
func (a *App) loadConfig() error {
	if a.config != nil {
		return nil
	}
	path := a.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.config = cfg
	return nil
}

// repository opens the calendar store on first use: the server at the
// configured API URL, or the local SQLite database.
func (a *App) repository() (calendar.Repository, error) {
	if a.repo != nil {
		return a.repo, nil
	}

	apiURL := a.apiURL
	if apiURL == "" {
		apiURL = a.config.Client.APIURL
	}

	if apiURL != "" {
		c, err := client.New(apiURL, client.WithTimeout(a.config.Client.TimeoutDuration()))
		if err != nil {
			return nil, err
		}
		a.repo, a.closer = c, c
		return c, nil
	}

	store, err := a.openDatabase()
	if err != nil {
		return nil, err
	}
	a.repo, a.closer = store, store
	return store, nil
}

func (a *App) openDatabase() (*db.SQLite, error) {
	store, err := db.New(a.config.Storage.DBPath, db.WithListLimit(a.config.Storage.ListLimit))
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", a.config.Storage.DBPath, err)
	}
	return store, nil
}

// SetArgs replaces the command line, for tests and embedding.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// SetOutput redirects command output.
func (a *App) SetOutput(w io.Writer) {
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository opened by the App.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}
