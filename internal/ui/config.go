package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayplan/internal/config"
	"github.com/javiermolinar/dayplan/internal/grid"
	"github.com/javiermolinar/dayplan/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.`,
		Example: `  dayplan config
  dayplan config init
  dayplan config path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.AddCommand(a.configInitCmd())
	cmd.AddCommand(a.configPathCmd())
	return cmd
}

func (a *App) configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.resolvedConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := config.Default().SaveTo(path); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func (a *App) configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.resolvedConfigPath())
		},
	}
}

func (a *App) resolvedConfigPath() string {
	if a.configPath != "" {
		return a.configPath
	}
	return config.DefaultConfigPath()
}

func (a *App) runConfigInteractive(in io.Reader, out io.Writer) error {
	configPath := a.resolvedConfigPath()
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg := a.config

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	if errors.Is(fileErr, os.ErrNotExist) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(out, cfg)

	reader := bufio.NewReader(in)

	// Ask if user wants to edit
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	p := prompter{reader: reader, out: out}
	cfg.Server.Listen = p.value("Server listen address", cfg.Server.Listen)
	cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	cfg.Client.APIURL = p.value("API URL (empty for the local database)", cfg.Client.APIURL)
	cfg.Calendar.SlotMinutes = p.number("Slot minutes", cfg.Calendar.SlotMinutes)
	cfg.Calendar.DefaultDuration = p.number("Default event minutes", cfg.Calendar.DefaultDuration)
	cfg.Calendar.DefaultCategory = p.value("Default category", cfg.Calendar.DefaultCategory)
	cfg.Calendar.TaskDropOverlap = p.choice("Task drop overlap",
		[]string{config.TaskDropAllow, config.TaskDropReject}, cfg.Calendar.TaskDropOverlap)
	cfg.UI.Theme = p.choice("UI theme", theme.Available(), cfg.UI.Theme)
	cfg.UI.DefaultView = p.choice("Default view",
		[]string{string(grid.ViewDay), string(grid.ViewWeek), string(grid.ViewMonth), string(grid.ViewYear)},
		cfg.UI.DefaultView)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[server]")
	fmt.Fprintf(w, "  listen            = %s\n", cfg.Server.Listen)
	fmt.Fprintf(w, "  cors_origins      = %s\n", strings.Join(cfg.Server.CORSOrigins, ", "))
	fmt.Fprintf(w, "  read_timeout      = %d\n", cfg.Server.ReadTimeout)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path           = %s\n", cfg.Storage.DBPath)
	fmt.Fprintf(w, "  list_limit        = %d\n", cfg.Storage.ListLimit)
	fmt.Fprintln(w, "\n[calendar]")
	fmt.Fprintf(w, "  slot_minutes      = %d\n", cfg.Calendar.SlotMinutes)
	fmt.Fprintf(w, "  default_duration  = %d\n", cfg.Calendar.DefaultDuration)
	fmt.Fprintf(w, "  default_drop_hour = %d\n", cfg.Calendar.DefaultDropHour)
	fmt.Fprintf(w, "  default_category  = %s\n", cfg.Calendar.DefaultCategory)
	fmt.Fprintf(w, "  task_drop_overlap = %s\n", cfg.Calendar.TaskDropOverlap)
	fmt.Fprintln(w, "\n[client]")
	if cfg.IsRemote() {
		fmt.Fprintf(w, "  api_url           = %s\n", cfg.Client.APIURL)
	} else {
		fmt.Fprintln(w, "  api_url           = (local database)")
	}
	fmt.Fprintf(w, "  timeout           = %d\n", cfg.Client.Timeout)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme             = %s\n", cfg.UI.Theme)
	fmt.Fprintf(w, "  default_view      = %s\n", cfg.UI.DefaultView)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

// prompter asks for one setting at a time, keeping the current value on
// empty input.
type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func (p prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.out, "  %s: ", label)
	} else {
		fmt.Fprintf(p.out, "  %s [%s]: ", label, current)
	}
	input, _ := p.reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func (p prompter) number(label string, current int) int {
	for {
		value := p.value(label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil && n > 0 {
			return n
		}
		fmt.Fprintf(p.out, "  Invalid number %q\n", value)
	}
}

func (p prompter) choice(label string, options []string, current string) string {
	list := strings.Join(options, ", ")
	for {
		value := strings.ToLower(p.value(fmt.Sprintf("%s (%s)", label, list), current))
		for _, o := range options {
			if value == o {
				return value
			}
		}
		fmt.Fprintf(p.out, "  Invalid value %q. Available: %s\n", value, list)
	}
}
