package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pdxmph/tasklist-tui/internal/config"
	"github.com/pdxmph/tasklist-tui/internal/storage"
	"github.com/pdxmph/tasklist-tui/internal/todo"
	"github.com/pdxmph/tasklist-tui/internal/tui"
	"github.com/spf13/cobra"
)

// options carries the persistent flags shared by every command
type options struct {
	configPath string
	backend    string
	path       string
	ephemeral  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "tasklist",
		Short:         "Tasklist - a terminal to-do list",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default ~/.config/tasklist/config.toml)")
	flags.StringVar(&opts.backend, "backend", "", "Storage backend: "+fmt.Sprint(storage.ListBackends()))
	flags.StringVar(&opts.path, "path", "", "Storage file path")
	flags.BoolVar(&opts.ephemeral, "ephemeral", false, "Keep tasks in memory only")

	rootCmd.AddCommand(initCmd(opts))
	rootCmd.AddCommand(listCmd(opts))
	rootCmd.AddCommand(seedCmd(opts))
	rootCmd.AddCommand(configCmd(opts))

	return rootCmd
}

// load reads the config file and applies flag overrides. Validation runs
// once, after the overrides, so flags can stand in for a bad file value.
func (o *options) load() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if o.configPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFrom(o.configPath)
	}
	if err != nil {
		return nil, err
	}

	if o.backend != "" {
		cfg.Storage.Backend = o.backend
	}
	if o.path != "" {
		cfg.Storage.Path = config.ExpandPath(o.path)
	}
	if o.ephemeral {
		cfg.Storage.Backend = "memory"
	}

	return cfg, cfg.Validate()
}

// openStore opens the configured backend and loads the task list
func openStore(cfg *config.Config) (*todo.Store, storage.KV, error) {
	kv, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	store := todo.NewStore(kv)
	store.Load()
	return store, kv, nil
}

func runTUI(opts *options) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}

	// Keep log output off the terminal while the UI owns it
	if cfg.Log.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := tea.LogToFile(cfg.Log.Path, "tasklist")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
	}

	store, kv, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	p := tea.NewProgram(tui.New(store, cfg.UI), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

func initCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config file and task database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			path := opts.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				if err := saveConfig(cfg, opts.configPath); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote config to %s\n", path)
			} else {
				fmt.Fprintf(out, "Config already exists at %s\n", path)
			}

			if cfg.Storage.Backend == "sqlite" {
				if _, err := os.Stat(cfg.Storage.Path); err == nil {
					fmt.Fprintf(out, "Database already exists at %s\n", cfg.Storage.Path)
					return nil
				}
				if err := storage.Initialize(cfg.Storage.Path); err != nil {
					return err
				}
				fmt.Fprintf(out, "Created database at %s\n", cfg.Storage.Path)
			}
			return nil
		},
	}
}

// saveConfig writes cfg to path, or to the standard location when path is empty
func saveConfig(cfg *config.Config, path string) error {
	if path == "" {
		return cfg.Save()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return cfg.SaveTo(path)
}

func listCmd(opts *options) *cobra.Command {
	var completedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			store, kv, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer kv.Close()

			printItems(cmd.OutOrStdout(), store.Items(completedOnly))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&completedOnly, "completed", "c", false, "Show completed tasks only")
	return cmd
}

func seedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add a set of sample tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			store, kv, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer kv.Close()

			n, err := todo.Seed(store, time.Now())
			if err != nil {
				return fmt.Errorf("seeding tasks: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d sample tasks\n", n)
			return nil
		},
	}
}

func configCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return cfg.Encode(cmd.OutOrStdout())
		},
	}
}

// printItems writes one line per task in list order
func printItems(w io.Writer, items []todo.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}
	for _, item := range items {
		box := "[ ]"
		if item.Completed {
			box = "[x]"
		}
		line := fmt.Sprintf("%2d. %s %s", item.Index+1, box, item.Text)
		if item.DueDate != "" {
			line += "  Due Date: " + item.DueDate
		}
		if item.Priority != "" {
			line += "  Priority: " + item.Priority
		}
		fmt.Fprintln(w, line)
	}
}
