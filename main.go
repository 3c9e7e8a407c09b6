package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/pdxmph/tasks-tui/internal/config"
	"github.com/pdxmph/tasks-tui/internal/logging"
	"github.com/pdxmph/tasks-tui/internal/storage"
	"github.com/pdxmph/tasks-tui/internal/storage/sqlite"
	"github.com/pdxmph/tasks-tui/internal/task"
	"github.com/pdxmph/tasks-tui/internal/tui"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line
type options struct {
	configPath string
	initDB     bool
	fixtures   bool
	list       bool
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tasks-tui", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "Path to config file (default ~/.config/tasks-tui/config.toml)")
	fs.BoolVar(&opts.initDB, "init", false, "Create an empty database and exit")
	fs.BoolVar(&opts.fixtures, "fixtures", false, "Create a database with sample tasks and exit")
	fs.BoolVar(&opts.list, "list", false, "Print the task list and exit")
	dbPath := fs.String("db", "", "Path to the task database")
	backend := fs.String("backend", "", "Storage backend ("+strings.Join(storage.Backends(), ", ")+")")
	sortBy := fs.String("sort", "", "Sort key: dueDate, priority or completed")
	filter := fs.String("filter", "", "Status filter: all, active or completed")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	// Flags override the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.Storage.Path = *dbPath
		case "backend":
			cfg.Storage.Backend = *backend
		case "sort":
			cfg.View.Sort = *sortBy
		case "filter":
			cfg.View.Filter = *filter
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})

	if opts.initDB {
		if err := sqlite.Initialize(cfg.Storage.Path); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Created database at %s\n", cfg.Storage.Path)
		return nil
	}

	if opts.fixtures {
		if err := sqlite.CreateFixturesDatabase(cfg.Storage.Path, cfg.Storage.Key); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Created fixtures database at %s\n", cfg.Storage.Path)
		return nil
	}

	sortKey, err := task.ParseSortKey(cfg.View.Sort)
	if err != nil {
		return err
	}
	statusFilter, err := task.ParseFilter(cfg.View.Filter)
	if err != nil {
		return err
	}

	logOpts := logging.OptionsFromConfig(cfg.Log.Level, cfg.Log.Format)
	var logger *log.Logger
	if opts.list {
		logger = logging.New(stderr, logOpts)
	} else {
		fileLogger, err := logging.NewFileLogger(cfg.Log.Path, logOpts)
		if err != nil {
			return err
		}
		defer fileLogger.Close()
		logger = fileLogger.Logger
	}

	// Backends log through the default logger
	log.SetDefault(logger)

	kv, err := openStorage(cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer kv.Close()

	list := storage.NewTaskList(kv, cfg.Storage.Key, logger)
	store := task.New(list)
	logger.Debug("Started", "backend", cfg.Storage.Backend, "key", list.Key(), "tasks", store.Len())

	if opts.list {
		printTasks(stdout, task.DerivedView(store.Tasks(), sortKey, statusFilter))
		return nil
	}

	model := tui.New(store, tui.Options{
		SortBy:        sortKey,
		Filter:        statusFilter,
		NoticeTimeout: cfg.Notice.Timeout.Duration,
		Logger:        logger,
		SaveView: func(sortBy task.SortKey, filter task.Filter) error {
			return saveViewSettings(opts.configPath, sortBy, filter)
		},
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// saveViewSettings writes the sort key and filter to the config file.
// The file is reloaded first so command line overrides are not persisted.
func saveViewSettings(configPath string, sortBy task.SortKey, filter task.Filter) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	cfg.View.Sort = string(sortBy)
	cfg.View.Filter = string(filter)

	if configPath != "" {
		return cfg.SaveTo(configPath)
	}
	return cfg.Save()
}

// openStorage opens the configured backend, creating the sqlite database
// on first run
func openStorage(cfg config.StorageConfig, logger *log.Logger) (storage.KV, error) {
	if cfg.Backend == "sqlite" {
		if _, err := os.Stat(cfg.Path); os.IsNotExist(err) {
			logger.Info("Creating database", "path", cfg.Path)
			if err := sqlite.Initialize(cfg.Path); err != nil {
				return nil, err
			}
		}
	}
	return storage.Open(cfg.Backend, cfg.Path)
}

func printTasks(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}
	for _, t := range tasks {
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		fmt.Fprintf(w, "%s %-10s %-6s %s\n", check, t.DueDate, t.Priority, t.Name)
	}
}
