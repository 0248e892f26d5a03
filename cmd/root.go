package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	tea "github.com/charmbracelet/bubbletea"

	"campuscal/internal/calendar"
	"campuscal/internal/config"
	"campuscal/internal/ics"
	"campuscal/internal/logging"
	"campuscal/internal/storage"
	"campuscal/internal/ui"
)

var (
	cfgFile  string
	icsFiles []string
	dbPath   string
	debug    bool
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "campuscal",
	Short: "A terminal month calendar for campus events",
	Long: `Campuscal is a terminal month calendar: it shows your events on a
month grid, lets you pin important days, and keeps imported ICS feeds
in sync with the files on disk.`,
	RunE: runTUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file to use instead of the default locations")
	rootCmd.PersistentFlags().StringSliceVarP(&icsFiles, "file", "f", []string{}, "ICS feed file(s) to import (can be specified multiple times)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides the config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

func initConfig() {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadConfigFile(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Command-line flags win over the config file.
	if len(icsFiles) > 0 {
		cfg.ICSFiles = icsFiles
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
}

// loadData opens the database (when configured) and builds the event
// store and pin set from it, then layers the ICS feeds on top.
func loadData(ctx context.Context, logger *zap.Logger) (*calendar.Store, *calendar.PinSet, *storage.SQLite, error) {
	store := calendar.NewStore()

	var repo *storage.SQLite
	if cfg.DBPath != "" {
		var err error
		repo, err = storage.New(cfg.DBPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening database: %w", err)
		}

		events, err := repo.LoadEvents(ctx)
		if err != nil {
			repo.Close()
			return nil, nil, nil, fmt.Errorf("loading events: %w", err)
		}
		for _, ev := range events {
			if err := store.Put(ev); err != nil {
				logger.Warn("skipping stored event", zap.String("id", ev.ID), zap.Error(err))
			}
		}
	}

	var pinKeys []calendar.DayKey
	if repo != nil {
		var err error
		pinKeys, err = repo.LoadPins(ctx)
		if err != nil {
			repo.Close()
			return nil, nil, nil, fmt.Errorf("loading pins: %w", err)
		}
	}
	pins := calendar.NewPinSet(pinKeys...)

	for _, path := range cfg.ICSFiles {
		feed := ics.FeedID(path)
		events, err := ics.ImportFile(path)
		if err != nil {
			logger.Warn("skipping feed", zap.String("path", path), zap.Error(err))
			continue
		}

		store.RemoveFeed(feed)
		for _, ev := range events {
			if err := store.Put(ev); err != nil {
				logger.Warn("skipping feed event", zap.String("feed", feed), zap.Error(err))
			}
		}

		if repo != nil && cfg.AutoSave {
			if err := repo.ReplaceFeed(ctx, feed, events); err != nil {
				logger.Error("persisting feed failed", zap.String("feed", feed), zap.Error(err))
			}
		}
		logger.Info("feed imported", zap.String("feed", feed), zap.Int("events", len(events)))
	}

	return store, pins, repo, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(cfg.LogFile, debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()
	store, pins, repo, err := loadData(ctx, logger)
	if err != nil {
		return err
	}
	if repo != nil {
		defer repo.Close()
	}

	// Pin toggles persist as they happen.
	if repo != nil && cfg.AutoSave {
		pins.OnToggle(func(key calendar.DayKey, pinned bool) {
			if err := repo.SetPin(ctx, key, pinned); err != nil {
				logger.Error("persisting pin failed", zap.String("day", string(key)), zap.Error(err))
			}
		})
	}

	model := ui.NewModel(cfg, store, pins, repo, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Watch the feed files and push changes into the running program.
	if len(cfg.ICSFiles) > 0 {
		watcher, err := ics.NewWatcher(func(path string) {
			p.Send(ui.FeedChangedMsg{Path: path})
		})
		if err != nil {
			logger.Warn("feed watcher unavailable", zap.Error(err))
		} else {
			defer watcher.Close()
			for _, path := range cfg.ICSFiles {
				if err := watcher.AddFeed(path); err != nil {
					logger.Warn("cannot watch feed", zap.String("path", path), zap.Error(err))
				}
			}
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}
