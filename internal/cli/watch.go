package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/adeane/devinsight/internal/api"
	"github.com/adeane/devinsight/internal/config"
	"github.com/adeane/devinsight/internal/domain"
	"github.com/adeane/devinsight/internal/ingest"
	"github.com/adeane/devinsight/internal/source"
	"github.com/adeane/devinsight/internal/storage"
	"github.com/adeane/devinsight/internal/tui"
)

// apiShutdownTimeout bounds the inspection server's graceful shutdown
const apiShutdownTimeout = 3 * time.Second

// watchCmd is the explicit form of the default action
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Tail the log stream in the interactive dashboard",
	RunE:  runWatch,
}

// runWatch is the root command: ingest the stream and run the dashboard
func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	// Persistent storage is optional; when it fails to come up that is a
	// fatal startup error, not something to limp past.
	var (
		rotator *storage.Rotator
		sink    ingest.Sink
	)
	if cfg.Storage.Enabled {
		if cfg.Storage.Clear {
			if err := storage.Clear(cfg.Storage.Dir); err != nil {
				return err
			}
		}
		rotator, err = storage.New(storage.Config{
			Dir:       cfg.Storage.Dir,
			MaxSizeMB: cfg.Storage.MaxSizeMB,
			DeviceID:  cfg.Source.Device,
			Compress:  cfg.Storage.Compress,
		})
		if err != nil {
			return err
		}
		defer rotator.Close()
		sink = rotator
	}

	src := newSource(cfg)
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Source-unavailable is fatal: report once, exit non-zero.
	reader, err := src.Open(ctx)
	if err != nil {
		return err
	}

	pipeline := ingest.NewPipeline(ingest.Config{
		LevelFilter: cfg.Filter.Level,
		TagFilter:   cfg.Filter.Tag,
	}, sink)
	go pipeline.Run(ctx, reader)

	if cfg.API.Enabled {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		var status api.StorageSource
		if rotator != nil {
			status = rotator
		}
		server := api.NewServer(api.ServerConfig{Host: cfg.API.Host, Port: cfg.API.Port},
			api.NewHandlers(pipeline, status, cfg.Storage.Dir), logger)
		server.Start()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), apiShutdownTimeout)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	opts := tui.Options{
		Entries:        pipeline.Entries(),
		Probe:          src.Alive,
		StorageEnabled: cfg.Storage.Enabled,
	}
	if rotator != nil {
		opts.Status = rotator.Updates()
	}

	return tui.Run(opts)
}

// loadConfig loads the configuration file. A missing file is fine unless
// the user pointed at one explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) && !cmd.Flags().Changed("config") {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// applyFlags overlays explicitly-set command line flags onto the config
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("filter") {
		cfg.Filter.Level = flagFilter
	}
	if cmd.Flags().Changed("tag") {
		cfg.Filter.Tag = flagTag
	}
	if cmd.Flags().Changed("device") {
		cfg.Source.Device = flagDevice
	}
	if cmd.Flags().Changed("source") {
		cfg.Source.Kind = flagSource
	}
	if cmd.Flags().Changed("command") {
		cfg.Source.Command = flagCommand
		if !cmd.Flags().Changed("source") {
			cfg.Source.Kind = config.SourceCommand
		}
	}
	if cmd.Flags().Changed("save") {
		cfg.Storage.Enabled = flagSave
	}
	if cmd.Flags().Changed("dir") {
		cfg.Storage.Dir = flagDir
	}
	if cmd.Flags().Changed("max-size") {
		cfg.Storage.MaxSizeMB = flagMaxSize
	}
	if cmd.Flags().Changed("clear") {
		cfg.Storage.Clear = flagClear
	}
	if cmd.Flags().Changed("compress") {
		cfg.Storage.Compress = flagCompress
	}
	if cmd.Flags().Changed("api") {
		cfg.API.Enabled = flagAPI
	}
}

// newSource builds the configured log source
func newSource(cfg *config.Config) source.Source {
	switch cfg.Source.Kind {
	case config.SourceCommand:
		return &source.Command{Line: cfg.Source.Command}
	case config.SourceStdin:
		return source.Stdin{}
	default:
		return &source.ADB{Device: cfg.Source.Device}
	}
}
