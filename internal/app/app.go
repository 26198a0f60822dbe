package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"

	"photolib/internal/photos"
	"photolib/internal/photos/diskcache"
	"photolib/internal/photos/localstore"
	"photolib/internal/photos/remote"
)

// Config is the top-level configuration struct that is loaded via TOML
// decoding of the file specified by the PHOTOLIB_CONFIG environment variable
// (or "config.toml" if empty).
//
// This is the primary way to configure the application.
type Config struct {
	Library struct {
		// Backend selects the media-library backend: "local" or
		// "remote". Defaults to "local".
		Backend string
	}

	// LocalStorage configures the local library backend.
	LocalStorage localstore.Config

	// Remote configures the remote photo server backend.
	Remote remote.Config

	// MemoryCache configures the in-memory tier for materialized images.
	MemoryCache photos.MemoryCacheConfig

	// DiskCache configures the persistent tier for materialized images.
	DiskCache DiskCacheConfig
}

// DiskCacheConfig configures the persistent image cache.
type DiskCacheConfig struct {
	UseDiskCache  bool
	DiskCachePath string
}

// Run parses the command line, loads configuration, initializes the photos
// client, and dispatches to the requested command.
func Run() error {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		return errors.New("no command given")
	}
	name, args := args[0], args[1:]
	if name == "help" || name == "-h" || name == "--help" {
		printUsage()
		return nil
	}
	cmd, ok := commands[name]
	if !ok {
		printUsage()
		return fmt.Errorf("unknown command %q", name)
	}

	conf, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// Debug level since conf has sensitive values.
	slog.Debug("loaded config", "config", conf)

	client, closeClient, err := initClient(*conf)
	if err != nil {
		return fmt.Errorf("failed to init client: %w", err)
	}
	defer closeClient()
	slog.Info("created photos client")

	return cmd.run(context.Background(), client, args)
}

// LoadConfig reads and TOML-decodes the configuration file, then applies
// environment variable overrides.
func LoadConfig() (*Config, error) {
	// Determine config file path.
	configFilePath := "config.toml"
	if envConfigFilePath := os.Getenv("PHOTOLIB_CONFIG"); envConfigFilePath != "" {
		configFilePath = envConfigFilePath
	}
	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		return nil, errors.New("config file not found")
	} else if err != nil {
		return nil, err
	}

	// TOML-decode config file contents.
	var conf Config
	if _, err := toml.DecodeFile(configFilePath, &conf); err != nil {
		return nil, err
	}

	// Load values from environment variables.
	conf.Remote.HydrateFromEnv()

	return &conf, nil
}

// initClient builds the photos client from config: the selected library
// backend plus the configured cache tiers. The returned closer releases any
// opened stores.
func initClient(conf Config) (client *photos.Client, closeAll func(), err error) {
	var (
		opts    []photos.ClientOpt
		closers []func() error
	)
	closeAll = func() {
		for _, c := range closers {
			if err := c(); err != nil {
				slog.Debug("failed to close store", "error", err)
			}
		}
	}

	switch conf.Library.Backend {
	case "local", "":
		store, err := localstore.Open(conf.LocalStorage)
		if err != nil {
			return nil, nil, fmt.Errorf("open local library: %w", err)
		}
		closers = append(closers, store.Close)
		opts = append(opts, photos.WithLibrary(store))
	case "remote":
		opts = append(opts, photos.WithLibrary(remote.NewLibrary(conf.Remote)))
	default:
		return nil, nil, fmt.Errorf("unknown library backend %q", conf.Library.Backend)
	}

	opts = append(opts, photos.WithMemoryCache(conf.MemoryCache))

	if conf.DiskCache.UseDiskCache {
		cache, err := diskcache.Open(conf.DiskCache.DiskCachePath)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open disk cache: %w", err)
		}
		closers = append(closers, cache.Close)
		opts = append(opts, photos.WithImageStore(cache))
	}

	client = photos.NewClient(opts...)
	slog.Info("client diagnostics", "diagnostics", client.Diagnostics())
	return client, closeAll, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: photolib <command> [flags]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "commands:")
	for _, name := range commandOrder {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", name, commands[name].short)
	}
}
