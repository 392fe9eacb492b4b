package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/config"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/database"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/locale"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/logging"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/storage"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/tracks"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	store   database.Store
	storage *storage.Storage
	logger  *logging.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := os.Getenv("CONFIG_PATH")
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

// services opens the store and object storage on first use.
func (c *commandContext) services(cmd *cobra.Command) (database.Store, *storage.Storage, error) {
	if c.store != nil {
		return c.store, c.storage, nil
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	// Log lines go to stderr so command output stays parseable.
	c.logger = logging.NewWriterLogger(cmd.ErrOrStderr(), logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
	})

	store, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open attachment store: %w", err)
	}

	stor, err := storage.New(cfg.Storage, c.logger)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	c.store, c.storage = store, stor
	return store, stor, nil
}

func (c *commandContext) resolver(cmd *cobra.Command) (*tracks.Resolver, error) {
	store, stor, err := c.services(cmd)
	if err != nil {
		return nil, err
	}

	opts := []tracks.Option{tracks.WithLogger(c.logger)}
	if c.config.Tracks.LocaleLabels {
		opts = append(opts, tracks.WithLocaleNamer(locale.NewNamer(), c.config.Tracks.UILocale))
	}
	return tracks.NewResolver(store, stor, opts...), nil
}

func (c *commandContext) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
