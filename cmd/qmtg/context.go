package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"qmtg/internal/actions"
	"qmtg/internal/config"
	"qmtg/internal/logging"
	"qmtg/internal/scryfall"
	"qmtg/internal/storage"
)

// commandContext lazily builds the shared pieces commands need. Everything
// is created at most once per invocation and the store is closed on exit.
type commandContext struct {
	configFlag *string
	homeFlag   *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	envOnce sync.Once
	env     *actions.Env
	envErr  error

	store *storage.ObjectStore
}

func newCommandContext(configFlag, homeFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag, homeFlag: homeFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.homeFlag != nil && strings.TrimSpace(*c.homeFlag) != "" {
			cfg.Home = strings.TrimSpace(*c.homeFlag)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: os.Stderr,
		})
	})
	return c.logger, c.loggerErr
}

// ensureEnv opens the object store and the Scryfall agent. The store holds
// a file lock, so only one qmtg process works against a home at a time.
func (c *commandContext) ensureEnv() (*actions.Env, error) {
	c.envOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.envErr = err
			return
		}
		logger, err := c.ensureLogger()
		if err != nil {
			c.envErr = err
			return
		}

		store, err := storage.NewObjectStore(cfg.StoreFile(), logger)
		if err != nil {
			c.envErr = err
			return
		}
		actions.RegisterTypes(store)

		api, err := scryfall.New(scryfall.Options{
			Host:       cfg.Scryfall.Host,
			Pretty:     cfg.Scryfall.Pretty,
			CacheFile:  cfg.CacheFile(),
			FileDir:    cfg.FileStoreDir(),
			RateLimit:  cfg.RateLimit(),
			CatalogTTL: cfg.CatalogTTL(),
			Logger:     logger,
		})
		if err != nil {
			store.Close()
			c.envErr = err
			return
		}

		c.store = store
		c.env = &actions.Env{Store: store, API: api, Logger: logger}
	})
	return c.env, c.envErr
}

func (c *commandContext) close() {
	if c.store != nil {
		if err := c.store.Close(); err != nil && c.logger != nil {
			c.logger.Warn("could not close store cleanly", "error", err)
		}
	}
}
