package history

import (
	"log/slog"
	"sync"

	"consoleplus/pkg/fault"
	"consoleplus/pkg/host"
)

// Cache mirrors the console's commands array to a Store. Restore, Persist
// and Clear touch the console surface and must run on the UI queue.
type Cache struct {
	store    Store
	provider host.Provider
	policy   Policy
	logger   *slog.Logger

	// reloadOnOpen restores on every console open instead of only the first
	reloadOnOpen bool

	mu     sync.Mutex
	loaded bool
}

// CacheConfig contains the cache's collaborators and settings
type CacheConfig struct {
	Store        Store
	Provider     host.Provider
	Policy       Policy
	ReloadOnOpen bool
	Logger       *slog.Logger
}

// NewCache creates a history cache
func NewCache(cfg CacheConfig) *Cache {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Cache{
		store:        cfg.Store,
		provider:     cfg.Provider,
		policy:       cfg.Policy,
		reloadOnOpen: cfg.ReloadOnOpen,
		logger:       logger,
	}
}

// Loaded reports whether a restore has been attempted
func (c *Cache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loaded
}

// claimLoad marks the load as done and reports whether this caller should
// perform it
func (c *Cache) claimLoad() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && !c.reloadOnOpen {
		return false
	}
	c.loaded = true
	return true
}

// Load reads the store and applies the policy. Store failures yield an
// empty list.
func (c *Cache) Load() []string {
	entries, err := c.store.Load()
	if err != nil {
		c.logger.Warn("console history unreadable, starting empty", "error", err)
		return nil
	}
	return c.policy.Apply(entries)
}

// Restore replaces the console's commands array with the persisted history.
// Unless reloading on every open, only the first call does anything, whether
// or not it finds a console to restore into.
func (c *Cache) Restore() {
	if !c.claimLoad() {
		return
	}

	entries := c.Load()
	if len(entries) == 0 {
		c.logger.Info("console history not found")
		return
	}

	surface, ok := c.provider.Surface()
	if !ok {
		c.logger.Debug("console closed before history could be restored")
		return
	}

	if _, err := surface.GetArray(host.CommandsPath); err != nil {
		c.logger.Debug("commands array unavailable", "error", err)
		return
	}

	c.logger.Info("loading console history from file", "entries", len(entries))
	if err := surface.SetArray(host.CommandsPath, host.Values(entries)); err != nil {
		c.logger.Debug("failed to restore console history", "error", err)
	}
}

// Persist writes the console's commands array to the store, or clears the
// store when the array is empty
func (c *Cache) Persist() {
	surface, ok := c.provider.Surface()
	if !ok {
		c.logger.Debug("console unavailable, history not saved")
		return
	}

	values, err := surface.GetArray(host.CommandsPath)
	if err != nil {
		c.logger.Debug("commands array unavailable", "error", err)
		return
	}

	commands, skipped := host.Strings(values)
	if skipped > 0 {
		err := fault.New(fault.ErrorMalformedEntry, "persist history", "non-string commands skipped", nil)
		c.logger.Debug("skipping malformed entries", "count", skipped, "error", err)
	}

	if len(commands) == 0 {
		if err := c.store.Clear(); err != nil {
			c.logger.Warn("failed to clear console history", "error", err)
		}
		return
	}

	entries := c.policy.Apply(commands)
	c.logger.Info("saving console history to file", "entries", len(entries))
	if err := c.store.Save(entries); err != nil {
		c.logger.Warn("failed to save console history", "error", err)
	}
}

// Clear empties the console's commands array, when the console is
// available, and always clears the store
func (c *Cache) Clear() error {
	if surface, ok := c.provider.Surface(); ok {
		if _, err := surface.GetArray(host.CommandsPath); err == nil {
			c.logger.Info("clearing console history")
			if err := surface.SetArray(host.CommandsPath, nil); err != nil {
				c.logger.Debug("failed to clear commands array", "error", err)
			}
		}
	}

	return c.store.Clear()
}
