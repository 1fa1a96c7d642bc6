package server

import (
	"github.com/teranos/larder/am"
	"github.com/teranos/larder/errors"
	"github.com/teranos/larder/icon"
	"github.com/teranos/larder/logger"
	"github.com/teranos/larder/quantity"
)

// ApplyConfig rebuilds the engine, placeholder and icon resolver from cfg and
// publishes them in one swap. Open sessions pick up the new engine on their
// next event. It is the server's config reload callback.
func (s *LarderServer) ApplyConfig(cfg *am.Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	engine, err := cfg.NewEngine()
	if err != nil {
		return err
	}

	next := &settings{
		config:    cfg,
		engine:    engine,
		formatter: quantity.Formatter{Placeholder: cfg.Quantity.Placeholder},
		resolver:  s.loadResolver(cfg.Icons.TableFile),
	}
	s.settings.Store(next)

	s.logger.Infow("Configuration applied",
		"empty_query", engine.Mode().String(),
		"max_results", engine.MaxResults(),
		"placeholder", next.formatter.Placeholder,
		"icon_table", next.resolver.Table().Source(),
	)
	return nil
}

// loadResolver uses the table at path when it is set and acceptable, and the
// embedded table otherwise.
func (s *LarderServer) loadResolver(path string) *icon.Resolver {
	if path == "" {
		return icon.NewResolver(nil)
	}
	table, err := icon.LoadTableFile(path)
	if err != nil {
		s.logger.Errorw("Icon table rejected, keeping embedded table",
			logger.FieldFile, path,
			logger.FieldError, err,
		)
		return icon.NewResolver(nil)
	}
	return icon.NewResolver(table)
}

// WatchConfig reloads the configuration whenever the file at path changes.
// Stop ends the watch.
func (s *LarderServer) WatchConfig(path string, opts ...am.WatcherOption) error {
	watcher, err := am.NewConfigWatcher(path, opts...)
	if err != nil {
		return errors.Wrapf(err, "failed to watch %s", path)
	}
	watcher.OnReload(s.ApplyConfig)
	watcher.Start()

	s.mu.Lock()
	s.configWatcher = watcher
	s.mu.Unlock()
	am.SetGlobalWatcher(watcher)

	s.logger.Infow("Watching configuration", logger.FieldFile, path)
	return nil
}
