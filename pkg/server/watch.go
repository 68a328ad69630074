package server

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bastiangx/prefixserve/pkg/config"
	"github.com/fsnotify/fsnotify"
)

// WatchConfig reloads the server section of configPath whenever the file is
// written or replaced, until ctx is done. The directory is watched rather
// than the file so editors that save by rename are still seen.
func (s *Server) WatchConfig(ctx context.Context, configPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(configPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", configPath, err)
	}
	s.log.Debugf("Watching config file %s", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			s.reload(target)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warnf("Config watcher error: %v", err)
		}
	}
}

func (s *Server) reload(configPath string) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		s.log.Warnf("Failed to reload config %s: %v", configPath, err)
		return
	}
	s.ApplySettings(cfg.Server)
	s.log.Infof("Reloaded config from %s", configPath)
}
