package services

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/apimgr/community/src/config"
)

// ConfigWatcher watches server.yml for changes and triggers reload
type ConfigWatcher struct {
	watcher    *fsnotify.Watcher
	configPath string
	reloadFunc func(*config.Config) error
	log        *zap.Logger
	stopChan   chan struct{}
}

// NewConfigWatcher creates a new config file watcher
func NewConfigWatcher(configPath string, log *zap.Logger, reloadFunc func(*config.Config) error) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &ConfigWatcher{
		watcher:    watcher,
		configPath: configPath,
		reloadFunc: reloadFunc,
		log:        log,
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins watching the config file for changes
func (cw *ConfigWatcher) Start() error {
	// Watch the directory; editors replace files rather than write in place
	configDir := filepath.Dir(cw.configPath)
	if err := cw.watcher.Add(configDir); err != nil {
		return err
	}

	cw.log.Info("watching config file", zap.String("path", cw.configPath))

	go func() {
		// Debounce to avoid multiple reloads for rapid changes
		var debounceTimer *time.Timer
		debounceDuration := 500 * time.Millisecond

		for {
			select {
			case event, ok := <-cw.watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != filepath.Clean(cw.configPath) {
					continue
				}

				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					if debounceTimer != nil {
						debounceTimer.Stop()
					}

					debounceTimer = time.AfterFunc(debounceDuration, func() {
						newCfg, err := config.LoadConfig()
						if err != nil {
							cw.log.Error("reload config", zap.Error(err))
							return
						}

						if err := cw.reloadFunc(newCfg); err != nil {
							cw.log.Error("apply config", zap.Error(err))
							return
						}

						cw.log.Info("configuration reloaded")
					})
				}

			case err, ok := <-cw.watcher.Errors:
				if !ok {
					return
				}
				cw.log.Warn("config watcher", zap.Error(err))

			case <-cw.stopChan:
				return
			}
		}
	}()

	return nil
}

// Stop stops the config file watcher
func (cw *ConfigWatcher) Stop() error {
	close(cw.stopChan)
	return cw.watcher.Close()
}
