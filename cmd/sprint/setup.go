package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/sprint/internal/action"
	"github.com/nikbrunner/sprint/internal/config"
	"github.com/nikbrunner/sprint/internal/desktop"
	"github.com/nikbrunner/sprint/internal/history"
	"github.com/nikbrunner/sprint/internal/keyrepeat"
	"github.com/nikbrunner/sprint/internal/launcher"
	"github.com/nikbrunner/sprint/internal/logging"
)

// rootOptions holds the persistent flags shared by all commands.
type rootOptions struct {
	configPath  string
	historyPath string
	appDirs     []string
	logDir      string
}

func (o *rootOptions) bindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "config file (defaults to $XDG_CONFIG_HOME/sprint.toml)")
	flags.StringVar(&o.historyPath, "history-db", "", "launch history database (defaults to $XDG_STATE_HOME/sprint/history.db)")
	flags.StringSliceVar(&o.appDirs, "apps-dir", nil, "applications directory to scan, repeatable (defaults to the XDG data dirs)")
	flags.StringVar(&o.logDir, "log-dir", "", "log directory (defaults to $XDG_STATE_HOME/sprint)")
}

func (o *rootOptions) resolveConfigPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.DefaultPath()
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	path, err := o.resolveConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (o *rootOptions) openHistory() (*history.Store, error) {
	path := o.historyPath
	if path == "" {
		p, err := history.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return history.Open(path)
}

func (o *rootOptions) initLogging(cfg *config.Config) {
	dir := o.logDir
	if dir == "" {
		d, err := logging.DefaultDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
			return
		}
		dir = d
	}
	if err := logging.Init(dir, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
}

func (o *rootOptions) loadIndex(ctx context.Context) (*desktop.Index, error) {
	dirs := o.appDirs
	if len(dirs) == 0 {
		dirs = desktop.DefaultDirs()
	}
	ix, err := desktop.Load(ctx, desktop.LoadParams{
		Dirs:     dirs,
		Locales:  desktop.LocalesFromEnv(),
		Desktops: desktop.CurrentDesktops(),
	})
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}
	return ix, nil
}

// launcherEnv is everything a launcher session needs, built once at startup.
type launcherEnv struct {
	cfg     *config.Config
	index   *desktop.Index
	history *history.Store // nil when disabled or unavailable
}

// setup loads config, logging, the application index and history.
// Config and index failures are fatal; a history failure only disables
// recording.
func (o *rootOptions) setup(ctx context.Context) (*launcherEnv, error) {
	start := time.Now()

	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	o.initLogging(cfg)

	ix, err := o.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	env := &launcherEnv{cfg: cfg, index: ix}
	if cfg.History {
		store, err := o.openHistory()
		if err != nil {
			logging.Warn("launch history disabled", "err", err)
		} else {
			env.history = store
		}
	}

	logging.Info("launcher ready", "apps", len(ix.Apps()), "elapsed", time.Since(start))
	return env, nil
}

func (e *launcherEnv) controller(repeat keyrepeat.Policy) *launcher.Controller {
	p := launcher.Params{
		Config: e.cfg,
		Index:  e.index,
		Runner: action.NewSystem(e.cfg.Launch),
		Repeat: repeat,
	}
	if e.history != nil {
		p.History = e.history
	}
	return launcher.New(p)
}

func (e *launcherEnv) Close() {
	if e.history == nil {
		return
	}
	if err := e.history.Close(); err != nil {
		logging.Warn("failed to close history", "err", err)
	}
}
