package commands

import (
	"fmt"

	"go.uber.org/zap"

	"tableflip.dev/carry/pkg/app"
	"tableflip.dev/carry/pkg/feed"
	"tableflip.dev/carry/pkg/logging"
	"tableflip.dev/carry/pkg/marker"
	"tableflip.dev/carry/pkg/rollover"
	"tableflip.dev/carry/pkg/settings"
	"tableflip.dev/carry/pkg/store"
	"tableflip.dev/carry/pkg/toggle"
)

type mode int

const (
	// modeCLI runs one command and exits.
	modeCLI mode = iota
	// modeServe keeps running and serves requests.
	modeServe
	// modeWatch consumes the shared change feed.
	modeWatch
)

type env struct {
	Settings *settings.Settings
	Logger   *zap.Logger
	Workflow marker.Workflow
	App      *app.Service
	// Feed is the change source a long running mode should attach the
	// rollover engine to. Nil when nothing in this process needs it.
	Feed feed.Subscriber
}

var configPath string

func loadEnv(m mode) (*env, error) {
	var paths []string
	if configPath != "" {
		paths = append(paths, configPath)
	}
	s, err := settings.Load(paths...)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(s.Log.Level)
	if err != nil {
		return nil, err
	}
	if s.Reset {
		logger.Warn("settings were out of date and have been reset to defaults",
			zap.String("file", s.File), zap.String("version", settings.Version))
	}

	workflow, err := s.ParsedWorkflow()
	if err != nil {
		return nil, err
	}
	km, err := s.Keymap()
	if err != nil {
		return nil, err
	}

	e := &env{Settings: s, Logger: logger, Workflow: workflow}

	var publishers []feed.Publisher
	if s.Feed.Enabled {
		dir := feed.NewDir(s.Feed.Dir, logger.Named("feed"))
		publishers = append(publishers, dir)
		if m == modeWatch {
			e.Feed = dir
		}
	} else if m == modeServe {
		local := feed.NewLocal()
		publishers = append(publishers, local)
		e.Feed = local
	}

	st, err := store.Load(s,
		store.WithPublisher(feed.Multi(publishers...)),
		store.WithLogger(logger.Named("store")))
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", s.Store.Path, err)
	}

	var ro *rollover.Service
	if !s.Disabled {
		ro = rollover.New(st,
			rollover.WithLogger(logger.Named("rollover")),
			rollover.WithDelimiters(s.Highlight))
	}

	e.App = &app.Service{
		Store:    st,
		Rollover: ro,
		Toggler: &toggle.Toggler{
			Backend:    st,
			Workflow:   workflow,
			Delimiters: s.Highlight,
		},
		Keymap: km,
		Logger: logger,
		Inline: m == modeCLI && !s.Feed.Enabled,
	}
	return e, nil
}
