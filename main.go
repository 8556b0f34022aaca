// Command airwaves is a terminal internet radio player.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/app"
	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/config"
	"github.com/llehouerou/airwaves/internal/favorites"
	"github.com/llehouerou/airwaves/internal/favstore"
	"github.com/llehouerou/airwaves/internal/icons"
	"github.com/llehouerou/airwaves/internal/logging"
	"github.com/llehouerou/airwaves/internal/mpris"
	"github.com/llehouerou/airwaves/internal/notify"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/player"
	"github.com/llehouerou/airwaves/internal/state"
	"github.com/llehouerou/airwaves/internal/stderr"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	icons.Init(cfg.Icons)

	log, logCloser, err := logging.File(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logCloser.Close()

	// Capture ALSA noise before the speaker is initialized.
	if err := stderr.Start(log); err != nil {
		log.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer stderr.Stop()

	stateMgr, err := state.Open()
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer stateMgr.Close()

	catCfg := cfg.GetCatalogConfig()
	directory := catalog.New(
		catalog.WithBaseURL(catCfg.BaseURL),
		catalog.WithUserAgent(catCfg.UserAgent),
		catalog.WithTimeout(catCfg.Timeout()),
	)

	sink := player.NewStreamPlayer(
		player.WithUserAgent(catCfg.UserAgent),
		player.WithLogger(log.With().Str("component", "player").Logger()),
	)

	pbCfg := cfg.GetPlaybackConfig()
	pbOpts := []playback.Option{
		playback.WithFallbackLimit(pbCfg.FallbackLimit),
		playback.WithLookupTimeout(pbCfg.LookupTimeout()),
		playback.WithVolumeStore(stateMgr),
		playback.WithLogger(log.With().Str("component", "playback").Logger()),
	}
	if vol, err := stateMgr.GetVolume(); err == nil {
		pbOpts = append(pbOpts, playback.WithVolume(vol.Volume, vol.Muted))
	} else {
		log.Warn().Err(err).Msg("read saved volume")
	}
	controller := playback.New(sink, directory, pbOpts...)
	defer controller.Close()

	remote, remoteCloser, err := openFavoritesStore(cfg, log)
	if err != nil {
		return err
	}
	if remoteCloser != nil {
		defer remoteCloser.Close()
	}
	favs := favorites.New(remote, stateMgr,
		favorites.WithLogger(log.With().Str("component", "favorites").Logger()),
		favorites.WithTimeout(cfg.GetFavoritesConfig().Timeout()),
	)
	// Registered last so it runs first: pending favorites settle before
	// the local store closes.
	defer favs.Close()

	if adapter, err := mpris.New(controller, log.With().Str("component", "mpris").Logger()); err != nil {
		log.Warn().Err(err).Msg("mpris unavailable")
	} else {
		defer adapter.Close()
	}

	deps := app.Deps{
		Playback:  controller,
		Favorites: favs,
		Directory: directory,
		Logger:    log.With().Str("component", "ui").Logger(),
	}
	if notifCfg := cfg.GetNotificationsConfig(); notifCfg.Enabled {
		notifier, err := notify.New()
		if err != nil {
			log.Warn().Err(err).Msg("desktop notifications unavailable")
		} else {
			deps.Notifier = notifier
			deps.NotifyTimeout = time.Duration(notifCfg.Timeout) * time.Millisecond
		}
	}
	model := app.New(deps)

	log.Info().Str("catalog", catCfg.BaseURL).Bool("remote_favorites", cfg.HasFavoritesConfig()).Msg("airwaves started")
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// openFavoritesStore returns the remote favorites server when one is
// configured, otherwise a local SQLite store.
func openFavoritesStore(cfg *config.Config, log zerolog.Logger) (favorites.Store, io.Closer, error) {
	if cfg.HasFavoritesConfig() {
		favCfg := cfg.GetFavoritesConfig()
		log.Debug().Str("url", favCfg.BaseURL).Msg("using remote favorites")
		return favorites.NewHTTPStore(favCfg.BaseURL, favorites.WithHTTPTimeout(favCfg.Timeout())), nil, nil
	}

	path, err := favstore.DefaultPath()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve favorites path: %w", err)
	}
	repo, err := favstore.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open local favorites: %w", err)
	}
	log.Debug().Str("path", path).Msg("using local favorites")
	return repo, repo, nil
}
