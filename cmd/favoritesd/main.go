// Command favoritesd serves the favorites store and the station directory
// proxy used by the airwaves client.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/config"
	"github.com/llehouerou/airwaves/internal/favstore"
	"github.com/llehouerou/airwaves/internal/logging"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config.toml (default: standard locations)")
	listen := flag.String("listen", "", "listen address (overrides config)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logging.Console(os.Stderr, cfg.LogLevel)
	if log.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	srvCfg := cfg.GetServerConfig()
	if *listen != "" {
		srvCfg.Listen = *listen
	}
	dbPath := srvCfg.DBPath
	if dbPath == "" {
		dbPath, err = favstore.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolve db path: %w", err)
		}
	}

	repo, err := favstore.Open(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	catCfg := cfg.GetCatalogConfig()
	directory := catalog.New(
		catalog.WithBaseURL(catCfg.BaseURL),
		catalog.WithUserAgent(catCfg.UserAgent),
		catalog.WithTimeout(catCfg.Timeout()),
	)

	srv := &http.Server{
		Addr:              srvCfg.Listen,
		Handler:           favstore.NewRouter(favstore.NewAPI(repo, directory, log)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen", srvCfg.Listen).Str("db", dbPath).Str("catalog", catCfg.BaseURL).Msg("favorites server started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
