// Command devbackend serves a local stand-in for the viewer API with a
// seeded hospital and account, backed by in-memory repositories.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-viewer-session/internal/config"
	"github.com/jrsteele09/go-viewer-session/internal/logging"
	"github.com/jrsteele09/go-viewer-session/server"
	fakesharerepo "github.com/jrsteele09/go-viewer-session/shares/repofake"
	tenantrepofakes "github.com/jrsteele09/go-viewer-session/tenants/repofakes"
	fakeuserrepo "github.com/jrsteele09/go-viewer-session/users/repofake"
)

const configFileVar = "CONFIG_FILE"

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load(config.GetEnv(configFileVar, ""))
	if err != nil {
		return err
	}
	logging.Setup(c.GetLogLevel(), c.GetEnv())
	displayAppname(c.GetAppName())

	dev, err := server.New(c, server.Repos{
		Users:   fakeuserrepo.NewFakeUserRepo(),
		Tenants: tenantrepofakes.NewFakeTenantRepo(),
		Shares:  fakesharerepo.NewFakeShareRepo(),
	})
	if err != nil {
		return err
	}
	if pw := dev.GeneratedSeedPassword(); pw != "" {
		log.Warn().Str("email", c.GetSeedEmail()).Str("password", pw).Msg("Generated seed account password")
	}

	srv := &http.Server{Addr: c.GetPort(), Handler: dev, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(srv) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

func listenAndServe(srv *http.Server) error {
	log.Info().Str("addr", srv.Addr).Msg("Server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
