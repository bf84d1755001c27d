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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chatkeep/chatkeep-server/auth"
	"github.com/chatkeep/chatkeep-server/chatposts"
	"github.com/chatkeep/chatkeep-server/folders"
	"github.com/chatkeep/chatkeep-server/internal/config"
	"github.com/chatkeep/chatkeep-server/internal/storage"
	"github.com/chatkeep/chatkeep-server/server"
	"github.com/chatkeep/chatkeep-server/token"
	"github.com/chatkeep/chatkeep-server/users"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx := context.Background()

	pool, err := storage.NewPool(ctx, c.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("storage.NewPool: %w", err)
	}
	defer pool.Close()

	if err := storage.Migrate(pool); err != nil {
		return fmt.Errorf("storage.Migrate: %w", err)
	}

	signer := token.NewHMACSigner(c.GetJWTSecret())
	issuer := token.NewIssuer(signer,
		token.WithTokenExpiry(c.GetAccessTokenExpiry(), c.GetRefreshTokenExpiry()))
	guard := token.NewGuard(c.GetRefreshTokenExpiry())

	repos := server.Repos{
		Users:     users.NewPostgresRepo(pool),
		Folders:   folders.NewPostgresRepo(pool),
		ChatPosts: chatposts.NewPostgresRepo(pool),
	}

	authService, err := auth.NewService(repos.Users, issuer, guard)
	if err != nil {
		return fmt.Errorf("auth.NewService: %w", err)
	}

	srv, err := server.New(c, repos, authService, issuer)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func setupLogging(c config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
