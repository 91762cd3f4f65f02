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
	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-signal-server/gateway"
	"github.com/jrsteele09/go-signal-server/internal/config"
	"github.com/jrsteele09/go-signal-server/internal/telemetry"
	"github.com/jrsteele09/go-signal-server/server"
	"github.com/jrsteele09/go-signal-server/sessions"
	"github.com/jrsteele09/go-signal-server/signals"
	"github.com/jrsteele09/go-signal-server/signals/publish"
	"github.com/jrsteele09/go-signal-server/subscriptions"
	"github.com/jrsteele09/go-signal-server/token"
	"github.com/jrsteele09/go-signal-server/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
	}

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, c, c.GetAppName())
	if err != nil {
		log.Warn().Err(err).Msg("tracing disabled")
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(tctx); err != nil {
			log.Err(err).Msg("telemetry shutdown")
		}
	}()

	services, err := buildServices(c)
	if err != nil {
		return err
	}
	handler := otelhttp.NewHandler(server.New(c, services), c.GetAppName())
	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return listenAndServe(gctx, httpServer)
	})
	g.Go(func() error {
		return services.Sessions.RunSweeper(gctx, c.GetSessionSweepInterval(), c.GetSessionIdleTimeout())
	})
	if services.Broadcaster.Enabled() {
		g.Go(func() error {
			return services.Broadcaster.Run(gctx)
		})
	}
	return g.Wait()
}

func buildServices(c config.Config) (server.Services, error) {
	signer, err := newSigner(c)
	if err != nil {
		return server.Services{}, err
	}
	tokens := token.New(signer, token.WithTTL(c.GetTokenTTL()))

	registry := subscriptions.NewRegistry()
	sessionManager := sessions.NewManager(sessions.NewInMemoryRepo(), tokens, sessions.WithMaxDevices(c.GetMaxDevices()))
	accessGateway := gateway.New(sessionManager, registry,
		gateway.WithActivationSecret(c.GetActivationSecret()),
		gateway.WithAdminSecret(c.GetAdminSecret()))

	if !accessGateway.ActivationEnabled() {
		log.Warn().Msg("ACTIVATION_SECRET not set, trusted activation is disabled")
	}
	if !accessGateway.AdminEnabled() {
		log.Warn().Msg("ADMIN_SECRET not set, admin routes are disabled")
	}

	return server.Services{
		Users:         users.NewCredentialStore(users.NewInMemoryUserRepo()),
		Ledger:        signals.NewLedger(signals.WithHistoryLimit(c.GetSignalHistoryLimit())),
		Broadcaster:   signals.NewBroadcaster(publish.FromConfig(c)),
		Subscriptions: registry,
		Sessions:      sessionManager,
		Gateway:       accessGateway,
	}, nil
}

func newSigner(c config.SecurityConfig) (token.Signer, error) {
	if secret := c.GetJWTSecret(); secret != "" {
		return token.NewHMACSigner(secret), nil
	}
	log.Warn().Msg("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	signer, err := token.NewRandomHMACSigner()
	if err != nil {
		return nil, fmt.Errorf("token.NewRandomHMACSigner: %w", err)
	}
	return signer, nil
}

func setupLogging(c config.EnvConfig) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
}

func listenAndServe(ctx context.Context, server *http.Server) error {
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server listening")
		serverErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return shutdown(server)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server.ListenAndServe %w", err)
		}
		return nil
	}
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
