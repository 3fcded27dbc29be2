package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Town/internal/adapters/http"
	wssignal "github.com/dkeye/Town/internal/adapters/signal"
	"github.com/dkeye/Town/internal/adapters/video"
	"github.com/dkeye/Town/internal/app"
	"github.com/dkeye/Town/internal/app/orch"
	"github.com/dkeye/Town/internal/config"
	"github.com/dkeye/Town/internal/core"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping info")
	}

	issuer, err := newIssuer(cfg.Video)
	if err != nil {
		log.Fatal().Err(err).Msg("video provider")
	}

	manager := app.NewRoomManager(issuer)
	o := &orch.Orchestrator{Rooms: manager}
	policy := app.PolicyByName(cfg.WS.BackpressurePolicy)
	ctl := wssignal.NewSignalWSController(manager, policy, wssignal.Options{
		ReadLimit:  cfg.WS.ReadLimit,
		PongWait:   cfg.WS.PongWait,
		PingPeriod: cfg.WS.PingPeriod,
		WriteWait:  cfg.WS.WriteWait,
		SendBuffer: cfg.WS.SendBuffer,
	})

	r := router.SetupRouter(ctx, cfg, o, ctl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Town server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Int("rooms", manager.Count()).Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}

func newIssuer(cfg config.VideoConfig) (core.TokenIssuer, error) {
	if !cfg.Configured() {
		log.Warn().Msg("no video credentials configured, issuing development tokens")
		return video.DevIssuer{}, nil
	}
	issuer, err := video.NewTwilioIssuer(cfg.AccountSID, cfg.APIKeySID, cfg.APIKeySecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	log.Info().Str("api_key_sid", cfg.APIKeySID).Msg("video tokens issued by provider")
	return issuer, nil
}
