package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"delve-server/internal/agent"
	"delve-server/internal/config"
	"delve-server/internal/domain"
	"delve-server/internal/engine"
	"delve-server/internal/infrastructure/storage"
	"delve-server/internal/network"
	"delve-server/internal/server"
	"delve-server/internal/version"
	"delve-server/pkg/logger"
	"delve-server/pkg/utils"
)

var (
	flagAddr      string
	flagSeed      string
	flagSave      string
	flagAutosave  int64
	flagCrowd     int
	flagBots      int
	flagLogLevel  string
	flagLogFormat string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the game server",
	Long:  `Start the websocket gateway and the simulation loops. Flags override environment variables.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().StringVar(&flagSeed, "seed", "", "world seed; plain numbers are used as-is, other strings are hashed")
	serveCmd.Flags().StringVar(&flagSave, "save", "", "SQLite save file; empty disables persistence")
	serveCmd.Flags().Int64Var(&flagAutosave, "autosave-ticks", 100, "autosave every N simulation ticks; 0 saves only on shutdown")
	serveCmd.Flags().IntVar(&flagCrowd, "crowd-penalty", 10, "path cost added for stepping through an occupied tile")
	serveCmd.Flags().IntVar(&flagBots, "bots", 0, "number of bot-driven instances to run alongside the player")
	serveCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")
	serveCmd.Flags().StringVar(&flagLogFormat, "log-format", "text", "log format: text or json")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)

	logger.Configure(cfg.LogLevel, cfg.LogFormat)
	logger.Log.Info(version.String())

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	hub := network.NewBroadcaster()

	inst, store, err := buildMainInstance(cfg, hub)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	logger.Log.WithFields(logrus.Fields{
		"seed":  inst.Seed,
		"depth": inst.World.Depth,
		"tick":  inst.Scheduler.CurrentTick(),
		"bots":  cfg.Bots,
	}).Info("World ready.")

	service := engine.NewService(inst)
	bots := spawnBots(cfg, hub, service)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		service.Run(ctx)
	}()

	srv := server.New(service, cfg.Addr)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Run(ctx); err != nil {
			logger.Log.WithError(err).Error("HTTP server failed.")
			stop()
		}
	}()

	for _, b := range bots {
		wg.Add(1)
		go func(b *agent.Bot) {
			defer wg.Done()
			if err := b.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Log.WithError(err).Warn("Bot exited.")
			}
		}(b)
	}

	<-ctx.Done()
	logger.Log.Info("Shutting down...")
	wg.Wait()
	logger.Log.Info("Done.")
	return nil
}

// applyFlags layers explicitly-set flags over the environment config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = flagAddr
	}
	if flags.Changed("seed") {
		cfg.Seed = utils.StringToSeed(flagSeed)
	}
	if flags.Changed("save") {
		cfg.SavePath = flagSave
	}
	if flags.Changed("autosave-ticks") {
		cfg.AutosaveTicks = flagAutosave
	}
	if flags.Changed("crowd-penalty") {
		cfg.CrowdPenalty = flagCrowd
	}
	if flags.Changed("bots") {
		cfg.Bots = flagBots
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = flagLogFormat
	}
}

// buildMainInstance opens the save store when persistence is on and
// resumes the stored session if one exists. A corrupt save is logged
// and set aside rather than blocking the boot.
func buildMainInstance(cfg config.Config, hub *network.Broadcaster) (*engine.Instance, *storage.Store, error) {
	opts := engine.Options{
		Seed:          cfg.Seed,
		Hub:           hub,
		CrowdPenalty:  cfg.CrowdPenalty,
		AutosaveTicks: cfg.AutosaveTicks,
	}

	if cfg.SavePath == "" {
		return engine.NewInstance(opts), nil, nil
	}

	store, err := storage.Open(cfg.SavePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open save store: %w", err)
	}
	opts.Store = store

	state, err := store.Load()
	switch {
	case err == nil:
		logger.Log.WithFields(logrus.Fields{
			"save":  cfg.SavePath,
			"depth": state.Depth,
			"tick":  state.CurrentTick,
		}).Info("Resuming saved session.")
		return engine.RestoreInstance(state, opts), store, nil

	case errors.Is(err, storage.ErrNoSave):
		return engine.NewInstance(opts), store, nil

	default:
		logger.Log.WithError(err).WithField("save", cfg.SavePath).
			Warn("Save could not be loaded, starting fresh.")
		return engine.NewInstance(opts), store, nil
	}
}

// spawnBots attaches one extra instance per bot and builds the agents
// that will dial in for them. Bot worlds derive their seeds from the
// master seed and never persist.
func spawnBots(cfg config.Config, hub *network.Broadcaster, service *engine.Service) []*agent.Bot {
	bots := make([]*agent.Bot, 0, cfg.Bots)
	for i := 1; i <= cfg.Bots; i++ {
		name := fmt.Sprintf("bot-%d", i)
		service.Attach(engine.NewInstance(engine.Options{
			ID:           i,
			Seed:         cfg.Seed + int64(i),
			PlayerID:     domain.EntityID(name),
			Hub:          hub,
			CrowdPenalty: cfg.CrowdPenalty,
		}))
		bots = append(bots, agent.New(agent.Options{
			URL:  botURL(cfg.Addr, name),
			Name: name,
			Seed: cfg.Seed + int64(i),
		}))
	}
	return bots
}

// botURL points a bot at this process's own gateway.
func botURL(addr, player string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		host, port = "127.0.0.1", "8080"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	u := url.URL{
		Scheme:   "ws",
		Host:     net.JoinHostPort(host, port),
		Path:     "/ws",
		RawQuery: url.Values{"player": {player}}.Encode(),
	}
	return u.String()
}
