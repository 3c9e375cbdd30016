package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/address"
	"github.com/KirkDiggler/ticketsnipe/internal/common/clock"
	"github.com/KirkDiggler/ticketsnipe/internal/common/uuid"
	"github.com/KirkDiggler/ticketsnipe/internal/config"
	"github.com/KirkDiggler/ticketsnipe/internal/handlers/discord"
	"github.com/KirkDiggler/ticketsnipe/internal/metrics"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/repositories/snapshot"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chain"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chanlock"
	"github.com/KirkDiggler/ticketsnipe/internal/services/engine"
	"github.com/KirkDiggler/ticketsnipe/internal/services/idempotency"
	"github.com/KirkDiggler/ticketsnipe/internal/services/messaging"
	"github.com/KirkDiggler/ticketsnipe/internal/services/payout"
	"github.com/KirkDiggler/ticketsnipe/internal/services/persistence"
	"github.com/KirkDiggler/ticketsnipe/internal/services/ticket"
	"github.com/KirkDiggler/ticketsnipe/internal/services/vouch"
	"github.com/decred/slog"
	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	flag "github.com/spf13/pflag"
)

// loggers holds one logger per subsystem, all sharing a backend
type loggers struct {
	engine, tickets, payments, payout, persist, discord, lock slog.Logger
}

func newLoggers(level slog.Level) *loggers {
	backend := slog.NewBackend(os.Stdout)
	sub := func(tag string) slog.Logger {
		l := backend.Logger(tag)
		l.SetLevel(level)
		return l
	}
	return &loggers{
		engine:   sub("ENGN"),
		tickets:  sub("TCKT"),
		payments: sub("PAYT"),
		payout:   sub("PAYO"),
		persist:  sub("PERS"),
		discord:  sub("DSCD"),
		lock:     sub("LOCK"),
	}
}

func main() {
	configPath := flag.String("config", envOr("SNIPE_CONFIG", "config.yaml"), "path to the YAML configuration")
	envFile := flag.String("env-file", "", "optional dotenv file with secrets")
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load env file %s: %v\n", *envFile, err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logs := newLoggers(cfg.Level())

	if err := run(cfg, logs); err != nil {
		logs.engine.Criticalf("%v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logs *loggers) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := &clock.DefaultClock{}

	repo, err := newSnapshotRepository(ctx, cfg, clk)
	if err != nil {
		return err
	}

	registry, err := newRegistry(cfg, clk, logs.payments)
	if err != nil {
		return err
	}

	extractor, err := address.New(&address.Config{
		Patterns: cfg.Patterns(),
		Checksum: cfg.AddressChecksum,
	})
	if err != nil {
		return fmt.Errorf("failed to create address extractor: %w", err)
	}

	tickets, err := ticket.New(&ticket.Config{
		Clock:           clk,
		Logger:          logs.tickets,
		PendingWagerTTL: cfg.PendingWagerTTL(),
		CleanupGrace:    cfg.CleanupGrace(),
		Retention:       cfg.Retention(),
	})
	if err != nil {
		return fmt.Errorf("failed to create ticket manager: %w", err)
	}

	payments, err := idempotency.New(&idempotency.Config{Clock: clk, Logger: logs.payments})
	if err != nil {
		return fmt.Errorf("failed to create idempotency store: %w", err)
	}

	persister, err := persistence.New(&persistence.Config{
		Repository: repo,
		Tickets:    tickets,
		Payments:   payments,
		Clock:      clk,
		Logger:     logs.persist,
		Debounce:   cfg.PersistDebounce(),
	})
	if err != nil {
		return fmt.Errorf("failed to create persistence service: %w", err)
	}
	tickets.SetNotifier(persister)
	payments.SetNotifier(persister)

	locker := chanlock.New(&chanlock.Config{
		Clock:   clk,
		Logger:  logs.lock,
		Timeout: cfg.LockTimeout(),
	})

	msgs, err := messaging.NewService(&messaging.ServiceConfig{})
	if err != nil {
		return fmt.Errorf("failed to create messaging service: %w", err)
	}

	token := os.Getenv(cfg.Discord.TokenEnv)
	if token == "" {
		return fmt.Errorf("%w: %s is not set", models.ErrConfigError, cfg.Discord.TokenEnv)
	}
	bot, err := discord.New(&discord.Config{
		Token:          token,
		ApplicationID:  os.Getenv("DISCORD_APPLICATION_ID"),
		GuildID:        os.Getenv("DISCORD_GUILD_ID"),
		HandlerTimeout: cfg.LockTimeout() + cfg.RPCTimeout(),
		Logger:         logs.discord,
	})
	if err != nil {
		return fmt.Errorf("failed to create Discord bot: %w", err)
	}

	poster, err := vouch.New(&vouch.Config{
		Messenger:         bot,
		Messaging:         msgs,
		Logger:            logs.payout,
		VouchChannelID:    cfg.Channels.VouchChannelID,
		OperatorChannelID: cfg.Channels.OperatorChannelID,
		TaxPercentage:     cfg.TaxDecimal(),
		TargetWins:        cfg.GameSettings.TargetWins,
	})
	if err != nil {
		return fmt.Errorf("failed to create vouch poster: %w", err)
	}

	monitor, err := payout.New(&payout.Config{
		Tickets:   tickets,
		Payments:  payments,
		Registry:  registry,
		Locker:    locker,
		Vouch:     poster,
		Messenger: bot,
		Messaging: msgs,
		Clock:     clk,
		Logger:    logs.payout,
		Interval:  cfg.ScanInterval(),
		Skew:      cfg.PayoutSkew(),
		Cooldown:  cfg.Cooldown(),
	})
	if err != nil {
		return fmt.Errorf("failed to create payout monitor: %w", err)
	}

	eng, err := engine.New(&engine.Config{
		Tickets:           tickets,
		Payments:          payments,
		Persister:         persister,
		Locker:            locker,
		Registry:          registry,
		Extractor:         extractor,
		Messenger:         bot,
		Messaging:         msgs,
		Vouch:             poster,
		Monitor:           monitor,
		Clock:             clk,
		Logger:            logs.engine,
		MiddlemanIDs:      config.Set(cfg.MiddlemanIDs),
		PublicChannelIDs:  config.Set(cfg.Channels.MonitoredPublicIDs),
		TicketNamePattern: regexp.MustCompile(cfg.Channels.TicketNamePattern),
		DiceBotIDs:        config.Set(cfg.GameSettings.DiceBotIDs),
		DiceCommand:       cfg.GameSettings.DiceCommand,
		TargetWins:        cfg.GameSettings.TargetWins,
		Markup:            cfg.MarkupDecimal(),
		DefaultChain:      cfg.Chain(),
		Cooldown:          cfg.Cooldown(),
		CounterOfferDelay: cfg.CounterOfferDelay(),
	})
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metrics.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logs.engine.Errorf("Metrics server stopped: %v", err)
			}
		}()
		logs.engine.Infof("Serving metrics on %s", cfg.MetricsAddr)
	}

	// the gateway opens first so startup alerts can be delivered; messages
	// are dropped until the engine has restored its state
	if err := bot.Start(eng); err != nil {
		return err
	}
	if err := eng.Start(ctx); err != nil {
		_ = bot.Stop()
		return fmt.Errorf("failed to start engine: %w", err)
	}
	if cfg.SimulationMode {
		logs.engine.Warnf("Simulation mode: no funds will move")
	}
	logs.engine.Infof("Bot is now running. Press CTRL-C to exit.")

	<-ctx.Done()
	logs.engine.Infof("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := bot.Stop(); err != nil {
		logs.discord.Warnf("Error stopping bot: %v", err)
	}
	if err := eng.Stop(shutdownCtx); err != nil {
		logs.engine.Errorf("Error stopping engine: %v", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logs.engine.Warnf("Error stopping metrics server: %v", err)
		}
	}
	return nil
}

func newSnapshotRepository(ctx context.Context, cfg *config.Config, clk clock.Clock) (snapshot.Repository, error) {
	switch cfg.Persistence.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Persistence.RedisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return snapshot.NewRedis(&snapshot.RedisConfig{
			RedisClient: client,
			Key:         cfg.Persistence.RedisKey,
			Clock:       clk,
		})
	default:
		return snapshot.NewFile(&snapshot.FileConfig{
			Path:  cfg.Persistence.Path,
			Clock: clk,
		})
	}
}

// newRegistry builds one adapter per configured wallet, wrapped in a
// simulation adapter in simulation mode
func newRegistry(cfg *config.Config, clk clock.Clock, log slog.Logger) (*chain.Registry, error) {
	retry := chain.RetryPolicy{Timeout: cfg.RPCTimeout()}
	var adapters []chain.Adapter

	if w := cfg.Wallets.LTC; w != nil {
		client, err := chain.NewLitecoinRPC(w.RPCHost, w.RPCUser, os.Getenv(w.RPCPassEnv), w.DisableTLS)
		if err != nil {
			return nil, err
		}
		ltc, err := chain.NewLitecoin(&chain.LitecoinConfig{
			Caller:         client,
			ReceiveAddress: w.ReceiveAddress,
			Clock:          clk,
			Logger:         log,
			Retry:          retry,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create litecoin adapter: %w", err)
		}
		adapters = append(adapters, ltc)
	}

	if w := cfg.Wallets.SOL; w != nil {
		var key solana.PrivateKey
		if raw := os.Getenv(w.PrivateKeyEnv); raw != "" {
			parsed, err := solana.PrivateKeyFromBase58(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %s is not a base58 private key", models.ErrConfigError, w.PrivateKeyEnv)
			}
			key = parsed
		}
		sol, err := chain.NewSolana(&chain.SolanaConfig{
			RPC:            chain.NewSolanaClient(w.RPCEndpoint),
			PrivateKey:     key,
			ReceiveAddress: w.ReceiveAddress,
			Clock:          clk,
			Logger:         log,
			Retry:          retry,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create solana adapter: %w", err)
		}
		adapters = append(adapters, sol)
	}

	if cfg.SimulationMode {
		simulated := make([]chain.Adapter, 0, len(adapters)+1)
		for _, inner := range adapters {
			sim, err := chain.NewSimulation(&chain.SimulationConfig{Inner: inner, UUID: uuid.New(), Logger: log})
			if err != nil {
				return nil, err
			}
			simulated = append(simulated, sim)
		}
		if len(simulated) == 0 {
			sim, err := chain.NewSimulation(&chain.SimulationConfig{
				Chain:   cfg.Chain(),
				Balance: cfg.SimulationBalanceDecimal(),
				UUID:    uuid.New(),
				Logger:  log,
			})
			if err != nil {
				return nil, err
			}
			simulated = append(simulated, sim)
		}
		adapters = simulated
	}

	registry, err := chain.NewRegistry(adapters...)
	if err != nil {
		return nil, fmt.Errorf("failed to create chain registry: %w", err)
	}
	return registry, nil
}

// envOr gets an environment variable or returns a default value
func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
