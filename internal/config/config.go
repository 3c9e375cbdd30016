// Package config loads the bot's YAML configuration.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/decred/slog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Persistence backends
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the full bot configuration
type Config struct {
	Discord       DiscordConfig  `yaml:"discord"`
	MiddlemanIDs  []string       `yaml:"middleman_ids"`
	Channels      ChannelsConfig `yaml:"channels"`
	GameSettings  GameSettings   `yaml:"game_settings"`
	Markup        float64        `yaml:"markup"`
	TaxPercentage float64        `yaml:"tax_percentage"`

	SimulationMode bool   `yaml:"simulation_mode"`
	DefaultChain   string `yaml:"default_chain"`

	// SimulationBalance is the wallet balance simulated chains report when
	// no real wallet backs them
	SimulationBalance float64 `yaml:"simulation_balance"`

	AddressPatterns map[string]string `yaml:"address_patterns"`
	AddressChecksum bool              `yaml:"address_checksum"`

	ScanIntervalMs      int64 `yaml:"scan_interval_ms"`
	CooldownMs          int64 `yaml:"cooldown_ms"`
	PendingWagerTTLMs   int64 `yaml:"pending_wager_ttl_ms"`
	LockTimeoutMs       int64 `yaml:"lock_timeout_ms"`
	PayoutSkewMs        int64 `yaml:"payout_skew_ms"`
	CleanupGraceMs      int64 `yaml:"cleanup_grace_ms"`
	RetentionMs         int64 `yaml:"retention_ms"`
	PersistDebounceMs   int64 `yaml:"persist_debounce_ms"`
	RPCTimeoutMs        int64 `yaml:"rpc_timeout_ms"`
	CounterOfferDelayMs int64 `yaml:"counter_offer_delay_ms"`

	Wallets     WalletsConfig     `yaml:"wallets"`
	Persistence PersistenceConfig `yaml:"persistence"`

	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// DiscordConfig names where the bot token comes from
type DiscordConfig struct {
	TokenEnv string `yaml:"token_env"`
}

// ChannelsConfig selects the channels the bot watches and posts to
type ChannelsConfig struct {
	MonitoredPublicIDs []string `yaml:"monitored_public_ids"`
	VouchChannelID     string   `yaml:"vouch_channel_id"`
	OperatorChannelID  string   `yaml:"operator_channel_id"`
	TicketNamePattern  string   `yaml:"ticket_name_pattern"`
}

// GameSettings tunes the dice game
type GameSettings struct {
	TargetWins  int      `yaml:"target_wins"`
	DiceCommand string   `yaml:"dice_command"`
	DiceBotIDs  []string `yaml:"dice_bot_ids"`
}

// WalletsConfig holds per-chain wallet access
type WalletsConfig struct {
	LTC *LitecoinWallet `yaml:"ltc"`
	SOL *SolanaWallet   `yaml:"sol"`
}

// LitecoinWallet is a litecoind JSON-RPC wallet
type LitecoinWallet struct {
	RPCHost        string `yaml:"rpc_host"`
	RPCUser        string `yaml:"rpc_user"`
	RPCPassEnv     string `yaml:"rpc_pass_env"`
	ReceiveAddress string `yaml:"receive_address"`
	DisableTLS     bool   `yaml:"disable_tls"`
}

// SolanaWallet is a Solana JSON-RPC endpoint plus a signing key
type SolanaWallet struct {
	RPCEndpoint    string `yaml:"rpc_endpoint"`
	PrivateKeyEnv  string `yaml:"private_key_env"`
	ReceiveAddress string `yaml:"receive_address"`
}

// PersistenceConfig selects the snapshot backend
type PersistenceConfig struct {
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path"`
	RedisAddr string `yaml:"redis_addr"`
	RedisKey  string `yaml:"redis_key"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads, defaults and validates a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", models.ErrConfigError, path, err)
	}
	return Parse(data)
}

// Parse decodes, defaults and validates YAML bytes
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrConfigError, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Discord.TokenEnv == "" {
		c.Discord.TokenEnv = "DISCORD_TOKEN"
	}
	if c.Channels.TicketNamePattern == "" {
		c.Channels.TicketNamePattern = `^ticket-`
	}
	if c.GameSettings.TargetWins == 0 {
		c.GameSettings.TargetWins = 5
	}
	if c.GameSettings.DiceCommand == "" {
		c.GameSettings.DiceCommand = "!dice"
	}
	if c.Markup == 0 {
		c.Markup = 0.10
	}
	if c.DefaultChain == "" {
		c.DefaultChain = string(models.ChainLTC)
	}

	defaultMs(&c.ScanIntervalMs, 15000)
	defaultMs(&c.CooldownMs, 60000)
	defaultMs(&c.PendingWagerTTLMs, 600000)
	defaultMs(&c.LockTimeoutMs, 30000)
	defaultMs(&c.PayoutSkewMs, 120000)
	defaultMs(&c.CleanupGraceMs, 300000)
	defaultMs(&c.RetentionMs, 30*24*3600*1000)
	defaultMs(&c.PersistDebounceMs, 500)
	defaultMs(&c.RPCTimeoutMs, 15000)
	defaultMs(&c.CounterOfferDelayMs, 1500)

	if c.SimulationMode && c.SimulationBalance == 0 {
		c.SimulationBalance = 100
	}

	if c.Wallets.LTC != nil && c.Wallets.LTC.RPCPassEnv == "" {
		c.Wallets.LTC.RPCPassEnv = "LTC_RPC_PASS"
	}
	if c.Wallets.SOL != nil && c.Wallets.SOL.PrivateKeyEnv == "" {
		c.Wallets.SOL.PrivateKeyEnv = "SOL_PRIVATE_KEY"
	}

	if c.Persistence.Backend == "" {
		c.Persistence.Backend = BackendFile
	}
	if c.Persistence.Path == "" {
		c.Persistence.Path = "ticketsnipe-state.json"
	}
	if c.Persistence.RedisKey == "" {
		c.Persistence.RedisKey = "ticketsnipe:snapshot"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func defaultMs(v *int64, def int64) {
	if *v == 0 {
		*v = def
	}
}

// Validate checks ranges, enums and regexes
func (c *Config) Validate() error {
	if c.Markup < 0 {
		return invalid("markup must not be negative")
	}
	if c.TaxPercentage < 0 || c.TaxPercentage >= 100 {
		return invalid("tax_percentage must be in [0, 100)")
	}
	if c.GameSettings.TargetWins < 1 {
		return invalid("game_settings.target_wins must be at least 1")
	}
	if _, ok := models.ParseChain(c.DefaultChain); !ok {
		return invalid("default_chain %q is not supported", c.DefaultChain)
	}
	if _, err := regexp.Compile(c.Channels.TicketNamePattern); err != nil {
		return invalid("channels.ticket_name_pattern: %v", err)
	}
	for chain, pattern := range c.AddressPatterns {
		if _, ok := models.ParseChain(chain); !ok {
			return invalid("address_patterns: unknown chain %q", chain)
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return invalid("address_patterns.%s: %v", chain, err)
		}
	}
	for name, v := range map[string]int64{
		"scan_interval_ms":     c.ScanIntervalMs,
		"cooldown_ms":          c.CooldownMs,
		"pending_wager_ttl_ms": c.PendingWagerTTLMs,
		"lock_timeout_ms":      c.LockTimeoutMs,
		"rpc_timeout_ms":       c.RPCTimeoutMs,
		"persist_debounce_ms":  c.PersistDebounceMs,
	} {
		if v < 0 {
			return invalid("%s must not be negative", name)
		}
	}
	switch c.Persistence.Backend {
	case BackendFile:
		if c.Persistence.Path == "" {
			return invalid("persistence.path is required for the file backend")
		}
	case BackendRedis:
		if c.Persistence.RedisAddr == "" {
			return invalid("persistence.redis_addr is required for the redis backend")
		}
	default:
		return invalid("persistence.backend %q must be file or redis", c.Persistence.Backend)
	}
	if _, ok := slog.LevelFromString(c.LogLevel); !ok {
		return invalid("log_level %q is not a level", c.LogLevel)
	}
	if c.Wallets.LTC == nil && c.Wallets.SOL == nil && !c.SimulationMode {
		return invalid("at least one wallet is required outside simulation mode")
	}
	if c.Wallets.LTC != nil && c.Wallets.LTC.RPCHost == "" {
		return invalid("wallets.ltc.rpc_host is required")
	}
	if c.Wallets.SOL != nil && c.Wallets.SOL.RPCEndpoint == "" {
		return invalid("wallets.sol.rpc_endpoint is required")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrConfigError, fmt.Sprintf(format, args...))
}

// MarkupDecimal is the markup as a decimal fraction
func (c *Config) MarkupDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Markup)
}

// SimulationBalanceDecimal is the simulated wallet balance
func (c *Config) SimulationBalanceDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.SimulationBalance)
}

// TaxDecimal is the tax as a percentage
func (c *Config) TaxDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.TaxPercentage)
}

// Chain returns the parsed default chain
func (c *Config) Chain() models.Chain {
	chain, _ := models.ParseChain(c.DefaultChain)
	return chain
}

// Patterns returns the address pattern overrides keyed by chain
func (c *Config) Patterns() map[models.Chain]string {
	out := make(map[models.Chain]string, len(c.AddressPatterns))
	for name, pattern := range c.AddressPatterns {
		if chain, ok := models.ParseChain(name); ok {
			out[chain] = pattern
		}
	}
	return out
}

// Level returns the parsed log level
func (c *Config) Level() slog.Level {
	level, ok := slog.LevelFromString(strings.ToLower(c.LogLevel))
	if !ok {
		return slog.LevelInfo
	}
	return level
}

// Set converts an id list into a lookup set
func Set(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out[id] = true
		}
	}
	return out
}

func ms(v int64) time.Duration { return time.Duration(v) * time.Millisecond }

func (c *Config) ScanInterval() time.Duration      { return ms(c.ScanIntervalMs) }
func (c *Config) Cooldown() time.Duration          { return ms(c.CooldownMs) }
func (c *Config) PendingWagerTTL() time.Duration   { return ms(c.PendingWagerTTLMs) }
func (c *Config) LockTimeout() time.Duration       { return ms(c.LockTimeoutMs) }
func (c *Config) PayoutSkew() time.Duration        { return ms(c.PayoutSkewMs) }
func (c *Config) CleanupGrace() time.Duration      { return ms(c.CleanupGraceMs) }
func (c *Config) Retention() time.Duration         { return ms(c.RetentionMs) }
func (c *Config) PersistDebounce() time.Duration   { return ms(c.PersistDebounceMs) }
func (c *Config) RPCTimeout() time.Duration        { return ms(c.RPCTimeoutMs) }
func (c *Config) CounterOfferDelay() time.Duration { return ms(c.CounterOfferDelayMs) }
