package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/layer-3/x403auth/adapters/events"
	"github.com/layer-3/x403auth/adapters/gate"
	"github.com/layer-3/x403auth/adapters/scheme"
	"github.com/layer-3/x403auth/ports"
	"github.com/layer-3/x403auth/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "X403"

var knownSchemes = map[string]func() ports.Scheme{
	scheme.NameEd25519: scheme.NewEd25519,
	scheme.NameEVM:     scheme.NewEVM,
}

// buildSchemes resolves validated scheme names in order
func buildSchemes(names []string) []ports.Scheme {
	schemes := make([]ports.Scheme, 0, len(names))
	for _, name := range names {
		schemes = append(schemes, knownSchemes[name]())
	}
	return schemes
}

// Config holds the daemon settings
type Config struct {
	Addr     string
	RedisURL string

	LogLevel  string
	LogPretty bool

	ChallengeExpiry time.Duration
	SignedChallenge bool
	Schemes         []string

	Allowlist     []string
	RedisGate     bool
	RedisGateSet  string
	ERC20RPCURL   string
	ERC20Token    string
	ERC20Decimals int32
	ERC20Minimum  decimal.Decimal

	PublishEvents bool
	EventTopic    string
}

// usesRedis reports whether any component needs a redis connection
func (c Config) usesRedis() bool {
	return c.RedisGate || c.PublishEvents
}

// usesERC20 reports whether the token balance gate is configured
func (c Config) usesERC20() bool {
	return c.ERC20Token != ""
}

func (c Config) validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.ChallengeExpiry <= 0 {
		return fmt.Errorf("challenge expiry must be positive, got %s", c.ChallengeExpiry)
	}
	if len(c.Schemes) == 0 {
		return errors.New("at least one wallet scheme is required")
	}
	for _, name := range c.Schemes {
		if _, ok := knownSchemes[name]; !ok {
			return fmt.Errorf("unknown wallet scheme %q", name)
		}
	}
	if c.usesERC20() {
		if !slices.Contains(c.Schemes, scheme.NameEVM) {
			return errors.New("erc20 gate requires the evm scheme")
		}
		if !common.IsHexAddress(c.ERC20Token) {
			return fmt.Errorf("invalid erc20 token address %q", c.ERC20Token)
		}
		if c.ERC20RPCURL == "" {
			return errors.New("erc20 gate requires an rpc url")
		}
		if c.ERC20Minimum.IsNegative() {
			return fmt.Errorf("erc20 minimum balance must not be negative, got %s", c.ERC20Minimum)
		}
	}
	return nil
}

// addFlags registers the daemon flags on cmd
func addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("addr", ":9000", "listen address")
	f.String("redis-url", "redis://localhost:6379/0", "redis connection url")
	f.String("log-level", "info", "log level (debug|info|warn|error)")
	f.Bool("log-pretty", false, "human readable console logs")
	f.Duration("challenge-expiry", service.DefaultChallengeExpiry, "advertised challenge validity window")
	f.StringSlice("schemes", []string{scheme.NameEd25519, scheme.NameEVM}, "accepted wallet schemes in match order")
	f.Bool("signed-challenges", false, "issue ES256 signed challenges and refuse expired ones")
	f.StringSlice("allowlist", nil, "wallets admitted by the static allowlist gate")
	f.Bool("redis-gate", false, "admit wallets that are members of a redis set")
	f.String("redis-gate-set", gate.DefaultRedisSet, "redis set holding admitted wallets")
	f.String("erc20-rpc-url", "", "ethereum json-rpc endpoint for the token balance gate")
	f.String("erc20-token", "", "erc20 token contract address")
	f.Int32("erc20-decimals", 18, "erc20 token decimals")
	f.String("erc20-min-balance", "1", "minimum token balance to be admitted")
	f.Bool("publish-events", false, "publish decision events to a redis stream")
	f.String("event-topic", events.DecisionTopic, "redis stream receiving decision events")
}

// newViper binds cmd's flags and the X403_* environment to a fresh viper
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	// REDIS_URL is honoured for compatibility with common deployments
	if err := v.BindEnv("redis-url", envPrefix+"_REDIS_URL", "REDIS_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind redis url: %w", err)
	}
	return v, nil
}

// loadConfig reads and validates the daemon settings from v
func loadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Addr:            v.GetString("addr"),
		RedisURL:        v.GetString("redis-url"),
		LogLevel:        v.GetString("log-level"),
		LogPretty:       v.GetBool("log-pretty"),
		ChallengeExpiry: v.GetDuration("challenge-expiry"),
		SignedChallenge: v.GetBool("signed-challenges"),
		Schemes:         v.GetStringSlice("schemes"),
		Allowlist:       v.GetStringSlice("allowlist"),
		RedisGate:       v.GetBool("redis-gate"),
		RedisGateSet:    v.GetString("redis-gate-set"),
		ERC20RPCURL:     v.GetString("erc20-rpc-url"),
		ERC20Token:      v.GetString("erc20-token"),
		ERC20Decimals:   v.GetInt32("erc20-decimals"),
		PublishEvents:   v.GetBool("publish-events"),
		EventTopic:      v.GetString("event-topic"),
	}

	minBalance, err := decimal.NewFromString(v.GetString("erc20-min-balance"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid erc20 minimum balance %q: %w", v.GetString("erc20-min-balance"), err)
	}
	cfg.ERC20Minimum = minBalance

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
