package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gin-gonic/gin"
	"github.com/layer-3/x403auth/adapters/events"
	"github.com/layer-3/x403auth/adapters/gate"
	"github.com/layer-3/x403auth/adapters/nonce"
	"github.com/layer-3/x403auth/internal/logging"
	"github.com/layer-3/x403auth/ports"
	"github.com/layer-3/x403auth/service"
	transport "github.com/layer-3/x403auth/transport/http"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "x403d",
		Short:        "Serve an example API gated by wallet signatures",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := newViper(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}
	addFlags(cmd)
	return cmd
}

func run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	if err != nil {
		return err
	}

	opts := []service.Option{
		service.WithChallengeExpiry(cfg.ChallengeExpiry),
		service.WithSchemes(buildSchemes(cfg.Schemes)...),
		service.WithLogger(logger),
	}

	if cfg.SignedChallenge {
		// Generate a new ECDSA key pair (you would normally load this from somewhere secure)
		signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return fmt.Errorf("failed to generate challenge signing key: %w", err)
		}
		signed := nonce.NewSignedChallenges(signKey, cfg.ChallengeExpiry)
		opts = append(opts, service.WithNonceGenerator(signed), service.WithChallengeValidator(signed))
	}

	var redisClient *redis.Client
	if cfg.usesRedis() {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse redis url: %w", err)
		}
		redisClient = redis.NewClient(redisOpts)
		defer redisClient.Close()
	}

	gates, closeGates, err := buildGates(cfg, redisClient)
	if err != nil {
		return err
	}
	defer closeGates()
	if len(gates) > 0 {
		opts = append(opts, service.WithAccessGate(gate.All(gates...)))
	}

	if cfg.PublishEvents {
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			events.NewZerologAdapter(logger),
		)
		if err != nil {
			return fmt.Errorf("failed to create redis publisher: %w", err)
		}
		defer publisher.Close()
		opts = append(opts, service.WithEventPublisher(events.NewWatermillPublisher(publisher, cfg.EventTopic)))
	}

	gin.SetMode(gin.ReleaseMode)
	router := transport.SetupRouter(service.NewAuthenticator(opts...))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.Addr).Int("gates", len(gates)).Bool("signed_challenges", cfg.SignedChallenge).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildGates returns the configured gates in evaluation order and a func
// releasing their connections
func buildGates(cfg Config, redisClient redis.UniversalClient) ([]ports.AccessGate, func(), error) {
	var gates []ports.AccessGate
	closer := func() {}

	if len(cfg.Allowlist) > 0 {
		gates = append(gates, gate.NewMemoryGate(cfg.Allowlist...))
	}
	if cfg.RedisGate {
		gates = append(gates, gate.NewRedisGate(redisClient, cfg.RedisGateSet))
	}
	if cfg.usesERC20() {
		rpc, err := ethclient.Dial(cfg.ERC20RPCURL)
		if err != nil {
			return nil, closer, fmt.Errorf("failed to dial ethereum rpc: %w", err)
		}
		closer = rpc.Close

		erc20, err := gate.NewERC20Gate(rpc, common.HexToAddress(cfg.ERC20Token), cfg.ERC20Decimals, cfg.ERC20Minimum)
		if err != nil {
			rpc.Close()
			return nil, func() {}, err
		}
		gates = append(gates, erc20)
	}
	return gates, closer, nil
}
