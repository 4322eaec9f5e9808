// Command yieldd runs the daily yield distribution daemon. It snapshots
// the vault's total principal, computes the day's pool yield from the
// configured annual rate, credits every participant their proportional
// share, and records the completed run so a restart never distributes
// the same day twice.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	_ "github.com/jsternberg/zap-logfmt"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aman-coder03/microyield-go/config"
	"github.com/aman-coder03/microyield-go/contract"
	"github.com/aman-coder03/microyield-go/ledger"
	"github.com/aman-coder03/microyield-go/runlog"
	"github.com/aman-coder03/microyield-go/yield"
)

// pollInterval is how often the daemon checks whether the current UTC
// day still needs a run.
const pollInterval = time.Minute

func main() {
	configPath := kingpin.Flag("config", "Path to the application config file").
		Short('c').Default("config.yml").String()
	once := kingpin.Flag("once", "Run a single distribution and exit").Bool()
	participants := kingpin.Flag("participants", "Comma-separated participant public keys").
		Required().String()
	kingpin.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err = cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = "logfmt"
	_ = zapCfg.Level.UnmarshalText([]byte(cfg.Logger.Level))
	zapCfg.InitialFields = make(map[string]any)
	zapCfg.InitialFields["host"], _ = os.Hostname()
	zapCfg.InitialFields["service"] = cfg.Application
	zapCfg.OutputPaths = []string{"stdout"}
	logger, _ := zapCfg.Build()
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	netCfg, err := ledger.ResolveConfig(&ledger.NetworkConfig{
		HorizonURL: cfg.Horizon.URL,
		RPCURL:     cfg.RPC.URL,
	}, envMap(), cfg.Network)
	if err != nil {
		logger.Fatal("cannot resolve network", zap.Error(err))
	}

	rpc := ledger.NewRPCClient(ledger.RPCConfig{URL: netCfg.RPCURL})
	vault, err := contract.NewClient(rpc, contract.Config{
		ContractID:        cfg.Contract.ID,
		NetworkPassphrase: netCfg.Passphrase,
		QueryAccount:      cfg.Vault.PublicKey,
		AdminSecret:       cfg.Admin.Secret,
		BaseFee:           cfg.Settle.BaseFee,
		Timeout:           time.Duration(cfg.Settle.TimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		logger.Fatal("cannot create contract client", zap.Error(err))
	}

	engine, err := yield.NewEngine(vault, decimal.NewFromFloat(cfg.Yield.AnnualAPY), logger)
	if err != nil {
		logger.Fatal("cannot create yield engine", zap.Error(err))
	}

	runs, err := runlog.Open(cfg.Yield.RunLogPath)
	if err != nil {
		logger.Fatal("cannot open run log", zap.Error(err))
	}
	defer runs.Close()

	accounts := splitParticipants(*participants)
	logger.Info("yieldd starting",
		zap.String("network", netCfg.Name),
		zap.Int("participants", len(accounts)))

	if *once {
		if err := runOnce(ctx, engine, runs, accounts, logger); err != nil {
			logger.Fatal("distribution failed", zap.Error(err))
		}
		return
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if err := runOnce(ctx, engine, runs, accounts, logger); err != nil {
			logger.Error("distribution failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			logger.Info("yieldd stopping")
			return
		case <-ticker.C:
		}
	}
}

// runOnce runs a distribution unless one is already recorded for the
// current UTC day.
func runOnce(ctx context.Context, engine *yield.Engine, runs *runlog.Store, participants []string, logger *zap.Logger) error {
	done, err := runs.HasRunOn(time.Now())
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	run, err := engine.DistributeDailyYield(ctx, participants)
	if err != nil {
		return err
	}
	return runs.Record(run)
}

func splitParticipants(s string) []string {
	var accounts []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			accounts = append(accounts, trimmed)
		}
	}
	return accounts
}

func envMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
