// Package yield computes and distributes the pool's daily yield. Each
// run snapshots the total principal once, derives the day's pool yield
// from the annual rate, and credits every participant a share
// proportional to their principal, truncated to the ledger's precision.
// Truncation biases leftovers toward the pool, so the sum of credits
// never exceeds the day's yield.
package yield

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aman-coder03/microyield-go/amount"
	"github.com/aman-coder03/microyield-go/contract"
)

// DaysPerYear is the day-count convention for the annual rate.
const DaysPerYear = 365

// Vault is the slice of the contract client the engine needs.
type Vault interface {
	GetTotalPrincipal(ctx context.Context) (decimal.Decimal, error)
	GetUserSummary(ctx context.Context, userPublicKey string) (contract.UserSummary, error)
	AdminCreditYield(ctx context.Context, userPublicKey string, scaledAmount int64) (*contract.InvokeResult, error)
}

// CreditEntry records one successful yield credit within a run.
type CreditEntry struct {
	Account    string
	Principal  decimal.Decimal
	YieldAdded decimal.Decimal
	Hash       string
}

// DistributionRun summarizes one completed distribution.
type DistributionRun struct {
	TotalPrincipal      decimal.Decimal
	DailyYieldGenerated decimal.Decimal
	Credited            []CreditEntry
	Timestamp           time.Time
}

// TotalCredited sums the yield actually credited during the run.
func (r *DistributionRun) TotalCredited() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Credited {
		total = total.Add(c.YieldAdded)
	}
	return total
}

// Engine runs daily distributions against a vault.
type Engine struct {
	vault Vault
	apy   decimal.Decimal
	now   func() time.Time
	log   *zap.Logger
}

// NewEngine builds an Engine for the given annual rate (for example
// 0.08 for 8%). A nil logger disables logging.
func NewEngine(vault Vault, annualAPY decimal.Decimal, log *zap.Logger) (*Engine, error) {
	if !annualAPY.IsPositive() || annualAPY.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("yield: annual rate %s outside (0, 1]", annualAPY)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		vault: vault,
		apy:   annualAPY,
		now:   time.Now,
		log:   log,
	}, nil
}

// DailyYield returns the pool's yield for one day on the given total
// principal, truncated to the ledger's precision.
func (e *Engine) DailyYield(totalPrincipal decimal.Decimal) decimal.Decimal {
	daily := totalPrincipal.Mul(e.apy).Div(decimal.NewFromInt(DaysPerYear))
	return amount.QuantizeDown(daily)
}

// DistributeDailyYield runs one distribution over the given
// participants. The total principal is snapshotted once at the start;
// participants are processed sequentially against that snapshot. A
// participant whose summary cannot be read, whose principal is zero, or
// whose share truncates to zero is skipped; a failed credit is logged
// and skipped. Only the snapshot read can fail the run as a whole.
//
// Runs are not idempotent; the caller decides when a day's run happens
// (see the runlog package).
func (e *Engine) DistributeDailyYield(ctx context.Context, participants []string) (*DistributionRun, error) {
	run := &DistributionRun{Timestamp: e.now().UTC()}

	total, err := e.vault.GetTotalPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("total principal snapshot: %w", err)
	}
	run.TotalPrincipal = total
	if !total.IsPositive() {
		e.log.Info("no principal in pool, nothing to distribute")
		return run, nil
	}

	run.DailyYieldGenerated = e.DailyYield(total)
	e.log.Info("starting distribution",
		zap.String("total_principal", amount.Format(total)),
		zap.String("daily_yield", amount.Format(run.DailyYieldGenerated)),
		zap.Int("participants", len(participants)))

	for _, account := range participants {
		summary, err := e.vault.GetUserSummary(ctx, account)
		if err != nil {
			e.log.Warn("skipping participant, summary unreadable",
				zap.String("account", account), zap.Error(err))
			continue
		}
		if !summary.USDCPrincipal.IsPositive() {
			continue
		}

		// share at full precision, truncation only on the final credit
		share := summary.USDCPrincipal.Div(total)
		userYield := amount.QuantizeDown(run.DailyYieldGenerated.Mul(share))
		scaled, err := amount.ToContractUnits(userYield)
		if err != nil || scaled <= 0 {
			continue
		}

		res, err := e.vault.AdminCreditYield(ctx, account, scaled)
		if err != nil {
			e.log.Warn("skipping participant, credit failed",
				zap.String("account", account), zap.Error(err))
			continue
		}
		if !res.Successful {
			e.log.Warn("skipping participant, credit rejected",
				zap.String("account", account),
				zap.String("detail", res.ErrorDetail))
			continue
		}

		run.Credited = append(run.Credited, CreditEntry{
			Account:    account,
			Principal:  summary.USDCPrincipal,
			YieldAdded: userYield,
			Hash:       res.Hash,
		})
		e.log.Info("yield credited",
			zap.String("account", account),
			zap.String("yield", amount.Format(userYield)))
	}

	e.log.Info("distribution complete",
		zap.Int("credited", len(run.Credited)),
		zap.String("total_credited", amount.Format(run.TotalCredited())))
	return run, nil
}
