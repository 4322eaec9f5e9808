// Package contract invokes the vault's on-chain ledger contract. It
// wraps the five entry points the protocol uses -- deposit, withdraw,
// get_user_summary, get_total_principal and add_yield -- handling unit
// scaling, the two-phase simulate-then-send pattern for writes, and
// defensive decoding of structured return values.
//
// Queries follow a fail-soft policy: a result that cannot be obtained
// or decoded comes back as a zero-filled value together with
// ErrUnreadableResult, so a single unreadable account never aborts a
// batch distribution run while still being distinguishable from a
// genuinely empty one.
package contract

import (
	"context"
	"encoding"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aman-coder03/microyield-go/amount"
	"github.com/aman-coder03/microyield-go/keys"
	"github.com/aman-coder03/microyield-go/ledger"
	"github.com/aman-coder03/microyield-go/txn"
)

// Contract entry points.
const (
	fnDeposit           = "deposit"
	fnWithdraw          = "withdraw"
	fnGetUserSummary    = "get_user_summary"
	fnGetTotalPrincipal = "get_total_principal"
	fnAddYield          = "add_yield"
)

// Config fixes the contract binding for a Client.
type Config struct {
	// ContractID is the pre-deployed vault contract ("C…" strkey).
	ContractID string

	// NetworkPassphrase scopes every signature to one network.
	NetworkPassphrase string

	// QueryAccount is the vault's own address, used as the notional
	// source for pool-level simulations (a simulation still needs a
	// syntactically valid source even though no funds move).
	QueryAccount string

	// AdminSecret signs privileged add_yield calls. Optional; a client
	// without it can do everything except AdminCreditYield.
	AdminSecret string

	// BaseFee is the fee bid in stroops. Zero selects txn.MinBaseFee.
	BaseFee uint32

	// Timeout bounds each transaction's validity window. Zero selects
	// 30 seconds.
	Timeout time.Duration
}

// InvokeResult reports the outcome of a state-changing contract call.
type InvokeResult struct {
	Hash        string
	Successful  bool
	ErrorDetail string
}

// UserSummary is a read-only snapshot of one depositor's contract
// state. It is never cached; every call reflects a fresh read.
type UserSummary struct {
	XLMBalance    decimal.Decimal
	USDCPrincipal decimal.Decimal
	USDCYield     decimal.Decimal
}

// Client invokes a fixed, pre-deployed vault contract.
type Client struct {
	rpc          ledger.InvocationService
	contractID   string
	passphrase   string
	queryAccount string
	admin        *keys.Keypair
	baseFee      uint32
	timeout      time.Duration
	log          *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewClient builds a Client. The contract ID and query account are
// validated up front; a nil logger disables logging.
func NewClient(rpc ledger.InvocationService, cfg Config, log *zap.Logger) (*Client, error) {
	if !keys.IsValidContractID(cfg.ContractID) {
		return nil, fmt.Errorf("%w: contract id %q", keys.ErrInvalidContractID, cfg.ContractID)
	}
	if !keys.IsValidAddress(cfg.QueryAccount) {
		return nil, fmt.Errorf("%w: query account %q", ErrInvalidAddress, cfg.QueryAccount)
	}
	if log == nil {
		log = zap.NewNop()
	}

	c := &Client{
		rpc:          rpc,
		contractID:   cfg.ContractID,
		passphrase:   cfg.NetworkPassphrase,
		queryAccount: cfg.QueryAccount,
		baseFee:      cfg.BaseFee,
		timeout:      cfg.Timeout,
		log:          log,
		locks:        make(map[string]*sync.Mutex),
	}
	if c.baseFee == 0 {
		c.baseFee = txn.MinBaseFee
	}
	if c.timeout == 0 {
		c.timeout = 30 * time.Second
	}
	if cfg.AdminSecret != "" {
		admin, err := keys.ParseSecret(cfg.AdminSecret)
		if err != nil {
			return nil, fmt.Errorf("admin credential: %w", err)
		}
		c.admin = admin
	}
	return c, nil
}

// accountLock returns the mutex serializing writes for one source
// account. The sequence number is a single-writer resource; two
// concurrent submissions from the same account would race for the same
// slot.
func (c *Client) accountLock(address string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[address]
	if !ok {
		l = &sync.Mutex{}
		c.locks[address] = l
	}
	return l
}

// Deposit credits amt to the user's principal. The amount is scaled to
// the contract's integer unit (x 10^7) after quantizing down.
func (c *Client) Deposit(ctx context.Context, userSecret string, amt decimal.Decimal) (*InvokeResult, error) {
	kp, err := keys.ParseSecret(userSecret)
	if err != nil {
		return nil, err
	}
	units, err := amount.ToContractUnits(amt)
	if err != nil {
		return nil, err
	}
	if units <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrNonPositiveAmount, amt)
	}
	return c.invoke(ctx, kp, fnDeposit, AddressVal(kp.Address()), IntVal(units))
}

// Withdraw debits amt from the user's principal, symmetric to Deposit.
func (c *Client) Withdraw(ctx context.Context, userSecret string, amt decimal.Decimal) (*InvokeResult, error) {
	kp, err := keys.ParseSecret(userSecret)
	if err != nil {
		return nil, err
	}
	units, err := amount.ToContractUnits(amt)
	if err != nil {
		return nil, err
	}
	if units <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrNonPositiveAmount, amt)
	}
	return c.invoke(ctx, kp, fnWithdraw, AddressVal(kp.Address()), IntVal(units))
}

// AdminCreditYield credits an already-scaled yield amount to a user.
// Privileged: signed by the admin credential, invoked by the
// distribution engine only.
func (c *Client) AdminCreditYield(ctx context.Context, userPublicKey string, scaledAmount int64) (*InvokeResult, error) {
	if c.admin == nil {
		return nil, ErrNoAdmin
	}
	if !keys.IsValidAddress(userPublicKey) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, userPublicKey)
	}
	if scaledAmount <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrNonPositiveAmount, scaledAmount)
	}
	return c.invoke(ctx, c.admin, fnAddYield, AddressVal(userPublicKey), IntVal(scaledAmount))
}

// invoke runs the two-phase write: build, simulate for the resource
// fee, raise the fee bid, sign once, send once. Remote failures come
// back as unsuccessful results; a failed invocation is never resent
// with the same envelope.
func (c *Client) invoke(ctx context.Context, signer *keys.Keypair, fn string, args ...Val) (*InvokeResult, error) {
	lock := c.accountLock(signer.Address())
	lock.Lock()
	defer lock.Unlock()

	acct, err := c.rpc.GetAccount(ctx, signer.Address())
	if err != nil {
		c.log.Warn("contract invoke: account load failed",
			zap.String("fn", fn), zap.Error(err))
		return &InvokeResult{Successful: false, ErrorDetail: err.Error()}, nil
	}

	tx, err := c.buildInvoke(signer.Address(), acct.Sequence+1, fn, args)
	if err != nil {
		return nil, err
	}

	unsigned, err := tx.EnvelopeBase64()
	if err != nil {
		return nil, err
	}
	sim, err := c.rpc.SimulateTransaction(ctx, unsigned)
	if err != nil {
		c.log.Warn("contract invoke: simulation failed",
			zap.String("fn", fn), zap.Error(err))
		return &InvokeResult{Successful: false, ErrorDetail: err.Error()}, nil
	}
	if sim.Error != "" {
		return &InvokeResult{Successful: false, ErrorDetail: sim.Error}, nil
	}
	if sim.MinResourceFee > 0 {
		if err := tx.WithFee(c.baseFee + sim.MinResourceFee); err != nil {
			return nil, err
		}
	}

	if err := tx.Sign(c.passphrase, signer); err != nil {
		return nil, err
	}
	signed, err := tx.EnvelopeBase64()
	if err != nil {
		return nil, err
	}

	res, err := c.rpc.SendTransaction(ctx, signed)
	if err != nil {
		c.log.Warn("contract invoke: send failed",
			zap.String("fn", fn), zap.Error(err))
		return &InvokeResult{Successful: false, ErrorDetail: err.Error()}, nil
	}
	return &InvokeResult{
		Hash:        res.Hash,
		Successful:  res.Successful,
		ErrorDetail: res.ErrorDetail,
	}, nil
}

// GetUserSummary fetches one depositor's snapshot via simulation. The
// contract returns a 3-vector of scaled integers (xlm balance, usdc
// principal, usdc yield), decoded positionally. An unobtainable or
// malformed result yields a zero summary plus ErrUnreadableResult.
func (c *Client) GetUserSummary(ctx context.Context, userPublicKey string) (UserSummary, error) {
	var zero UserSummary
	if !keys.IsValidAddress(userPublicKey) {
		return zero, fmt.Errorf("%w: %q", ErrInvalidAddress, userPublicKey)
	}

	val, err := c.simulateQuery(ctx, userPublicKey, fnGetUserSummary, AddressVal(userPublicKey))
	if err != nil {
		return zero, err
	}
	if val.Kind != KindVec || len(val.Vec) != 3 {
		c.log.Warn("user summary has unexpected shape",
			zap.String("account", userPublicKey))
		return zero, fmt.Errorf("%w: user summary shape", ErrUnreadableResult)
	}
	for _, item := range val.Vec {
		if item.Kind != KindInt {
			return zero, fmt.Errorf("%w: user summary element kind", ErrUnreadableResult)
		}
	}
	return UserSummary{
		XLMBalance:    amount.FromContractUnits(val.Vec[0].Int),
		USDCPrincipal: amount.FromContractUnits(val.Vec[1].Int),
		USDCYield:     amount.FromContractUnits(val.Vec[2].Int),
	}, nil
}

// GetTotalPrincipal fetches the pool-wide principal via simulation from
// the designated query account. An unobtainable or malformed result
// yields zero plus ErrUnreadableResult.
func (c *Client) GetTotalPrincipal(ctx context.Context) (decimal.Decimal, error) {
	val, err := c.simulateQuery(ctx, c.queryAccount, fnGetTotalPrincipal)
	if err != nil {
		return decimal.Zero, err
	}
	if val.Kind != KindInt {
		return decimal.Zero, fmt.Errorf("%w: total principal kind", ErrUnreadableResult)
	}
	return amount.FromContractUnits(val.Int), nil
}

// simulateQuery runs a read-only invocation: no signing, no fee
// commitment, no state mutation. All failure modes collapse to
// ErrUnreadableResult so batch callers can fail soft.
func (c *Client) simulateQuery(ctx context.Context, source, fn string, args ...Val) (Val, error) {
	acct, err := c.rpc.GetAccount(ctx, source)
	if err != nil {
		c.log.Warn("contract query: account load failed",
			zap.String("fn", fn), zap.String("source", source), zap.Error(err))
		return Val{}, fmt.Errorf("%w: %w", ErrUnreadableResult, err)
	}

	tx, err := c.buildInvoke(source, acct.Sequence+1, fn, args)
	if err != nil {
		return Val{}, err
	}
	envelope, err := tx.EnvelopeBase64()
	if err != nil {
		return Val{}, err
	}

	sim, err := c.rpc.SimulateTransaction(ctx, envelope)
	if err != nil {
		c.log.Warn("contract query: simulation failed",
			zap.String("fn", fn), zap.Error(err))
		return Val{}, fmt.Errorf("%w: %w", ErrUnreadableResult, err)
	}
	if sim.Error != "" {
		c.log.Warn("contract query: simulation error",
			zap.String("fn", fn), zap.String("detail", sim.Error))
		return Val{}, fmt.Errorf("%w: %s", ErrUnreadableResult, sim.Error)
	}
	if sim.Result == nil {
		return Val{}, fmt.Errorf("%w: no result", ErrUnreadableResult)
	}

	val, err := DecodeJSON(sim.Result)
	if err != nil {
		c.log.Warn("contract query: undecodable result",
			zap.String("fn", fn), zap.Error(err))
		return Val{}, fmt.Errorf("%w: %w", ErrUnreadableResult, err)
	}
	return val, nil
}

func (c *Client) buildInvoke(source string, sequence int64, fn string, args []Val) (*txn.Transaction, error) {
	marshalers := make([]encoding.BinaryMarshaler, len(args))
	for i, a := range args {
		marshalers[i] = a
	}
	return txn.Build(txn.Params{
		SourceAccount: source,
		Sequence:      sequence,
		BaseFee:       c.baseFee,
		Timeout:       c.timeout,
		Operations: []txn.Operation{&txn.InvokeContract{
			ContractID: c.contractID,
			Function:   fn,
			Args:       marshalers,
		}},
	})
}
