// Package settle builds and submits payment settlements: one
// transaction carrying the merchant's payment and, when the purchase
// produced spare change, a second payment sweeping the roundoff into
// the protocol vault. The ledger applies both legs atomically, so the
// vault can never be credited for a purchase that did not settle.
package settle

import (
	"context"
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

// Request describes one settlement. Amounts are decimals in the native
// unit; both are quantized down before entering the transaction.
type Request struct {
	// SourceSecret signs and funds the transaction.
	SourceSecret string

	// MerchantDestination receives MerchantAmount.
	MerchantDestination string
	MerchantAmount      decimal.Decimal

	// VaultDestination receives RoundoffAmount. Required only when
	// RoundoffAmount is positive; a zero roundoff produces a
	// single-operation transaction.
	VaultDestination string
	RoundoffAmount   decimal.Decimal
}

// Result reports the outcome of a settlement. A ledger rejection is an
// unsuccessful Result, not an error; errors are reserved for requests
// that fail validation before anything is signed or sent.
type Result struct {
	Successful  bool
	Hash        string
	ErrorDetail string
}

// Settler submits settlement transactions through a ledger service.
type Settler struct {
	svc        ledger.Service
	passphrase string
	baseFee    uint32
	timeout    time.Duration
	log        *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSettler builds a Settler. Zero baseFee selects txn.MinBaseFee,
// zero timeout selects 30 seconds, nil logger disables logging.
func NewSettler(svc ledger.Service, networkPassphrase string, baseFee uint32, timeout time.Duration, log *zap.Logger) *Settler {
	if baseFee == 0 {
		baseFee = txn.MinBaseFee
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Settler{
		svc:        svc,
		passphrase: networkPassphrase,
		baseFee:    baseFee,
		timeout:    timeout,
		log:        log,
		locks:      make(map[string]*sync.Mutex),
	}
}

// sourceLock returns the mutex serializing submissions for one source
// account. The sequence number is a single-writer resource; two
// concurrent settlements from the same source would race for the same
// slot.
func (s *Settler) sourceLock(address string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[address]
	if !ok {
		l = &sync.Mutex{}
		s.locks[address] = l
	}
	return l
}

// validate checks the request and returns the parsed signer plus the
// quantized stroop amounts. It performs no I/O.
func (s *Settler) validate(req Request) (*keys.Keypair, int64, int64, error) {
	kp, err := keys.ParseSecret(req.SourceSecret)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %w", ErrInvalidSecret, err)
	}
	if !keys.IsValidAddress(req.MerchantDestination) {
		return nil, 0, 0, fmt.Errorf("%w: %q", ErrInvalidMerchant, req.MerchantDestination)
	}

	merchant, err := amount.ToStroops(req.MerchantAmount)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: merchant amount: %w", ErrInvalidAmount, err)
	}
	if merchant <= 0 {
		return nil, 0, 0, fmt.Errorf("%w: merchant amount %s", ErrInvalidAmount, req.MerchantAmount)
	}

	roundoff, err := amount.ToStroops(req.RoundoffAmount)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: roundoff amount: %w", ErrInvalidAmount, err)
	}
	if roundoff > 0 && !keys.IsValidAddress(req.VaultDestination) {
		return nil, 0, 0, fmt.Errorf("%w: %q", ErrInvalidVault, req.VaultDestination)
	}
	return kp, merchant, roundoff, nil
}

// Settle validates req, builds the settlement transaction, signs it
// once and submits it once. The merchant payment is always the first
// operation; the vault roundoff is appended only when positive.
func (s *Settler) Settle(ctx context.Context, req Request) (*Result, error) {
	kp, merchant, roundoff, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	lock := s.sourceLock(kp.Address())
	lock.Lock()
	defer lock.Unlock()

	acct, err := s.svc.LoadAccount(ctx, kp.Address())
	if err != nil {
		s.log.Warn("settlement: account load failed",
			zap.String("source", kp.Address()), zap.Error(err))
		return &Result{Successful: false, ErrorDetail: err.Error()}, nil
	}

	ops := []txn.Operation{
		&txn.Payment{Destination: req.MerchantDestination, Amount: merchant},
	}
	if roundoff > 0 {
		ops = append(ops, &txn.Payment{Destination: req.VaultDestination, Amount: roundoff})
	}

	tx, err := txn.Build(txn.Params{
		SourceAccount: kp.Address(),
		Sequence:      acct.Sequence + 1,
		BaseFee:       s.baseFee,
		Timeout:       s.timeout,
		Operations:    ops,
	})
	if err != nil {
		return nil, err
	}
	if err := tx.Sign(s.passphrase, kp); err != nil {
		return nil, err
	}
	envelope, err := tx.EnvelopeBase64()
	if err != nil {
		return nil, err
	}

	res, err := s.svc.SubmitTransaction(ctx, envelope)
	if err != nil {
		// The envelope is not resent: its sequence slot may already be
		// consumed, so a retry must rebuild from fresh account state.
		s.log.Warn("settlement: submission failed",
			zap.String("source", kp.Address()), zap.Error(err))
		return &Result{Successful: false, ErrorDetail: err.Error()}, nil
	}
	if !res.Successful {
		s.log.Info("settlement rejected",
			zap.String("source", kp.Address()),
			zap.String("detail", res.ErrorDetail))
	}
	return &Result{
		Successful:  res.Successful,
		Hash:        res.Hash,
		ErrorDetail: res.ErrorDetail,
	}, nil
}
