package settle

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-coder03/microyield-go/keys"
	"github.com/aman-coder03/microyield-go/ledger"
	"github.com/aman-coder03/microyield-go/txn"
)

const testPassphrase = "Test SDF Network ; September 2015"

func testKeypair(b byte) *keys.Keypair {
	var seed [32]byte
	for i := range seed {
		seed[i] = b
	}
	return keys.FromRawSeed(seed)
}

func testRequest() Request {
	return Request{
		SourceSecret:        testKeypair(0x01).Seed(),
		MerchantDestination: testKeypair(0x02).Address(),
		MerchantAmount:      decimal.RequireFromString("9.73"),
		VaultDestination:    testKeypair(0x03).Address(),
		RoundoffAmount:      decimal.RequireFromString("0.27"),
	}
}

func newTestSettler(svc ledger.Service) *Settler {
	return NewSettler(svc, testPassphrase, 0, 0, nil)
}

func TestSettleBothLegs(t *testing.T) {
	source := testKeypair(0x01)
	var submitted string

	svc := &ledger.MockService{
		LoadAccountFn: func(_ context.Context, id string) (*ledger.Account, error) {
			assert.Equal(t, source.Address(), id)
			return &ledger.Account{AccountID: id, Sequence: 7}, nil
		},
		SubmitTransactionFn: func(_ context.Context, envelope string) (*ledger.SubmitResult, error) {
			submitted = envelope
			return &ledger.SubmitResult{Successful: true, Hash: "deadbeef", Ledger: 12}, nil
		},
	}

	res, err := newTestSettler(svc).Settle(context.Background(), testRequest())
	require.NoError(t, err)
	assert.True(t, res.Successful)
	assert.Equal(t, "deadbeef", res.Hash)

	tx, err := txn.ParseEnvelope(submitted)
	require.NoError(t, err)
	assert.Equal(t, source.Address(), tx.SourceAccount())
	assert.Equal(t, int64(8), tx.Sequence())

	// Merchant leg first, vault roundoff second.
	require.Len(t, tx.Operations(), 2)
	merchant := tx.Operations()[0].(*txn.Payment)
	assert.Equal(t, testKeypair(0x02).Address(), merchant.Destination)
	assert.Equal(t, int64(97300000), merchant.Amount)
	vault := tx.Operations()[1].(*txn.Payment)
	assert.Equal(t, testKeypair(0x03).Address(), vault.Destination)
	assert.Equal(t, int64(2700000), vault.Amount)

	// Signed exactly once, over the hash bound to the test network.
	require.Len(t, tx.Signatures(), 1)
	hash, err := tx.Hash(testPassphrase)
	require.NoError(t, err)
	assert.True(t, source.Verify(hash[:], tx.Signatures()[0].Signature))
}

func TestSettleZeroRoundoffOmitsVaultLeg(t *testing.T) {
	var submitted string
	svc := &ledger.MockService{
		LoadAccountFn: func(_ context.Context, id string) (*ledger.Account, error) {
			return &ledger.Account{AccountID: id, Sequence: 1}, nil
		},
		SubmitTransactionFn: func(_ context.Context, envelope string) (*ledger.SubmitResult, error) {
			submitted = envelope
			return &ledger.SubmitResult{Successful: true}, nil
		},
	}

	req := testRequest()
	req.RoundoffAmount = decimal.Zero
	req.VaultDestination = "" // not required without a roundoff

	_, err := newTestSettler(svc).Settle(context.Background(), req)
	require.NoError(t, err)

	tx, err := txn.ParseEnvelope(submitted)
	require.NoError(t, err)
	require.Len(t, tx.Operations(), 1)
	assert.Equal(t, testKeypair(0x02).Address(),
		tx.Operations()[0].(*txn.Payment).Destination)
}

func TestSettleQuantizesDown(t *testing.T) {
	var submitted string
	svc := &ledger.MockService{
		LoadAccountFn: func(_ context.Context, id string) (*ledger.Account, error) {
			return &ledger.Account{AccountID: id, Sequence: 1}, nil
		},
		SubmitTransactionFn: func(_ context.Context, envelope string) (*ledger.SubmitResult, error) {
			submitted = envelope
			return &ledger.SubmitResult{Successful: true}, nil
		},
	}

	req := testRequest()
	req.MerchantAmount = decimal.RequireFromString("10.123456789")
	req.RoundoffAmount = decimal.Zero

	_, err := newTestSettler(svc).Settle(context.Background(), req)
	require.NoError(t, err)

	tx, err := txn.ParseEnvelope(submitted)
	require.NoError(t, err)
	assert.Equal(t, int64(101234567), tx.Operations()[0].(*txn.Payment).Amount,
		"excess digits truncate, never round up")
}

func TestSettleValidationNeverSubmits(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"bad secret", func(r *Request) { r.SourceSecret = "nope" }, ErrInvalidSecret},
		{"bad merchant", func(r *Request) { r.MerchantDestination = "nope" }, ErrInvalidMerchant},
		{"zero merchant amount", func(r *Request) { r.MerchantAmount = decimal.Zero }, ErrInvalidAmount},
		{"negative merchant amount", func(r *Request) { r.MerchantAmount = decimal.NewFromInt(-1) }, ErrInvalidAmount},
		{"negative roundoff", func(r *Request) { r.RoundoffAmount = decimal.NewFromInt(-1) }, ErrInvalidAmount},
		{"bad vault with roundoff", func(r *Request) { r.VaultDestination = "nope" }, ErrInvalidVault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			touched := false
			svc := &ledger.MockService{
				LoadAccountFn: func(_ context.Context, _ string) (*ledger.Account, error) {
					touched = true
					return nil, nil
				},
				SubmitTransactionFn: func(_ context.Context, _ string) (*ledger.SubmitResult, error) {
					touched = true
					return nil, nil
				},
			}

			req := testRequest()
			tt.mutate(&req)
			res, err := newTestSettler(svc).Settle(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
			assert.False(t, touched, "validation failures must short-circuit before any I/O")
		})
	}
}

func TestSettleRejectionIsResultNotError(t *testing.T) {
	svc := &ledger.MockService{
		LoadAccountFn: func(_ context.Context, id string) (*ledger.Account, error) {
			return &ledger.Account{AccountID: id, Sequence: 1}, nil
		},
		SubmitTransactionFn: func(_ context.Context, _ string) (*ledger.SubmitResult, error) {
			return &ledger.SubmitResult{Successful: false, ErrorDetail: "tx_insufficient_balance"}, nil
		},
	}

	res, err := newTestSettler(svc).Settle(context.Background(), testRequest())
	require.NoError(t, err)
	assert.False(t, res.Successful)
	assert.Equal(t, "tx_insufficient_balance", res.ErrorDetail)
}

func TestSettleTransportFailureIsResult(t *testing.T) {
	svc := &ledger.MockService{
		LoadAccountFn: func(_ context.Context, _ string) (*ledger.Account, error) {
			return nil, ledger.ErrConnectionFailed
		},
	}
	res, err := newTestSettler(svc).Settle(context.Background(), testRequest())
	require.NoError(t, err)
	assert.False(t, res.Successful)
	assert.Contains(t, res.ErrorDetail, "connection")
}
