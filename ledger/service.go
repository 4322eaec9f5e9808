// Package ledger holds the clients for the external settlement network:
// a REST client for account state and transaction submission, and a
// JSON-RPC client for contract simulation and submission. Both are
// explicit, constructor-built clients; nothing in this package keeps
// process-wide connection state.
package ledger

import (
	"context"
	"encoding/json"
)

// Account is the slice of on-ledger account state the core needs: the
// sequence number that orders the account's transactions.
type Account struct {
	AccountID string `json:"account_id"`
	Sequence  int64  `json:"sequence,string"`
}

// SubmitResult reports the outcome of a transaction submission.
// Rejections (insufficient balance, bad sequence, malformed operation)
// are carried here with Successful=false rather than as Go errors, so
// callers branch on a value instead of catching.
type SubmitResult struct {
	Successful  bool   `json:"successful"`
	Hash        string `json:"hash"`
	Ledger      int64  `json:"ledger"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

// Simulation is the outcome of a read-only contract execution. Result
// is the raw structured return value, nil when the simulation produced
// none; Error carries the engine's failure string, empty on success.
type Simulation struct {
	Result         json.RawMessage
	MinResourceFee uint32
	Error          string
}

// Service is the settlement-network boundary used by the payment path.
type Service interface {
	// LoadAccount fetches current account state, including the sequence
	// number a new transaction must build on.
	LoadAccount(ctx context.Context, accountID string) (*Account, error)

	// SubmitTransaction submits a signed base64 envelope. Transport
	// failures are errors; ledger rejections are unsuccessful results.
	SubmitTransaction(ctx context.Context, envelope string) (*SubmitResult, error)
}

// InvocationService is the contract-runtime boundary used by the vault
// invocation path. State-changing calls follow the two-phase pattern:
// simulate first to learn the resource fee, then sign and send.
type InvocationService interface {
	// GetAccount fetches account state from the contract runtime endpoint.
	GetAccount(ctx context.Context, accountID string) (*Account, error)

	// SimulateTransaction executes an envelope read-only. No signature,
	// no fee commitment, no state mutation.
	SimulateTransaction(ctx context.Context, envelope string) (*Simulation, error)

	// SendTransaction submits a signed envelope for inclusion.
	SendTransaction(ctx context.Context, envelope string) (*SubmitResult, error)
}
