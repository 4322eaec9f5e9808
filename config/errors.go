package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"testnet\" or \"mainnet\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyEndpoint indicates a required network endpoint is missing.
	ErrEmptyEndpoint = errors.New("config: endpoint must not be empty")

	// ErrInvalidContractID indicates the vault contract ID is malformed.
	ErrInvalidContractID = errors.New("config: invalid contract id")

	// ErrInvalidVaultKey indicates the vault public key is malformed.
	ErrInvalidVaultKey = errors.New("config: invalid vault public key")

	// ErrInvalidAdminSecret indicates the admin secret is malformed.
	ErrInvalidAdminSecret = errors.New("config: invalid admin secret")

	// ErrInvalidAPY indicates the annual rate is outside (0, 1].
	ErrInvalidAPY = errors.New("config: annual apy must be in (0, 1]")

	// ErrEmptyRunLogPath indicates the run log path is missing.
	ErrEmptyRunLogPath = errors.New("config: run log path must not be empty")
)
