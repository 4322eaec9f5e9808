package config

import (
	"fmt"
	"strings"

	"github.com/aman-coder03/microyield-go/keys"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func (c *Config) Validate() error {
	if !validLogLevels[strings.ToLower(c.Logger.Level)] {
		return ErrInvalidLogLevel
	}
	if c.Network != "testnet" && c.Network != "mainnet" {
		return fmt.Errorf("%w: %q", ErrInvalidNetwork, c.Network)
	}
	if c.Horizon.URL == "" {
		return fmt.Errorf("%w: horizon.url", ErrEmptyEndpoint)
	}
	if c.RPC.URL == "" {
		return fmt.Errorf("%w: rpc.url", ErrEmptyEndpoint)
	}
	if !keys.IsValidContractID(c.Contract.ID) {
		return fmt.Errorf("%w: %q", ErrInvalidContractID, c.Contract.ID)
	}
	if !keys.IsValidAddress(c.Vault.PublicKey) {
		return fmt.Errorf("%w: %q", ErrInvalidVaultKey, c.Vault.PublicKey)
	}
	if c.Admin.Secret != "" {
		if _, err := keys.ParseSecret(c.Admin.Secret); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAdminSecret, err)
		}
	}
	if c.Yield.AnnualAPY <= 0 || c.Yield.AnnualAPY > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidAPY, c.Yield.AnnualAPY)
	}
	if c.Yield.RunLogPath == "" {
		return ErrEmptyRunLogPath
	}
	return nil
}
