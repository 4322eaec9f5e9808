package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-coder03/microyield-go/keys"
)

func testAddress() string {
	var pub [32]byte
	for i := range pub {
		pub[i] = 0x42
	}
	return keys.EncodeAddress(pub)
}

func testContractID() string {
	var raw [32]byte
	for i := range raw {
		raw[i] = 0xcc
	}
	return keys.EncodeContractID(raw)
}

func validConfig() *Config {
	cfg, _ := Load("")
	cfg.Contract.ID = testContractID()
	cfg.Vault.PublicKey = testAddress()
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "yieldd", cfg.Application)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "testnet", cfg.Network)
	assert.Equal(t, "https://horizon-testnet.stellar.org", cfg.Horizon.URL)
	assert.Equal(t, 0.08, cfg.Yield.AnnualAPY)
	assert.Equal(t, uint32(100), cfg.Settle.BaseFee)
	assert.Equal(t, 30, cfg.Settle.TimeoutSeconds)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := fmt.Sprintf(`
logger:
  level: "debug"
contract:
  id: %q
yield:
  annual_apy: 0.05
`, testContractID())
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, testContractID(), cfg.Contract.ID)
	assert.Equal(t, 0.05, cfg.Yield.AnnualAPY)

	// untouched keys keep their defaults
	assert.Equal(t, "yieldd", cfg.Application)
	assert.Equal(t, "https://soroban-testnet.stellar.org", cfg.RPC.URL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"bad log level", func(c *Config) { c.Logger.Level = "verbose" }, ErrInvalidLogLevel},
		{"bad network", func(c *Config) { c.Network = "devnet" }, ErrInvalidNetwork},
		{"empty horizon url", func(c *Config) { c.Horizon.URL = "" }, ErrEmptyEndpoint},
		{"empty rpc url", func(c *Config) { c.RPC.URL = "" }, ErrEmptyEndpoint},
		{"empty contract id", func(c *Config) { c.Contract.ID = "" }, ErrInvalidContractID},
		{"bad contract id", func(c *Config) { c.Contract.ID = "CNOPE" }, ErrInvalidContractID},
		{"bad vault key", func(c *Config) { c.Vault.PublicKey = "GNOPE" }, ErrInvalidVaultKey},
		{"bad admin secret", func(c *Config) { c.Admin.Secret = "SNOPE" }, ErrInvalidAdminSecret},
		{"zero apy", func(c *Config) { c.Yield.AnnualAPY = 0 }, ErrInvalidAPY},
		{"apy above one", func(c *Config) { c.Yield.AnnualAPY = 1.2 }, ErrInvalidAPY},
		{"empty run log path", func(c *Config) { c.Yield.RunLogPath = "" }, ErrEmptyRunLogPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestValidateAcceptsEmptyAdminSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Secret = ""
	assert.NoError(t, cfg.Validate(), "admin secret is optional")
}
