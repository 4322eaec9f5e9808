package ledger

import "fmt"

// NetworkConfig names a settlement network and its endpoints. The
// passphrase scopes every transaction signature to one network.
type NetworkConfig struct {
	Name       string `json:"name"`
	Passphrase string `json:"passphrase"`
	HorizonURL string `json:"horizon_url"`
	RPCURL     string `json:"rpc_url"`
}

// Predefined network configurations. Mainnet endpoints are
// intentionally blank to require explicit configuration.
var (
	Testnet = NetworkConfig{
		Name:       "testnet",
		Passphrase: "Test SDF Network ; September 2015",
		HorizonURL: "https://horizon-testnet.stellar.org",
		RPCURL:     "https://soroban-testnet.stellar.org",
	}

	Mainnet = NetworkConfig{
		Name:       "mainnet",
		Passphrase: "Public Global Stellar Network ; September 2015",
	}
)

// predefined maps network names to their configs.
var predefined = map[string]*NetworkConfig{
	"testnet": &Testnet,
	"mainnet": &Mainnet,
}

// ResolveConfig merges network configuration from three sources with
// decreasing priority:
//  1. explicit overrides (highest priority)
//  2. environment variables (MICROYIELD_HORIZON_URL, MICROYIELD_RPC_URL,
//     MICROYIELD_PASSPHRASE)
//  3. network presets (lowest priority)
//
// For mainnet, explicit endpoints are required -- the preset carries none.
func ResolveConfig(overrides *NetworkConfig, env map[string]string, network string) (*NetworkConfig, error) {
	preset, ok := predefined[network]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNetwork, network)
	}
	result := *preset

	if env != nil {
		if v := env["MICROYIELD_HORIZON_URL"]; v != "" {
			result.HorizonURL = v
		}
		if v := env["MICROYIELD_RPC_URL"]; v != "" {
			result.RPCURL = v
		}
		if v := env["MICROYIELD_PASSPHRASE"]; v != "" {
			result.Passphrase = v
		}
	}

	if overrides != nil {
		if overrides.HorizonURL != "" {
			result.HorizonURL = overrides.HorizonURL
		}
		if overrides.RPCURL != "" {
			result.RPCURL = overrides.RPCURL
		}
		if overrides.Passphrase != "" {
			result.Passphrase = overrides.Passphrase
		}
	}

	if result.HorizonURL == "" || result.RPCURL == "" {
		return nil, fmt.Errorf("%w: %s requires explicit endpoints (set MICROYIELD_HORIZON_URL and MICROYIELD_RPC_URL, or pass overrides)",
			ErrInvalidNetwork, network)
	}

	return &result, nil
}
