// Package config holds the daemon configuration: embedded yaml
// defaults overridden by an optional config file, unmarshalled through
// koanf and validated before anything connects.
package config

import (
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
)

var DefaultConfig = []byte(`
application: "yieldd"

logger:
  level: "info"

network: "testnet"

horizon:
  url: "https://horizon-testnet.stellar.org"

rpc:
  url: "https://soroban-testnet.stellar.org"

contract:
  id: ""

vault:
  public_key: ""

admin:
  secret: ""

yield:
  annual_apy: 0.08
  run_log_path: "data/runs.db"

settle:
  base_fee: 100
  timeout_seconds: 30
`)

type Config struct {
	Application string   `koanf:"application"`
	Logger      Logger   `koanf:"logger"`
	Network     string   `koanf:"network"`
	Horizon     Horizon  `koanf:"horizon"`
	RPC         RPC      `koanf:"rpc"`
	Contract    Contract `koanf:"contract"`
	Vault       Vault    `koanf:"vault"`
	Admin       Admin    `koanf:"admin"`
	Yield       Yield    `koanf:"yield"`
	Settle      Settle   `koanf:"settle"`
}

type Logger struct {
	Level string `koanf:"level"`
}

type Horizon struct {
	URL string `koanf:"url"`
}

type RPC struct {
	URL string `koanf:"url"`
}

type Contract struct {
	ID string `koanf:"id"`
}

type Vault struct {
	PublicKey string `koanf:"public_key"`
}

type Admin struct {
	Secret string `koanf:"secret"`
}

type Yield struct {
	AnnualAPY  float64 `koanf:"annual_apy"`
	RunLogPath string  `koanf:"run_log_path"`
}

type Settle struct {
	BaseFee        uint32 `koanf:"base_fee"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
}

// Load reads the defaults, overlays the config file at path when it is
// non-empty, and unmarshals into a Config. The result is not yet
// validated; call Validate before use.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(DefaultConfig), yaml.Parser()); err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
