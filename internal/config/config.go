package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"dao_factory/sdk"
)

// Network is the per chain part of the configuration.
type Network struct {
	USDC    string `yaml:"usdc"    envconfig:"USDC"`
	URL     string `yaml:"url"     envconfig:"URL"`
	Factory string `yaml:"factory" envconfig:"FACTORY"`
}

type Config struct {
	AppEnv  string `yaml:"appEnv"  envconfig:"APP_ENV"`
	Network string `yaml:"network" envconfig:"NETWORK"`
	DataDir string `yaml:"dataDir" envconfig:"DATA_DIR"`

	EtherscanAPIKey   string `yaml:"etherscanApiKey"   envconfig:"ETHERSCAN_API_KEY"`
	AccountPrivateKey string `yaml:"accountPrivateKey" envconfig:"ACCOUNT_PRIVATE_KEY"`

	Rinkeby Network `yaml:"rinkeby" envconfig:"RINKEBY"`
	Goerli  Network `yaml:"goerli"  envconfig:"GOERLI"`
	Mainnet Network `yaml:"mainnet" envconfig:"MAINNET"`
}

const (
	NetworkRinkeby = "rinkeby"
	NetworkGoerli  = "goerli"
	NetworkMainnet = "mainnet"

	redacted = "<redacted>"
)

// defaults are applied before the YAML file and the environment, so both only
// override what they actually set.
func defaults() Config {
	return Config{
		AppEnv:  "development",
		Network: NetworkGoerli,
		Goerli: Network{
			USDC: "0x07865c6E87B9F70255377e024ace6630C1Eaa37F",
		},
		Mainnet: Network{
			USDC: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		},
	}
}

// Load resolves the configuration from, in increasing priority: built in defaults,
// the optional YAML configFile, the .env files and the process environment.
// Missing .env files are fine. Variables already in the environment win over .env.
func Load(configFile string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", f, err)
		}
	}

	cfg := defaults()
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	cfg.Network = strings.ToLower(strings.TrimSpace(cfg.Network))
	if _, err := cfg.Selected(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Selected returns the settings of the configured network.
func (c *Config) Selected() (Network, error) {
	switch c.Network {
	case NetworkRinkeby:
		return c.Rinkeby, nil
	case NetworkGoerli:
		return c.Goerli, nil
	case NetworkMainnet:
		return c.Mainnet, nil
	}
	return Network{}, fmt.Errorf("invalid network: %q (must be 'rinkeby', 'goerli' or 'mainnet')", c.Network)
}

// USDCAddress parses the stablecoin of the selected network.
func (c *Config) USDCAddress() (sdk.Address, error) {
	n, err := c.Selected()
	if err != nil {
		return sdk.ZeroAddress, err
	}
	if n.USDC == "" {
		return sdk.ZeroAddress, fmt.Errorf("no USDC address configured for %s", c.Network)
	}
	return sdk.AddressFromHex(n.USDC)
}

// Redacted returns a copy that is safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.EtherscanAPIKey != "" {
		out.EtherscanAPIKey = redacted
	}
	if out.AccountPrivateKey != "" {
		out.AccountPrivateKey = redacted
	}
	return &out
}

// YAML renders the redacted configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c.Redacted())
}
