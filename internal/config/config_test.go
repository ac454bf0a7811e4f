package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"APP_ENV", "NETWORK", "DATA_DIR", "ETHERSCAN_API_KEY", "ACCOUNT_PRIVATE_KEY",
	"RINKEBY_USDC", "RINKEBY_URL", "RINKEBY_FACTORY",
	"GOERLI_USDC", "GOERLI_URL", "GOERLI_FACTORY",
	"MAINNET_USDC", "MAINNET_URL", "MAINNET_FACTORY",
	"USDC", "URL", "FACTORY",
}

// cleanEnv unsets every key Load reads and restores them after the test, including
// keys godotenv sets along the way.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func missingEnv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	cleanEnv(t)
	cfg, err := Load("", missingEnv(t))
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, NetworkGoerli, cfg.Network)
	usdc, err := cfg.USDCAddress()
	require.NoError(t, err)
	assert.True(t, strings.EqualFold("0x07865c6E87B9F70255377e024ace6630C1Eaa37F", usdc.Hex()))
}

func TestLoadYAMLThenEnv(t *testing.T) {
	cleanEnv(t)
	file := writeFile(t, "daofactory.yaml", `
network: mainnet
etherscanApiKey: from-yaml
mainnet:
  url: https://yaml.example
  factory: "0x1111111111111111111111111111111111111111"
`)
	t.Setenv("MAINNET_URL", "https://env.example")

	cfg, err := Load(file, missingEnv(t))
	require.NoError(t, err)
	n, err := cfg.Selected()
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", n.URL)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", n.Factory)
	// defaults survive a partial YAML section
	assert.Equal(t, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", n.USDC)
	assert.Equal(t, "from-yaml", cfg.EtherscanAPIKey)
}

func TestLoadDotEnv(t *testing.T) {
	cleanEnv(t)
	envFile := writeFile(t, ".env", `NETWORK=Rinkeby
RINKEBY_USDC=0xeb8f08a975Ab53E34D8a0330E0D34de942C95926
ACCOUNT_PRIVATE_KEY=deadbeef
`)
	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, NetworkRinkeby, cfg.Network)
	usdc, err := cfg.USDCAddress()
	require.NoError(t, err)
	assert.True(t, strings.EqualFold("0xeb8f08a975Ab53E34D8a0330E0D34de942C95926", usdc.Hex()))
	assert.Equal(t, "deadbeef", cfg.AccountPrivateKey)
}

func TestProcessEnvBeatsDotEnv(t *testing.T) {
	cleanEnv(t)
	t.Setenv("NETWORK", "mainnet")
	envFile := writeFile(t, ".env", "NETWORK=rinkeby\n")
	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, NetworkMainnet, cfg.Network)
}

func TestLoadUnknownNetwork(t *testing.T) {
	cleanEnv(t)
	t.Setenv("NETWORK", "sepolia")
	_, err := Load("", missingEnv(t))
	assert.ErrorContains(t, err, "invalid network")
}

func TestLoadBadYAML(t *testing.T) {
	cleanEnv(t)
	file := writeFile(t, "bad.yaml", "network: [oops\n")
	_, err := Load(file, missingEnv(t))
	assert.ErrorContains(t, err, "error parsing config file")
}

func TestMissingUSDC(t *testing.T) {
	cleanEnv(t)
	t.Setenv("NETWORK", "rinkeby")
	cfg, err := Load("", missingEnv(t))
	require.NoError(t, err)
	_, err = cfg.USDCAddress()
	assert.ErrorContains(t, err, "no USDC address configured")
}

func TestRedacted(t *testing.T) {
	cfg := defaults()
	cfg.AccountPrivateKey = "deadbeef"
	cfg.EtherscanAPIKey = "key"
	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "deadbeef")
	assert.Contains(t, string(out), redacted)
	// the original is untouched
	assert.Equal(t, "deadbeef", cfg.AccountPrivateKey)
	assert.Empty(t, cfg.Redacted().Rinkeby.USDC)
}
