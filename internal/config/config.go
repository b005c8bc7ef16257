package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultNetwork = "localhost"

	configFile  = "config.json"
	walletsFile = "wallets.json"
	tokensFile  = "tokens.json"
)

// NetworkConfig describes one ledger endpoint and the factory deployed
// on it.
type NetworkConfig struct {
	RPCURL         string `json:"rpcUrl"`
	ChainID        int64  `json:"chainId"`
	FactoryAddress string `json:"factoryAddress"`
}

// Config is the persistent CLI configuration under ~/.tokenforge.
type Config struct {
	DefaultNetwork string                   `json:"defaultNetwork"`
	DefaultWallet  string                   `json:"defaultWallet"`
	Networks       map[string]NetworkConfig `json:"networks"`

	configDir string
}

// TrackedToken records a token created through the wizard so `manage`
// can offer it without the user re-entering the address.
type TrackedToken struct {
	Address   string `json:"address"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	Network   string `json:"network"`
	CreatedAt string `json:"createdAt"`
}

// TokensFile is the on-disk shape of tokens.json.
type TokensFile struct {
	Tokens []TrackedToken `json:"tokens"`
}

// Load reads config from dir (or creates defaults). dir defaults to
// ~/.tokenforge.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".tokenforge")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.Networks == nil {
		cfg.Networks = defaultNetworks()
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Network returns the named network config, or the default when name
// is empty.
func (c *Config) Network(name string) (NetworkConfig, error) {
	if name == "" {
		name = c.DefaultNetwork
	}
	nc, ok := c.Networks[name]
	if !ok {
		return NetworkConfig{}, fmt.Errorf("unknown network %q", name)
	}
	return nc, nil
}

// SetNetwork adds or replaces a network entry.
func (c *Config) SetNetwork(name string, nc NetworkConfig) {
	if c.Networks == nil {
		c.Networks = make(map[string]NetworkConfig)
	}
	c.Networks[name] = nc
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath returns the wallet store file path.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// LoadTokens reads tokens.json.
func (c *Config) LoadTokens() (*TokensFile, error) {
	return loadJSON[TokensFile](filepath.Join(c.configDir, tokensFile))
}

// SaveTokens writes tokens.json.
func (c *Config) SaveTokens(tf *TokensFile) error {
	return saveJSON(filepath.Join(c.configDir, tokensFile), tf)
}

// TrackToken appends a created token to tokens.json.
func (c *Config) TrackToken(tok TrackedToken) error {
	tf, err := c.LoadTokens()
	if err != nil {
		return err
	}
	tf.Tokens = append(tf.Tokens, tok)
	return c.SaveTokens(tf)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		DefaultNetwork: defaultNetwork,
		Networks:       defaultNetworks(),
		configDir:      dir,
	}
}

func defaultNetworks() map[string]NetworkConfig {
	return map[string]NetworkConfig{
		"localhost": {
			RPCURL:  "http://127.0.0.1:8545",
			ChainID: 31337,
		},
		"sepolia": {
			RPCURL:  "https://rpc.sepolia.org",
			ChainID: 11155111,
		},
	}
}

func loadJSON[T any](path string) (*T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &zero, nil
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
