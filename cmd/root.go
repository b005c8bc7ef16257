package cmd

import (
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/tokenforge/tokenforge/internal/chain"
	"github.com/tokenforge/tokenforge/internal/config"
	"github.com/tokenforge/tokenforge/internal/contract"
	"github.com/tokenforge/tokenforge/internal/token"
	"github.com/tokenforge/tokenforge/internal/ui"
	"github.com/tokenforge/tokenforge/internal/wallet"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/tokenforge/tokenforge/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir      string
	cfg         *config.Config
	networkFlag string
	walletFlag  string
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "tokenforge",
	Short: "Deploy and administer ERC-20 tokens from your terminal",
	Long: `tokenforge — deploy tokens through an on-chain factory and run
their day-two administration (mint, burn, pause, whitelist, blacklist)
without leaving the terminal.

Global flags --network and --wallet override the configured defaults
for a single invocation. Persist them with:
  tokenforge config set-default-network <name>
  tokenforge config set-default-wallet <name>`,
	Version: Version,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(ui.Banner())
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// TOKENFORGE_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("TOKENFORGE_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.tokenforge)")
	rootCmd.PersistentFlags().StringVar(&networkFlag, "network", "", "network to use (default: configured default)")
	rootCmd.PersistentFlags().StringVar(&walletFlag, "wallet", "", "wallet to sign with (default: configured default)")

	rootCmd.AddCommand(
		createCmd,
		manageCmd,
		factoryCmd,
		tokensCmd,
		walletCmd,
		configCmd,
	)
}

// activeNetwork resolves the --network flag against the config.
func activeNetwork() (config.NetworkConfig, error) {
	return cfg.Network(networkFlag)
}

// newWalletManager creates a Manager backed by the config-dir JSON store.
func newWalletManager() *wallet.Manager {
	store := wallet.NewJSONStore(cfg.WalletsPath())
	return wallet.NewManager(wallet.WithStore(store))
}

// resolveWallet returns the wallet named by --wallet, the configured
// default, or the manager's implicit default, in that order.
func resolveWallet() (*wallet.Wallet, error) {
	mgr := newWalletManager()

	name := walletFlag
	if name == "" {
		name = cfg.DefaultWallet
	}
	if name != "" {
		w, err := mgr.Get(name)
		if err != nil {
			return nil, fmt.Errorf(
				"wallet %q not found — run `tokenforge wallet list` or add one with `tokenforge wallet add`",
				name)
		}
		return w, nil
	}

	if w := mgr.Default(); w != nil {
		return w, nil
	}
	return nil, fmt.Errorf("no wallet configured — add one with `tokenforge wallet add <name> --key <private-key>`")
}

// resolveSigningWallet is resolveWallet restricted to wallets that can sign.
func resolveSigningWallet() (*wallet.Wallet, error) {
	w, err := resolveWallet()
	if err != nil {
		return nil, err
	}
	if !w.CanSign() {
		return nil, fmt.Errorf(
			"wallet %q is watch-only and cannot sign transactions\n  To add a signing wallet: tokenforge wallet add <name> --key <private-key>",
			w.Name)
	}
	return w, nil
}

// sessionKeySource checks the session cache before hitting the OS
// keychain, so unlocked wallets sign without a prompt.
type sessionKeySource struct {
	ks *wallet.Keystore
}

func (s sessionKeySource) Retrieve(ref string) (string, error) {
	if key, ok := wallet.GetSessionKey(ref); ok {
		return key, nil
	}
	return s.ks.Retrieve(ref)
}

// newSender builds a contract Sender for the given ABI over the active
// network, signing with the resolved wallet.
func newSender(nc config.NetworkConfig, w *wallet.Wallet, abi []contract.ABIEntry) *contract.Sender {
	signer := wallet.NewSigner(w, sessionKeySource{ks: wallet.DefaultKeystore()})
	return contract.NewSender(nc.RPCURL, abi, signer, big.NewInt(nc.ChainID))
}

// requireFactory returns the factory address for nc or a setup hint.
func requireFactory(nc config.NetworkConfig) (string, error) {
	if nc.FactoryAddress == "" {
		return "", fmt.Errorf(
			"no factory address configured for this network\n  Set one with: tokenforge config set-factory <network> <address>")
	}
	return nc.FactoryAddress, nil
}

// deployConfig builds the token deployment parameters for nc.
func deployConfig(nc config.NetworkConfig) (token.Config, error) {
	factory, err := requireFactory(nc)
	if err != nil {
		return token.Config{}, err
	}
	return token.DefaultConfig(factory), nil
}

func newEVMClient(nc config.NetworkConfig) *chain.EVMClient {
	return chain.NewEVMClient(nc.RPCURL)
}
