package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tokenforge/tokenforge/internal/config"
	"github.com/tokenforge/tokenforge/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Println(string(data))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetDefaultNetworkCmd = &cobra.Command{
	Use:   "set-default-network <name>",
	Short: "Set the default network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := cfg.Network(args[0]); err != nil {
			return err
		}
		cfg.DefaultNetwork = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default network set to %q", args[0])))
		return nil
	},
}

var configSetDefaultWalletCmd = &cobra.Command{
	Use:   "set-default-wallet <name>",
	Short: "Set the default wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.DefaultWallet = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default wallet set to %q", args[0])))
		return nil
	},
}

var configAddNetworkCmd = &cobra.Command{
	Use:   "add-network <name> <rpc-url> <chain-id>",
	Short: "Add or replace a network",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainID, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid chain id %q", args[2])
		}

		nc, _ := cfg.Network(args[0])
		nc.RPCURL = args[1]
		nc.ChainID = chainID
		cfg.SetNetwork(args[0], nc)
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Network %q → %s (chain %d)", args[0], args[1], chainID)))
		return nil
	},
}

var configSetFactoryCmd = &cobra.Command{
	Use:   "set-factory <network> <address>",
	Short: "Set the factory contract address for a network",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		nc, err := cfg.Network(args[0])
		if err != nil {
			// Unknown network: create a stub the user can fill in later.
			nc = config.NetworkConfig{}
		}
		nc.FactoryAddress = args[1]
		cfg.SetNetwork(args[0], nc)
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Factory for %q set to %s", args[0], ui.Addr(args[1]))))
		return nil
	},
}

func init() {
	configCmd.AddCommand(
		configShowCmd,
		configSetDefaultNetworkCmd,
		configSetDefaultWalletCmd,
		configAddNetworkCmd,
		configSetFactoryCmd,
	)
}
