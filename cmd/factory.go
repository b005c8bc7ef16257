package cmd

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/tokenforge/tokenforge/internal/chain"
	"github.com/tokenforge/tokenforge/internal/contract"
	"github.com/tokenforge/tokenforge/internal/ui"
)

var factoryCmd = &cobra.Command{
	Use:   "factory",
	Short: "Inspect the token factory contract",
}

var factoryInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the factory's fee and receiver",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		nc, err := activeNetwork()
		if err != nil {
			return err
		}
		factory, err := requireFactory(nc)
		if err != nil {
			return err
		}

		client := newEVMClient(nc)
		hasCode, err := client.HasCode(factory)
		if err != nil {
			return err
		}
		if !hasCode {
			fmt.Println(ui.Err("No contract deployed at " + factory))
			ui.Hint("Check the factory address with: tokenforge config show")
			return nil
		}

		caller := contract.NewCallerFromEntries(nc.RPCURL, contract.FactoryABI)

		pairs := [][2]string{{"Address", factory}}
		if fee, err := readOne(caller, factory, "creationFee"); err == nil {
			if wei, ok := parseBig(fee); ok {
				pairs = append(pairs, [2]string{"Creation fee", chain.FormatWei(wei)})
			}
		}
		if depCfg, err := deployConfig(nc); err == nil {
			pairs = append(pairs, [2]string{"Configured fee", chain.FormatWei(depCfg.CreationFeeWei)})
		}
		if recv, err := readOne(caller, factory, "feeReceiver"); err == nil {
			pairs = append(pairs, [2]string{"Fee receiver", recv})
		}
		if tokens, err := caller.CallAddressList(factory, "getDeployedTokens"); err == nil {
			pairs = append(pairs, [2]string{"Tokens deployed", fmt.Sprintf("%d", len(tokens))})
		}

		fmt.Println(ui.KeyValueBlock("Token Factory", pairs))
		return nil
	},
}

var factoryTokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List every token the factory has deployed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		nc, err := activeNetwork()
		if err != nil {
			return err
		}
		factory, err := requireFactory(nc)
		if err != nil {
			return err
		}

		caller := contract.NewCallerFromEntries(nc.RPCURL, contract.FactoryABI)
		addrs, err := caller.CallAddressList(factory, "getDeployedTokens")
		if err != nil {
			return fmt.Errorf("reading deployed tokens: %w", err)
		}
		if len(addrs) == 0 {
			fmt.Println(ui.Meta("The factory has not deployed any tokens yet."))
			ui.Hint("Create one with: tokenforge create")
			return nil
		}

		// Best-effort identity reads so the list is more than addresses.
		// Addresses are truncated; `tokenforge manage info` has the full one.
		tokenCaller := contract.NewCallerFromEntries(nc.RPCURL, contract.CustomTokenABI)
		t := ui.NewTable([]ui.Column{
			{Title: "Address", Width: 14},
			{Title: "Name", Width: 24},
			{Title: "Symbol", Width: 8},
		})
		for _, addr := range addrs {
			name, _ := readOne(tokenCaller, addr, "name")
			symbol, _ := readOne(tokenCaller, addr, "symbol")
			t.AddRow(ui.Row{ui.TruncateAddr(addr), name, symbol})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d token(s) deployed", len(addrs))))
		return nil
	},
}

func parseBig(s string) (*big.Int, bool) {
	return new(big.Int).SetString(s, 10)
}

func readOne(caller *contract.Caller, addr, fn string) (string, error) {
	out, err := caller.Call(addr, fn)
	if err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("%s returned no values", fn)
	}
	return out[0], nil
}

func init() {
	factoryCmd.AddCommand(factoryInfoCmd, factoryTokensCmd)
}
