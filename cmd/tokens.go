package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenforge/tokenforge/internal/ui"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List tokens created from this machine",
	Long: `Show the tokens recorded locally by 'tokenforge create'. This is a
local bookkeeping list; use 'tokenforge factory tokens' for the
on-chain view.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tf, err := cfg.LoadTokens()
		if err != nil {
			return err
		}
		if len(tf.Tokens) == 0 {
			fmt.Println(ui.Meta("No tokens created from this machine yet."))
			ui.Hint("Create one with: tokenforge create")
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Address", Width: 44},
			{Title: "Name", Width: 24},
			{Title: "Symbol", Width: 8},
			{Title: "Network", Width: 12},
		})
		for _, tok := range tf.Tokens {
			t.AddRow(ui.Row{tok.Address, tok.Name, tok.Symbol, tok.Network})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d token(s) tracked", len(tf.Tokens))))
		return nil
	},
}
