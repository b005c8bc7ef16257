package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tokenforge/tokenforge/internal/contract"
	"github.com/tokenforge/tokenforge/internal/token"
	"github.com/tokenforge/tokenforge/internal/ui"
)

var manageCreatedFlag bool

var manageCmd = &cobra.Command{
	Use:   "manage",
	Short: "Administer a deployed token",
	Long: `Day-two administration for a factory-deployed token: inspect it,
mint and burn supply, pause transfers, and maintain the whitelist and
blacklist. Mutating commands require the owner wallet; the contract
enforces ownership on chain.`,
}

// loadedPanel wires reader, writer, controller, and syncer for one
// token and loads its descriptor.
func loadedPanel(tokenAddr string) (*token.Panel, error) {
	nc, err := activeNetwork()
	if err != nil {
		return nil, err
	}
	depCfg, err := deployConfig(nc)
	if err != nil {
		return nil, err
	}
	w, err := resolveWallet()
	if err != nil {
		return nil, err
	}

	client := newEVMClient(nc)
	reader := token.NewReader(contract.NewCallerFromEntries(nc.RPCURL, contract.CustomTokenABI))
	writer := newSender(nc, w, contract.CustomTokenABI)
	notify := ui.NewTerminalNotifier()
	ctrl := token.NewController(depCfg, client, notify)

	panel := token.NewPanel(tokenAddr, w.Address, reader, writer, ctrl, notify)
	if err := panel.Load(); err != nil {
		return nil, err
	}
	return panel, nil
}

// awaitTask blocks until the task reaches a terminal state, then waits
// for the settle-delayed refresh to land so callers print fresh state.
// The timer is only a safety cap against a hung re-read.
func awaitTask(panel *token.Panel, task *token.Task) error {
	<-task.Done()
	if task.State() != token.StateConfirmed {
		// The notifier already rendered the failure; signal a non-zero exit
		// with the fault's short code.
		if err := task.Err(); err != nil {
			return fmt.Errorf("[%s] operation %s", token.Classify(err).Code(), task.State())
		}
		return fmt.Errorf("operation %s", task.State())
	}

	select {
	case <-panel.Refreshed():
	case <-time.After(10 * time.Second):
	}
	return nil
}

var manageInfoCmd = &cobra.Command{
	Use:   "info <token-address>",
	Short: "Show a token's descriptor and lists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, err := loadedPanel(args[0])
		if err != nil {
			return err
		}

		if manageCreatedFlag {
			fmt.Println(ui.Success("Token created! Here is its current state:"))
			fmt.Println()
		}
		printDescriptor(panel)
		printLists(panel)
		return nil
	},
}

func printDescriptor(panel *token.Panel) {
	d := panel.Descriptor()
	if d == nil {
		return
	}

	flag := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	owner := d.Owner
	if panel.IsOwner() {
		owner += "  " + ui.Meta("(you)")
	}

	fmt.Println(ui.KeyValueBlock(d.Name+" ("+d.Symbol+")", [][2]string{
		{"Address", d.Address},
		{"Total supply", d.FormatSupply() + " " + d.Symbol},
		{"Decimals", fmt.Sprintf("%d", d.Decimals)},
		{"Owner", owner},
		{"Mintable", flag(d.Mintable)},
		{"Burnable", flag(d.Burnable)},
		{"Paused", flag(d.Paused)},
		{"Whitelist", flag(d.WhitelistEnabled)},
	}))
}

func printLists(panel *token.Panel) {
	for _, kind := range []token.ListKind{token.ListWhitelist, token.ListBlacklist} {
		st := panel.Lists().State(kind)
		label := listLabel(kind)
		switch {
		case !st.Supported:
			fmt.Println(ui.Meta(label + ": not supported by this token"))
		case len(st.Entries) == 0:
			fmt.Println(ui.Meta(label + ": empty"))
		default:
			fmt.Println(ui.StyleTitle.Render(label))
			for _, addr := range st.Entries {
				fmt.Println("  " + ui.Addr(addr))
			}
		}
	}
}

func listLabel(kind token.ListKind) string {
	if kind == token.ListBlacklist {
		return "Blacklist"
	}
	return "Whitelist"
}

var manageMintCmd = &cobra.Command{
	Use:   "mint <token-address> <amount>",
	Short: "Mint whole tokens to your wallet",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, err := loadedPanel(args[0])
		if err != nil {
			return err
		}
		task, err := panel.Mint(args[1])
		if err != nil {
			return err
		}
		if err := awaitTask(panel, task); err != nil {
			return err
		}
		printDescriptor(panel)
		return nil
	},
}

var manageBurnCmd = &cobra.Command{
	Use:   "burn <token-address> <amount>",
	Short: "Burn whole tokens from your wallet",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, err := loadedPanel(args[0])
		if err != nil {
			return err
		}
		task, err := panel.Burn(args[1])
		if err != nil {
			return err
		}
		if err := awaitTask(panel, task); err != nil {
			return err
		}
		printDescriptor(panel)
		return nil
	},
}

var managePauseCmd = &cobra.Command{
	Use:   "pause <token-address>",
	Short: "Pause all transfers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, err := loadedPanel(args[0])
		if err != nil {
			return err
		}
		task, err := panel.Pause()
		if err != nil {
			return err
		}
		return awaitTask(panel, task)
	},
}

var manageUnpauseCmd = &cobra.Command{
	Use:   "unpause <token-address>",
	Short: "Resume transfers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, err := loadedPanel(args[0])
		if err != nil {
			return err
		}
		task, err := panel.Unpause()
		if err != nil {
			return err
		}
		return awaitTask(panel, task)
	},
}

// listCommand builds the add/remove/show command family shared by the
// whitelist and blacklist.
func listCommand(kind token.ListKind) *cobra.Command {
	name := string(kind)

	parent := &cobra.Command{
		Use:   name,
		Short: "Manage the " + name,
	}

	parent.AddCommand(&cobra.Command{
		Use:   "add <token-address> <account>",
		Short: "Add an account to the " + name,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			panel, err := loadedPanel(args[0])
			if err != nil {
				return err
			}
			task, err := panel.AddToList(kind, args[1])
			if err != nil {
				return err
			}
			if err := awaitTask(panel, task); err != nil {
				return err
			}
			printLists(panel)
			return nil
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "remove <token-address> <account>",
		Short: "Remove an account from the " + name,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			panel, err := loadedPanel(args[0])
			if err != nil {
				return err
			}
			task, err := panel.RemoveFromList(kind, args[1])
			if err != nil {
				return err
			}
			if err := awaitTask(panel, task); err != nil {
				return err
			}
			printLists(panel)
			return nil
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "check <token-address> <account>",
		Short: "Check whether an account is on the " + name,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nc, err := activeNetwork()
			if err != nil {
				return err
			}
			reader := token.NewReader(contract.NewCallerFromEntries(nc.RPCURL, contract.CustomTokenABI))
			member, err := reader.IsMember(args[0], kind, args[1])
			if err != nil {
				return err
			}
			if member {
				fmt.Println(ui.Success(args[1] + " is on the " + name))
			} else {
				fmt.Println(ui.Meta(args[1] + " is not on the " + name))
			}
			return nil
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "show <token-address>",
		Short: "Show the current " + name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			panel, err := loadedPanel(args[0])
			if err != nil {
				return err
			}
			printLists(panel)
			return nil
		},
	})

	if kind == token.ListWhitelist {
		parent.AddCommand(&cobra.Command{
			Use:   "enable <token-address>",
			Short: "Enforce the whitelist on transfers",
			Args:  cobra.ExactArgs(1),
			RunE:  setWhitelistEnabled(true),
		}, &cobra.Command{
			Use:   "disable <token-address>",
			Short: "Stop enforcing the whitelist",
			Args:  cobra.ExactArgs(1),
			RunE:  setWhitelistEnabled(false),
		})
	}

	return parent
}

func setWhitelistEnabled(enabled bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		panel, err := loadedPanel(args[0])
		if err != nil {
			return err
		}
		task, err := panel.SetWhitelistEnabled(enabled)
		if err != nil {
			return err
		}
		return awaitTask(panel, task)
	}
}

var manageRenounceCmd = &cobra.Command{
	Use:   "renounce <token-address>",
	Short: "Permanently give up ownership of the token",
	Long: `Renounce ownership of the token. After this no account can mint,
pause, or manage lists ever again. This cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, err := loadedPanel(args[0])
		if err != nil {
			return err
		}
		if !ui.ConfirmDanger("Renounce ownership forever? All admin operations will be lost.") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		task, err := panel.RenounceOwnership()
		if err != nil {
			return err
		}
		return awaitTask(panel, task)
	},
}

func init() {
	manageInfoCmd.Flags().BoolVar(&manageCreatedFlag, "created", false, "show the post-creation banner")
	manageCmd.AddCommand(
		manageInfoCmd,
		manageMintCmd,
		manageBurnCmd,
		managePauseCmd,
		manageUnpauseCmd,
		listCommand(token.ListWhitelist),
		listCommand(token.ListBlacklist),
		manageRenounceCmd,
	)
}
