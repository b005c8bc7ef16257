package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tokenforge/tokenforge/internal/chain"
	"github.com/tokenforge/tokenforge/internal/config"
	"github.com/tokenforge/tokenforge/internal/contract"
	"github.com/tokenforge/tokenforge/internal/token"
	"github.com/tokenforge/tokenforge/internal/ui"
	"github.com/tokenforge/tokenforge/internal/wizard"
)

var (
	createName     string
	createSymbol   string
	createSupply   string
	createMintable bool
	createBurnable bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new token through the factory",
	Long: `Deploy a new ERC-20 token through the configured factory contract.

Without flags an interactive wizard collects the details. With --name,
--symbol and --supply the token is created directly:

  tokenforge create --name "Forge Coin" --symbol FRG --supply 1000 --mintable`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		nc, err := activeNetwork()
		if err != nil {
			return err
		}
		depCfg, err := deployConfig(nc)
		if err != nil {
			return err
		}
		w, err := resolveSigningWallet()
		if err != nil {
			return err
		}

		client := newEVMClient(nc)
		sender := newSender(nc, w, contract.FactoryABI)

		snapshot := func() (wizard.Snapshot, error) {
			return buildSnapshot(client, depCfg.FactoryAddress, w.Address)
		}

		submit := func(form wizard.Form, scaledSupply string) (string, error) {
			return createToken(depCfg, client, sender, form, scaledSupply, token.NewNoteRecorder())
		}

		if createName != "" || createSymbol != "" || createSupply != "" {
			return createDirect(nc, depCfg, client, sender, snapshot)
		}

		machine, err := wizard.Run(depCfg, snapshot, submit)
		if err != nil {
			return err
		}
		if !machine.Done() {
			fmt.Println(ui.Meta("Token creation cancelled."))
			return nil
		}

		trackCreated(machine.Form(), machine.CreatedAddress())
		printCreated(machine.CreatedAddress())
		return nil
	},
}

// snapshotClient covers the two precondition reads. chain.EVMClient
// satisfies it.
type snapshotClient interface {
	HasCode(address string) (bool, error)
	GetBalance(address string) (*chain.Balance, error)
}

// buildSnapshot takes the just-in-time precondition reads for the
// wizard gates. Both reads must succeed; a failed balance read is an
// error, not a zero balance.
func buildSnapshot(client snapshotClient, factoryAddr, account string) (wizard.Snapshot, error) {
	hasCode, err := client.HasCode(factoryAddr)
	if err != nil {
		return wizard.Snapshot{}, fmt.Errorf("checking factory bytecode: %w", err)
	}
	bal, err := client.GetBalance(account)
	if err != nil {
		return wizard.Snapshot{}, fmt.Errorf("reading balance: %w", err)
	}
	return wizard.Snapshot{FactoryHasCode: hasCode, BalanceWei: bal.Wei}, nil
}

// createDirect is the non-interactive path: same machine, same gates,
// no TUI. Progress is reported through the terminal notifier instead.
func createDirect(nc config.NetworkConfig, depCfg token.Config, client *chain.EVMClient, sender *contract.Sender, snapshot wizard.SnapshotFunc) error {
	machine := wizard.NewMachine(depCfg)
	machine.SetForm(wizard.Form{
		Name:     createName,
		Symbol:   createSymbol,
		Supply:   createSupply,
		Mintable: createMintable,
		Burnable: createBurnable,
	})
	if err := machine.Next(); err != nil {
		return err
	}

	snap, err := snapshot()
	if err != nil {
		return fmt.Errorf("checking preconditions: %w", err)
	}
	if err := machine.BeginSubmit(snap); err != nil {
		return errors.New(machine.ErrorMessage())
	}

	addr, err := createToken(depCfg, client, sender, machine.Form(), machine.ScaledSupply(), ui.NewTerminalNotifier())
	if err != nil {
		machine.Fail(err.Error())
		return err
	}
	machine.Complete(addr) //nolint:errcheck

	trackCreated(machine.Form(), addr)
	printCreated(addr)
	return nil
}

// createToken runs the creation write through the lifecycle controller
// and decodes the new token's address from the receipt logs.
func createToken(depCfg token.Config, waiter token.ReceiptWaiter, sender *contract.Sender, form wizard.Form, scaledSupply string, notify token.Notifier) (string, error) {
	ctrl := token.NewController(depCfg, waiter, notify)

	task, err := ctrl.Submit(token.KindCreateToken, func() (string, error) {
		return sender.SendWithValue(
			depCfg.FactoryAddress, "createToken", depCfg.CreationFeeWei,
			form.Name, form.Symbol, scaledSupply,
			boolArg(form.Mintable), boolArg(form.Burnable),
		)
	})
	if err != nil {
		return "", err
	}

	<-task.Done()
	if task.State() != token.StateConfirmed {
		if err := task.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("token creation %s", task.State())
	}

	addr, err := token.ExtractCreatedAddress(task.Receipt().Logs, token.TokenCreatedTopic)
	if err != nil {
		if errors.Is(err, token.ErrEventNotFound) {
			return "", fmt.Errorf("transaction %s confirmed but no creation event was emitted", task.Hash())
		}
		return "", err
	}
	return addr, nil
}

func boolArg(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// trackCreated records the new token in tokens.json so manage commands
// can find it later. Best effort; the token exists on chain regardless.
func trackCreated(form wizard.Form, addr string) {
	networkName := networkFlag
	if networkName == "" {
		networkName = cfg.DefaultNetwork
	}
	err := cfg.TrackToken(config.TrackedToken{
		Address: addr,
		Name:    form.Name,
		Symbol:  form.Symbol,
		Network: networkName,
	})
	if err != nil {
		fmt.Println(ui.Warn("Could not record token locally: " + err.Error()))
	}
}

// printCreated renders the post-creation notifications with a short
// stagger between them. The pacing is cosmetic.
func printCreated(addr string) {
	fmt.Println()
	fmt.Println(ui.Success("Token deployed at " + addr))
	time.Sleep(600 * time.Millisecond)
	fmt.Println(ui.Success("Recorded locally, see `tokenforge tokens`"))
	time.Sleep(600 * time.Millisecond)
	ui.Hint("Inspect it:    tokenforge manage info " + addr + " --created")
	ui.Hint("Mint supply:   tokenforge manage mint " + addr + " <amount>")
	fmt.Println()
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "token name (skips the wizard)")
	createCmd.Flags().StringVar(&createSymbol, "symbol", "", "token symbol")
	createCmd.Flags().StringVar(&createSupply, "supply", "", "initial supply in whole tokens")
	createCmd.Flags().BoolVar(&createMintable, "mintable", false, "owner can mint additional supply")
	createCmd.Flags().BoolVar(&createBurnable, "burnable", false, "holders can burn their tokens")
}
