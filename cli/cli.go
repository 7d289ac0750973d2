/*
Package cli implements the invoiceflow command tree.

PURPOSE:
  A terminal rendition of the invoice flow: create a payment request,
  list the history, project an invoice into a share link or QR code,
  decode a received token, and check settlement against the live chain.

COMMANDS:
  create   Create an invoice from an address, amount, and description
  list     Show the invoice history (newest first)
  show     Show one invoice with its payment URI
  link     Print the share token / pay path / full link
  decode   Decode a share token or a full "#/pay?data=..." fragment
  check    Check a pending invoice against the live balance
  qr       Write the payment URI QR code to a PNG file
  clear    Delete the whole invoice history
  version  Print the build version

STORAGE:
  Commands share the server's config file and store: the same file or
  SQLite slot the API serves is what the CLI reads and writes.
*/
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aliveevie/invoice-flow-btc/config"
	"github.com/aliveevie/invoice-flow-btc/provider"
	"github.com/aliveevie/invoice-flow-btc/reconcile"
	"github.com/aliveevie/invoice-flow-btc/store"
	"github.com/aliveevie/invoice-flow-btc/store/sqlite"
)

// Build information (set by the release pipeline)
var Version = "dev"

type app struct {
	configPath string
	storePath  string

	cfg     config.Config
	gateway *store.Gateway
	closer  func() error
}

// New builds the root command.
func New() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "invoiceflow",
		Short: "Create, share, and reconcile BTC payment requests",
		Long: `Invoiceflow manages BTC payment requests from the terminal: create an
invoice, share it as a self-contained link or QR code, and check it
against the observed on-chain balance.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" || cmd.Name() == "decode" {
				return nil
			}
			return a.open()
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "invoiceflow.yaml", "YAML config path")
	root.PersistentFlags().StringVar(&a.storePath, "store", "", "store path (overrides config; .db selects SQLite)")

	root.AddCommand(
		a.createCommand(),
		a.listCommand(),
		a.showCommand(),
		a.linkCommand(),
		a.decodeCommand(),
		a.checkCommand(),
		a.qrCommand(),
		a.clearCommand(),
		versionCommand(),
	)
	return root
}

// open loads config and wires the store gateway.
func (a *app) open() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.storePath != "" {
		cfg.Store.Path = a.storePath
		cfg.Store.Driver = "file"
		if strings.HasSuffix(a.storePath, ".db") {
			cfg.Store.Driver = "sqlite"
		}
	}
	a.cfg = cfg

	var medium store.Medium
	switch cfg.Store.Driver {
	case "sqlite":
		db, err := sqlite.New(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		a.closer = db.Close
		medium = db
	default:
		medium = store.NewFile(cfg.Store.Path)
	}
	a.gateway = store.NewGateway(medium, quietLogger())
	return nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer()
	a.closer = nil
	return err
}

func (a *app) prices() provider.PriceSource {
	primary := provider.NewBlockchainInfo()
	primary.BaseURL = a.cfg.Providers.PricePrimaryURL
	primary.Client.Timeout = a.cfg.Providers.PriceTimeout.Std()

	fallback := provider.NewCoinbase()
	fallback.BaseURL = a.cfg.Providers.PriceFallbackURL
	fallback.Client.Timeout = a.cfg.Providers.PriceTimeout.Std()

	return &provider.Chain{Sources: []provider.PriceSource{primary, fallback}}
}

func (a *app) reconciler() *reconcile.Reconciler {
	balances := provider.NewBlockchair()
	balances.BaseURL = a.cfg.Providers.BalanceURL
	balances.Client.Timeout = a.cfg.Providers.BalanceTimeout.Std()
	return reconcile.New(balances, a.gateway, quietLogger())
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "invoiceflow", Version)
		},
	}
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := New().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
