package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/aliveevie/invoice-flow-btc/invoice"
	"github.com/aliveevie/invoice-flow-btc/qrcode"
	"github.com/aliveevie/invoice-flow-btc/sharelink"
)

// quietLogger drops everything below warn so command output stays clean.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// =============================================================================
// CREATE
// =============================================================================

func (a *app) createCommand() *cobra.Command {
	var address, amount, description, priceFlag string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an invoice",
		Example: `  invoiceflow create --address 1BoatSLRHtKNngkdXEeobR76b53LETtpyT \
      --amount 0.0015 --description "Design work"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			price, err := a.resolvePrice(cmd.Context(), priceFlag)
			if err != nil {
				return err
			}

			factory := invoice.NewFactory()
			inv, err := factory.Create(invoice.Draft{
				RecipientAddress: address,
				AmountBTC:        amount,
				Description:      description,
			}, price)
			if err != nil {
				return err
			}

			if err := a.gateway.Add(cmd.Context(), inv); err != nil {
				return fmt.Errorf("failed to save invoice: %w", err)
			}

			printInvoice(cmd.OutOrStdout(), inv)
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "recipient BTC address")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in BTC (up to 8 decimals)")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	cmd.Flags().StringVar(&priceFlag, "price", "", "BTC/USD rate override (skips the price providers)")
	cmd.MarkFlagRequired("address")
	cmd.MarkFlagRequired("amount")
	return cmd
}

// resolvePrice uses the --price override when given, otherwise asks the
// provider chain.
func (a *app) resolvePrice(ctx context.Context, override string) (invoice.PriceSnapshot, error) {
	if override != "" {
		rate, err := decimal.NewFromString(override)
		if err != nil || !rate.IsPositive() {
			return invoice.PriceSnapshot{}, fmt.Errorf("invalid --price %q", override)
		}
		return invoice.PriceSnapshot{USD: rate, LastUpdated: time.Now()}, nil
	}
	return a.prices().FetchPrice(ctx)
}

// =============================================================================
// LIST / SHOW
// =============================================================================

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the invoice history, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			invoices := a.gateway.Load(cmd.Context())
			if len(invoices) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no invoices")
				return nil
			}
			printInvoiceTable(cmd.OutOrStdout(), invoices)
			return nil
		},
	}
}

func (a *app) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one invoice with its payment URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, ok := a.gateway.Get(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("invoice %s not found", args[0])
			}
			printInvoice(cmd.OutOrStdout(), inv)
			return nil
		},
	}
}

// =============================================================================
// LINK / DECODE
// =============================================================================

func (a *app) linkCommand() *cobra.Command {
	var origin string

	cmd := &cobra.Command{
		Use:   "link <id>",
		Short: "Print the share token and link for an invoice",
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, ok := a.gateway.Get(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("invoice %s not found", args[0])
			}

			token := sharelink.Encode(inv)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "token:   ", token)
			fmt.Fprintln(out, "pay path:", sharelink.BuildPayPath(token))
			if origin != "" {
				fmt.Fprintln(out, "link:    ", sharelink.BuildShareLink(origin, token))
			}
			return nil
		},
		Args: cobra.ExactArgs(1),
	}

	cmd.Flags().StringVar(&origin, "origin", "", "origin for the full share link (e.g. https://pay.example.com)")
	return cmd
}

func (a *app) decodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token-or-fragment>",
		Short: "Decode a share token or a full \"#/pay?data=...\" fragment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := args[0]
			if extracted, ok := sharelink.ExtractToken(token); ok {
				token = extracted
			}

			inv, ok := sharelink.Decode(token)
			if !ok {
				return fmt.Errorf("input does not decode to an invoice")
			}
			printInvoice(cmd.OutOrStdout(), inv)
			return nil
		},
	}
}

// =============================================================================
// CHECK / QR / CLEAR
// =============================================================================

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <id>",
		Short: "Check a pending invoice against the live balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, ok := a.gateway.Get(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("invoice %s not found", args[0])
			}

			updated, err := a.reconciler().Check(cmd.Context(), inv)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if updated.Status == invoice.StatusPaid {
				fmt.Fprintf(out, "invoice %s is %s\n", updated.ID, renderStatus(updated.Status))
			} else {
				fmt.Fprintf(out, "invoice %s is still %s\n", updated.ID, renderStatus(updated.Status))
			}
			return nil
		},
	}
}

func (a *app) qrCommand() *cobra.Command {
	var output string
	var size int

	cmd := &cobra.Command{
		Use:   "qr <id>",
		Short: "Write the payment URI QR code to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, ok := a.gateway.Get(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("invoice %s not found", args[0])
			}

			img, err := qrcode.PNG(inv.PaymentURI(), size)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, img, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(img))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "invoice.png", "output PNG path")
	cmd.Flags().IntVar(&size, "size", qrcode.DefaultSize, "image size in pixels")
	return cmd
}

func (a *app) clearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the whole invoice history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			if err := a.gateway.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "invoice history cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func printInvoice(out io.Writer, inv invoice.Invoice) {
	created := time.UnixMilli(inv.CreatedAt).Local().Format(time.RFC1123)
	fmt.Fprintln(out, "id:         ", inv.ID)
	fmt.Fprintln(out, "address:    ", inv.RecipientAddress)
	fmt.Fprintln(out, "amount:     ", inv.AmountBTC, "BTC", "($"+inv.AmountUSD+")")
	if inv.Description != "" {
		fmt.Fprintln(out, "description:", inv.Description)
	}
	fmt.Fprintln(out, "created:    ", created)
	fmt.Fprintln(out, "status:     ", renderStatus(inv.Status))
	fmt.Fprintln(out, "payment uri:", inv.PaymentURI())
}
