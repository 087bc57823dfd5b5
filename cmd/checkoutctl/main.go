package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/DanielPopoola/checkout-link-gateway/internal/adapters/signer"
	"github.com/DanielPopoola/checkout-link-gateway/internal/config"
	"github.com/DanielPopoola/checkout-link-gateway/internal/core/domain"
	"github.com/DanielPopoola/checkout-link-gateway/internal/core/service"
	"github.com/urfave/cli/v2"
)

var errInvalidSignature = errors.New("signature does not match")

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "checkoutctl",
		Usage:  "Build and check signed hosted-checkout links with the gateway configuration",
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:  "link",
				Usage: "Print the checkout URL the gateway would return for an order",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "order-id", Usage: "Order identifier", Required: true},
					&cli.Float64Flag{Name: "amount", Usage: "Order amount", Required: true},
					&cli.StringFlag{Name: "redirection-url", Usage: "Where the provider sends the buyer afterwards", Required: true},
					&cli.StringFlag{Name: "description", Usage: "Order description, forwarded only if enabled in config"},
				},
				Action: linkCommand,
			},
			{
				Name:  "verify",
				Usage: "Check an integrity signature against the configured secret",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "order-id", Required: true},
					&cli.StringFlag{Name: "amount", Usage: "Amount exactly as it appears in the link", Required: true},
					&cli.StringFlag{Name: "currency", Usage: "Defaults to the configured currency"},
					&cli.StringFlag{Name: "signature", Required: true},
				},
				Action: verifyCommand,
			},
			{
				Name:  "config",
				Usage: "Configuration helpers",
				Subcommands: []*cli.Command{
					{
						Name:   "check",
						Usage:  "Load and validate configuration, exiting non-zero on failure",
						Action: configCheckCommand,
					},
				},
			},
		},
	}
}

func linkCommand(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	svc := service.NewCheckoutService(signer.NewHMACSigner(cfg.Provider), cfg.Provider)
	link, err := svc.CreateLink(context.Background(), domain.CheckoutRequest{
		OrderID:        c.String("order-id"),
		Amount:         domain.Amount(c.Float64("amount")),
		RedirectionURL: c.String("redirection-url"),
		Description:    c.String("description"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, link.URL)
	return nil
}

func verifyCommand(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	currency := c.String("currency")
	if currency == "" {
		currency = cfg.Provider.Currency
	}

	s := signer.NewHMACSigner(cfg.Provider)
	if !s.Verify(c.String("order-id"), c.String("amount"), currency, c.String("signature")) {
		return errInvalidSignature
	}

	fmt.Fprintln(c.App.Writer, "signature valid")
	return nil
}

func configCheckCommand(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	p := cfg.Provider
	fmt.Fprintf(c.App.Writer, "configuration ok: base_url=%s currency=%s render_mode=%s forward_description=%t port=%s\n",
		p.BaseURL, p.Currency, p.RenderMode, p.ForwardDescription, cfg.Server.Port)
	return nil
}
