// ratectl runs rate engine operations from a shell.
//
// Usage:
//
//	ratectl recalculate --hotel h1 --from 2025-09-01 --to 2025-09-30
//	ratectl preview --hotel h1 --from 2025-09-01 --to 2025-09-07 --average-mode occupancy
//	ratectl hash --hotel h1 --product std --rate-plan bar --date 2025-09-01 --rate 110
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"roomrates/internal/app/commands"
	"roomrates/internal/app/dto"
	ratesapp "roomrates/internal/app/handlers/rates"
	"roomrates/internal/app/queries"
	"roomrates/internal/domain/syncstate"
	"roomrates/internal/infra/bootstrap"
	"roomrates/internal/infra/config"
	"roomrates/internal/infra/obs"
)

var version = "dev"

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "ratectl",
		Usage:   "Recalculate, preview and inspect hotel room rates",
		Version: version,
		Writer:  out,
		Commands: []*cli.Command{
			recalculateCommand(),
			previewCommand(),
			hashCommand(),
		},
	}
}

func windowFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "hotel", Usage: "Hotel id", Required: true},
		&cli.StringFlag{Name: "from", Usage: "First stay date (YYYY-MM-DD)", Required: true},
		&cli.StringFlag{Name: "to", Usage: "Last stay date (YYYY-MM-DD)", Required: true},
		&cli.StringSliceFlag{Name: "product", Aliases: []string{"p"}, Usage: "Restrict to room product ids"},
	}
}

func recalculateCommand() *cli.Command {
	return &cli.Command{
		Name:  "recalculate",
		Usage: "Compute rates for a window and push what changed",
		Flags: append(windowFlags(),
			&cli.BoolFlag{Name: "force", Usage: "Push rows equal to the published price too"},
		),
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, app *bootstrap.App) error {
				summary, err := commands.Dispatch[ratesapp.RecalculateRatesCommand, dto.RunSummary](ctx, app.Commands, ratesapp.RecalculateRatesCommand{
					HotelID:        c.String("hotel"),
					From:           c.String("from"),
					To:             c.String("to"),
					RoomProductIDs: c.StringSlice("product"),
					Force:          c.Bool("force"),
				})
				if err != nil {
					return err
				}
				return writeJSON(c.App.Writer, summary)
			})
		},
	}
}

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:  "preview",
		Usage: "Compute rates without publishing them",
		Flags: append(windowFlags(),
			&cli.StringFlag{Name: "average-mode", Usage: "Override average mode (midpoint, occupancy)"},
			&cli.StringFlag{Name: "rounding-mode", Usage: "Override rounding mode"},
			&cli.BoolFlag{Name: "all", Usage: "Include rows equal to the published price"},
		),
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, app *bootstrap.App) error {
				preview, err := queries.Ask[ratesapp.PreviewRatesQuery, dto.Preview](ctx, app.Queries, ratesapp.PreviewRatesQuery{
					HotelID:          c.String("hotel"),
					From:             c.String("from"),
					To:               c.String("to"),
					RoomProductIDs:   c.StringSlice("product"),
					AverageMode:      c.String("average-mode"),
					RoundingMode:     c.String("rounding-mode"),
					IncludeUnchanged: c.Bool("all"),
				})
				if err != nil {
					return err
				}
				return writeJSON(c.App.Writer, preview)
			})
		},
	}
}

func hashCommand() *cli.Command {
	return &cli.Command{
		Name:  "hash",
		Usage: "Print the change-detection key and digest of a rate row",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "hotel", Required: true},
			&cli.StringFlag{Name: "product", Required: true},
			&cli.StringFlag{Name: "rate-plan", Required: true},
			&cli.StringFlag{Name: "date", Required: true},
			&cli.StringFlag{Name: "rate", Usage: "Accommodation rate", Required: true},
			&cli.StringFlag{Name: "net", Usage: "Net price (defaults to rate)"},
			&cli.StringFlag{Name: "gross", Usage: "Gross price (defaults to rate)"},
			&cli.StringFlag{Name: "tax", Value: "0", Usage: "Total tax amount"},
		},
		Action: runHash,
	}
}

func runHash(c *cli.Context) error {
	amount := func(name, fallback string) (decimal.Decimal, error) {
		raw := c.String(name)
		if raw == "" {
			raw = fallback
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("--%s: %w", name, err)
		}
		return d, nil
	}
	rate, err := amount("rate", "")
	if err != nil {
		return err
	}
	net, err := amount("net", c.String("rate"))
	if err != nil {
		return err
	}
	gross, err := amount("gross", c.String("rate"))
	if err != nil {
		return err
	}
	tax, err := amount("tax", "0")
	if err != nil {
		return err
	}
	item, err := syncstate.NewItem(syncstate.Rate{
		HotelID:           c.String("hotel"),
		RoomProductID:     c.String("product"),
		RatePlanID:        c.String("rate-plan"),
		Date:              c.String("date"),
		AccommodationRate: rate,
		NetPrice:          net,
		GrossPrice:        gross,
		TotalTaxAmount:    tax,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "%s\t%s\n", item.Key, item.Digest)
	return err
}

func withApp(c *cli.Context, fn func(context.Context, *bootstrap.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := obs.NewLogger(cfg.Env)
	app, err := bootstrap.Build(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close(context.Background())
	return fn(c.Context, app)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
