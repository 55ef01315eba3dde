package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/investifai/investif/internal/chart"
	"github.com/investifai/investif/internal/config"
	"github.com/investifai/investif/internal/database"
	"github.com/investifai/investif/internal/gateway"
	"github.com/investifai/investif/internal/logging"
	"github.com/investifai/investif/internal/model"
	"github.com/investifai/investif/internal/seriescache"
	"github.com/investifai/investif/internal/service"
	"github.com/investifai/investif/internal/summarizer"
)

var commands = []subcommands.Command{
	&migrateCmd{},
	&chartCmd{},
	&moversCmd{},
	&summaryCmd{},
}

// loadConfig reads the server configuration; the CLI shares its keys.
func loadConfig() (*config.Config, bool) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, false
	}
	return cfg, true
}

func newGateway(cfg *config.Config) *gateway.Client {
	return gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.Timeout, logging.New(cfg.LogLevel))
}

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending database migrations" }
func (*migrateCmd) Usage() string {
	return `investctl migrate

  Opens the database named by DB_PATH and applies every pending migration.
`
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, ok := loadConfig()
	if !ok {
		return subcommands.ExitFailure
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	v, err := database.SchemaVersion(db)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s migrated to version %d\n", cfg.Database.Path, v)
	return subcommands.ExitSuccess
}

type chartCmd struct {
	rng string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "print the windowed price series of tickers" }
func (*chartCmd) Usage() string {
	return `investctl chart [-range <range>] <ticker>...

  Fetches each ticker's series and prints the chart window as a table, one
  row per label of the first ticker.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rng, "range", string(chart.DefaultRange), "Time range (5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, max).")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one ticker is required")
		return subcommands.ExitUsageError
	}
	rng, err := chart.ParseTimeRange(c.rng)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	cfg, ok := loadConfig()
	if !ok {
		return subcommands.ExitFailure
	}

	gw := newGateway(cfg)
	series := make(map[string]model.PriceSeries)
	var selection []model.Selection
	for _, arg := range f.Args() {
		ticker := strings.ToUpper(arg)
		s, err := gw.FetchSeries(ctx, ticker)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", ticker, err)
			continue
		}
		series[ticker] = s
		selection = append(selection, model.Selection{Ticker: ticker, Active: true})
	}

	payload := chart.Window(series, selection, rng)
	if len(payload.Labels) == 0 {
		fmt.Fprintln(os.Stderr, "no data")
		return subcommands.ExitFailure
	}
	printPayload(payload)
	return subcommands.ExitSuccess
}

func printPayload(p model.ChartPayload) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	defer w.Flush()

	fmt.Fprint(w, "date\t")
	for _, ds := range p.Datasets {
		fmt.Fprintf(w, "%s\t", ds.Ticker)
	}
	fmt.Fprintln(w)
	for i, label := range p.Labels {
		fmt.Fprintf(w, "%s\t", label)
		for _, ds := range p.Datasets {
			if i < len(ds.Points) {
				fmt.Fprintf(w, "%.2f\t", ds.Points[i])
			} else {
				fmt.Fprint(w, "\t")
			}
		}
		fmt.Fprintln(w)
	}
}

type moversCmd struct{}

func (*moversCmd) Name() string     { return "movers" }
func (*moversCmd) Synopsis() string { return "print today's top movers" }
func (*moversCmd) Usage() string {
	return `investctl movers

  Prints the five tickers with the largest absolute change across the most
  active, top gainers and top losers lists.
`
}
func (*moversCmd) SetFlags(*flag.FlagSet) {}

func (*moversCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, ok := loadConfig()
	if !ok {
		return subcommands.ExitFailure
	}
	gw := newGateway(cfg)
	logger := logging.New(cfg.LogLevel)
	movers := service.NewMoversService(gw, seriescache.New("movers", gw.ChartSeries, 0, logger), logger)

	list, err := movers.Refresh(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "ticker\tprice\tchange\tname")
	for _, m := range list {
		fmt.Fprintf(w, "%s\t%.2f\t%+.2f%%\t%s\n", m.Ticker, m.Price, m.ChangePercent, m.Name)
	}
	return subcommands.ExitSuccess
}

type summaryCmd struct {
	raw bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "ask for a news summary about tickers" }
func (*summaryCmd) Usage() string {
	return `investctl summary [-raw] <ticker>...

  Sends the portfolio news prompt for the given tickers and renders the
  markdown answer for the terminal.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print the markdown without rendering it.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, ok := loadConfig()
	if !ok {
		return subcommands.ExitFailure
	}
	logger := logging.New(cfg.LogLevel)

	var backend service.Summarizer = summarizer.NewGateway(newGateway(cfg))
	if cfg.Gemini.APIKey != "" {
		gem, err := summarizer.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		backend = gem
	}

	tickers := make([]string, 0, f.NArg())
	for _, arg := range f.Args() {
		tickers = append(tickers, strings.ToUpper(arg))
	}
	summary := service.NewSummaryService(backend, logger).Summarize(ctx, tickers)

	if c.raw {
		fmt.Println(summary.Markdown)
		return subcommands.ExitSuccess
	}
	out, err := glamour.Render(summary.Markdown, "dark")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}
