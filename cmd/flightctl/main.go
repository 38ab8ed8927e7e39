// flightctl runs flight searches and price calendars against the mock
// providers from the command line.
//
// Usage:
//
//	flightctl search --from BLR --to DEL --date 2024-07-10 [--nonstop] [--sort cheapest]
//	flightctl calendar --route BLR-DEL --start 2024-07-01 --end 2024-07-31
//	flightctl filters
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/dharmasatrya/flightfinder/internal/aggregator"
	"github.com/dharmasatrya/flightfinder/internal/filter"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/pricecalendar"
	"github.com/dharmasatrya/flightfinder/internal/providers"
	"github.com/dharmasatrya/flightfinder/internal/ranking"
	"github.com/dharmasatrya/flightfinder/internal/storage"
	"github.com/dharmasatrya/flightfinder/pkg/currency"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "flightctl",
		Usage:  "Search, filter and rank mock flight itineraries",
		Writer: out,
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "Seed for the mock generators (0 = random)",
				EnvVars: []string{"MOCK_SEED"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			searchCommand(),
			calendarCommand(),
			filtersCommand(),
		},
	}
}

func logger(c *cli.Context) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.String("log-level"))
	if err != nil {
		level = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// =============================================================================
// SEARCH COMMAND
// =============================================================================

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search all providers, then filter and rank the results",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Aliases: []string{"o"}, Usage: "Origin airport code", Required: true},
			&cli.StringFlag{Name: "to", Aliases: []string{"d"}, Usage: "Destination airport code", Required: true},
			&cli.StringFlag{Name: "date", Usage: "Departure date (YYYY-MM-DD)", Required: true},
			&cli.StringFlag{Name: "return", Usage: "Return date (YYYY-MM-DD) for a round trip"},
			&cli.IntFlag{Name: "adults", Value: 1, Usage: "Adult passengers"},
			&cli.StringFlag{Name: "cabin", Value: "economy", Usage: "Cabin class"},
			&cli.StringFlag{Name: "sort", Value: string(ranking.SortBest), Usage: "Sort mode (best, cheapest)"},
			&cli.BoolFlag{Name: "nonstop", Usage: "Only nonstop itineraries"},
			&cli.BoolFlag{Name: "one-stop", Usage: "Include one-stop itineraries"},
			&cli.BoolFlag{Name: "two-plus", Usage: "Include itineraries with two or more stops"},
			&cli.StringSliceFlag{Name: "airline", Usage: "Carrier id to keep (repeatable)"},
			&cli.Float64Flag{Name: "max-price", Value: filter.DefaultPriceMax, Usage: "Upper price bound"},
			&cli.Float64Flag{Name: "max-hours", Value: filter.DefaultDurationMax, Usage: "Upper outbound duration in hours"},
			&cli.BoolFlag{Name: "json", Usage: "Print results as JSON"},
		},
		Action: runSearch,
	}
}

func runSearch(c *cli.Context) error {
	req := models.SearchRequest{
		Origin:        c.String("from"),
		Destination:   c.String("to"),
		DepartureDate: c.String("date"),
		Adults:        c.Int("adults"),
		CabinClass:    c.String("cabin"),
		SortBy:        c.String("sort"),
	}
	if ret := c.String("return"); ret != "" {
		req.ReturnDate = &ret
	}
	if err := req.Validate(); err != nil {
		return err
	}

	mockCfg := providers.MockConfig{Seed: c.Int64("seed")}
	list, err := providers.DefaultProviders(mockCfg)
	if err != nil {
		return err
	}

	aggCfg := aggregator.DefaultConfig()
	aggCfg.Logger = logger(c)
	result, err := aggregator.NewAggregator(list, aggCfg).Search(context.Background(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fs := searchFilters(c)
	itineraries := filter.ApplyAndSort(result.Itineraries, fs, ranking.ParseSortMode(req.SortBy))

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(itineraries)
	}

	fmt.Fprintf(c.App.Writer, "%d of %d itineraries (%d filters active, %d/%d providers)\n\n",
		len(itineraries), len(result.Itineraries), filter.ActiveCount(fs),
		result.ProvidersSucceeded, result.ProvidersQueried)
	printItineraries(c.App.Writer, itineraries)
	return nil
}

// searchFilters starts from the defaults and narrows them with flags.
func searchFilters(c *cli.Context) models.FilterState {
	fs := filter.Defaults()

	fs.Stops.Set(models.StopNonstop, c.Bool("nonstop"))
	fs.Stops.Set(models.StopOneStop, c.Bool("one-stop"))
	fs.Stops.Set(models.StopTwoPlus, c.Bool("two-plus"))

	for _, id := range c.StringSlice("airline") {
		fs.Airlines[strings.ToUpper(id)] = true
	}

	fs.PriceRange = &models.Range{0, c.Float64("max-price")}
	fs.Duration = &models.Range{0, c.Float64("max-hours")}
	return fs
}

func printItineraries(out io.Writer, itineraries []models.Itinerary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAIRLINE\tDEPART\tARRIVE\tSTOPS\tDURATION\tPRICE\tSCORE")
	for _, it := range itineraries {
		leg, ok := it.FirstLeg()
		if !ok {
			continue
		}
		airline := ""
		if len(leg.Carriers.Marketing) > 0 {
			airline = leg.Carriers.Marketing[0].Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%dh%02dm\t%s\t%.2f\n",
			it.ID,
			airline,
			leg.Departure.Format("Jan 02 15:04"),
			leg.Arrival.Format("Jan 02 15:04"),
			leg.StopCount,
			leg.DurationInMinutes/60, leg.DurationInMinutes%60,
			currency.FormatINR(it.Price.Raw),
			ranking.Score(it),
		)
	}
	w.Flush()
}

// =============================================================================
// CALENDAR COMMAND
// =============================================================================

func calendarCommand() *cli.Command {
	return &cli.Command{
		Name:  "calendar",
		Usage: "Print a day-by-day fare calendar for a route",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "route", Usage: "Route label, e.g. BLR-DEL", Required: true},
			&cli.StringFlag{Name: "start", Usage: "First day (YYYY-MM-DD)", Required: true},
			&cli.StringFlag{Name: "end", Usage: "Last day (YYYY-MM-DD)", Required: true},
			&cli.Float64Flag{Name: "base", Value: pricecalendar.DefaultBasePrice, Usage: "Base fare"},
		},
		Action: runCalendar,
	}
}

func runCalendar(c *cli.Context) error {
	cfg := pricecalendar.Config{Seed: c.Int64("seed"), BasePrice: c.Float64("base")}
	svc := pricecalendar.NewService(storage.NewMemoryStore(), logger(c), cfg)

	prices, err := svc.Prices(context.Background(), c.String("route"), c.String("start"), c.String("end"))
	if err != nil {
		return err
	}

	dates := make([]string, 0, len(prices))
	for d := range prices {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tPRICE\tCATEGORY\tAVAILABLE")
	for _, d := range dates {
		p := prices[d]
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", d, p.Formatted, p.Category, p.Available)
	}
	return w.Flush()
}

// =============================================================================
// FILTERS COMMAND
// =============================================================================

func filtersCommand() *cli.Command {
	return &cli.Command{
		Name:  "filters",
		Usage: "Print the default filter state as JSON",
		Action: func(c *cli.Context) error {
			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(filter.Defaults())
		},
	}
}
