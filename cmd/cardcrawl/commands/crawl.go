package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gatherer-crawler/internal/card"
	"gatherer-crawler/internal/components/chrono"
	"gatherer-crawler/internal/components/telemetry"
	"gatherer-crawler/internal/crawler"
	"gatherer-crawler/internal/gatherer"
	"gatherer-crawler/internal/pagecache"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var asJson *bool

func init() {
	asJson = crawlCmd.Flags().Bool("json", false, "Print the card as json instead of a table.")
	rootCmd.AddCommand(crawlCmd)
}

// newCrawler builds a crawler against gatherer, the returned function closes
// the cache if one was opened.
func newCrawler(cfg Config, tel telemetry.API) (crawler.Crawler, func(), error) {
	client, err := gatherer.NewClient(cfg.Gatherer, tel)
	if err != nil {
		return crawler.Crawler{}, nil, err
	}

	var search crawler.Searcher = client
	var fetch crawler.Fetcher = client
	closer := func() {}

	if cfg.Cache != "" {
		cache, err := pagecache.Open(cfg.Cache, cfg.cacheTtl(), chrono.StandardImpl{}, tel)
		if err != nil {
			return crawler.Crawler{}, nil, fmt.Errorf("open cache: %w", err)
		}
		search = cache.Searcher(client)
		fetch = cache.Fetcher(client)
		closer = func() { cache.Close() }
	}

	c, err := crawler.New(crawler.Config{BaseUrl: cfg.Gatherer.BaseUrl}, search, fetch, tel)
	if err != nil {
		closer()
		return crawler.Crawler{}, nil, err
	}
	return c, closer, nil
}

var crawlCmd = &cobra.Command{
	Use:   "crawl <card name> [--json]",
	Short: "Looks up a single card by name and prints it.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			fatal("failed to read config", err)
		}

		c, closer, err := newCrawler(cfg, telemetry.SlogAPI{})
		if err != nil {
			fatal("failed to initialize crawler", err)
		}
		defer closer()

		result, err := crawl(cmd.Context(), c, strings.Join(args, " "))
		if err != nil {
			fatal("failed to crawl card", err)
		}

		if *asJson {
			err = renderJson(os.Stdout, result)
			if err != nil {
				fatal("failed to encode card", err)
			}
			return
		}
		renderCard(os.Stdout, result)
	},
}

func crawl(ctx context.Context, c crawler.Crawler, name string) (card.Card, error) {
	return c.Crawl(ctx, crawler.Options{Name: name})
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func renderCard(out io.Writer, c card.Card) {
	t := newTable(out)
	t.SetTitle(c.Name)
	appendField := func(name, value string) {
		if value == "" {
			return
		}
		t.AppendRow(table.Row{name, value})
	}

	appendField("Cost", c.Cost)
	appendField("Converted Mana Cost", c.ConvertedManaCost)
	appendField("Types", c.Types)
	appendField("Text", c.Text)
	appendField("Flavor Text", c.FlavorText)
	if c.Pow != "" || c.Tgh != "" {
		appendField("P/T", fmt.Sprintf("%s / %s", c.Pow, c.Tgh))
	}
	appendField("Loyalty", c.Loyalty)
	appendField("Set", c.Set)
	appendField("Rarity", string(c.Rarity))
	appendField("Number", c.Number)
	appendField("Artist", c.Artist)
	appendField("Multiverse ID", c.MultiverseID)
	appendField("Image", c.ImageURI)
	t.Render()

	if len(c.Sets) == 0 {
		return
	}
	printings := newTable(out)
	printings.AppendHeader(table.Row{"Set", "Code", "Rarity"})
	for _, p := range c.Sets {
		printings.AppendRow(table.Row{p.Name, p.Code, string(p.Rarity)})
	}
	printings.Render()
}

func renderJson(out io.Writer, c card.Card) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(c)
}
