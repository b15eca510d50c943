// Package crawler is the entry point for crawling a single card by name.
package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"gatherer-crawler/internal/card"
	"gatherer-crawler/internal/components/assert"
	"gatherer-crawler/internal/components/telemetry"
	"gatherer-crawler/internal/crawlerr"
	"gatherer-crawler/internal/parser"
	"gatherer-crawler/internal/resolver"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("gatherer-crawler/internal/crawler")
var meter = otel.Meter("gatherer-crawler/internal/crawler")

const (
	report_crawler_crawl = "crawler.crawl"
)

// Searcher is the search capability the crawler resolves names with.
type Searcher = resolver.Searcher

// Fetcher returns the raw markup behind a page reference.
//
// note: fault injection point
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Config holds the settings shared by every crawl.
type Config struct {
	// BaseUrl is the site relative links on card pages resolve against.
	BaseUrl string
}

// Options configures a single crawl.
type Options struct {
	Name string
}

type Crawler struct {
	resolver resolver.Resolver
	fetch    Fetcher
	parser   parser.Parser
	tel      telemetry.API
	crawls   metric.Int64Counter
}

func New(cfg Config, search Searcher, fetch Fetcher, tel telemetry.API) (Crawler, error) {
	assert.NotNil(search)
	assert.NotNil(fetch)
	assert.NotNil(tel)

	base, err := url.Parse(cfg.BaseUrl)
	if err != nil {
		return Crawler{}, fmt.Errorf("parse base url: %w", err)
	}
	if !base.IsAbs() {
		return Crawler{}, fmt.Errorf("base url %q is not absolute", cfg.BaseUrl)
	}

	crawls, err := meter.Int64Counter(
		"crawler.crawls",
		metric.WithDescription("Number of crawls by outcome."),
	)
	if err != nil {
		return Crawler{}, err
	}

	return Crawler{
		crawls:   crawls,
		resolver: resolver.New(search, tel),
		fetch:    fetch,
		parser:   parser.New(base, tel),
		tel:      telemetry.NewScopedAPI("crawler", tel),
	}, nil
}

// Crawl resolves the name in `opts` to a single card page, fetches it and
// parses it. A name that matches no card or several different cards results
// in CardNameAmbiguousOrNotFound, the two are only told apart in telemetry.
func (c Crawler) Crawl(ctx context.Context, opts Options) (card.Card, error) {
	ctx, span := tracer.Start(ctx, "Crawl")
	defer span.End()

	result, err := c.crawl(ctx, opts)

	outcome := "ok"
	if err != nil {
		outcome = crawlerr.KindOf(err).String()
	}
	c.crawls.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))

	return result, err
}

func (c Crawler) crawl(ctx context.Context, opts Options) (card.Card, error) {
	span := trace.SpanFromContext(ctx)

	name := strings.TrimSpace(opts.Name)
	if name == "" {
		err := crawlerr.New(crawlerr.KindInsufficientOptions, "a card name is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing name")
		return card.Card{}, err
	}
	span.SetAttributes(attribute.String("card.name", name))

	res, err := c.resolver.Resolve(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve name")
		return card.Card{}, err
	}
	if res.Kind != resolver.Unique {
		c.tel.ReportDebug("unresolved name", name, res.Kind.String(), res.Candidates)
		span.SetStatus(codes.Error, res.Kind.String())
		return card.Card{}, crawlerr.New(crawlerr.KindCardNameAmbiguousOrNotFound, name)
	}

	raw, err := c.fetch.Fetch(ctx, res.Ref)
	if err != nil {
		c.tel.ReportBroken(report_crawler_crawl, fmt.Errorf("fetch: %w", err), res.Ref)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch card page")
		return card.Card{}, err
	}

	result, err := c.parser.Parse(raw)
	if err != nil {
		c.tel.ReportBroken(report_crawler_crawl, fmt.Errorf("parse: %w", err), res.Ref)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse card page")
		return card.Card{}, err
	}

	span.SetAttributes(attribute.String("card.multiverse_id", result.MultiverseID))
	return result, nil
}
