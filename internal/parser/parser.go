// Package parser turns the markup of a card details page into a card.Card.
package parser

import (
	"fmt"
	"net/url"

	"gatherer-crawler/internal/card"
	"gatherer-crawler/internal/components/assert"
	"gatherer-crawler/internal/components/telemetry"
	"gatherer-crawler/internal/crawlerr"
	"gatherer-crawler/internal/markup"
)

const (
	report_parser_parse = "parser.parse"
)

type Parser struct {
	baseUrl *url.URL
	tel     telemetry.API
}

// New creates a parser, relative links on the page are resolved against
// `baseUrl`.
func New(baseUrl *url.URL, tel telemetry.API) Parser {
	assert.NotNil(baseUrl)
	assert.NotNil(tel)
	return Parser{
		baseUrl: baseUrl,
		tel:     telemetry.NewScopedAPI("parser", tel),
	}
}

func (p Parser) resolve(link string) string {
	ref, err := url.Parse(link)
	if err != nil {
		p.tel.ReportWarning(report_parser_parse, fmt.Errorf("parse link: %w", err), link)
		return ""
	}
	return p.baseUrl.ResolveReference(ref).String()
}

// Parse reads a card details page. It fails with an UnexpectedPageShape error
// if the page has no card details.
func (p Parser) Parse(raw []byte) (card.Card, error) {
	doc, err := markup.Parse(raw)
	if err != nil {
		p.tel.ReportBroken(report_parser_parse, fmt.Errorf("parse html: %w", err))
		return card.Card{}, crawlerr.Wrap(crawlerr.KindUnexpectedPageShape, "parse html", err)
	}

	details := doc.Find(".cardDetails").First()
	if !details.Exists() {
		p.tel.ReportWarning(report_parser_parse, "could not find .cardDetails")
		return card.Card{}, crawlerr.New(crawlerr.KindUnexpectedPageShape, "could not find card details")
	}

	name, err := extractName(details)
	if err != nil {
		p.tel.ReportWarning(report_parser_parse, err)
		return card.Card{}, err
	}

	types := extractTypes(details)
	pow, tgh := extractPowTgh(details, types)

	rarity, known := extractRarity(details)
	if !known {
		p.tel.ReportWarning(report_parser_parse, "unknown rarity", name, rarity)
	}

	c := card.Card{
		Name:              name,
		Cost:              extractCost(details),
		ConvertedManaCost: extractConvertedManaCost(details),
		Types:             types,
		Text:              extractText(details),
		FlavorText:        extractFlavorText(details),
		Set:               extractSet(details),
		Rarity:            rarity,
		Sets:              extractPrintings(details),
		Pow:               pow,
		Tgh:               tgh,
		Loyalty:           extractLoyalty(details, types),
		Artist:            extractArtist(details),
		Number:            extractNumber(details),
	}

	if src := extractImageSrc(details); src != "" {
		c.ImageURI = p.resolve(src)
		c.MultiverseID = queryParam(src, "multiverseid")
	}
	if c.MultiverseID == "" {
		action := doc.Find("form").First().AttrOr("action", "")
		c.MultiverseID = queryParam(action, "multiverseid")
	}
	if c.ImageURI == "" && c.MultiverseID != "" {
		c.ImageURI = p.resolve(fmt.Sprintf("Handlers/Image.ashx?multiverseid=%s&type=card", c.MultiverseID))
	}

	c.Sets = withDisplayedPrinting(c.Sets, card.Printing{
		Name:   c.Set,
		Code:   extractSetCode(details),
		Rarity: c.Rarity,
	})

	p.tel.ReportDebug("parsed card", c.Name, c.MultiverseID)
	return c, nil
}

// withDisplayedPrinting makes sure the printing shown on the page is part of
// the printings, it is put in front when missing since it is the most recent.
func withDisplayedPrinting(printings []card.Printing, displayed card.Printing) []card.Printing {
	if displayed.Name == "" {
		return printings
	}
	for _, p := range printings {
		if p.Name == displayed.Name {
			return printings
		}
	}
	return append([]card.Printing{displayed}, printings...)
}
