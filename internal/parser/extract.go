package parser

import (
	"net/url"
	"regexp"
	"strings"

	"gatherer-crawler/internal/card"
	"gatherer-crawler/internal/crawlerr"
	"gatherer-crawler/internal/markup"
	"gatherer-crawler/internal/symbols"
)

// each extractor reads one attribute out of the card details region, a missing
// row results in an empty value.

func row(details markup.Region, name string) markup.Region {
	return details.Find(`[id$="_` + name + `Row"]`).First()
}

func rowValue(details markup.Region, name string) markup.Region {
	return row(details, name).Find(".value").First()
}

func extractName(details markup.Region) (string, error) {
	name := rowValue(details, "name").Text()
	if name == "" {
		return "", crawlerr.New(crawlerr.KindUnexpectedPageShape, "card name row is missing")
	}
	return name, nil
}

func extractCost(details markup.Region) string {
	return symbols.Cost(rowValue(details, "mana").Fragments())
}

func extractConvertedManaCost(details markup.Region) string {
	return rowValue(details, "cmc").Text()
}

var typeDash = regexp.MustCompile(`\s*[—–]\s*`)

func extractTypes(details markup.Region) string {
	types := rowValue(details, "type").Text()
	return typeDash.ReplaceAllString(types, " - ")
}

// paragraphs returns the normalized text of each text box in a row, one
// paragraph per line.
func paragraphs(details markup.Region, name string) string {
	var lines []string
	row(details, name).Find(".cardtextbox").Each(func(_ int, box markup.Region) {
		line := strings.TrimSpace(symbols.Normalize(box.Fragments()))
		if line != "" {
			lines = append(lines, line)
		}
	})
	return strings.Join(lines, "\n")
}

func extractText(details markup.Region) string {
	return paragraphs(details, "text")
}

func extractFlavorText(details markup.Region) string {
	return paragraphs(details, "flavor")
}

func hasType(types, t string) bool {
	left, _, _ := strings.Cut(types, " - ")
	for _, w := range strings.Fields(left) {
		if w == t {
			return true
		}
	}
	return false
}

// extractPowTgh splits the "P/T" row, it only applies to creatures.
func extractPowTgh(details markup.Region, types string) (pow, tgh string) {
	if !hasType(types, "Creature") {
		return "", ""
	}
	label := row(details, "pt").Find(".label").Text()
	if label != "" && !strings.HasPrefix(label, "P/T") {
		return "", ""
	}
	value := rowValue(details, "pt").Text()
	pow, tgh, ok := strings.Cut(value, "/")
	if !ok {
		return "", ""
	}
	return strings.TrimSpace(pow), strings.TrimSpace(tgh)
}

// extractLoyalty reads the loyalty of planeswalkers, it shares the row
// with P/T on the details page.
func extractLoyalty(details markup.Region, types string) string {
	if !hasType(types, "Planeswalker") || hasType(types, "Creature") {
		return ""
	}
	value := rowValue(details, "pt").Text()
	if strings.Contains(value, "/") {
		return ""
	}
	return value
}

func extractSet(details markup.Region) string {
	set := ""
	rowValue(details, "set").Find("a").Each(func(_ int, a markup.Region) {
		text := a.Text()
		if text != "" {
			set = text
		}
	})
	return set
}

// extractSetCode reads the set code off the symbol of the displayed printing.
func extractSetCode(details markup.Region) string {
	src := rowValue(details, "set").Find("img").First().AttrOr("src", "")
	return queryParam(src, "set")
}

func extractRarity(details markup.Region) (card.Rarity, bool) {
	text := rowValue(details, "rarity").Text()
	if text == "" {
		return "", true
	}
	rarity, ok := card.ParseRarity(text)
	if !ok {
		return card.Rarity(text), false
	}
	return rarity, true
}

var printingTitle = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)$`)

func queryParam(link, key string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	for k, v := range parsed.Query() {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// parsePrinting reads a set symbol icon like
// <img title="Legions (Rare)" src="...?set=LGN&rarity=R">.
func parsePrinting(icon markup.Region) (card.Printing, bool) {
	title := strings.TrimSpace(icon.AttrOr("title", ""))
	if title == "" {
		title = strings.TrimSpace(icon.AttrOr("alt", ""))
	}
	src := icon.AttrOr("src", "")

	p := card.Printing{
		Name: title,
		Code: queryParam(src, "set"),
	}
	if groups := printingTitle.FindStringSubmatch(title); groups != nil {
		if rarity, ok := card.ParseRarity(groups[2]); ok {
			p.Name = groups[1]
			p.Rarity = rarity
		}
	}
	if p.Rarity == "" {
		if rarity, ok := card.RarityFromCode(queryParam(src, "rarity")); ok {
			p.Rarity = rarity
		}
	}
	if p.Name == "" {
		return card.Printing{}, false
	}
	return p, true
}

// extractPrintings reads the "All Sets" row in display order.
func extractPrintings(details markup.Region) []card.Printing {
	var printings []card.Printing
	rowValue(details, "otherSets").Find("img").Each(func(_ int, icon markup.Region) {
		p, ok := parsePrinting(icon)
		if ok {
			printings = append(printings, p)
		}
	})
	return printings
}

func extractImageSrc(details markup.Region) string {
	return details.Find(`img[id$="_cardImage"]`).First().AttrOr("src", "")
}

func extractArtist(details markup.Region) string {
	return rowValue(details, "artist").Text()
}

func extractNumber(details markup.Region) string {
	return rowValue(details, "number").Text()
}
