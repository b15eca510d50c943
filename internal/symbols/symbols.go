// Package symbols rewrites inline mana symbol icons into bracketed text.
//
// A symbol has a bare code (R, 3, (2/B), (R/P), {1/2}R) and a token which is
// the code wrapped in braces. Rules text uses tokens, mana costs use codes.
package symbols

import (
	"net/url"
	"strings"
	"unicode"

	"gatherer-crawler/internal/markup"
)

type Kind int

const (
	Unknown Kind = iota
	Mana
	Hybrid
	Phyrexian
	Snow
	Infinity
	Half
	Tap
	Untap
)

type Symbol struct {
	Kind Kind
	Code string
}

func (s Symbol) Token() string {
	return "{" + s.Code + "}"
}

const colors = "WUBRG"

func isColor(c byte) bool {
	return strings.IndexByte(colors, c) >= 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}

// fromName classifies the `name` parameter of a symbol image url.
func fromName(name string) (Symbol, bool) {
	lower := strings.ToLower(name)
	upper := strings.ToUpper(name)

	switch lower {
	case "tap":
		return Symbol{Kind: Tap, Code: "T"}, true
	case "untap":
		return Symbol{Kind: Untap, Code: "Q"}, true
	case "snow":
		return Symbol{Kind: Snow, Code: "S"}, true
	case "infinity":
		return Symbol{Kind: Infinity, Code: "∞"}, true
	}

	if strings.HasPrefix(lower, "half") {
		base, ok := fromName(name[len("half"):])
		if ok && base.Kind == Mana {
			return Symbol{Kind: Half, Code: "{1/2}" + base.Code}, true
		}
		return Symbol{}, false
	}

	if isDigits(name) {
		return Symbol{Kind: Mana, Code: name}, true
	}

	switch len(upper) {
	case 1:
		switch {
		case upper == "S":
			return Symbol{Kind: Snow, Code: "S"}, true
		case upper == "T":
			return Symbol{Kind: Tap, Code: "T"}, true
		case upper == "Q":
			return Symbol{Kind: Untap, Code: "Q"}, true
		case upper == "P":
			return Symbol{Kind: Phyrexian, Code: "P"}, true
		case strings.Contains(colors+"CXYZ", upper):
			return Symbol{Kind: Mana, Code: upper}, true
		}
	case 2:
		a, b := upper[0], upper[1]
		switch {
		case a == 'H' && isColor(b):
			return Symbol{Kind: Half, Code: "{1/2}" + string(b)}, true
		case isColor(a) && b == 'P':
			return Symbol{Kind: Phyrexian, Code: "(" + string(a) + "/P)"}, true
		case (isColor(a) || a == '2') && isColor(b) && a != b:
			return Symbol{Kind: Hybrid, Code: "(" + string(a) + "/" + string(b) + ")"}, true
		}
	}
	return Symbol{}, false
}

var altWords = map[string]string{
	"white":              "W",
	"blue":               "U",
	"black":              "B",
	"red":                "R",
	"green":              "G",
	"two":                "2",
	"colorless":          "C",
	"variable colorless": "X",
	"tap":                "tap",
	"untap":              "untap",
	"snow":               "snow",
	"infinite":           "infinity",
	"infinity":           "infinity",
	"phyrexian":          "P",
}

// fromAlt classifies the alt label of a symbol image, used when the url does
// not carry a name.
func fromAlt(alt string) (Symbol, bool) {
	lower := strings.ToLower(strings.TrimSpace(alt))
	if lower == "" {
		return Symbol{}, false
	}
	if name, ok := altWords[lower]; ok {
		return fromName(name)
	}

	if rest, ok := strings.CutPrefix(lower, "phyrexian "); ok {
		if color, ok := altWords[rest]; ok {
			return fromName(color + "P")
		}
	}
	if rest, ok := strings.CutPrefix(lower, "half a "); ok {
		if color, ok := altWords[rest]; ok {
			return fromName("half" + color)
		}
	}
	if left, right, ok := strings.Cut(lower, " or "); ok {
		a, aok := altWords[left]
		b, bok := altWords[right]
		if aok && bok {
			return fromName(a + b)
		}
	}
	return fromName(strings.TrimSpace(alt))
}

// Identify classifies an icon from its image url and alt label. Icons that
// cannot be classified keep their label as the code.
func Identify(src, alt string) Symbol {
	name := ""
	if link, err := url.Parse(src); err == nil {
		query := link.Query()
		for k, v := range query {
			if strings.EqualFold(k, "name") && len(v) > 0 {
				name = v[0]
				break
			}
		}
	}

	if name != "" {
		if sym, ok := fromName(name); ok {
			return sym
		}
	}
	if sym, ok := fromAlt(alt); ok {
		return sym
	}

	label := strings.TrimSpace(alt)
	if label == "" {
		label = name
	}
	return Symbol{Kind: Unknown, Code: label}
}

// Normalize renders fragments as text, icons become tokens and breaks become
// newlines. Text is passed through untouched.
func Normalize(fragments []markup.Fragment) string {
	var out strings.Builder
	for _, f := range fragments {
		switch f.Kind {
		case markup.TextFragment:
			out.WriteString(f.Text)
		case markup.BreakFragment:
			out.WriteByte('\n')
		case markup.IconFragment:
			out.WriteString(Identify(f.Src, f.Alt).Token())
		}
	}
	return out.String()
}

// Cost renders a mana cost as concatenated codes, whitespace between the
// icons is dropped.
func Cost(fragments []markup.Fragment) string {
	var out strings.Builder
	for _, f := range fragments {
		switch f.Kind {
		case markup.TextFragment:
			out.WriteString(strings.TrimSpace(f.Text))
		case markup.IconFragment:
			out.WriteString(Identify(f.Src, f.Alt).Code)
		}
	}
	return out.String()
}
