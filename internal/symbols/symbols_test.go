package symbols

import (
	"fmt"
	"testing"

	"gatherer-crawler/internal/markup"

	"github.com/stretchr/testify/require"
)

func icon(name string) markup.Fragment {
	return markup.Icon(
		fmt.Sprintf("/Handlers/Image.ashx?size=small&name=%s&type=symbol", name),
		"",
	)
}

func TestIdentifyFromName(t *testing.T) {
	table := []struct {
		name  string
		kind  Kind
		token string
	}{
		{name: "R", kind: Mana, token: "{R}"},
		{name: "3", kind: Mana, token: "{3}"},
		{name: "15", kind: Mana, token: "{15}"},
		{name: "100", kind: Mana, token: "{100}"},
		{name: "X", kind: Mana, token: "{X}"},
		{name: "2B", kind: Hybrid, token: "{(2/B)}"},
		{name: "WU", kind: Hybrid, token: "{(W/U)}"},
		{name: "RP", kind: Phyrexian, token: "{(R/P)}"},
		{name: "P", kind: Phyrexian, token: "{P}"},
		{name: "snow", kind: Snow, token: "{S}"},
		{name: "infinity", kind: Infinity, token: "{∞}"},
		{name: "HalfR", kind: Half, token: "{{1/2}R}"},
		{name: "HW", kind: Half, token: "{{1/2}W}"},
		{name: "tap", kind: Tap, token: "{T}"},
		{name: "untap", kind: Untap, token: "{Q}"},
	}

	for _, row := range table {
		f := icon(row.name)
		sym := Identify(f.Src, f.Alt)
		require.Equal(t, row.kind, sym.Kind, row.name)
		require.Equal(t, row.token, sym.Token(), row.name)
	}
}

func TestIdentifyFromAlt(t *testing.T) {
	table := []struct {
		alt   string
		token string
	}{
		{alt: "Red", token: "{R}"},
		{alt: "Variable Colorless", token: "{X}"},
		{alt: "Two or Black", token: "{(2/B)}"},
		{alt: "White or Blue", token: "{(W/U)}"},
		{alt: "Phyrexian Red", token: "{(R/P)}"},
		{alt: "Red or Phyrexian", token: "{(R/P)}"},
		{alt: "Half a Red", token: "{{1/2}R}"},
		{alt: "Snow", token: "{S}"},
		{alt: "Tap", token: "{T}"},
		{alt: "7", token: "{7}"},
	}

	for _, row := range table {
		require.Equal(t, row.token, Identify("/images/symbol.gif", row.alt).Token(), row.alt)
	}
}

func TestUnknownIconKeepsLabel(t *testing.T) {
	sym := Identify("/Handlers/Image.ashx?name=chaos&type=symbol", "Chaos")
	require.Equal(t, Unknown, sym.Kind)
	require.Equal(t, "{Chaos}", sym.Token())

	sym = Identify("/Handlers/Image.ashx?name=planeswalk&type=symbol", "")
	require.Equal(t, "{planeswalk}", sym.Token())
}

func TestHalfIsDistinctFromFull(t *testing.T) {
	half := Normalize([]markup.Fragment{icon("HalfR")})
	full := Normalize([]markup.Fragment{icon("R")})
	require.NotEqual(t, half, full)
	require.Equal(t, "{{1/2}R}", half)
}

func TestNormalize(t *testing.T) {
	fragments := []markup.Fragment{
		markup.Text("("),
		icon("2B"),
		markup.Text(" can be paid with any two mana or with "),
		icon("B"),
		markup.Text(". This card's converted mana cost is 6.)"),
		markup.Break(),
		markup.Text("Flying"),
		markup.Break(),
		icon("1"),
		icon("snow"),
		markup.Text(": Target creature loses flying until end of turn."),
	}

	require.Equal(
		t,
		"({(2/B)} can be paid with any two mana or with {B}. This card's converted mana cost is 6.)\n"+
			"Flying\n"+
			"{1}{S}: Target creature loses flying until end of turn.",
		Normalize(fragments),
	)
}

func TestNormalizePreservesOrder(t *testing.T) {
	fragments := []markup.Fragment{icon("G"), icon("U"), icon("3"), icon("infinity"), icon("RP")}
	require.Equal(t, "{G}{U}{3}{∞}{(R/P)}", Normalize(fragments))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"{T}: Add {∞} to your mana pool.",
		"({(R/P)} can be paid with either {R} or 2 life.)\nGain control of target creature.",
		"Sacrifice a creature or land: Add {{1/2}R} to your mana pool.",
		"plain text",
		"",
	}
	for _, input := range inputs {
		once := Normalize([]markup.Fragment{markup.Text(input)})
		require.Equal(t, input, once)
		require.Equal(t, once, Normalize([]markup.Fragment{markup.Text(once)}))
	}
}

func TestCost(t *testing.T) {
	table := []struct {
		names    []string
		expected string
	}{
		{names: []string{"5", "W", "W", "W"}, expected: "5WWW"},
		{names: []string{"2B", "2B", "2B"}, expected: "(2/B)(2/B)(2/B)"},
		{names: []string{"3", "RP", "RP"}, expected: "3(R/P)(R/P)"},
		{names: []string{"15"}, expected: "15"},
		{names: []string{"1", "U", "U"}, expected: "1UU"},
	}

	for _, row := range table {
		var fragments []markup.Fragment
		for _, n := range row.names {
			fragments = append(fragments, markup.Text("\n  "), icon(n))
		}
		fragments = append(fragments, markup.Text("\n"))
		require.Equal(t, row.expected, Cost(fragments))
	}
}
