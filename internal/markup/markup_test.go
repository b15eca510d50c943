package markup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `<html><body>
<div class="row" id="main_typeRow">
  <div class="label">Types:</div>
  <div class="value">  Legendary Creature
     — Angel</div>
</div>
<div class="row" id="main_textRow">
  <div class="value"><div class="cardtextbox">{T}: Add <img src="/Handlers/Image.ashx?size=small&amp;name=G&amp;type=symbol" alt="Green">.<br>Next line</div></div>
</div>
<ul><li><a href="Details.aspx?multiverseid=1"> Aether
 Vial </a></li><li><a href="Details.aspx?multiverseid=2">Vial Smasher</a></li></ul>
</body></html>`

func TestRegion(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	typeRow := doc.Find(`[id$="typeRow"] .value`)
	require.True(t, typeRow.Exists())
	require.Equal(t, "Legendary Creature — Angel", typeRow.Text())

	missing := doc.Find(`[id$="flavorRow"]`)
	require.False(t, missing.Exists())
	require.Equal(t, "", missing.Text())
	require.False(t, missing.Find("div").Exists())

	var names []string
	doc.Find("li a").Each(func(_ int, a Region) {
		names = append(names, a.Text())
	})
	require.Equal(t, []string{"Aether Vial", "Vial Smasher"}, names)
	require.Equal(t, "Details.aspx?multiverseid=2", doc.Find("li a").Last().AttrOr("href", ""))
}

func TestFragments(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	fragments := doc.Find(".cardtextbox").Fragments()
	require.Equal(t, []Fragment{
		Text("{T}: Add "),
		Icon("/Handlers/Image.ashx?size=small&name=G&type=symbol", "Green"),
		Text("."),
		Break(),
		Text("Next line"),
	}, fragments)
}

func TestAnchors(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.Equal(t, []Anchor{
		{Name: "Aether Vial", Href: "Details.aspx?multiverseid=1"},
		{Name: "Vial Smasher", Href: "Details.aspx?multiverseid=2"},
	}, doc.Find("li a").Anchors())
}
