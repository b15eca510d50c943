package card

import (
	"slices"
	"strings"
)

type Rarity string

const (
	Common    Rarity = "Common"
	Uncommon  Rarity = "Uncommon"
	Rare      Rarity = "Rare"
	Mythic    Rarity = "Mythic Rare"
	Special   Rarity = "Special"
	BasicLand Rarity = "Basic Land"
)

var rarities = []Rarity{Common, Uncommon, Rare, Mythic, Special, BasicLand}

// ParseRarity returns the rarity with the given display name, the second return
// value is false if the name is not part of the vocabulary.
func ParseRarity(name string) (Rarity, bool) {
	name = strings.TrimSpace(name)
	for _, r := range rarities {
		if strings.EqualFold(string(r), name) {
			return r, true
		}
	}
	return "", false
}

// rarityCodes are the single letter codes used in set symbol urls.
var rarityCodes = map[string]Rarity{
	"C": Common,
	"U": Uncommon,
	"R": Rare,
	"M": Mythic,
	"S": Special,
	"L": BasicLand,
}

// RarityFromCode returns the rarity for a single letter code like "M".
func RarityFromCode(code string) (Rarity, bool) {
	r, ok := rarityCodes[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}

// Printing is a single release of a card. Code and Rarity are empty when the
// page did not provide them.
type Printing struct {
	Name   string `json:"name"`
	Code   string `json:"code,omitempty"`
	Rarity Rarity `json:"rarity,omitempty"`
}

// Card is the parsed contents of a card details page. Optional fields are
// empty strings when absent.
type Card struct {
	Name              string     `json:"name"`
	Cost              string     `json:"cost,omitempty"`
	ConvertedManaCost string     `json:"converted_mana_cost,omitempty"`
	Types             string     `json:"types"`
	Text              string     `json:"text,omitempty"`
	FlavorText        string     `json:"flavor_text,omitempty"`
	Set               string     `json:"set"`
	Rarity            Rarity     `json:"rarity"`
	Sets              []Printing `json:"sets"`
	ImageURI          string     `json:"image_uri"`
	MultiverseID      string     `json:"multiverse_id"`
	Pow               string     `json:"pow,omitempty"`
	Tgh               string     `json:"tgh,omitempty"`
	Loyalty           string     `json:"loyalty,omitempty"`
	Artist            string     `json:"artist,omitempty"`
	Number            string     `json:"number,omitempty"`
}

const typeSeparator = " - "

var supertypes = []string{"Basic", "Legendary", "Ongoing", "Snow", "World"}

func (c Card) typeWords() (left []string, right []string) {
	before, after, _ := strings.Cut(c.Types, typeSeparator)
	return strings.Fields(before), strings.Fields(after)
}

// Supertypes returns words like "Legendary" or "Snow" from the type line.
func (c Card) Supertypes() []string {
	left, _ := c.typeWords()
	var out []string
	for _, w := range left {
		if slices.Contains(supertypes, w) {
			out = append(out, w)
		}
	}
	return out
}

// CardTypes returns the types on the left of the dash that are not supertypes.
func (c Card) CardTypes() []string {
	left, _ := c.typeWords()
	var out []string
	for _, w := range left {
		if !slices.Contains(supertypes, w) {
			out = append(out, w)
		}
	}
	return out
}

// Subtypes returns the words on the right of the dash.
func (c Card) Subtypes() []string {
	_, right := c.typeWords()
	if len(right) == 0 {
		return nil
	}
	return right
}

func (c Card) IsCreature() bool {
	return slices.Contains(c.CardTypes(), "Creature")
}

func (c Card) IsPlaneswalker() bool {
	return slices.Contains(c.CardTypes(), "Planeswalker")
}

// Printing finds the printing with the given set code.
func (c Card) Printing(code string) (Printing, bool) {
	for _, p := range c.Sets {
		if strings.EqualFold(p.Code, code) {
			return p, true
		}
	}
	return Printing{}, false
}
