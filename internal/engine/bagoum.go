package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/playverse/cardbot/internal/card"
	"github.com/playverse/cardbot/internal/render"
)

// bagoumPrinting is one printing state in the sv.bagoum.com full dump.
type bagoumPrinting struct {
	Description string `json:"description"`
	Flair       string `json:"flair"`
	Attack      int    `json:"attack"`
	Defense     int    `json:"defense"`
}

type bagoumCard struct {
	Name      string         `json:"name"`
	ID        string         `json:"id"`
	Faction   string         `json:"faction"`
	Rarity    string         `json:"rarity"`
	Race      string         `json:"race"`
	Expansion string         `json:"expansion"`
	Type      string         `json:"type"`
	ManaCost  int            `json:"manaCost"`
	BaseData  bagoumPrinting `json:"baseData"`
	EvoData   bagoumPrinting `json:"evoData"`
}

// Bagoum serves the sv.bagoum.com card database in one of its locales.
// The locales differ only in URL, race-list separator, and label.
type Bagoum struct {
	name    string
	label   string
	locale  string
	raceSep string
}

func NewBagoumEN() *Bagoum {
	return &Bagoum{name: "bagoum_en", label: "Bagoum EN", locale: "en", raceSep: " / "}
}

func NewBagoumJP() *Bagoum {
	return &Bagoum{name: "bagoum_jp", label: "Bagoum JP", locale: "ja", raceSep: "・"}
}

func NewBagoumTW() *Bagoum {
	return &Bagoum{name: "bagoum_tw", label: "Bagoum TW", locale: "zh-tw", raceSep: "‧"}
}

const bagoumBase = "https://sv.bagoum.com"

func (b *Bagoum) Name() string  { return b.name }
func (b *Bagoum) Label() string { return b.label }

func (b *Bagoum) CropWindow() render.Window {
	return render.Window{Left: 0.13619, Top: 0.19466, Right: 0.86349, Bottom: 0.86945, WSize: 0.20}
}

func (b *Bagoum) referer() string { return bagoumBase + "/cardSort" }

func (b *Bagoum) Fetch(ctx context.Context, c *Client) ([]card.Card, error) {
	var raw map[string]bagoumCard
	url := fmt.Sprintf("%s/cardsFullJSON/%s", bagoumBase, b.locale)
	if err := c.GetJSON(ctx, url, b.referer(), &raw); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cards := make([]card.Card, 0, len(raw))
	for _, k := range keys {
		cards = append(cards, b.toStd(raw[k]))
	}
	return cards, nil
}

// toStd is total over any record shape: absent JSON fields decode to zero
// values and map to empty/zero card fields.
func (b *Bagoum) toStd(rc bagoumCard) card.Card {
	types := make([]string, 0, 2)
	if rc.Type != "" {
		types = append(types, rc.Type)
	}
	for _, race := range strings.Split(rc.Race, b.raceSep) {
		if race != "" {
			types = append(types, race)
		}
	}

	return card.Card{
		ID:       rc.ID,
		Names:    []string{rc.Name},
		Faction:  rc.Faction,
		Types:    types,
		Series:   rc.Expansion,
		Rarity:   rc.Rarity,
		Descs:    strings.Split(rc.BaseData.Flair, "<br>"),
		Rules:    strings.Split(rc.BaseData.Description, "<br>"),
		Attrs:    card.Attributes{Cost: rc.ManaCost, Attack: rc.BaseData.Attack, Health: rc.BaseData.Defense},
		Image:    fmt.Sprintf("%s/cardF/%s/c/%s", bagoumBase, b.locale, rc.ID),
		EvoDescs: strings.Split(rc.EvoData.Flair, "<br>"),
		EvoRules: strings.Split(rc.EvoData.Description, "<br>"),
		EvoAttrs: card.Attributes{Cost: rc.ManaCost, Attack: rc.EvoData.Attack, Health: rc.EvoData.Defense},
		EvoImage: fmt.Sprintf("%s/cardF/%s/e/%s", bagoumBase, b.locale, rc.ID),
	}
}

// Voices scrapes the voice table off the card's detail page.
func (b *Bagoum) Voices(ctx context.Context, c *Client, cd card.Card) ([]card.Voice, error) {
	page, err := c.GetBytes(ctx, fmt.Sprintf("%s/cards/%s", bagoumBase, cd.ID), b.referer())
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return nil, fmt.Errorf("parsing card page for %s: %w", cd.ID, err)
	}

	table := findByClass(doc, "table", "voiceTable")
	if table == nil {
		return nil, nil
	}

	var voices []card.Voice
	rows := findAll(table, "tr")
	for i, row := range rows {
		if i == 0 {
			continue // header row
		}
		action := strings.TrimSpace(text(firstChildElement(row, "td")))
		src := findAll(row, "source")
		if action == "" || len(src) == 0 {
			continue
		}
		voices = append(voices, card.Voice{
			Action: action,
			URL:    bagoumBase + attr(src[0], "src"),
		})
	}
	return voices, nil
}

// --- minimal x/net/html traversal helpers ---

func findByClass(n *html.Node, tag, class string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		for _, a := range n.Attr {
			if a.Key == "class" && strings.Contains(" "+a.Val+" ", " "+class+" ") {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func firstChildElement(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

func text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
