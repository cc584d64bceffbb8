package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/playverse/cardbot/internal/card"
	"github.com/playverse/cardbot/internal/render"
)

type svgdbCard struct {
	Name       string `json:"name_"`
	ID         int    `json:"id_"`
	PP         int    `json:"pp_"`
	Craft      string `json:"craft_"`
	Rarity     string `json:"rarity_"`
	Type       string `json:"type_"`
	Trait      string `json:"trait_"`
	Expansion  string `json:"expansion_"`
	BaseEffect string `json:"baseEffect_"`
	BaseFlair  string `json:"baseFlair_"`
	BaseAtk    int    `json:"baseAtk_"`
	BaseDef    int    `json:"baseDef_"`
	EvoAtk     int    `json:"evoAtk_"`
	EvoDef     int    `json:"evoDef_"`
	EvoEffect  string `json:"evoEffect_"`
	EvoFlair   string `json:"evoFlair_"`
}

// svgdbActions holds the locale's labels for voice-line trigger kinds.
type svgdbActions struct {
	play, attack, evolve, death, effect string
	accelerate, crystallize, enhance    string
}

// SVGDB serves the svgdb.me card database in one of its locales.
type SVGDB struct {
	name    string
	label   string
	locale  string
	actions svgdbActions
}

func NewSVGDBEN() *SVGDB {
	return &SVGDB{
		name:   "svgdb_en",
		label:  "svgdb EN",
		locale: "en",
		actions: svgdbActions{
			play: "Play", attack: "Attack", evolve: "Evolve", death: "Death",
			effect: "Effect", accelerate: "Accelerate", crystallize: "Crystallize", enhance: "Enhance",
		},
	}
}

func NewSVGDBJP() *SVGDB {
	return &SVGDB{
		name:   "svgdb_jp",
		label:  "svgdb JP",
		locale: "jp",
		actions: svgdbActions{
			play: "プレイ", attack: "攻撃", evolve: "進化", death: "死",
			effect: "エフェクト", accelerate: "アクセラレート", crystallize: "結晶", enhance: "エンハンス",
		},
	}
}

const svgdbBase = "https://svgdb.me"

func (s *SVGDB) Name() string  { return s.name }
func (s *SVGDB) Label() string { return s.label }

// Official card scans carry no frame worth masking, so crops may land
// anywhere on the art.
func (s *SVGDB) CropWindow() render.Window {
	return render.Window{Left: 0, Top: 0, Right: 1, Bottom: 1, WSize: 0.20}
}

func (s *SVGDB) referer() string { return svgdbBase + "/carddatabase" }

func (s *SVGDB) Fetch(ctx context.Context, c *Client) ([]card.Card, error) {
	var raw map[string]svgdbCard
	if err := c.GetJSON(ctx, fmt.Sprintf("%s/api/%s", svgdbBase, s.locale), s.referer(), &raw); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cards := make([]card.Card, 0, len(raw))
	for _, k := range keys {
		cards = append(cards, s.toStd(raw[k]))
	}
	return cards, nil
}

func (s *SVGDB) toStd(rc svgdbCard) card.Card {
	id := strconv.Itoa(rc.ID)

	types := make([]string, 0, 2)
	for _, t := range []string{rc.Type, rc.Trait} {
		if t != "" && t != "-" {
			types = append(types, t)
		}
	}

	return card.Card{
		ID:       id,
		Names:    []string{rc.Name},
		Faction:  rc.Craft,
		Types:    types,
		Series:   rc.Expansion,
		Rarity:   rc.Rarity,
		Descs:    []string{rc.BaseFlair},
		Rules:    []string{rc.BaseEffect},
		Attrs:    card.Attributes{Cost: rc.PP, Attack: rc.BaseAtk, Health: rc.BaseDef},
		Image:    fmt.Sprintf("%s/assets/cards/%s/C_%s.png", svgdbBase, s.locale, id),
		EvoDescs: []string{rc.EvoFlair},
		EvoRules: []string{rc.EvoEffect},
		EvoAttrs: card.Attributes{Cost: rc.PP, Attack: rc.EvoAtk, Health: rc.EvoDef},
		EvoImage: fmt.Sprintf("%s/assets/cards/%s/E_%s.png", svgdbBase, s.locale, id),
	}
}

// svgdbVoiceKinds fixes the trigger ordering; the provider returns a JSON
// object whose key order is not meaningful.
var svgdbVoiceKinds = []string{"plays", "attacks", "evolves", "deaths", "effects", "other"}

// Voices maps the provider's per-trigger file lists to labeled lines. The
// audio filename encodes variants: an "enh" marker means an enhanced play,
// "evo" an evolved attack/death, and for "other" files the ninth byte
// distinguishes accelerate from crystallize.
func (s *SVGDB) Voices(ctx context.Context, c *Client, cd card.Card) ([]card.Voice, error) {
	var raw map[string][]string
	url := fmt.Sprintf("%s/api/voices/%s", svgdbBase, cd.ID)
	if err := c.GetJSON(ctx, url, s.referer(), &raw); err != nil {
		return nil, err
	}

	kinds := make([]string, 0, len(raw))
	for _, k := range svgdbVoiceKinds {
		if _, ok := raw[k]; ok {
			kinds = append(kinds, k)
		}
	}
	extra := make([]string, 0)
	for k := range raw {
		known := false
		for _, kk := range svgdbVoiceKinds {
			if k == kk {
				known = true
				break
			}
		}
		if !known {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	kinds = append(kinds, extra...)

	var voices []card.Voice
	for _, kind := range kinds {
		for _, file := range raw[kind] {
			voices = append(voices, card.Voice{
				Action: s.voiceAction(kind, file),
				URL:    fmt.Sprintf("%s/assets/audio/%s/%s", svgdbBase, s.locale, file),
			})
		}
	}
	return voices, nil
}

func (s *SVGDB) voiceAction(kind, file string) string {
	switch kind {
	case "plays":
		if strings.Contains(file, "enh") {
			return s.actions.enhance
		}
		return s.actions.play
	case "attacks":
		if strings.Contains(file, "evo") {
			return s.actions.attack + " (" + s.actions.evolve + ")"
		}
		return s.actions.attack
	case "evolves":
		return s.actions.evolve
	case "deaths":
		if strings.Contains(file, "evo") {
			return s.actions.death + " (" + s.actions.evolve + ")"
		}
		return s.actions.death
	case "effects":
		return s.actions.effect
	case "other":
		if len(file) > 8 && file[8] == '4' {
			return s.actions.accelerate
		}
		return s.actions.crystallize
	default:
		return kind
	}
}
