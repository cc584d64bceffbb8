package engine

import (
	"context"
	"fmt"
	"net/url"

	"github.com/playverse/cardbot/internal/card"
	"github.com/playverse/cardbot/internal/render"
)

type iyingdiCard struct {
	GameID     string `json:"gameid"`
	CName      string `json:"cname"`
	CDesc      string `json:"cdesc"`
	CRule      string `json:"crule"`
	Mana       int    `json:"mana"`
	Attack     int    `json:"attack"`
	HP         int    `json:"hp"`
	Faction    string `json:"faction"`
	MainType   string `json:"mainType"`
	SubType    string `json:"subType"`
	SeriesName string `json:"seriesName"`
	Rarity     string `json:"rarity"`
	Img        string `json:"img"`
}

type iyingdiEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Cards []iyingdiCard `json:"cards"`
	} `json:"data"`
}

// Iyingdi serves the Chinese-localized catalog from api2.iyingdi.com.
// It carries no evolved printings and no voice lines.
type Iyingdi struct{}

func NewIyingdi() *Iyingdi { return &Iyingdi{} }

const iyingdiSearchURL = "https://api2.iyingdi.com/verse/card/search/vertical"

func (*Iyingdi) Name() string  { return "iyingdi" }
func (*Iyingdi) Label() string { return "国服" }

func (*Iyingdi) CropWindow() render.Window {
	return render.Window{Left: 0.138, Top: 0.185, Right: 0.860, Bottom: 0.860, WSize: 0.20}
}

func (iy *Iyingdi) Fetch(ctx context.Context, c *Client) ([]card.Card, error) {
	form := url.Values{
		"statistic": {"total"},
		"token":     {""},
		"page":      {"0"},
		"size":      {"0"},
		"collect":   {"0"},
		"envolve":   {"0"},
	}

	var env iyingdiEnvelope
	if err := c.PostFormJSON(ctx, iyingdiSearchURL, form, "", &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%s: search reported failure", iyingdiSearchURL)
	}

	cards := make([]card.Card, 0, len(env.Data.Cards))
	for _, rc := range env.Data.Cards {
		cards = append(cards, iy.toStd(rc))
	}
	return cards, nil
}

func (*Iyingdi) toStd(rc iyingdiCard) card.Card {
	types := make([]string, 0, 2)
	for _, t := range []string{rc.MainType, rc.SubType} {
		if t != "" {
			types = append(types, t)
		}
	}

	return card.Card{
		ID:      rc.GameID,
		Names:   []string{rc.CName},
		Faction: rc.Faction,
		Types:   types,
		Series:  rc.SeriesName,
		Rarity:  rc.Rarity,
		Descs:   []string{rc.CDesc},
		Rules:   []string{rc.CRule},
		Attrs:   card.Attributes{Cost: rc.Mana, Attack: rc.Attack, Health: rc.HP},
		Image:   rc.Img,
	}
}
