// Package card defines the provider-agnostic card record and the matching
// rules shared by every engine.
package card

// Attributes is the (cost, attack, health) triple.
type Attributes struct {
	Cost   int `json:"cost"`
	Attack int `json:"attack"`
	Health int `json:"health"`
}

// Card is the normalized record every engine produces. Fields a provider
// does not model stay at their zero value.
type Card struct {
	ID      string   `json:"id"`
	Names   []string `json:"names"`
	Faction string   `json:"faction"`
	Types   []string `json:"types"`
	Series  string   `json:"series"`
	Rarity  string   `json:"rarity"`
	Descs   []string `json:"descs"`
	Rules   []string `json:"rules"`

	Attrs Attributes `json:"attributes"`
	Image string     `json:"image"`

	EvoDescs []string   `json:"evoDescs,omitempty"`
	EvoRules []string   `json:"evoRules,omitempty"`
	EvoAttrs Attributes `json:"evoAttributes,omitempty"`
	EvoImage string     `json:"evoImage,omitempty"`
}

// Name returns the primary display name.
func (c Card) Name() string {
	if len(c.Names) == 0 {
		return ""
	}
	return c.Names[0]
}

// HasEvo reports whether the card carries an evolved printing.
func (c Card) HasEvo() bool {
	return c.EvoImage != "" || len(c.EvoRules) > 0 || len(c.EvoDescs) > 0
}

// Clone returns a deep copy. Catalogs and session payloads are handed
// across boundaries as clones so callers can never mutate shared state.
func (c Card) Clone() Card {
	out := c
	out.Names = append([]string(nil), c.Names...)
	out.Types = append([]string(nil), c.Types...)
	out.Descs = append([]string(nil), c.Descs...)
	out.Rules = append([]string(nil), c.Rules...)
	out.EvoDescs = append([]string(nil), c.EvoDescs...)
	out.EvoRules = append([]string(nil), c.EvoRules...)
	return out
}

// CloneAll deep-copies a slice of cards.
func CloneAll(cards []Card) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = c.Clone()
	}
	return out
}

// Voice is one playable voice line attached to a card.
type Voice struct {
	Action string `json:"action"`
	URL    string `json:"url"`
}
