package card

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	costFilterRE    = regexp.MustCompile(`^(\d+)(?:00|费)$`)
	numericFilterRE = regexp.MustCompile(`^\d+$`)
)

// concatAttrs renders the attribute triple as the concatenation of its
// decimal digits, e.g. (5,3,4) -> "534".
func concatAttrs(a Attributes) string {
	return strconv.Itoa(a.Cost) + strconv.Itoa(a.Attack) + strconv.Itoa(a.Health)
}

// Filter narrows cards by one filter string. Interpretations, first match
// wins:
//
//  1. "N00" or "N费" selects cards with cost N.
//  2. A purely numeric filter matches the concatenated attribute triple.
//  3. Otherwise the card matches if the filter is a substring of any name,
//     rule or type tag, or equals the faction/series/rarity verbatim, or
//     normalizes to the same code as the faction/first type/rarity.
func Filter(cards []Card, f string) []Card {
	if f == "" {
		return cards
	}

	if m := costFilterRE.FindStringSubmatch(f); m != nil {
		cost, _ := strconv.Atoi(m[1])
		var out []Card
		for _, c := range cards {
			if c.Attrs.Cost == cost {
				out = append(out, c)
			}
		}
		return out
	}

	if numericFilterRE.MatchString(f) {
		var out []Card
		for _, c := range cards {
			if concatAttrs(c.Attrs) == f {
				out = append(out, c)
			}
		}
		return out
	}

	var out []Card
	for _, c := range cards {
		if matchesText(c, f) {
			out = append(out, c)
		}
	}
	return out
}

func matchesText(c Card, f string) bool {
	for _, name := range c.Names {
		if strings.Contains(name, f) {
			return true
		}
	}
	for _, rule := range c.Rules {
		if strings.Contains(rule, f) {
			return true
		}
	}
	for _, typ := range c.Types {
		if strings.Contains(typ, f) {
			return true
		}
	}
	if len(c.Types) > 0 && codeEqual(TypeCode(c.Types[0]), TypeCode(f)) {
		return true
	}
	if c.Faction == f || codeEqual(FactionCode(c.Faction), FactionCode(f)) {
		return true
	}
	if c.Series == f {
		return true
	}
	if c.Rarity == f || codeEqual(RarityCode(c.Rarity), RarityCode(f)) {
		return true
	}
	return false
}

// Search applies filters as successive narrowing passes (AND across
// filters) and returns deep copies of the survivors. No filters returns
// the whole catalog in order.
func Search(catalog []Card, filters []string) []Card {
	cards := catalog
	for _, f := range filters {
		cards = Filter(cards, f)
	}
	return CloneAll(cards)
}
