package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/playverse/cardbot/internal/card"
)

// TextWidth measures a string with wide (multi-byte) runes counting as 2
// units and narrow runes as 1.
func TextWidth(s string) int {
	runes := utf8.RuneCountInString(s)
	return (len(s)-runes)/2 + runes
}

// Break-after separators. sepEnders never start a line, so a break is
// suppressed when one of them follows.
const (
	breakAfter     = " ，、；—"
	breakAfterSoft = "。！）」"
	breakBefore    = "（「"
	sepEnders      = "；，。！」"
)

// breakPoints returns the byte offsets where text may be cut.
func breakPoints(text string) []int {
	var points []int
	var prev rune
	for i, r := range text {
		next, _ := utf8.DecodeRuneInString(text[i+utf8.RuneLen(r):])
		after := i + utf8.RuneLen(r)

		switch {
		case r == '…':
			// Only the two-character '……' is a separator, breaking
			// after its last rune. A lone '…' is not.
			if prev == '…' && next != '…' {
				points = append(points, after)
			}
		case strings.ContainsRune(breakAfter, r):
			points = append(points, after)
		case strings.ContainsRune(breakAfterSoft, r):
			if next == utf8.RuneError || !strings.ContainsRune(sepEnders, next) {
				points = append(points, after)
			}
		case strings.ContainsRune(breakBefore, r) && i > 0:
			points = append(points, i)
		}
		prev = r
	}
	return points
}

// CutLine splits one paragraph line into display lines no wider than max,
// preferring the separator whose prefix width lands closest to max. With
// no usable separator the line is hard-cut at the width boundary.
func CutLine(text string, max int) []string {
	var result []string
	for TextWidth(text) > max {
		cut := bestCut(text, max)
		if cut <= 0 || cut >= len(text) {
			break
		}
		result = append(result, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		result = append(result, text)
	}
	return result
}

func bestCut(text string, max int) int {
	points := breakPoints(text)
	if len(points) == 0 {
		return hardCut(text, max)
	}

	best, bestDiff := 0, -1
	for _, p := range points {
		diff := TextWidth(text[:p]) - max
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = p, diff
		}
	}
	if best == 0 {
		return hardCut(text, max)
	}
	return best
}

// hardCut returns the byte offset of the widest prefix not exceeding max.
func hardCut(text string, max int) int {
	width := 0
	for i, r := range text {
		w := (utf8.RuneLen(r)-1)/2 + 1
		if width+w > max {
			if i == 0 {
				return utf8.RuneLen(r) // always make progress
			}
			return i
		}
		width += w
	}
	return len(text)
}

// CardTextLines lays out one card's description block: names, series,
// faction/type tags, attributes, flavor text and rules, then the evolved
// printing after a second rule-off line when present.
func CardTextLines(c card.Card, lineSizeMax int) []string {
	divider := strings.Repeat("-", lineSizeMax)

	var lines []string
	lines = append(lines, c.Names...)
	lines = append(lines, " ", c.Series, " ")
	lines = append(lines, strings.Join(append([]string{c.Faction}, c.Types...), "/"))
	lines = append(lines, divider)
	lines = append(lines, formatAttrs(c.Attrs), " ")
	lines = appendWrapped(lines, c.Descs, lineSizeMax)
	lines = append(lines, " ")
	lines = appendWrapped(lines, c.Rules, lineSizeMax)

	if c.HasEvo() {
		lines = append(lines, divider)
		lines = append(lines, formatAttrs(c.EvoAttrs), " ")
		lines = appendWrapped(lines, c.EvoDescs, lineSizeMax)
		lines = append(lines, " ")
		lines = appendWrapped(lines, c.EvoRules, lineSizeMax)
	}
	return lines
}

func formatAttrs(a card.Attributes) string {
	return fmt.Sprintf("(%d, %d, %d)", a.Cost, a.Attack, a.Health)
}

func appendWrapped(lines []string, blocks []string, max int) []string {
	for _, block := range blocks {
		for _, paragraph := range strings.Split(block, "\n") {
			lines = append(lines, CutLine(paragraph, max)...)
		}
	}
	return lines
}
