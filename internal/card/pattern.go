package card

import (
	"errors"
	"regexp"
	"strings"
)

// ignoredNameChars are characters a player may drop, swap or mistype when
// guessing a card name: CJK and ASCII punctuation, whitespace, and a few
// decorations and accented vowels that appear in card names.
const ignoredNameChars = "＂＃＄％＆＇（）＊＋，－／：；＜＝＞＠［＼］＾＿｀｛｜｝～｟｠｢｣､" +
	"　、〃〈〉《》「」『』【】〔〕〖〗〘〙〚〛〜〝〞〟〰〾〿" +
	"–—‘’‛“”„‟…‧﹏﹑﹔·！？｡。・" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~" +
	" 的áéö★"

// NamePattern builds a lenient, case-insensitive pattern from the card's
// names. Every ignorable character becomes a single-character wildcard so
// "Fire, Dragon!" matches the guesses "Fire Dragon" and "FireDragon".
// The pattern is anchored at the start of the guess only: trailing chatter
// after a correct name still counts.
func NamePattern(c Card) (*regexp.Regexp, error) {
	alts := make([]string, 0, len(c.Names))
	for _, name := range c.Names {
		var b strings.Builder
		for _, r := range strings.TrimSpace(name) {
			if strings.ContainsRune(ignoredNameChars, r) {
				b.WriteString(".?")
			} else {
				b.WriteString(regexp.QuoteMeta(string(r)))
			}
		}
		if b.Len() > 0 {
			alts = append(alts, b.String())
		}
	}
	if len(alts) == 0 {
		return nil, errors.New("card has no usable names")
	}
	return regexp.Compile("(?i)^(?:" + strings.Join(alts, "|") + ")")
}
