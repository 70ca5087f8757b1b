// Package format renders cards, money and dates for display.
package format

import "strings"

const ranks = "23456789TJQKA"

var suitGlyphs = map[byte]string{
	's': "♠",
	'c': "♣",
	'd': "♦",
	'h': "♥",
}

// CardString renders compact cards such as "8sTc" as "8♠ T♣".
func CardString(s string) (string, error) {
	if len(s)%2 != 0 {
		return "", &FormatError{Input: s, Pos: len(s), Reason: "card string length must be even"}
	}
	out := make([]string, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		rank, suit := s[i], s[i+1]
		if strings.IndexByte(ranks, rank) < 0 {
			return "", &FormatError{Input: s, Pos: i, Reason: "invalid rank " + string(rank)}
		}
		glyph, ok := suitGlyphs[suit]
		if !ok {
			return "", &FormatError{Input: s, Pos: i + 1, Reason: "invalid suit " + string(suit)}
		}
		out = append(out, string(rank)+glyph)
	}
	return strings.Join(out, " "), nil
}
