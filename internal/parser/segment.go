package parser

import (
	"strings"

	"github.com/AkatukiSora/ace-analytics/internal/patterns"
)

// Segment splits a session text into raw hand fragments on the handSplit
// pattern. Blank fragments are dropped.
func Segment(text string, m *patterns.Matchers) []string {
	if text == "" || m == nil || m.HandSplit == nil {
		return nil
	}
	parts := m.HandSplit.Split(text, -1)
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
