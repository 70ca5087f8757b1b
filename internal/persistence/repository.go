// Package persistence stores parsed hands for export and later querying.
package persistence

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/AkatukiSora/ace-analytics/internal/parser"
)

type HandFilter struct {
	FromTime   *time.Time
	ToTime     *time.Time
	SourcePath string
	OnlyWon    bool
	// Limit == 0 means no limit.
	Limit int
}

type UpsertResult struct {
	Inserted int
	Updated  int
	Skipped  int
}

// HandStore is implemented by every hand backend. Hands are keyed by
// (Source, ID); upserting the same key again replaces the stored hand.
type HandStore interface {
	UpsertHands(ctx context.Context, hands []parser.Hand) (UpsertResult, error)
	// ListHands returns matching hands ordered by date, then source and id.
	ListHands(ctx context.Context, f HandFilter) ([]parser.Hand, error)
	CountHands(ctx context.Context, f HandFilter) (int, error)
}

// HandKey identifies a stored hand.
type HandKey struct {
	Source string
	ID     int64
}

func (k HandKey) String() string {
	return k.Source + "#" + strconv.FormatInt(k.ID, 10)
}

func keyOf(h parser.Hand) HandKey {
	return HandKey{Source: h.Source, ID: h.ID}
}

// storable reports whether a hand carries a usable key.
func storable(h parser.Hand) bool {
	return h.ID > 0
}

func (f HandFilter) matches(h parser.Hand) bool {
	if f.FromTime != nil && h.Date.Before(*f.FromTime) {
		return false
	}
	if f.ToTime != nil && h.Date.After(*f.ToTime) {
		return false
	}
	if f.SourcePath != "" && h.Source != f.SourcePath {
		return false
	}
	if f.OnlyWon && !h.Won {
		return false
	}
	return true
}

func sortHands(hands []parser.Hand) {
	sort.SliceStable(hands, func(i, j int) bool {
		a, b := hands[i], hands[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.ID < b.ID
	})
}
