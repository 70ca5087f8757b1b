package persistence

import (
	"context"
	"sync"

	"github.com/AkatukiSora/ace-analytics/internal/parser"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	hands map[HandKey]parser.Hand
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		hands: make(map[HandKey]parser.Hand),
	}
}

func (r *MemoryRepository) UpsertHands(_ context.Context, hands []parser.Hand) (UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := UpsertResult{}
	for _, h := range hands {
		if !storable(h) {
			res.Skipped++
			continue
		}
		k := keyOf(h)
		if _, ok := r.hands[k]; ok {
			res.Updated++
		} else {
			res.Inserted++
		}
		r.hands[k] = h
	}
	return res, nil
}

func (r *MemoryRepository) ListHands(_ context.Context, f HandFilter) ([]parser.Hand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]parser.Hand, 0, len(r.hands))
	for _, h := range r.hands {
		if f.matches(h) {
			out = append(out, h)
		}
	}
	sortHands(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MemoryRepository) CountHands(_ context.Context, f HandFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, h := range r.hands {
		if f.matches(h) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) Close() error { return nil }
