package main

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AkatukiSora/ace-analytics/internal/parser"
	"github.com/AkatukiSora/ace-analytics/internal/patterns"
)

func TestGeneratedSessionParses(t *testing.T) {
	t.Parallel()

	m, err := patterns.Default().ForPlayer("hero")
	if err != nil {
		t.Fatalf("compile patterns: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	text := generateSession(1000, 200, start, "hero", rng)
	if !strings.HasSuffix(text, "\n\n") {
		t.Fatalf("session must end with the client's two trailing characters")
	}

	hands, problems := parser.ParseSession(strings.TrimSuffix(text, "\n\n"), m, parser.Options{})
	if len(problems) != 0 {
		t.Fatalf("generated hands failed to parse: %v", problems[0])
	}
	if len(hands) != 200 {
		t.Fatalf("hands = %d, want 200", len(hands))
	}
	for i, h := range hands {
		if h.ID != int64(1000+i) {
			t.Fatalf("hand %d id = %d, want %d", i, h.ID, 1000+i)
		}
		if h.SittingOut() {
			t.Fatalf("hand %d: user must be dealt in", h.ID)
		}
		if !h.Profit.Equal(h.MoneyWon.Sub(h.MoneySpent)) {
			t.Fatalf("hand %d: profit %s != won %s - spent %s", h.ID, h.Profit, h.MoneyWon, h.MoneySpent)
		}
		if h.SawFlop && len(h.Community) != 10 {
			t.Fatalf("hand %d: board = %q, want five cards", h.ID, h.Community)
		}
	}
}

func TestRunWritesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cli := &CLI{OutputDir: dir, Files: 3, Hands: 5, User: "hero", Seed: 7, StartDate: "2025-01-01"}
	if err := cli.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("files = %d, want 3", len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read generated file: %v", err)
	}
	if got := strings.Count(string(data), "PokerStars Hand #"); got != 5 {
		t.Fatalf("hands in file = %d, want 5", got)
	}
}

func TestRunRejectsBadArguments(t *testing.T) {
	t.Parallel()

	if err := (&CLI{OutputDir: t.TempDir(), Files: 0, Hands: 1, StartDate: "2025-01-01"}).Run(); err == nil {
		t.Fatal("expected error for --files 0")
	}
	if err := (&CLI{OutputDir: t.TempDir(), Files: 1, Hands: 1, StartDate: "January"}).Run(); err == nil {
		t.Fatal("expected error for malformed --start-date")
	}
}
