// gen_handhistory generates synthetic hand history session files for
// testing and benchmarking.
//
// Every hand is a short six-handed No Limit Hold'em hand at $0.01/$0.02 in
// which the configured user either folds, steals the blinds or plays a
// limped pot to showdown. Amounts are consistent with the pot so the files
// parse cleanly.
//
// Usage:
//
//	go run ./tools/gen_handhistory [flags]
//
// Flags:
//
//	--output-dir  where to write generated files (default: "./testdata/generated")
//	--files       number of session files to generate (default: 10)
//	--hands       hands per session file (default: 500)
//	--user        screen name of the player (default: "hero")
//	--seed        random seed; 0 = use current time (default: 0)
//	--start-date  base date for generated timestamps, YYYY-MM-DD (default: 2025-01-01)
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"
)

const (
	smallBlind = 1 // cents
	bigBlind   = 2
	seats      = 6
	timeLayout = "2006/01/02 15:04:05"
)

var (
	ranks = []byte("23456789TJQKA")
	suits = []byte("shdc")
)

// money renders cents the way the poker client does: "$0.06".
func money(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}

// ─────────────────────────────────────────────────────────────────────────────
// Hand builder
// ─────────────────────────────────────────────────────────────────────────────

// handWriter accumulates the text of one hand and the chips each player put in.
type handWriter struct {
	sb      strings.Builder
	contrib map[string]int64
}

func (h *handWriter) line(format string, args ...any) {
	fmt.Fprintf(&h.sb, format, args...)
	h.sb.WriteByte('\n')
}

func (h *handWriter) put(name string, cents int64) {
	h.contrib[name] += cents
}

func (h *handWriter) pot() int64 {
	var total int64
	for _, c := range h.contrib {
		total += c
	}
	return total
}

func shuffledDeck(rng *rand.Rand) []string {
	deck := make([]string, 0, len(ranks)*len(suits))
	for _, r := range ranks {
		for _, s := range suits {
			deck = append(deck, string([]byte{r, s}))
		}
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

// generateHand writes one complete hand. Seat 1..6 are filled with user and
// five villains; the button moves with id.
func generateHand(id int64, t time.Time, user string, rng *rand.Rand) string {
	names := make([]string, seats)
	heroSeat := rng.Intn(seats)
	for i, v := 0, 1; i < seats; i++ {
		if i == heroSeat {
			names[i] = user
			continue
		}
		names[i] = fmt.Sprintf("villain%d", v)
		v++
	}
	button := int(id % seats)
	sbSeat := (button + 1) % seats
	bbSeat := (button + 2) % seats

	h := &handWriter{contrib: map[string]int64{}}
	h.line("PokerStars Hand #%d:  Hold'em No Limit ($0.01/$0.02 USD) - %s ET", id, t.Format(timeLayout))
	h.line("Table 'Synthetic' 6-max Seat #%d is the button", button+1)
	for i, n := range names {
		h.line("Seat %d: %s (%s in chips)", i+1, n, money(200))
	}
	h.line("%s: posts small blind %s", names[sbSeat], money(smallBlind))
	h.put(names[sbSeat], smallBlind)
	h.line("%s: posts big blind %s", names[bbSeat], money(bigBlind))
	h.put(names[bbSeat], bigBlind)

	deck := shuffledDeck(rng)
	h.line("*** HOLE CARDS ***")
	h.line("Dealt to %s [%s %s]", user, deck[0], deck[1])
	deck = deck[2:]

	// First seat to act preflop is the one after the big blind.
	order := make([]int, 0, seats)
	for i := 1; i <= seats; i++ {
		order = append(order, (bbSeat+i)%seats)
	}

	var board []string
	switch roll := rng.Intn(100); {
	case roll < 55:
		board = playFold(h, names, order, heroSeat)
	case roll < 75:
		board = playSteal(h, names, order, heroSeat)
	default:
		board = playLimpedShowdown(h, names, order, heroSeat, bbSeat, deck, rng)
	}

	h.line("*** SUMMARY ***")
	h.line("Total pot %s | Rake $0", money(h.pot()))
	if len(board) > 0 {
		h.line("Board [%s]", strings.Join(board, " "))
	}
	return strings.TrimSuffix(h.sb.String(), "\n")
}

// playFold: a villain opens, everyone else including the user folds.
func playFold(h *handWriter, names []string, order []int, heroSeat int) []string {
	opener := -1
	for _, s := range order {
		if s != heroSeat {
			opener = s
			break
		}
	}
	h.line("%s: raises %s to %s", names[opener], money(4), money(6))
	h.put(names[opener], 6-h.contrib[names[opener]])
	for _, s := range order {
		if s != opener {
			h.line("%s: folds", names[s])
		}
	}
	h.line("Uncalled bet (%s) returned to %s", money(4), names[opener])
	h.put(names[opener], -4)
	h.line("%s collected %s from pot", names[opener], money(h.pot()))
	return nil
}

// playSteal: the user raises and takes the blinds.
func playSteal(h *handWriter, names []string, order []int, heroSeat int) []string {
	user := names[heroSeat]
	for _, s := range order {
		if s == heroSeat {
			h.line("%s: raises %s to %s", user, money(4), money(6))
			h.put(user, 6-h.contrib[user])
			continue
		}
		h.line("%s: folds", names[s])
	}
	h.line("Uncalled bet (%s) returned to %s", money(4), user)
	h.put(user, -4)
	h.line("%s collected %s from pot", user, money(h.pot()))
	h.line("%s: doesn't show hand", user)
	return nil
}

// playLimpedShowdown: the user and the big blind see all five board cards,
// the user bets the flop and is called, and a random player wins.
func playLimpedShowdown(h *handWriter, names []string, order []int, heroSeat, bbSeat int, deck []string, rng *rand.Rand) []string {
	user := names[heroSeat]
	opponent := bbSeat
	if heroSeat == bbSeat {
		opponent = order[0]
	}

	for _, s := range order {
		switch {
		case s == heroSeat || s == opponent:
			owed := bigBlind - h.contrib[names[s]]
			if owed == 0 {
				h.line("%s: checks", names[s])
				continue
			}
			h.line("%s: calls %s", names[s], money(owed))
			h.put(names[s], owed)
		default:
			h.line("%s: folds", names[s])
		}
	}

	board := deck[:5]
	h.line("*** FLOP *** [%s]", strings.Join(board[:3], " "))
	bet := int64(4)
	h.line("%s: bets %s", user, money(bet))
	h.put(user, bet)
	h.line("%s: calls %s", names[opponent], money(bet))
	h.put(names[opponent], bet)
	h.line("*** TURN *** [%s] [%s]", strings.Join(board[:3], " "), board[3])
	h.line("%s: checks", user)
	h.line("%s: checks", names[opponent])
	h.line("*** RIVER *** [%s] [%s]", strings.Join(board[:4], " "), board[4])
	h.line("%s: checks", user)
	h.line("%s: checks", names[opponent])
	h.line("*** SHOW DOWN ***")

	winner := user
	if rng.Intn(2) == 0 {
		winner = names[opponent]
	}
	h.line("%s collected %s from pot", winner, money(h.pot()))
	return board
}

// ─────────────────────────────────────────────────────────────────────────────
// Session files
// ─────────────────────────────────────────────────────────────────────────────

// generateSession returns the text of one session file, including the two
// trailing characters the poker client leaves after the last hand.
func generateSession(firstID int64, hands int, start time.Time, user string, rng *rand.Rand) string {
	parts := make([]string, 0, hands)
	t := start
	for i := 0; i < hands; i++ {
		parts = append(parts, generateHand(firstID+int64(i), t, user, rng))
		t = t.Add(time.Duration(20+rng.Intn(100)) * time.Second)
	}
	return strings.Join(parts, "\n\n\n") + "\n\n"
}

// ─────────────────────────────────────────────────────────────────────────────
// main
// ─────────────────────────────────────────────────────────────────────────────

type CLI struct {
	OutputDir string `default:"testdata/generated" type:"path" help:"Output directory"`
	Files     int    `default:"10" help:"Number of session files to generate"`
	Hands     int    `default:"500" help:"Hands per session file"`
	User      string `default:"hero" help:"Screen name of the player"`
	Seed      int64  `default:"0" help:"Random seed (0 = use current Unix time)"`
	StartDate string `default:"2025-01-01" help:"Base date for timestamps, YYYY-MM-DD"`
}

func (c *CLI) Run() error {
	if c.Files < 1 || c.Hands < 1 {
		return fmt.Errorf("--files and --hands must be >= 1")
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	fmt.Printf("seed: %d\n", seed)

	base, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return fmt.Errorf("invalid --start-date %q: %w", c.StartDate, err)
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return fmt.Errorf("cannot create output dir %q: %w", c.OutputDir, err)
	}

	t := base
	nextID := int64(200_000_000_000)
	for i := 0; i < c.Files; i++ {
		// Stagger each session by 30 min to 3 h.
		t = t.Add(time.Duration(30+rng.Intn(150)) * time.Minute)

		name := fmt.Sprintf("HH%s Synthetic - $0.01-$0.02 - USD No Limit Hold'em.txt", t.Format("20060102-150405"))
		path := filepath.Join(c.OutputDir, name)
		text := generateSession(nextID, c.Hands, t, c.User, rng)
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		nextID += int64(c.Hands)
		fmt.Printf("[%3d/%d] %s  %d hands\n", i+1, c.Files, name, c.Hands)
	}

	fmt.Printf("\ndone: %d files written to %s\n", c.Files, c.OutputDir)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("gen_handhistory"),
		kong.Description("Generate synthetic hand history session files"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
