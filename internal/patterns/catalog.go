// Package patterns holds the pattern catalog: the named regular-expression
// templates that describe the hand-history text grammar.
//
// A Catalog is loaded once and never modified. Call ForPlayer to obtain the
// compiled Matchers for one player name.
package patterns

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Placeholder marks where the player name is inserted in player-scoped templates.
const Placeholder = "{player}"

// CurrentVersion is the only catalog grammar version this package understands.
const CurrentVersion = 1

//go:embed default_patterns.yaml
var defaultCatalogYAML []byte

// Field is a semantic field name of the catalog.
type Field string

const (
	FieldHeader      Field = "header"
	FieldButton      Field = "button"
	FieldPosition    Field = "position"
	FieldBlind       Field = "blind"
	FieldHand        Field = "hand"
	FieldWin         Field = "win"
	FieldCall        Field = "call"
	FieldBet         Field = "bet"
	FieldRaise       Field = "raise"
	FieldFold        Field = "fold"
	FieldDead        Field = "dead"
	FieldUncalledBet Field = "uncalledBet"
	FieldCommunity   Field = "community"
	FieldHandSplit   Field = "handSplit"
)

type fieldSpec struct {
	field        Field
	playerScoped bool
	minGroups    int
}

// fieldSpecs lists every field in catalog order.
var fieldSpecs = []fieldSpec{
	{FieldHeader, false, 3},
	{FieldButton, false, 1},
	{FieldPosition, true, 1},
	{FieldBlind, true, 1},
	{FieldHand, true, 1},
	{FieldWin, true, 1},
	{FieldCall, true, 1},
	{FieldBet, true, 1},
	{FieldRaise, true, 1},
	{FieldFold, true, 0},
	{FieldDead, true, 1},
	{FieldUncalledBet, true, 1},
	{FieldCommunity, false, 1},
	{FieldHandSplit, false, 0},
}

// Fields returns all catalog field names in catalog order.
func Fields() []Field {
	out := make([]Field, 0, len(fieldSpecs))
	for _, fs := range fieldSpecs {
		out = append(out, fs.field)
	}
	return out
}

// ConfigError reports a missing, unreadable or invalid pattern catalog.
type ConfigError struct {
	Field Field // empty when the error concerns the whole document
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("pattern catalog: %v", e.Err)
	}
	return fmt.Sprintf("pattern catalog: field %q: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// document is the on-disk YAML shape of a catalog.
type document struct {
	Version     int    `yaml:"version"`
	Header      string `yaml:"header"`
	Button      string `yaml:"button"`
	Position    string `yaml:"position"`
	Blind       string `yaml:"blind"`
	Hand        string `yaml:"hand"`
	Win         string `yaml:"win"`
	Call        string `yaml:"call"`
	Bet         string `yaml:"bet"`
	Raise       string `yaml:"raise"`
	Fold        string `yaml:"fold"`
	Dead        string `yaml:"dead"`
	UncalledBet string `yaml:"uncalledBet"`
	Community   string `yaml:"community"`
	HandSplit   string `yaml:"handSplit"`
}

func (d document) templates() map[Field]string {
	return map[Field]string{
		FieldHeader:      d.Header,
		FieldButton:      d.Button,
		FieldPosition:    d.Position,
		FieldBlind:       d.Blind,
		FieldHand:        d.Hand,
		FieldWin:         d.Win,
		FieldCall:        d.Call,
		FieldBet:         d.Bet,
		FieldRaise:       d.Raise,
		FieldFold:        d.Fold,
		FieldDead:        d.Dead,
		FieldUncalledBet: d.UncalledBet,
		FieldCommunity:   d.Community,
		FieldHandSplit:   d.HandSplit,
	}
}

// Catalog is a validated, immutable set of pattern templates.
type Catalog struct {
	version   int
	templates map[Field]string
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("read %s: %w", path, err)}
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ConfigError{Err: errors.New("empty document")}
		}
		return nil, &ConfigError{Err: fmt.Errorf("decode yaml: %w", err)}
	}
	if doc.Version != CurrentVersion {
		return nil, &ConfigError{Err: fmt.Errorf("unsupported version %d (want %d)", doc.Version, CurrentVersion)}
	}

	c := &Catalog{version: doc.Version, templates: doc.templates()}
	if err := c.validate(); err != nil {
		return nil, err
	}
	if err := c.SelfCheck(); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the embedded catalog for PokerStars-style hand histories.
func Default() *Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded pattern catalog is invalid: %v", err))
	}
	return c
}

// DefaultYAML returns a copy of the embedded catalog document.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultCatalogYAML...)
}

func (c *Catalog) validate() error {
	for _, fs := range fieldSpecs {
		tmpl := c.templates[fs.field]
		if strings.TrimSpace(tmpl) == "" {
			return &ConfigError{Field: fs.field, Err: errors.New("missing template")}
		}
		n := strings.Count(tmpl, Placeholder)
		switch {
		case fs.playerScoped && n != 1:
			return &ConfigError{Field: fs.field, Err: fmt.Errorf("want exactly one %s insertion point, found %d", Placeholder, n)}
		case !fs.playerScoped && n != 0:
			return &ConfigError{Field: fs.field, Err: fmt.Errorf("template must not contain %s", Placeholder)}
		}
	}
	return nil
}

// SelfCheck compiles every template against a blank player payload and
// verifies each yields the capture groups the parser reads.
func (c *Catalog) SelfCheck() error {
	_, err := c.compile("")
	return err
}

// Version reports the grammar version of the catalog.
func (c *Catalog) Version() int { return c.version }

// Template returns the raw template for a field.
func (c *Catalog) Template(f Field) string { return c.templates[f] }

// ForPlayer instantiates every template for the given player name. The name
// is escaped so that metacharacters in it only ever match literally.
func (c *Catalog) ForPlayer(player string) (*Matchers, error) {
	if strings.TrimSpace(player) == "" {
		return nil, &ConfigError{Field: "player", Err: errors.New("player name is empty")}
	}
	m, err := c.compile(regexp.QuoteMeta(player))
	if err != nil {
		return nil, err
	}
	m.Player = player
	return m, nil
}

func (c *Catalog) compile(playerLiteral string) (*Matchers, error) {
	compiled := make(map[Field]*regexp.Regexp, len(fieldSpecs))
	for _, fs := range fieldSpecs {
		expr := c.templates[fs.field]
		if fs.playerScoped {
			expr = strings.Replace(expr, Placeholder, playerLiteral, 1)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, &ConfigError{Field: fs.field, Err: err}
		}
		if re.NumSubexp() < fs.minGroups {
			return nil, &ConfigError{Field: fs.field, Err: fmt.Errorf("want at least %d capture groups, found %d", fs.minGroups, re.NumSubexp())}
		}
		compiled[fs.field] = re
	}

	return &Matchers{
		Header:      compiled[FieldHeader],
		Button:      compiled[FieldButton],
		Position:    compiled[FieldPosition],
		Blind:       compiled[FieldBlind],
		Hand:        compiled[FieldHand],
		Win:         compiled[FieldWin],
		Call:        compiled[FieldCall],
		Bet:         compiled[FieldBet],
		Raise:       compiled[FieldRaise],
		Fold:        compiled[FieldFold],
		Dead:        compiled[FieldDead],
		UncalledBet: compiled[FieldUncalledBet],
		Community:   compiled[FieldCommunity],
		HandSplit:   compiled[FieldHandSplit],
	}, nil
}
