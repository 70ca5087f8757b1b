package parser

import (
	"fmt"
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host zoneinfo
)

const timestampLayout = "2006/01/02 15:04:05"

// zoneAliases maps the abbreviations poker clients print to IANA zones.
var zoneAliases = map[string]string{
	"UTC":  "UTC",
	"GMT":  "UTC",
	"ET":   "America/New_York",
	"EST":  "America/New_York",
	"EDT":  "America/New_York",
	"CET":  "Europe/Paris",
	"CEST": "Europe/Paris",
	"PT":   "America/Los_Angeles",
	"PST":  "America/Los_Angeles",
	"PDT":  "America/Los_Angeles",
}

var (
	zoneMu    sync.Mutex
	zoneCache = map[string]*time.Location{}
)

// parseTimestamp reads "2006/01/02 15:04:05 ZONE". The hour may be written
// with a single digit.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndexByte(s, ' ')
	if i < 0 {
		return time.Time{}, fmt.Errorf("missing zone token")
	}
	return time.ParseInLocation(timestampLayout, s[:i], resolveZone(s[i+1:]))
}

// resolveZone falls back to UTC for tokens it cannot resolve.
func resolveZone(token string) *time.Location {
	token = strings.ToUpper(token)

	zoneMu.Lock()
	defer zoneMu.Unlock()
	if loc, ok := zoneCache[token]; ok {
		return loc
	}

	name := token
	if alias, ok := zoneAliases[token]; ok {
		name = alias
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
	}
	zoneCache[token] = loc
	return loc
}
