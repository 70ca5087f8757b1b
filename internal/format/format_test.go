package format

import (
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/shopspring/decimal"
)

func TestCardString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"8sTc", "8♠ T♣"},
		{"AhKd", "A♥ K♦"},
		{"2s7hKdQc3h", "2♠ 7♥ K♦ Q♣ 3♥"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := CardString(tt.in)
		if err != nil {
			t.Errorf("CardString(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CardString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCardStringRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		wantPos int
	}{
		{"8", 1},
		{"8sT", 3},
		{"1s", 0},
		{"10s", 3},
		{"8sXc", 2},
		{"8x", 1},
		{"8sTC", 3},
	}
	for _, tt := range tests {
		_, err := CardString(tt.in)
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("CardString(%q) err = %v, want *FormatError", tt.in, err)
			continue
		}
		if fe.Pos != tt.wantPos {
			t.Errorf("CardString(%q) pos = %d, want %d", tt.in, fe.Pos, tt.wantPos)
		}
	}
}

func TestProfit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{-12.345, "-$12.35"},
		{0, "$0"},
		{5.1, "$5.1"},
		{2.29, "$2.29"},
		{-0.01, "-$0.01"},
		{0.004, "$0"},
	}
	for _, tt := range tests {
		if got := ProfitFloat(tt.in); got != tt.want {
			t.Errorf("ProfitFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := Profit(decimal.RequireFromString("-3.10")); got != "-$3.1" {
		t.Errorf("Profit(-3.10) = %q, want -$3.1", got)
	}
}

func TestFormatterDate(t *testing.T) {
	t.Parallel()

	mClock := quartz.NewMock(t)
	mClock.Set(time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC))
	f := Formatter{Clock: mClock}

	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, 3, 15, 9, 5, 0, 0, time.UTC), "09:05"},
		{time.Date(2024, 1, 2, 9, 5, 0, 0, time.UTC), "January 02"},
		{time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC), "December 2023"},
	}
	for _, tt := range tests {
		if got := f.Date(tt.in); got != tt.want {
			t.Errorf("Date(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
