package export

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/AkatukiSora/ace-analytics/internal/parser"
	"github.com/AkatukiSora/ace-analytics/internal/stats"
)

// Palette holds the colours of the profit chart.
type Palette struct {
	Background drawing.Color
	Line       drawing.Color
	Reference  drawing.Color
	Text       drawing.Color
}

// DefaultPalette is a light theme.
var DefaultPalette = Palette{
	Background: drawing.ColorWhite,
	Line:       drawing.ColorFromHex("1f77b4"),
	Reference:  drawing.ColorFromHex("999999"),
	Text:       drawing.ColorFromHex("333333"),
}

// CumulativeProfitChart renders the running profit, hand by hand, as a PNG
// line chart with a zero reference line.
func CumulativeProfitChart(hands []parser.Hand) ([]byte, error) {
	return CumulativeProfitChartWithPalette(hands, DefaultPalette)
}

// CumulativeProfitChartWithPalette is CumulativeProfitChart with custom colours.
func CumulativeProfitChartWithPalette(hands []parser.Hand, palette Palette) ([]byte, error) {
	if len(hands) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	running := stats.CumulativeProfit(hands)

	// Start from zero so a single hand still draws a segment.
	xValues := make([]float64, len(running)+1)
	yValues := make([]float64, len(running)+1)
	allZero := true
	for i, v := range running {
		xValues[i+1] = float64(i + 1)
		yValues[i+1] = v.InexactFloat64()
		if !v.IsZero() {
			allZero = false
		}
	}

	profitSeries := chart.ContinuousSeries{
		Name:    "Cumulative Profit",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.Line,
			StrokeWidth: 2,
		},
	}
	zeroLine := chart.ContinuousSeries{
		Name:    "Break-even",
		XValues: []float64{0, float64(len(running))},
		YValues: []float64{0, 0},
		Style: chart.Style{
			StrokeColor:     palette.Reference,
			StrokeWidth:     1,
			StrokeDashArray: []float64{5, 5},
		},
	}

	graph := chart.Chart{
		Title:  "Cumulative Profit Over Hands",
		Width:  1000,
		Height: 600,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:  "Hands",
			Style: chart.Style{FontColor: palette.Text},
		},
		YAxis: chart.YAxis{
			Name:  "Cumulative Profit ($)",
			Style: chart.Style{FontColor: palette.Text},
		},
		Series: []chart.Series{zeroLine, profitSeries},
	}
	if allZero {
		graph.YAxis.Range = &chart.ContinuousRange{Min: -1, Max: 1}
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render profit chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette Palette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No hands to plot"
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		YAxis: chart.YAxis{Range: &chart.ContinuousRange{Min: -1, Max: 1}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 0},
				Style:   chart.Style{StrokeColor: palette.Reference, StrokeWidth: 1},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(palette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render placeholder chart: %w", err)
	}
	return buffer.Bytes(), nil
}
