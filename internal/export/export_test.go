package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/AkatukiSora/ace-analytics/internal/parser"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleHands() []parser.Hand {
	et, _ := time.LoadLocation("America/New_York")
	stakes := parser.Stakes{
		Small: decimal.RequireFromString("0.01"),
		Big:   decimal.RequireFromString("0.02"),
		Text:  "$0.01/$0.02",
	}
	return []parser.Hand{
		{
			ID: 1002, Date: time.Date(2023, 5, 11, 21, 20, 2, 0, et),
			Position: parser.PosButton, Stakes: stakes, HoleCards: "AhKd",
			Won: true, Profit: decimal.RequireFromString("0.05"),
		},
		{
			ID: 1001, Date: time.Date(2023, 5, 11, 21, 14, 35, 0, et),
			Position: parser.PosSmallBlind, Stakes: stakes, HoleCards: "8sTc",
			Profit: decimal.RequireFromString("-0.01"),
		},
		{
			ID: 1003, Date: time.Date(2023, 5, 11, 21, 30, 0, 0, et),
			Position: parser.PosBigBlind, Stakes: stakes, HoleCards: "7c7d",
			SawFlop: true, Won: true, Profit: decimal.RequireFromString("2.3"),
		},
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleHands()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, Columns, rows[0])

	require.Equal(t, []string{"1001", "2023/05/11 21:14:35", "small blind", "$0.01/$0.02", "8sTc", "No", "No", "$-0.01", "-0.5"}, rows[1])
	require.Equal(t, []string{"1002", "2023/05/11 21:20:02", "button", "$0.01/$0.02", "AhKd", "No", "Yes", "$0.05", "2.5"}, rows[2])
	require.Equal(t, []string{"1003", "2023/05/11 21:30:00", "big blind", "$0.01/$0.02", "7c7d", "Yes", "Yes", "$2.30", "115"}, rows[3])
}

func TestWriteCSVEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{Columns}, rows)
}

func TestSaveCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, SaveCSV(path, sampleHands()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "Hand ID,Timestamp,Position")
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleHands()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, Columns, rows[0])
	require.Equal(t, "1001", rows[1][0])
	require.Equal(t, "small blind", rows[1][2])
	require.Equal(t, "$2.30", rows[3][7])
}

func TestCumulativeProfitChart(t *testing.T) {
	t.Parallel()

	png, err := CumulativeProfitChart(sampleHands())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, pngMagic), "output is not a PNG")

	single, err := CumulativeProfitChart(sampleHands()[:1])
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(single, pngMagic))
}

func TestCumulativeProfitChartPlaceholder(t *testing.T) {
	t.Parallel()

	png, err := CumulativeProfitChart(nil)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, pngMagic), "placeholder is not a PNG")
}
