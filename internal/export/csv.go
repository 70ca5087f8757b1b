package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/AkatukiSora/ace-analytics/internal/parser"
)

// DefaultCSVName is used by SaveCSV when no path is given.
const DefaultCSVName = "hands_chronological.csv"

// WriteCSV writes hands in ascending date order with a header row.
func WriteCSV(w io.Writer, hands []parser.Hand) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, h := range parser.SortByDate(hands, false) {
		if err := cw.Write(record(h)); err != nil {
			return fmt.Errorf("write csv row for hand %d: %w", h.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes hands to path, or to DefaultCSVName when path is empty.
func SaveCSV(path string, hands []parser.Hand) (err error) {
	if path == "" {
		path = DefaultCSVName
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := WriteCSV(f, hands); err != nil {
		return err
	}
	slog.Info("hands saved", "path", path, "hands", len(hands))
	return nil
}
