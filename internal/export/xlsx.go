package export

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/AkatukiSora/ace-analytics/internal/parser"
)

// SheetName is the worksheet the XLSX export writes to.
const SheetName = "Hands"

// WriteXLSX writes hands as a single-sheet workbook in ascending date order.
// Hand ID and Profit in BB are stored as numbers.
func WriteXLSX(w io.Writer, hands []parser.Hand) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for idx, h := range parser.SortByDate(hands, false) {
		axis, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			h.ID,
			h.Date.Format(timestampLayout),
			h.Position.String(),
			h.Stakes.Text,
			h.HoleCards,
			yesNo(h.SawFlop),
			yesNo(h.Won),
			netProfit(h),
			h.ProfitInBB(),
		}
		if err := f.SetSheetRow(SheetName, axis, &row); err != nil {
			return fmt.Errorf("write row for hand %d: %w", h.ID, err)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 20); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the workbook to path.
func SaveXLSX(path string, hands []parser.Hand) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return WriteXLSX(out, hands)
}
