package notes

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook renders a parsed document as an xlsx workbook: a
// Summary sheet with the quick and detailed summaries, and an Action
// Items sheet with one row per task. Decision and blocker sections are
// appended to the Summary sheet when present.
func WriteWorkbook(doc Document, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	row := 1
	writeSection := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), title)
		row++
		for _, item := range items {
			f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), item)
			row++
		}
		row++ // blank spacer row
	}

	writeSection("Quick Summary", doc.QuickSummary())
	writeSection("Detailed Summary", doc.DetailedSummary())
	writeSection("Key Decisions", doc.Decisions())
	writeSection("Blockers", doc.Blockers())

	items := doc.ActionItems()
	if len(items) > 0 {
		const actionSheet = "Action Items"
		if _, err := f.NewSheet(actionSheet); err != nil {
			return fmt.Errorf("create sheet: %w", err)
		}
		headers := []string{"Task", "Owner", "Due", "Urgent"}
		for col, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(actionSheet, cell, h)
		}
		for i, item := range items {
			values := []interface{}{item.Task, item.Owner, item.Due, item.Urgent}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
				f.SetCellValue(actionSheet, cell, v)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
