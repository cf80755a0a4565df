// Package export renders admin progress reports as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/staplero/staplero/internal/course"
	"github.com/staplero/staplero/internal/gating"
	"github.com/staplero/staplero/internal/progress"
)

const sheetName = "Progress"

// WriteProgressXLSX writes a per-learner progress report for one course: one
// row per learner with overall progress, per-chapter status and quiz scores.
func WriteProgressXLSX(w io.Writer, c *course.Course, records []*progress.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"Learner", "Progress %", "Final quiz"}
	for _, ch := range c.Chapters {
		headers = append(headers,
			fmt.Sprintf("%s status", ch.Title),
			fmt.Sprintf("%s quiz", ch.Title),
		)
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for rowIdx, rec := range records {
		row := []any{
			rec.UserID,
			gating.CourseProgress(c, rec),
			quizCell(rec, course.FinalQuizKey, c.FinalQuiz != nil),
		}
		for i := range c.Chapters {
			ch := &c.Chapters[i]
			row = append(row,
				string(gating.ChapterStatus(c, rec, i)),
				quizCell(rec, ch.ID, ch.Quiz != nil),
			)
		}

		for colIdx, v := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func quizCell(rec *progress.Record, key string, hasQuiz bool) string {
	if !hasQuiz {
		return "-"
	}
	res, ok := rec.Quizzes[key]
	if !ok {
		return "not attempted"
	}
	if res.Passed {
		return fmt.Sprintf("passed (%d%%)", res.Score)
	}
	return fmt.Sprintf("failed (%d%%)", res.Score)
}
