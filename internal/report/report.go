// Package report renders ranked shortlists as spreadsheets for the
// people who do the actual hiring.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hireloop/shortlist/internal/models"
)

const sheetName = "Shortlist"

var headers = []string{
	"Rank", "Filename", "Final Score", "Semantic", "Skills", "Experience", "Status", "Error",
}

// Write renders the ranked resumes for job as an .xlsx workbook.
// Resumes are expected in shortlist order; rank is their position.
func Write(w io.Writer, job *models.Job, resumes []*models.Resume) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	title := fmt.Sprintf("%s (min %d years)", job.Title, job.RequiredYears)
	if job.RequiredYears <= 0 {
		title = job.Title
	}
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return fmt.Errorf("write title: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, resume := range resumes {
		row := i + 3
		values := []any{
			i + 1,
			resume.Filename,
			round3(resume.FinalScore),
			round3(resume.SemanticScore),
			round3(resume.SkillScore),
			round3(resume.ExperienceScore),
			string(resume.Status),
			resume.ScoreError,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("cell for row %d: %w", row, err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
