// Package export renders published content as Excel workbooks for
// offline review.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/edustack/content-studio/internal/models"
)

// Workbook renders challenges and quizzes into a two-sheet xlsx file
func Workbook(challenges []*models.Challenge, quizzes []*models.Quiz) ([]byte, error) {
	f := excelize.NewFile()

	challengeSheet := f.GetSheetName(0)
	if err := f.SetSheetName(challengeSheet, "Challenges"); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	writeChallenges(f, "Challenges", challenges)

	if _, err := f.NewSheet("Quizzes"); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	writeQuizzes(f, "Quizzes", quizzes)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func writeChallenges(f *excelize.File, sheet string, challenges []*models.Challenge) {
	headers := []string{"title", "difficulty_level", "reward_points", "estimated_time", "tags", "test_cases", "status", "created_at"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, ch := range challenges {
		row := i + 2
		values := []any{
			ch.Title,
			ch.DifficultyLevel,
			ch.RewardPoints,
			ch.EstimatedTime,
			strings.Join(ch.Tags, ", "),
			len(ch.TestCases),
			string(ch.Status),
			ch.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "A", "H", 22)
}

func writeQuizzes(f *excelize.File, sheet string, quizzes []*models.Quiz) {
	headers := []string{"title", "time_limit", "passing_score", "due_date", "questions", "notify_students", "status", "created_at"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, qz := range quizzes {
		row := i + 2
		dueDate := ""
		if qz.DueDate != nil {
			dueDate = qz.DueDate.UTC().Format(time.RFC3339)
		}
		values := []any{
			qz.Title,
			qz.TimeLimit,
			qz.PassingScore,
			dueDate,
			len(qz.Questions),
			qz.NotifyStudents,
			string(qz.Status),
			qz.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "A", "H", 22)
}
