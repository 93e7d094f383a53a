package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"sportsevents/models"
)

// ExportTimeLayout renders timestamps the way the admin dashboard shows them.
const ExportTimeLayout = "1/2/2006, 3:04:05 PM"

var exportHeader = []string{"Student Name", "Roll Number", "Course", "Year", "Email", "Game", "Registered At"}

type ExportRow struct {
	StudentName  string `json:"studentName"`
	RollNumber   string `json:"rollNumber"`
	Course       string `json:"course"`
	Year         string `json:"year"`
	Email        string `json:"email"`
	GameName     string `json:"gameName"`
	RegisteredAt string `json:"registeredAt"`
}

// BuildExportRows flattens joined registrations. Fields of a missing student
// or game are left empty.
func BuildExportRows(regs []models.Registration, loc *time.Location) []ExportRow {
	if loc == nil {
		loc = time.UTC
	}

	rows := make([]ExportRow, 0, len(regs))
	for _, reg := range regs {
		row := ExportRow{RegisteredAt: reg.RegisteredAt.In(loc).Format(ExportTimeLayout)}
		if reg.Student != nil {
			row.StudentName = reg.Student.Name
			row.RollNumber = reg.Student.RollNumber
			row.Course = reg.Student.Course
			row.Year = reg.Student.Year
			row.Email = reg.Student.Email
		}
		if reg.Game != nil {
			row.GameName = reg.Game.Name
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes the header line and one record per row.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.StudentName, row.RollNumber, row.Course, row.Year, row.Email, row.GameName, row.RegisteredAt}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename names the download after the export date.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("registrations-%s.csv", now.Format("2006-01-02"))
}
