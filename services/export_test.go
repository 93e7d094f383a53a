package services

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportsevents/models"
)

func TestBuildExportRows(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	at := time.Date(2025, 1, 20, 8, 5, 9, 0, time.UTC)
	regs := []models.Registration{
		{
			ID:           1,
			RegisteredAt: at,
			Student:      &models.User{Name: "Asha Verma", RollNumber: "ABC123", Course: "BSc", Year: "3", Email: "asha@example.com"},
			Game:         &models.Game{Name: "Chess"},
		},
		{ID: 2, RegisteredAt: at},
	}

	rows := BuildExportRows(regs, kolkata)
	require.Len(t, rows, 2)
	assert.Equal(t, ExportRow{
		StudentName:  "Asha Verma",
		RollNumber:   "ABC123",
		Course:       "BSc",
		Year:         "3",
		Email:        "asha@example.com",
		GameName:     "Chess",
		RegisteredAt: "1/20/2025, 1:35:09 PM",
	}, rows[0])

	// missing joins leave the columns blank
	assert.Equal(t, ExportRow{RegisteredAt: "1/20/2025, 1:35:09 PM"}, rows[1])

	utc := BuildExportRows(regs[:1], nil)
	assert.Equal(t, "1/20/2025, 8:05:09 AM", utc[0].RegisteredAt)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []ExportRow{
		{StudentName: "Verma, Asha", RollNumber: "ABC123", Course: "BSc", Year: "3", Email: "asha@example.com", GameName: `Relay "4x100"`, RegisteredAt: "1/20/2025, 1:35:09 PM"},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Student Name", "Roll Number", "Course", "Year", "Email", "Game", "Registered At"}, records[0])
	assert.Equal(t, []string{"Verma, Asha", "ABC123", "BSc", "3", "asha@example.com", `Relay "4x100"`, "1/20/2025, 1:35:09 PM"}, records[1])
}

func TestWriteCSVHeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Student Name,Roll Number,Course,Year,Email,Game,Registered At\n", buf.String())
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "registrations-2025-01-20.csv", ExportFilename(time.Date(2025, 1, 20, 23, 0, 0, 0, time.UTC)))
}
