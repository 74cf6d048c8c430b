package registrations

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompt-future/backend/internal/models"
)

func TestWriteCSV(t *testing.T) {
	id := uuid.New()
	regs := []models.Registration{
		{
			ID:                 id,
			FullName:           "Asha Patel",
			Email:              "asha@example.com",
			Phone:              "9876543210",
			Branch:             "IT",
			YearOfStudy:        "2nd Year",
			WorkshopAttendance: "Yes",
			GitHubUsername:     "asha",
			RegistrationDate:   time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
			EmailSent:          true,
			IPAddress:          "1.2.3.4",
		},
		{
			ID:                 uuid.New(),
			FullName:           "Ravi Kumar",
			Email:              "ravi@example.com",
			Phone:              "9123456789",
			Branch:             "Computer Science",
			YearOfStudy:        "1st Year",
			WorkshopAttendance: "No",
			RegistrationDate:   time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, regs))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, []string{
		id.String(), "Asha Patel", "asha@example.com", "9876543210", "IT",
		"2nd Year", "Yes", "asha", "2025-06-01 10:30:00", "Yes", "1.2.3.4",
	}, records[1])
	assert.Equal(t, "No", records[2][9])
	assert.Equal(t, "", records[2][7])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, exportHeader, records[0])
}
