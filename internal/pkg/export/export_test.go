package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

func studentList() *models.TabularResult {
	return &models.TabularResult{
		Headers: []string{"Roll No", "Name", "Course", "Year", "Faculty", "Email", "Contact", "Enroll Date"},
		Rows: [][]string{
			{"R001", "Asha Rao", "BCA", "First Year", "School of Computer Science", "asha@example.edu", "", "2024-07-01"},
			{"R002", "Das, Bina \"BD\"", "BCA", "First Year", "School of Computer Science", "", "98765", "2024-08-01"},
			{"R003", "Zoë Müller", "MCA", "Second Year", "School of Computer Science", "", "", "2024-08-02"},
		},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "students.csv")
	in := studentList()

	require.NoError(t, ToCSV(in, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(raw), "\n")
	assert.Equal(t, "Roll No,Name,Course,Year,Faculty,Email,Contact,Enroll Date", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "R001,Asha Rao,"))
	assert.Contains(t, string(raw), `"Das, Bina ""BD"""`)

	out, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCSVEmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	in := &models.TabularResult{Headers: []string{"Date", "Student"}, Rows: [][]string{}}

	require.NoError(t, ToCSV(in, path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,Student\n", string(raw))

	out, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCSVFailures(t *testing.T) {
	dir := t.TempDir()

	err := ToCSV(&models.TabularResult{}, filepath.Join(dir, "none.csv"))
	assert.ErrorIs(t, err, apperrors.ErrExport)

	ragged := &models.TabularResult{Headers: []string{"A", "B"}, Rows: [][]string{{"1"}}}
	err = ToCSV(ragged, filepath.Join(dir, "ragged.csv"))
	assert.ErrorIs(t, err, apperrors.ErrExport)
	_, statErr := os.Stat(filepath.Join(dir, "ragged.csv"))
	assert.True(t, os.IsNotExist(statErr))

	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	err = ToCSV(studentList(), filepath.Join(blocker, "x.csv"))
	assert.ErrorIs(t, err, apperrors.ErrExport)

	_, err = ReadCSV(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, apperrors.ErrExport)
}

func assertPDF(t *testing.T, path string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
	assert.True(t, bytes.HasSuffix(bytes.TrimSpace(raw), []byte("%%EOF")))
}

func TestToPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.pdf")
	require.NoError(t, ToPDF(studentList(), path, "Full Student List"))
	assertPDF(t, path)
}

func TestPDFLayout(t *testing.T) {
	generated := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

	wide := buildPDF(studentList(), "Full Student List", generated)
	require.NoError(t, wide.Error())
	w, h := wide.GetPageSize()
	assert.Greater(t, w, h)

	narrow := &models.TabularResult{Headers: []string{"Date", "Student", "Amount", "Type", "Receipt#"}, Rows: [][]string{}}
	portrait := buildPDF(narrow, "Payment History", generated)
	require.NoError(t, portrait.Error())
	w, h = portrait.GetPageSize()
	assert.Less(t, w, h)
	assert.Equal(t, 1, portrait.PageCount())

	long := &models.TabularResult{Headers: []string{"Semester", "Subject"}, Rows: [][]string{}}
	for i := 0; i < 120; i++ {
		long.Rows = append(long.Rows, []string{"1", strings.Repeat("Very long subject name ", 10)})
	}
	paged := buildPDF(long, "Student Marks", generated)
	require.NoError(t, paged.Error())
	assert.Greater(t, paged.PageCount(), 1)
}

func TestFit(t *testing.T) {
	pdf := buildPDF(&models.TabularResult{Headers: []string{"A"}}, "t", time.Now())
	pdf.SetFont("Arial", "", 9)

	assert.Equal(t, "short", fit(pdf, "short", 40))
	cut := fit(pdf, strings.Repeat("x", 200), 22)
	assert.True(t, strings.HasSuffix(cut, "..."))
	assert.LessOrEqual(t, pdf.GetStringWidth(cut), 22-2*pdf.GetCellMargin())
}

func TestEngineExport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	engine := NewEngine(zerolog.Nop())

	require.NoError(t, engine.Export(ctx, FormatCSV, studentList(), filepath.Join(dir, "a.csv"), "Full Student List"))
	require.NoError(t, engine.Export(ctx, FormatPDF, studentList(), filepath.Join(dir, "a.pdf"), "Full Student List"))
	assertPDF(t, filepath.Join(dir, "a.pdf"))

	err := engine.Export(ctx, Format("xlsx"), studentList(), filepath.Join(dir, "a.xlsx"), "")
	assert.ErrorIs(t, err, apperrors.ErrExport)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = engine.Export(cancelled, FormatCSV, studentList(), filepath.Join(dir, "b.csv"), "")
	assert.ErrorIs(t, err, apperrors.ErrExport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" .PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, ".pdf", f.Extension())

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}
