package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// ToCSV writes the header row followed by every data row. Values are
// quoted as needed. A file left half written is removed.
func ToCSV(result *models.TabularResult, path string) (err error) {
	if err := checkResult(FormatCSV, result, path); err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return apperrors.NewExportError(string(FormatCSV), path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewExportError(string(FormatCSV), path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = apperrors.NewExportError(string(FormatCSV), path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(result.Headers); err != nil {
		return apperrors.NewExportError(string(FormatCSV), path, err)
	}
	if err := w.WriteAll(result.Rows); err != nil {
		return apperrors.NewExportError(string(FormatCSV), path, err)
	}
	return nil
}

// ReadCSV reads a file written by ToCSV back into a result.
func ReadCSV(path string) (*models.TabularResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewExportError(string(FormatCSV), path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	headers, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("file is empty")
		}
		return nil, apperrors.NewExportError(string(FormatCSV), path, err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, apperrors.NewExportError(string(FormatCSV), path, err)
	}
	if rows == nil {
		rows = [][]string{}
	}
	return &models.TabularResult{Headers: headers, Rows: rows}, nil
}
