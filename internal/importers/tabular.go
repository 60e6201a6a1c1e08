package importers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var requiredColumns = []string{"question", "answer", "category", "difficulty"}

// columnIndex maps header names (case-insensitive) to their positions.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q in header", col)
		}
	}
	return index, nil
}

// rowsToCards converts a header row plus data rows. Blank rows are skipped.
func rowsToCards(rows [][]string) ([]RawCard, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	index, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	cell := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	cards := make([]RawCard, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		cards = append(cards, RawCard{
			Question:   cell(row, "question"),
			Answer:     cell(row, "answer"),
			Category:   cell(row, "category"),
			Difficulty: cell(row, "difficulty"),
		})
	}
	return cards, nil
}

type CSVParser struct{}

func (CSVParser) Parse(r io.Reader) ([]RawCard, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	return rowsToCards(rows)
}

// XLSXParser reads the named sheet, or the first sheet when Sheet is empty.
type XLSXParser struct {
	Sheet string
}

func (p XLSXParser) Parse(r io.Reader) ([]RawCard, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := p.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rowsToCards(rows)
}
