package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVParser parses source reports from CSV format.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed reports.
// Expected columns: source, summary; optional: id, title, url, published_at
func (p *CSVParser) Parse(r io.Reader) ([]RawReport, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[col] = i
	}

	requiredCols := []string{"source", "summary"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawReports.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawReport, error) {
	var reports []RawReport
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		reports = append(reports, RawReport{
			ID:          getColumn(record, colIndex, "id"),
			Source:      getColumn(record, colIndex, "source"),
			Title:       getColumn(record, colIndex, "title"),
			URL:         getColumn(record, colIndex, "url"),
			Summary:     getColumn(record, colIndex, "summary"),
			PublishedAt: getColumn(record, colIndex, "published_at"),
			LineNum:     lineNum,
		})
	}

	return reports, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
