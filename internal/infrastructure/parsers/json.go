package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses source reports from JSON format.
type JSONParser struct{}

// Parse reads a JSON array of reports from the reader.
func (p *JSONParser) Parse(r io.Reader) ([]RawReport, error) {
	var reports []RawReport

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&reports); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Set line numbers (array index + 1, 1-indexed)
	for i := range reports {
		reports[i].LineNum = i + 1
	}

	return reports, nil
}
