package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// LoadProfilesCSV reads a profile CSV into named columns. The first row
// is the header; every further row must parse as floats. All columns end
// up with the same length (the number of data rows).
func LoadProfilesCSV(path string) (map[string][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("read %s: need a header and at least one data row", path)
	}

	header := rows[0]
	profiles := make(map[string][]float64, len(header))
	for _, name := range header {
		if name == "" {
			return nil, fmt.Errorf("read %s: empty column name in header", path)
		}
		if _, dup := profiles[name]; dup {
			return nil, fmt.Errorf("read %s: duplicate column %q", path, name)
		}
		profiles[name] = make([]float64, 0, len(rows)-1)
	}

	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("read %s: row %d has %d fields, want %d", path, i+2, len(row), len(header))
		}
		for j, field := range row {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("read %s: row %d column %q: %w", path, i+2, header[j], err)
			}
			profiles[header[j]] = append(profiles[header[j]], v)
		}
	}
	return profiles, nil
}
