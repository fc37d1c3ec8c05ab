package dataset

import (
	"bytes"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
)

// LoadOptions controls how records without a temperature are treated.
type LoadOptions struct {
	// SkipMissing drops records whose AverageTemperature is empty instead
	// of failing the load.
	SkipMissing bool
}

// Load reads the JSON file at path in full and decodes it into a Dataset.
func Load(path string, opts LoadOptions) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	ds, err := decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return ds, nil
}

// Decode reads a JSON array of records from r.
func Decode(r io.Reader, opts LoadOptions) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return decode(data, opts)
}

func decode(data []byte, opts LoadOptions) (*Dataset, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top-level value must be a JSON array", ErrDecode)
	}

	var raw []Record
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	ds := &Dataset{records: make([]Record, 0, len(raw))}

	for i, rec := range raw {
		missing, err := rec.validate(i)
		if err != nil {
			return nil, err
		}

		if missing {
			if !opts.SkipMissing {
				return nil, &RecordError{Index: i, Field: "AverageTemperature", Reason: "missing value"}
			}
			ds.skipped++
			continue
		}

		ds.records = append(ds.records, rec)
	}

	return ds, nil
}
