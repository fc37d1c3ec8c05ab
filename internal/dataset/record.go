package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

var (
	ErrDecode        = errors.New("dataset: decode failed")
	ErrInvalidRecord = errors.New("dataset: invalid record")
)

// RecordError describes a record rejected during loading.
type RecordError struct {
	Index  int
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: field %s: %s", e.Index, e.Field, e.Reason)
}

func (e *RecordError) Unwrap() error {
	return ErrInvalidRecord
}

// Temperature is a decimal reading. The source file encodes it as a JSON
// string; bare numbers are accepted as well. An empty string or null leaves
// the reading unset.
type Temperature struct {
	value float64
	set   bool
	raw   string
}

// NewTemperature returns a set reading.
func NewTemperature(v float64) Temperature {
	return Temperature{value: v, set: true}
}

func (t Temperature) Float64() float64 { return t.value }

// Valid reports whether the reading was present in the source.
func (t Temperature) Valid() bool { return t.set }

func (t *Temperature) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = Temperature{}
		return nil
	}

	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		*t = Temperature{}
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// keep the raw text so the loader can report it with the record index
		*t = Temperature{raw: s}
		return nil
	}

	*t = Temperature{value: v, set: true}
	return nil
}

func (t Temperature) MarshalJSON() ([]byte, error) {
	if !t.set {
		return []byte(`""`), nil
	}
	return json.Marshal(strconv.FormatFloat(t.value, 'f', -1, 64))
}

// Record is one observation. Fields other than Country and
// AverageTemperature in the source file are ignored.
type Record struct {
	Country            string      `json:"Country"`
	AverageTemperature Temperature `json:"AverageTemperature"`
}

// validate checks a decoded record. missing is true when the record has no
// temperature reading at all.
func (r Record) validate(index int) (missing bool, err error) {
	if r.Country == "" {
		return false, &RecordError{Index: index, Field: "Country", Reason: "must not be empty"}
	}

	if r.AverageTemperature.raw != "" {
		return false, &RecordError{
			Index:  index,
			Field:  "AverageTemperature",
			Reason: fmt.Sprintf("%q is not a decimal number", r.AverageTemperature.raw),
		}
	}

	return !r.AverageTemperature.set, nil
}
