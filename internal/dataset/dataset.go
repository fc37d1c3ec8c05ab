package dataset

import (
	"math"
	"strconv"
)

// Dataset is an ordered, read-only collection of records.
type Dataset struct {
	records []Record
	skipped int
}

// New copies records into a Dataset. Later changes to the slice passed in
// are not visible through the Dataset.
func New(records []Record) *Dataset {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Dataset{records: cp}
}

// Len returns the number of records held.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Skipped returns how many source records were dropped during loading
// because they carried no temperature reading.
func (d *Dataset) Skipped() int {
	return d.skipped
}

// Records returns a copy of the records in source order.
func (d *Dataset) Records() []Record {
	cp := make([]Record, len(d.records))
	copy(cp, d.records)
	return cp
}

// Countries returns the distinct country names in the order they first
// appear.
func (d *Dataset) Countries() []string {
	seen := make(map[string]struct{})
	var out []string

	for _, r := range d.records {
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		out = append(out, r.Country)
	}

	return out
}

// Average scans every record once and averages the temperatures of those
// whose Country equals name byte for byte.
func (d *Dataset) Average(name string) Result {
	res := Result{Country: name, Outcome: OutcomeNoMatch}

	for _, r := range d.records {
		if r.Country != name {
			continue
		}
		res.Sum += r.AverageTemperature.Float64()
		res.Count++
	}

	if res.Count > 0 {
		res.Outcome = OutcomeMatched
	}

	return res
}

type Outcome int

const (
	OutcomeNoMatch Outcome = iota
	OutcomeMatched
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeNoMatch:
		return "no_match"
	default:
		return "unknown"
	}
}

// Result is the outcome of an Average query.
type Result struct {
	Country string
	Outcome Outcome
	Count   int
	Sum     float64
}

// Mean returns Sum/Count, or NaN when nothing matched.
func (r Result) Mean() float64 {
	if r.Outcome == OutcomeNoMatch || r.Count == 0 {
		return math.NaN()
	}
	return r.Sum / float64(r.Count)
}

// String formats the mean as the shortest decimal that round-trips, e.g.
// "15" or "12.345". A query with no matches formats as "NaN".
func (r Result) String() string {
	return strconv.FormatFloat(r.Mean(), 'f', -1, 64)
}
