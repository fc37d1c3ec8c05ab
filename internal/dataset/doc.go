// Package dataset loads the country temperature records served by the API
// and answers average queries over them.
//
// A Dataset is built once, before the HTTP listener starts, and is never
// modified afterwards. Every request handler shares the same *Dataset and
// only reads from it, so no locking is needed.
//
// Loading validates each record up front: a record without a country or
// with a non-numeric temperature fails the whole load instead of surfacing
// as a bad value at query time.
//
// Example usage:
//
//	ds, err := dataset.Load("climate.json", dataset.LoadOptions{SkipMissing: true})
//	if err != nil {
//		// refuse to start
//	}
//	res := ds.Average("Brazil")
//	fmt.Println(res) // "15"
package dataset
