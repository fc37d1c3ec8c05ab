// Loadtest is a concurrent HTTP load generator for the climate API. It
// spreads GET /api/climate/{name} requests over a list of countries and
// reports throughput, latency percentiles and how many answers were NaN.
//
// Usage:
//
//	go run loadtest.go -base http://localhost:3000 -countries Brazil,Chile,Peru -concurrency 20 -requests 5000
//	go run loadtest.go -requests 1000 -csv results.csv -out summary.json
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

// CountryStats tracks results for one queried country.
type CountryStats struct {
	Count     int32           `json:"count"`
	Success   int32           `json:"success"`
	Failure   int32           `json:"failure"`
	NaN       int32           `json:"nan"`
	LastBody  string          `json:"last_body"`
	Latencies []time.Duration `json:"-"`
}

func main() {
	var (
		base        = flag.String("base", "http://localhost:3000", "Base URL of the climate API")
		countryList = flag.String("countries", "Brazil,Chile,Peru", "Comma-separated country names to query")
		concurrency = flag.Int("concurrency", 10, "Number of concurrent workers")
		requests    = flag.Int("requests", 100, "Total number of requests to send")
		timeoutSec  = flag.Int("timeout", 10, "Per-request timeout in seconds")
	)

	outJSON := flag.String("out", "", "Write JSON summary to this file (optional)")
	outCSV := flag.String("csv", "", "Write per-request CSV to this file (optional)")
	verbose := flag.Bool("v", false, "Verbose per-request logging to stdout")
	flag.Parse()

	countries := strings.Split(*countryList, ",")
	client := &http.Client{Timeout: time.Duration(*timeoutSec) * time.Second}

	jobs := make(chan int)
	var wg sync.WaitGroup

	var total, success, failure int32

	stats := make(map[string]*CountryStats)
	for _, c := range countries {
		stats[c] = &CountryStats{}
	}
	var statsMu sync.Mutex

	var allLatencies []time.Duration
	var latMu sync.Mutex

	var csvFile *os.File
	var csvWriter *csv.Writer
	var csvMu sync.Mutex
	if *outCSV != "" {
		f, err := os.Create(*outCSV)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create csv file: %v\n", err)
			os.Exit(1)
		}
		csvFile = f
		csvWriter = csv.NewWriter(f)
		csvWriter.Write([]string{"idx", "timestamp", "country", "status", "body", "duration_ms"})
	}

	testStart := time.Now()

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				atomic.AddInt32(&total, 1)
				country := countries[idx%len(countries)]
				target := strings.TrimRight(*base, "/") + "/api/climate/" + url.PathEscape(country)

				start := time.Now()
				resp, err := client.Get(target)
				dur := time.Since(start)

				latMu.Lock()
				allLatencies = append(allLatencies, dur)
				latMu.Unlock()

				if err != nil {
					atomic.AddInt32(&failure, 1)
					if *verbose {
						fmt.Printf("[%d] idx=%d error=%v\n", workerID, idx, err)
					}
					continue
				}

				body, _ := io.ReadAll(resp.Body)
				resp.Body.Close()
				text := strings.TrimSpace(string(body))
				ok := resp.StatusCode == http.StatusOK

				if ok {
					atomic.AddInt32(&success, 1)
				} else {
					atomic.AddInt32(&failure, 1)
				}

				statsMu.Lock()
				cs := stats[country]
				cs.Count++
				if ok {
					cs.Success++
				} else {
					cs.Failure++
				}
				if text == "NaN" {
					cs.NaN++
				}
				cs.LastBody = text
				cs.Latencies = append(cs.Latencies, dur)
				statsMu.Unlock()

				if csvWriter != nil {
					csvMu.Lock()
					csvWriter.Write([]string{
						strconv.Itoa(idx),
						time.Now().Format(time.RFC3339Nano),
						country,
						strconv.Itoa(resp.StatusCode),
						text,
						fmt.Sprintf("%.3f", float64(dur.Microseconds())/1000.0),
					})
					csvMu.Unlock()
				}

				if *verbose {
					fmt.Printf("[%d] idx=%d country=%q status=%d body=%s dur=%v\n", workerID, idx, country, resp.StatusCode, text, dur)
				}
			}
		}(i)
	}

	go func() {
		for i := 0; i < *requests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	wg.Wait()
	totalDuration := time.Since(testStart)

	if csvWriter != nil {
		csvWriter.Flush()
		csvFile.Close()
	}

	throughput := float64(total) / totalDuration.Seconds()

	fmt.Println("--- Load Test Summary ---")
	fmt.Printf("Target: %s/api/climate/{name}\n", *base)
	fmt.Printf("Requests: %d  Concurrency: %d\n", *requests, *concurrency)
	fmt.Printf("Total sent: %d  Success: %d  Failure: %d\n", total, success, failure)
	fmt.Printf("Duration: %v  Throughput: %.2f req/s\n", totalDuration, throughput)

	fmt.Println("\nPer-country results:")
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cs := stats[k]
		fmt.Printf("  %q -> total=%d success=%d failure=%d nan=%d mean=%s\n", k, cs.Count, cs.Success, cs.Failure, cs.NaN, cs.LastBody)
		if len(cs.Latencies) > 0 {
			p50, p90, p99 := percentiles(cs.Latencies)
			fmt.Printf("    latencies: samples=%d p50=%v p90=%v p99=%v\n", len(cs.Latencies), p50, p90, p99)
		}
	}

	if len(allLatencies) > 0 {
		p50, p90, p99 := percentiles(allLatencies)
		fmt.Println("\nOverall latencies:")
		fmt.Printf("  samples=%d p50=%v p90=%v p99=%v\n", len(allLatencies), p50, p90, p99)
	}

	fmt.Printf("\nGOMAXPROCS=%d  NumGoroutine=%d\n", runtime.GOMAXPROCS(0), runtime.NumGoroutine())

	if *outJSON != "" {
		report := map[string]interface{}{
			"base":           *base,
			"requests":       *requests,
			"concurrency":    *concurrency,
			"total_sent":     total,
			"success":        success,
			"failure":        failure,
			"duration_ms":    totalDuration.Milliseconds(),
			"throughput_rps": throughput,
			"countries":      stats,
		}

		f, err := os.Create(*outJSON)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create json file: %v\n", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		enc.Encode(report)
		f.Close()
		fmt.Printf("\nWrote JSON summary to %s\n", *outJSON)
	}

	if failure > 0 {
		os.Exit(2)
	}
}

func percentiles(latencies []time.Duration) (p50, p90, p99 time.Duration) {
	tmp := make([]time.Duration, len(latencies))
	copy(tmp, latencies)
	sort.Slice(tmp, func(i, j int) bool { return tmp[i] < tmp[j] })
	pick := func(p float64) time.Duration { return tmp[int(float64(len(tmp)-1)*p)] }
	return pick(0.50), pick(0.90), pick(0.99)
}
