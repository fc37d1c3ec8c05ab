package metrics_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	json "github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/angeloszaimis/climate-api/internal/metrics"
)

var _ = Describe("Collector", func() {
	var (
		collector *metrics.Collector
		log       *slog.Logger
		ctx       context.Context
		cancel    context.CancelFunc
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelError, // Suppress logs in tests
		}))
		ctx, cancel = context.WithCancel(context.Background())
		collector = metrics.NewCollector(100, log)
	})

	AfterEach(func() {
		cancel()
		time.Sleep(10 * time.Millisecond) // Allow goroutine to finish
	})

	Describe("NewCollector", func() {
		It("should create a collector with specified buffer size", func() {
			c := metrics.NewCollector(500, log)
			Expect(c).NotTo(BeNil())
			Expect(c.Prometheus()).NotTo(BeNil())
		})
	})

	Describe("Start and event processing", func() {
		It("should process EventQueryReceived", func() {
			collector.Start(ctx)

			collector.EventChannel() <- metrics.MetricEvent{
				Type:      metrics.EventQueryReceived,
				Timestamp: time.Now(),
				Country:   "Brazil",
			}

			Eventually(func() int64 {
				return collector.Snapshot().Countries["Brazil"].Queries
			}).Should(Equal(int64(1)))
		})

		It("should process EventQueryCompleted", func() {
			collector.Start(ctx)

			collector.EventChannel() <- metrics.MetricEvent{
				Type:       metrics.EventQueryCompleted,
				Timestamp:  time.Now(),
				Country:    "Brazil",
				Outcome:    "matched",
				Matches:    2,
				Duration:   100 * time.Millisecond,
				StatusCode: 200,
			}

			Eventually(func() int64 {
				return collector.Snapshot().Countries["Brazil"].StatusCodes[200]
			}).Should(Equal(int64(1)))

			country := collector.Snapshot().Countries["Brazil"]
			Expect(country.AvgResponse).To(Equal(100 * time.Millisecond))
			Expect(country.Outcomes["matched"]).To(Equal(int64(1)))
			Expect(testutil.ToFloat64(collector.Prometheus().QueriesTotal("matched"))).To(Equal(1.0))
		})

		It("should process EventDatasetLoaded", func() {
			collector.Start(ctx)

			collector.EventChannel() <- metrics.MetricEvent{
				Type:    metrics.EventDatasetLoaded,
				Records: 3,
				Skipped: 1,
			}

			Eventually(func() int {
				return collector.Snapshot().Dataset.Records
			}).Should(Equal(3))
			Expect(collector.Snapshot().Dataset.Skipped).To(Equal(1))
			Expect(testutil.ToFloat64(collector.Prometheus().DatasetRecords())).To(Equal(3.0))
		})

		It("should drain events on context cancellation", func() {
			collector.Start(ctx)

			for i := 0; i < 5; i++ {
				collector.EventChannel() <- metrics.MetricEvent{
					Type:      metrics.EventQueryReceived,
					Timestamp: time.Now(),
					Country:   "Chile",
				}
			}

			cancel()

			Eventually(func() int64 {
				return collector.Snapshot().Countries["Chile"].Queries
			}).Should(Equal(int64(5)))
		})
	})

	Describe("Handler", func() {
		It("should serve the snapshot as JSON", func() {
			collector.Start(ctx)
			collector.EventChannel() <- metrics.MetricEvent{
				Type:    metrics.EventQueryReceived,
				Country: "Peru",
			}
			Eventually(func() int64 { return collector.Snapshot().TotalQueries }).Should(Equal(int64(1)))

			w := httptest.NewRecorder()
			collector.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("application/json"))

			var snap metrics.Snapshot
			Expect(json.Unmarshal(w.Body.Bytes(), &snap)).To(Succeed())
			Expect(snap.TotalQueries).To(Equal(int64(1)))
			Expect(snap.Countries).To(HaveKey("Peru"))
		})
	})

	Describe("Prometheus handler", func() {
		It("should expose the climate collectors", func() {
			collector.Prometheus().ObserveQuery("no_match", 0, time.Millisecond)
			collector.Prometheus().SetDataset(10, 2)

			srv := httptest.NewServer(collector.Prometheus().Handler())
			defer srv.Close()

			resp, err := http.Get(srv.URL)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`climate_queries_total{outcome="no_match"} 1`))
			Expect(string(body)).To(ContainSubstring("climate_dataset_records 10"))
			Expect(string(body)).To(ContainSubstring("climate_dataset_skipped_records 2"))
		})

		It("should resolve scan times in the microsecond range", func() {
			collector.Prometheus().ObserveQuery("matched", 3, 5*time.Microsecond)

			srv := httptest.NewServer(collector.Prometheus().Handler())
			defer srv.Close()

			resp, err := http.Get(srv.URL)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`climate_query_duration_seconds_bucket{le="1e-06"} 0`))
			Expect(string(body)).To(ContainSubstring("climate_query_duration_seconds_count 1"))
		})
	})
})
