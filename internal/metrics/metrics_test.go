package metrics_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/climate-api/internal/metrics"
)

var _ = Describe("Metrics", func() {
	var m *metrics.Metrics

	BeforeEach(func() {
		m = metrics.NewMetrics()
	})

	Describe("NewMetrics", func() {
		It("should create a new metrics instance", func() {
			Expect(m).NotTo(BeNil())
		})
	})

	Describe("IncrementQueries", func() {
		It("should increment query count for a country", func() {
			m.IncrementQueries("Brazil")
			m.IncrementQueries("Brazil")

			snap := m.Snapshot()
			Expect(snap.TotalQueries).To(Equal(int64(2)))
			Expect(snap.Countries["Brazil"].Queries).To(Equal(int64(2)))
		})

		It("should track multiple countries separately", func() {
			m.IncrementQueries("Brazil")
			m.IncrementQueries("Chile")
			m.IncrementQueries("Brazil")

			snap := m.Snapshot()
			Expect(snap.TotalQueries).To(Equal(int64(3)))
			Expect(snap.Countries["Brazil"].Queries).To(Equal(int64(2)))
			Expect(snap.Countries["Chile"].Queries).To(Equal(int64(1)))
		})
	})

	Describe("RecordQuery", func() {
		It("should record scan time, outcome and status code", func() {
			m.RecordQuery("Brazil", "matched", 100*time.Millisecond, 200)
			m.RecordQuery("Brazil", "matched", 200*time.Millisecond, 200)

			snap := m.Snapshot()
			country := snap.Countries["Brazil"]

			Expect(country.AvgResponse).To(Equal(150 * time.Millisecond))
			Expect(country.StatusCodes[200]).To(Equal(int64(2)))
			Expect(country.Outcomes["matched"]).To(Equal(int64(2)))
		})

		It("should track different outcomes", func() {
			m.RecordQuery("Peru", "no_match", time.Millisecond, 200)
			m.RecordQuery("Peru", "matched", time.Millisecond, 200)
			m.RecordQuery("Peru", "no_match", time.Millisecond, 200)

			snap := m.Snapshot()
			Expect(snap.Countries["Peru"].Outcomes).To(Equal(map[string]int64{
				"matched":  1,
				"no_match": 2,
			}))
		})

		It("should calculate percentiles correctly", func() {
			for i := 1; i <= 100; i++ {
				m.RecordQuery("Brazil", "matched", time.Duration(i)*time.Millisecond, 200)
			}

			country := m.Snapshot().Countries["Brazil"]

			Expect(country.P50Response).To(BeNumerically("~", 50*time.Millisecond, 1*time.Millisecond))
			Expect(country.P95Response).To(BeNumerically("~", 95*time.Millisecond, 1*time.Millisecond))
			Expect(country.P99Response).To(BeNumerically("~", 99*time.Millisecond, 1*time.Millisecond))
		})

		It("should limit stored scan times to 1000", func() {
			for i := 1; i <= 1500; i++ {
				m.RecordQuery("Brazil", "matched", time.Duration(i)*time.Millisecond, 200)
			}

			country := m.Snapshot().Countries["Brazil"]
			Expect(country.AvgResponse).To(BeNumerically(">", 500*time.Millisecond))
		})
	})

	Describe("SetDataset", func() {
		It("should report dataset size", func() {
			m.SetDataset(577462, 32651)

			snap := m.Snapshot()
			Expect(snap.Dataset.Records).To(Equal(577462))
			Expect(snap.Dataset.Skipped).To(Equal(32651))
		})
	})

	Describe("Snapshot", func() {
		It("should include uptime", func() {
			time.Sleep(10 * time.Millisecond)

			snap := m.Snapshot()
			Expect(snap.Uptime).To(BeNumerically(">", 0))
		})

		It("should handle empty metrics", func() {
			snap := m.Snapshot()

			Expect(snap.TotalQueries).To(Equal(int64(0)))
			Expect(snap.Countries).To(BeEmpty())
		})

		It("should return independent snapshot", func() {
			m.IncrementQueries("Brazil")
			m.RecordQuery("Brazil", "matched", time.Millisecond, 200)

			snap1 := m.Snapshot()
			m.IncrementQueries("Brazil")
			m.RecordQuery("Brazil", "matched", time.Millisecond, 200)
			snap2 := m.Snapshot()

			Expect(snap1.TotalQueries).To(Equal(int64(1)))
			Expect(snap1.Countries["Brazil"].Outcomes["matched"]).To(Equal(int64(1)))
			Expect(snap2.TotalQueries).To(Equal(int64(2)))
			Expect(snap2.Countries["Brazil"].Outcomes["matched"]).To(Equal(int64(2)))
		})
	})
})
