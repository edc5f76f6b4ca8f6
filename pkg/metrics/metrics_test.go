package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with empty or nil option values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the defaults are kept", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "racegate")
				So(manager.subsystem, ShouldEqual, "tracker")
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording scan metrics", func() {
			So(func() {
				RecordScanRun()
				ObserveScanDuration(1.5)
				RecordEventCaptured()
				RecordEventSkipped()
				RecordFetchError()
			}, ShouldNotPanic)
		})

		Convey("When recording history metrics", func() {
			So(func() {
				RecordHistoryWrite()
				RecordCorruptHistory()
			}, ShouldNotPanic)
		})

		Convey("When recording classification metrics", func() {
			So(func() {
				RecordTransition("restock")
				RecordTransition("low_stock")
				RecordTransition("soldout")
				RecordTransition("new_event")
				UpdateFeedSize(20)
				RecordFeedPublished()
			}, ShouldNotPanic)
		})

		Convey("When recording pool metrics with edge values", func() {
			So(func() {
				UpdateQueueSize(0)
				UpdateQueueSize(-1)
				UpdateQueueSize(100000)
				UpdateWorkerCount(0)
				UpdateWorkerCount(16)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("/feed", "200")
				RecordHTTPRequest("", "")
				ObserveHTTPDuration("/feed", 0.01)
				ObserveHTTPDuration("", 0)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recording", t, func() {
		done := make(chan bool, 10)

		for i := 0; i < 10; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					RecordEventCaptured()
					UpdateQueueSize(j)
					RecordTransition("restock")
					RecordHTTPRequest("/feed", "200")
				}
				done <- true
			}()
		}

		for i := 0; i < 10; i++ {
			<-done
		}

		Convey("Then it should handle concurrent access without panics", func() {
			So(true, ShouldBeTrue)
		})
	})
}
