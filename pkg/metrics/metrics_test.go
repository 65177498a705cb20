package metrics

import (
	"bytes"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it owns a private registry", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Registry(), ShouldNotBeNil)
				So(manager.Registry(), ShouldNotEqual, Default().Registry())
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithPayloadBuckets([]float64{10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithRegistry(registry),
			)
			manager.scoresRecorded.Inc()

			Convey("Then metric names and labels follow the options", func() {
				var buf bytes.Buffer
				So(manager.WriteText(&buf), ShouldBeNil)
				So(manager.Registry(), ShouldEqual, registry)
				So(buf.String(), ShouldContainSubstring, `test_namespace_test_subsystem_scores_recorded_total{env="test"} 1`)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the process-wide manager", t, func() {
		RecordScoreRecorded()
		RecordNameUpdate()
		RecordScoreReset()
		UpdateLedger(3, 120)
		RecordGuardRejection("too_large")
		ObserveGuardPayload(2048)
		RecordCorruptDiscard("activityScores")
		RecordDurabilityFailure("activityScores", "too_large")
		RecordStorageOperation("memory", OpSet, nil)
		RecordStorageOperation("memory", OpGet, errors.New("boom"))

		Convey("When rendering as text", func() {
			var buf bytes.Buffer
			err := WriteText(&buf)
			out := buf.String()

			Convey("Then every family is present", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "logquest_progress_scores_recorded_total")
				So(out, ShouldContainSubstring, "logquest_progress_name_updates_total")
				So(out, ShouldContainSubstring, "logquest_progress_score_resets_total")
				So(out, ShouldContainSubstring, "logquest_progress_ledger_entries 3")
				So(out, ShouldContainSubstring, "logquest_progress_total_score 120")
				So(out, ShouldContainSubstring, `logquest_progress_guard_rejections_total{reason="too_large"}`)
				So(out, ShouldContainSubstring, "logquest_progress_guard_payload_bytes_bucket")
				So(out, ShouldContainSubstring, `logquest_progress_corrupt_discards_total{key="activityScores"}`)
				So(out, ShouldContainSubstring, `logquest_progress_durability_failures_total{key="activityScores",reason="too_large"}`)
				So(out, ShouldContainSubstring, `logquest_progress_storage_operations_total{backend="memory",op="get",result="error"}`)
				So(out, ShouldContainSubstring, `logquest_progress_storage_operations_total{backend="memory",op="set",result="ok"}`)
			})
		})
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteTextErrors(t *testing.T) {
	Convey("Given a writer that fails", t, func() {
		manager := NewManager()
		manager.nameUpdates.Inc()

		Convey("Then WriteText wraps ErrWriteFailed", func() {
			err := manager.WriteText(failingWriter{})
			So(errors.Is(err, ErrWriteFailed), ShouldBeTrue)
		})
	})
}
