package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager on its own registry", t, func() {
		m := NewManager(WithNamespace("test"))

		Convey("When profile views are recorded", func() {
			m.RecordProfileView("anonymous", false)
			m.RecordProfileView("anonymous", false)
			m.RecordProfileView("owner", true)

			Convey("Then they are counted per viewer class and detail", func() {
				So(testutil.ToFloat64(m.profileViews.WithLabelValues("anonymous", "redacted")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.profileViews.WithLabelValues("owner", "full")), ShouldEqual, 1)
			})
		})

		Convey("When unlocks and backfills are recorded", func() {
			m.RecordUnlock("charged")
			m.RecordBackfill(3)
			m.RecordBackfill(0)

			Convey("Then the counters reflect them", func() {
				So(testutil.ToFloat64(m.profileUnlocks.WithLabelValues("charged")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.completionBackfills), ShouldEqual, 3)
			})
		})

		Convey("When the handler is scraped", func() {
			m.RecordHTTPRequest("/v1/candidates/:id", "GET", 200, 15*time.Millisecond)
			rec := httptest.NewRecorder()
			m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then the exposition contains the request counter", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(strings.Contains(rec.Body.String(), "test_api_http_requests_total"), ShouldBeTrue)
			})
		})
	})

	Convey("Given a batch run that recorded a backfill", t, func() {
		m := NewManager()
		m.RecordBackfill(4)

		var method, path, body string
		gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			method, path, body = r.Method, r.URL.Path, string(raw)
			w.WriteHeader(http.StatusOK)
		}))
		defer gateway.Close()

		Convey("When it is pushed to the gateway", func() {
			err := m.Push(context.Background(), gateway.URL, "backfill_completion")

			Convey("Then the gateway receives the counter under the job", func() {
				So(err, ShouldBeNil)
				So(method, ShouldEqual, http.MethodPut)
				So(path, ShouldEqual, "/metrics/job/backfill_completion")
				So(body, ShouldNotBeEmpty)
			})
		})

		Convey("When no gateway is configured", func() {
			So(m.Push(context.Background(), "", "backfill_completion"), ShouldBeNil)
		})
	})

	Convey("Given a nil manager", t, func() {
		var m *Manager

		Convey("Then recording is a no-op", func() {
			So(func() {
				m.RecordProfileView("anonymous", false)
				m.ObserveCompletion(50)
				m.RecordUnlock("charged")
				m.RecordHTTPRequest("/", "GET", 200, time.Millisecond)
			}, ShouldNotPanic)
			So(m.Registry(), ShouldBeNil)
		})
	})
}
