package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManager(t *testing.T) {
	Convey("Given a metrics manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithRegistry(registry))

		Convey("Then it uses that registry", func() {
			So(manager.Registry(), ShouldEqual, registry)
			So(manager.Enabled(), ShouldBeTrue)
		})

		Convey("When a request is recorded", func() {
			manager.RecordHTTPRequest("/players", http.MethodGet, http.StatusOK, 20*time.Millisecond)
			manager.RecordHTTPRequest("/players", http.MethodGet, http.StatusOK, 40*time.Millisecond)

			Convey("Then the counter and histogram are updated", func() {
				So(testutil.ToFloat64(manager.httpRequests.WithLabelValues("/players", "GET", "200")), ShouldEqual, 2)
				So(testutil.CollectAndCount(manager.httpRequestDuration), ShouldEqual, 1)
			})
		})

		Convey("When logins are recorded", func() {
			manager.RecordLogin("created")
			manager.RecordLogin("rejected")
			manager.RecordLogin("rejected")

			Convey("Then they are counted per outcome", func() {
				So(testutil.ToFloat64(manager.logins.WithLabelValues("created")), ShouldEqual, 1)
				So(testutil.ToFloat64(manager.logins.WithLabelValues("rejected")), ShouldEqual, 2)
			})
		})

		Convey("When player mutations are recorded", func() {
			manager.RecordPlayerMutation("create", ResultOK)
			manager.RecordPlayerMutation("update", ResultInvalid)

			Convey("Then the exposition includes them", func() {
				expected := `
# HELP bstats_players_mutations_total Player record mutations by operation and result
# TYPE bstats_players_mutations_total counter
bstats_players_mutations_total{operation="create",result="ok"} 1
bstats_players_mutations_total{operation="update",result="invalid"} 1
`
				err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "bstats_players_mutations_total")
				So(err, ShouldBeNil)
			})
		})

		Convey("When the handler is scraped", func() {
			manager.RecordLogin("authenticated")
			rec := httptest.NewRecorder()
			manager.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then it serves the exposition format", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `bstats_auth_logins_total{outcome="authenticated"} 1`)
			})
		})
	})

	Convey("Given a disabled metrics manager", t, func() {
		manager := NewManager(WithMetricsEnabled(false))

		Convey("When events are recorded", func() {
			manager.RecordLogin("created")
			manager.RecordPlayerMutation("create", ResultOK)

			Convey("Then nothing is counted", func() {
				So(testutil.ToFloat64(manager.logins.WithLabelValues("created")), ShouldEqual, 0)
			})
		})
	})

	Convey("Given options", t, func() {
		manager := NewManager(
			WithNamespace("test"),
			WithHistogramBuckets([]float64{0.1, 1}),
			WithRuntimeCollectors(),
		)

		Convey("Then metric names use the namespace", func() {
			manager.RecordLogin("created")
			So(testutil.CollectAndCount(manager.logins, "test_auth_logins_total"), ShouldEqual, 1)
		})

		Convey("Then runtime collectors are registered", func() {
			families, err := manager.Registry().Gather()
			So(err, ShouldBeNil)

			found := false
			for _, f := range families {
				if strings.HasPrefix(f.GetName(), "go_") {
					found = true
					break
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}
