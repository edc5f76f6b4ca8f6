package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/racegate/internal/adapters/fetch"
	"github.com/okian/racegate/internal/domain/normalize"
)

const salePage = `<!doctype html><html><head></head><body>
<script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"event":{
  "categories":[{"ref":"c1","name":"Open"},{"ref":"c2","name":"Doubles"}],
  "tickets":[
    {"name":"HYROX MEN","active":true,"v":12,"categoryRef":"c1","styleOptions":{}},
    {"name":"HYROX WOMEN","active":true,"v":0,"categoryRef":"c1","styleOptions":{}},
    {"name":"HYROX PRO","active":false,"v":9,"categoryRef":"c1","styleOptions":{}},
    {"name":"HYROX HIDDEN","active":true,"v":4,"categoryRef":"c1","styleOptions":{"hiddenInSelectionArea":true}},
    {"name":"HYROX DOUBLES","active":true,"v":7,"categoryRef":"c2","styleOptions":{}},
    {"name":"HYROX LOST","active":true,"v":2,"categoryRef":"zzz","styleOptions":{}}
  ]
}}}}
</script></body></html>`

func TestInventory(t *testing.T) {
	Convey("Given a sale page embedding event data", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(salePage))
		}))
		defer srv.Close()

		f := fetch.New()

		Convey("When fetching inventory", func() {
			rows, err := f.Inventory(context.Background(), srv.URL)

			Convey("Then only active, in-stock, visible tickets survive", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldResemble, []normalize.RawLine{
					{Category: "Open", Name: "HYROX MEN", Stock: 12},
					{Category: "Doubles", Name: "HYROX DOUBLES", Stock: 7},
					{Category: "Unknown", Name: "HYROX LOST", Stock: 2},
				})
			})
		})
	})

	Convey("Given the event payload only exists under fallback", t, func() {
		page := `<script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"fallback":{"event":{
  "categories":[{"ref":"c1","name":"Open"}],
  "tickets":[{"name":"MEN","active":true,"v":3,"categoryRef":"c1","styleOptions":{}}]
}}}}}
</script>`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(page))
		}))
		defer srv.Close()

		Convey("When fetching inventory", func() {
			rows, err := fetch.New().Inventory(context.Background(), srv.URL)

			Convey("Then the fallback payload is used", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].Name, ShouldEqual, "MEN")
			})
		})
	})

	Convey("Given a page without event data", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{}}}</script>`))
		}))
		defer srv.Close()

		Convey("When fetching inventory", func() {
			rows, err := fetch.New().Inventory(context.Background(), srv.URL)

			Convey("Then an empty inventory is returned without error", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a page without the data script tag", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body>nothing here</body></html>"))
		}))
		defer srv.Close()

		Convey("When fetching inventory", func() {
			_, err := fetch.New().Inventory(context.Background(), srv.URL)

			Convey("Then the no-page-data sentinel is returned", func() {
				So(err, ShouldWrap, fetch.ErrNoPageData)
			})
		})
	})

	Convey("Given a server returning an error status", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		Convey("When fetching inventory", func() {
			_, err := fetch.New().Inventory(context.Background(), srv.URL)

			Convey("Then the bad-status sentinel is returned", func() {
				So(err, ShouldWrap, fetch.ErrBadStatus)
			})
		})
	})
}
