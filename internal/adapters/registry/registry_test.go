package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/racegate/internal/adapters/registry"
	"github.com/okian/racegate/internal/domain/model"
)

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	Convey("Given a registry file with comments and mixed entries", t, func() {
		ctx := context.Background()
		path := writeRegistry(t, `[
  // flagship race
  {"id": "hyrox-vienna-2026", "name": "HYROX Vienna", "url": "https://example.test/vienna", "startDate": "06.02.2026"},
  {"id": "hyrox-berlin-2026", "name": "HYROX Berlin", "url": "https://example.test/berlin", "startDate": "not-a-date"},
  {"id": "", "name": "nameless", "url": "https://example.test/none"},
  {"id": "no-url", "name": "No URL"},
  {"id": "hyrox-madrid-2026", "url": "https://example.test/madrid"},
]`)

		Convey("When loading", func() {
			events, err := registry.Load(ctx, path)

			Convey("Then valid entries come back as descriptors", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 3)
				So(events[0].ID, ShouldEqual, "hyrox-vienna-2026")
				So(events[0].StartDate.Equal(model.NewDay(2026, time.February, 6)), ShouldBeTrue)
			})

			Convey("Then a malformed start date keeps the event, dateless", func() {
				So(events[1].ID, ShouldEqual, "hyrox-berlin-2026")
				So(events[1].StartDate.IsZero(), ShouldBeTrue)
			})

			Convey("Then entries without id or url are dropped", func() {
				for _, ev := range events {
					So(ev.ID, ShouldNotBeEmpty)
					So(ev.URL, ShouldNotBeEmpty)
				}
			})

			Convey("Then a missing name falls back to the id", func() {
				So(events[2].Name, ShouldEqual, "hyrox-madrid-2026")
			})
		})
	})

	Convey("Given no registry file", t, func() {
		ctx := context.Background()

		Convey("When loading", func() {
			_, err := registry.Load(ctx, filepath.Join(t.TempDir(), "missing.json"))

			Convey("Then the missing-registry sentinel is returned", func() {
				So(err, ShouldWrap, registry.ErrMissingRegistry)
			})
		})
	})

	Convey("Given a registry file that is not a JSON list", t, func() {
		ctx := context.Background()
		path := writeRegistry(t, `{"oops": true}`)

		Convey("When loading", func() {
			_, err := registry.Load(ctx, path)

			Convey("Then the bad-registry sentinel is returned", func() {
				So(err, ShouldWrap, registry.ErrBadRegistry)
			})
		})
	})
}
