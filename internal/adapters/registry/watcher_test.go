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

func TestWatch(t *testing.T) {
	Convey("Given a watched registry file", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "events.json")
		So(os.WriteFile(path, []byte(`[{"id": "hyrox-vienna-2026", "url": "https://example.test/vienna"}]`), 0o644), ShouldBeNil)

		reloads := make(chan []model.EventDescriptor, 4)
		stop, err := registry.Watch(ctx, path, func(events []model.EventDescriptor) {
			reloads <- events
		})
		So(err, ShouldBeNil)
		defer stop()

		Convey("When the file is replaced by an atomic rename", func() {
			tmp := filepath.Join(dir, "events.json.tmp")
			So(os.WriteFile(tmp, []byte(`[
  {"id": "hyrox-vienna-2026", "url": "https://example.test/vienna"},
  {"id": "hyrox-berlin-2026", "url": "https://example.test/berlin"}
]`), 0o644), ShouldBeNil)
			So(os.Rename(tmp, path), ShouldBeNil)

			Convey("Then the new list reaches the callback", func() {
				var events []model.EventDescriptor
				select {
				case events = <-reloads:
				case <-time.After(3 * time.Second):
				}
				So(events, ShouldHaveLength, 2)
			})
		})

		Convey("When the file is rewritten in place", func() {
			So(os.WriteFile(path, []byte(`[
  {"id": "hyrox-madrid-2026", "url": "https://example.test/madrid"}
]`), 0o644), ShouldBeNil)

			Convey("Then the callback still fires", func() {
				var events []model.EventDescriptor
				select {
				case events = <-reloads:
				case <-time.After(3 * time.Second):
				}
				So(events, ShouldHaveLength, 1)
				So(events[0].ID, ShouldEqual, "hyrox-madrid-2026")
			})
		})
	})
}
