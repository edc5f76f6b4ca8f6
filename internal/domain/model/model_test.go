package model_test

import (
	"encoding/json"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/racegate/internal/domain/model"
)

func TestDay(t *testing.T) {
	Convey("Given days built from timestamps", t, func() {
		d := model.DayOf(time.Date(2025, time.June, 10, 23, 59, 59, 0, time.UTC))

		Convey("Then the time component is dropped", func() {
			So(d.String(), ShouldEqual, "2025-06-10")
			So(d.Equal(model.NewDay(2025, time.June, 10)), ShouldBeTrue)
		})

		Convey("Then arithmetic and ordering behave as calendar days", func() {
			So(d.AddDays(-9).String(), ShouldEqual, "2025-06-01")
			So(d.AddDays(-1).Before(d), ShouldBeTrue)
			So(d.AddDays(1).After(d), ShouldBeTrue)
		})
	})

	Convey("Given JSON round trips", t, func() {
		d := model.NewDay(2026, time.February, 6)

		Convey("When marshalling", func() {
			data, err := json.Marshal(d)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `"2026-02-06"`)
		})

		Convey("When unmarshalling", func() {
			var got model.Day
			So(json.Unmarshal([]byte(`"2026-02-06"`), &got), ShouldBeNil)
			So(got.Equal(d), ShouldBeTrue)
		})

		Convey("When unmarshalling garbage", func() {
			var got model.Day
			So(json.Unmarshal([]byte(`"06.02.2026"`), &got), ShouldNotBeNil)
			So(json.Unmarshal([]byte(`42`), &got), ShouldNotBeNil)
		})
	})

	Convey("Given parse input", t, func() {
		Convey("Then valid dates parse", func() {
			d, err := model.ParseDay("2025-12-31")
			So(err, ShouldBeNil)
			So(d.String(), ShouldEqual, "2025-12-31")
		})

		Convey("Then invalid dates error", func() {
			_, err := model.ParseDay("31/12/2025")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSnapshotStockByName(t *testing.T) {
	Convey("Given a snapshot with one name across categories", t, func() {
		snap := model.InventorySnapshot{Tickets: []model.TicketLine{
			{Category: "Open", Name: "MEN", Stock: 3},
			{Category: "Doubles", Name: "MEN", Stock: 4},
			{Category: "Open", Name: "WOMEN", Stock: 1},
		}}

		Convey("Then stocks sum per name", func() {
			So(snap.StockByName(), ShouldResemble, map[string]int{"MEN": 7, "WOMEN": 1})
		})
	})
}
