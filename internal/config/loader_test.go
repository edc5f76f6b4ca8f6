package config_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/racegate/internal/config"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		ctx := context.Background()

		Convey("When loading with no overrides", func() {
			cfg, err := config.Load(ctx)

			Convey("Then defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9090")
				So(cfg.FeedSize, ShouldEqual, 20)
				So(cfg.NewEventWindowDays, ShouldEqual, 7)
				So(cfg.StockWindowDays, ShouldEqual, 3)
				So(cfg.LowStockThreshold, ShouldEqual, 5)
				So(cfg.RestockPriority, ShouldEqual, 3)
				So(cfg.SoldOutPriority, ShouldEqual, 0)
				So(cfg.ExcludeKeywords, ShouldContain, "SPECTATOR")
			})
		})
	})

	Convey("Given environment overrides", t, func() {
		ctx := context.Background()
		t.Setenv("RACEGATE_FEED_SIZE", "10")
		t.Setenv("RACEGATE_LOW_STOCK_THRESHOLD", "2")
		t.Setenv("RACEGATE_DATA_DIR", "/tmp/races")

		Convey("When loading", func() {
			cfg, err := config.Load(ctx)

			Convey("Then env values win over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.FeedSize, ShouldEqual, 10)
				So(cfg.LowStockThreshold, ShouldEqual, 2)
				So(cfg.DataDir, ShouldEqual, "/tmp/races")
			})
		})
	})

	Convey("Given an invalid override", t, func() {
		ctx := context.Background()
		t.Setenv("RACEGATE_WORKER_COUNT", "0")

		Convey("When loading", func() {
			_, err := config.Load(ctx)

			Convey("Then validation rejects the config", func() {
				So(err, ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})

	Convey("Given a non-positive scan interval", t, func() {
		ctx := context.Background()
		t.Setenv("RACEGATE_SCAN_INTERVAL_MIN", "0")

		Convey("When loading", func() {
			_, err := config.Load(ctx)

			Convey("Then validation rejects the config before it can reach a ticker", func() {
				So(err, ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}
