package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/phase3/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given the balanced preset with no overrides", t, func() {
		cfg, err := config.Load(config.PresetBalanced, "")

		Convey("Then the preset defaults load and validate", func() {
			So(err, ShouldBeNil)
			So(cfg.Preset, ShouldEqual, config.PresetBalanced)
			So(cfg.Detection.HighThreshold, ShouldAlmostEqual, 0.80)
		})
	})

	Convey("Given a YAML file overriding the timing window", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "override.yaml")
		body := "batch_size: 50\ndetection:\n  window_months: 36\n"
		So(os.WriteFile(path, []byte(body), 0o644), ShouldBeNil)

		cfg, err := config.Load(config.PresetBalanced, path)

		Convey("Then file values win over preset defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.BatchSize, ShouldEqual, 50)
			So(cfg.Detection.WindowMonths, ShouldEqual, 36)
			// untouched fields keep the preset values
			So(cfg.Detection.HighThreshold, ShouldAlmostEqual, 0.80)
		})
	})

	Convey("Given an environment override", t, func() {
		t.Setenv("PHASE3_WORKER_COUNT", "7")
		cfg, err := config.Load(config.PresetBalanced, "")

		Convey("Then the env value wins", func() {
			So(err, ShouldBeNil)
			So(cfg.WorkerCount, ShouldEqual, 7)
		})
	})

	Convey("Given a file that breaks the weight budget", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "broken.yaml")
		body := "detection:\n  weights:\n    agency_continuity: 0.7\n    timing_proximity: 0.5\n"
		So(os.WriteFile(path, []byte(body), 0o644), ShouldBeNil)

		_, err := config.Load(config.PresetBalanced, path)

		Convey("Then loading fails eagerly, not at detection time", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "must be <= 1.0")
		})
	})

	Convey("Given a missing config file", t, func() {
		_, err := config.Load(config.PresetBalanced, "/nonexistent/config.yaml")

		Convey("Then loading fails with a load error", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
