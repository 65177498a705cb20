package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/logquest/pkg/logger"
)

func init() { //nolint:gochecknoinits // commands log through the global logger
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// run executes one CLI invocation and returns stdout, stderr and the error.
func run(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func useFileBackend(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "progress.json")
	t.Setenv("LOGQUEST_CONFIG", "")
	t.Setenv("LOGQUEST_BACKEND", "file")
	t.Setenv("LOGQUEST_FILE_PATH", path)
	t.Setenv("LOGQUEST_LOG_LEVEL", "error")
	return path
}

func TestNameCommand(t *testing.T) {
	convey.Convey("Given a fresh file backend", t, func() {
		useFileBackend(t)

		convey.Convey("When no name has been set", func() {
			out, _, err := run("name")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "(no name set)")
		})

		convey.Convey("When a valid name is set", func() {
			out, _, err := run("name", "Ada", "Lovelace")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Welcome, Ada Lovelace!")

			convey.Convey("Then a later invocation sees it", func() {
				out, _, err := run("name")
				convey.So(err, convey.ShouldBeNil)
				convey.So(strings.TrimSpace(out), convey.ShouldEqual, "Ada Lovelace")
			})
		})

		convey.Convey("When an invalid name is given", func() {
			_, errOut, err := run("name", "!")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errOut, convey.ShouldContainSubstring, "invalid name")

			out, _, _ := run("name")
			convey.So(out, convey.ShouldContainSubstring, "(no name set)")
		})
	})
}

func TestScoreCommands(t *testing.T) {
	convey.Convey("Given a fresh file backend", t, func() {
		useFileBackend(t)

		convey.Convey("When scores are recorded across invocations", func() {
			out, _, err := run("score", "log-laws", "80")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Logarithm Laws Master: 80 (total 80)")

			_, _, err = run("score", "custom-drill", "12.6")
			convey.So(err, convey.ShouldBeNil)
			_, _, err = run("score", "log-laws", "90")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then scores lists the latest records and the total", func() {
				out, _, err := run("scores")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "custom-drill")
				convey.So(out, convey.ShouldContainSubstring, "13")
				convey.So(out, convey.ShouldContainSubstring, "90")
				convey.So(out, convey.ShouldNotContainSubstring, "80")
				convey.So(out, convey.ShouldContainSubstring, "103")
				convey.So(strings.Index(out, "custom-drill"), convey.ShouldBeLessThan, strings.Index(out, "log-laws"))
			})

			convey.Convey("Then reset clears them", func() {
				_, _, err := run("reset")
				convey.So(err, convey.ShouldBeNil)
				out, _, _ := run("scores")
				convey.So(out, convey.ShouldNotContainSubstring, "log-laws")
			})
		})

		convey.Convey("When the score is not a number", func() {
			_, errOut, err := run("score", "log-laws", "lots")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errOut, convey.ShouldContainSubstring, "non-negative number")
		})

		convey.Convey("When the scoreboard is rendered as HTML", func() {
			_, _, err := run("name", "Tom & Jerry")
			convey.So(err, convey.ShouldBeNil)
			_, _, err = run("score", "<b>x</b>", "5")
			convey.So(err, convey.ShouldBeNil)

			out, _, err := run("scores", "--html")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "<caption>Tom &amp; Jerry</caption>")
			convey.So(out, convey.ShouldContainSubstring, "&lt;b&gt;x&lt;/b&gt;")
			convey.So(out, convey.ShouldContainSubstring, "<th>5</th>")
		})
	})
}

func TestParseScore(t *testing.T) {
	convey.Convey("Given score arguments", t, func() {
		v, err := parseScore("42")
		convey.So(err, convey.ShouldBeNil)
		convey.So(v, convey.ShouldEqual, 42)

		v, err = parseScore("2.5")
		convey.So(err, convey.ShouldBeNil)
		convey.So(v, convey.ShouldEqual, 3)

		for _, bad := range []string{"-1", "abc", "NaN", "1e20"} {
			_, err = parseScore(bad)
			convey.So(err, convey.ShouldNotBeNil)
		}
	})
}

func TestMuteCommand(t *testing.T) {
	convey.Convey("Given a fresh file backend", t, func() {
		useFileBackend(t)

		out, _, err := run("mute")
		convey.So(err, convey.ShouldBeNil)
		convey.So(out, convey.ShouldContainSubstring, "audio unmuted")

		out, _, _ = run("mute", "toggle")
		convey.So(out, convey.ShouldContainSubstring, "audio muted")

		out, _, _ = run("mute")
		convey.So(out, convey.ShouldContainSubstring, "audio muted")

		out, _, _ = run("mute", "off")
		convey.So(out, convey.ShouldContainSubstring, "audio unmuted")

		_, _, err = run("mute", "loud")
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestActivitiesAndStats(t *testing.T) {
	convey.Convey("Given the CLI", t, func() {
		useFileBackend(t)

		convey.Convey("When listing activities", func() {
			out, _, err := run("activities")
			convey.So(err, convey.ShouldBeNil)
			convey.So(strings.Count(out, "\n"), convey.ShouldEqual, 9)
			convey.So(out, convey.ShouldContainSubstring, "graph-matcher")
		})

		convey.Convey("When showing stats", func() {
			_, _, err := run("score", "log-laws", "10")
			convey.So(err, convey.ShouldBeNil)
			out, _, err := run("stats")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "backend: file")
			convey.So(out, convey.ShouldContainSubstring, "total_score: 10")
			convey.So(out, convey.ShouldContainSubstring, "logquest_progress_storage_operations_total")
		})
	})
}

func TestBadConfig(t *testing.T) {
	convey.Convey("Given an unknown backend", t, func() {
		useFileBackend(t)
		t.Setenv("LOGQUEST_BACKEND", "floppy")

		_, errOut, err := run("scores")
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(errOut, convey.ShouldContainSubstring, "failed to load config")
	})
}
