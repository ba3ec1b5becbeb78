// Command embjson 检查、压缩 JSON 文档并为固定 Arena 推荐容量
//
//	embjson check config.json frames/*.json
//	embjson --profile strict compact payload.json
//	embjson --profile embedded size sample.json
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/uniyakcom/embjson/profile"
)

// errRejected 至少一个文档未通过检查（退出码 1，不再额外打印）
var errRejected = errors.New("one or more documents were rejected")

// cli 全局 flag 与输出
type cli struct {
	stdout io.Writer
	stderr io.Writer

	profile  *string
	depth    *int
	workers  *int
	logLevel *string
}

func newApp(c *cli) *kingpin.Application {
	app := kingpin.New("embjson", "Arena-backed JSON checker for constrained targets.")
	app.UsageWriter(c.stdout).ErrorWriter(c.stderr)
	app.HelpFlag.Short('h')

	c.profile = app.Flag("profile", "Parsing profile.").
		Envar("EMBJSON_PROFILE").Default("lenient").Enum(profile.Names()...)
	c.depth = app.Flag("depth", "Override the nesting limit (0 keeps the profile value).").
		Envar("EMBJSON_DEPTH").Default("0").Int()
	c.workers = app.Flag("workers", "Concurrent parsers for check (0 keeps the profile value).").
		Envar("EMBJSON_WORKERS").Default("0").Int()
	c.logLevel = app.Flag("log-level", "Log level.").
		Envar("EMBJSON_LOG_LEVEL").Default("warn").Enum("debug", "info", "warn", "error")

	addCheckCommand(app, c)
	addCompactCommand(app, c)
	addSizeCommand(app, c)
	return app
}

// resolve 应用全局 flag 后的 Profile
func (c *cli) resolve() *profile.Profile {
	p := profile.Preset(*c.profile)
	if *c.depth > 0 {
		p.NestingLimit = *c.depth
	}
	if *c.workers > 0 {
		p.Workers = *c.workers
	}
	return p
}

func (c *cli) logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: logLevel(*c.logLevel)}))
}

// logLevel --log-level 取值到 slog.Level，未知取值按 warn
func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr}
	app := newApp(c)
	if _, err := app.Parse(args); err != nil {
		if errors.Is(err, errRejected) {
			return 1
		}
		fmt.Fprintf(stderr, "embjson: %v\n", err)
		return 2
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
