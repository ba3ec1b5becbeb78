package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCheck(t *testing.T) {
	good := writeFile(t, "good.json", `[1,2]`)
	code, out, _ := runCLI(t, "check", good)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if want := "OK " + good + ": array, 3 slots, 0 B strings"; !strings.Contains(out, want) {
		t.Errorf("output %q does not contain %q", out, want)
	}
}

func TestCheckRejected(t *testing.T) {
	good := writeFile(t, "good.json", `{"id":1}`)
	bad := writeFile(t, "bad.json", `{"id":`)
	code, out, _ := runCLI(t, "check", good, bad)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out, "OK "+good) || !strings.Contains(out, "FAIL "+bad) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCheckProfileFromEnv(t *testing.T) {
	doc := writeFile(t, "lenient.json", `{a: 1}`)
	if code, _, _ := runCLI(t, "check", doc); code != 0 {
		t.Fatalf("lenient exit code = %d", code)
	}
	t.Setenv("EMBJSON_PROFILE", "strict")
	if code, _, _ := runCLI(t, "check", doc); code != 1 {
		t.Errorf("strict exit code = %d, want 1", code)
	}
}

func TestCheckDepthFlag(t *testing.T) {
	doc := writeFile(t, "deep.json", "[[[1]]]")
	if code, _, _ := runCLI(t, "--depth", "2", "check", doc); code != 1 {
		t.Errorf("depth 2 exit code = %d, want 1", code)
	}
	if code, _, _ := runCLI(t, "--depth", "3", "check", doc); code != 0 {
		t.Errorf("depth 3 exit code = %d, want 0", code)
	}
}

func TestCompact(t *testing.T) {
	doc := writeFile(t, "cfg.json", "{ a: 'x', /* c */ b: [1, 2.0] }")
	code, out, stderr := runCLI(t, "compact", doc)
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	if want := "{\"a\":\"x\",\"b\":[1,2.0]}\n"; out != want {
		t.Errorf("compact = %q, want %q", out, want)
	}

	code, _, stderr = runCLI(t, "--profile", "strict", "compact", doc)
	if code != 2 || !strings.Contains(stderr, "cfg.json") {
		t.Errorf("strict compact: code %d, stderr %q", code, stderr)
	}
}

func TestSize(t *testing.T) {
	doc := writeFile(t, "sensor.json", `{"sensor":"gps","time":1351824120,"data":[48.756080,2.302038]}`)
	code, out, stderr := runCLI(t, "--profile", "embedded", "size", doc)
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, stderr)
	}
	if !strings.Contains(out, "embedded: NewArena(8, 0)") {
		t.Errorf("unexpected output:\n%s", out)
	}

	code, out, _ = runCLI(t, "size", "--headroom", "0", doc)
	if code != 0 || !strings.Contains(out, "NewArena(6, 17)") {
		t.Errorf("lenient size: code %d, output %q", code, out)
	}
}

func TestUsageErrors(t *testing.T) {
	if code, _, _ := runCLI(t, "check", filepath.Join(t.TempDir(), "missing.json")); code != 2 {
		t.Errorf("missing file exit code = %d", code)
	}
	if code, _, _ := runCLI(t, "--profile", "bogus", "check", "x"); code != 2 {
		t.Errorf("bad profile exit code = %d", code)
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		if got := logLevel(tt.name); got != tt.want {
			t.Errorf("logLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCheckDebugLog(t *testing.T) {
	bad := writeFile(t, "bad.json", `[1,`)
	code, _, stderr := runCLI(t, "--log-level", "debug", "check", bad)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "level=DEBUG") || !strings.Contains(stderr, "document rejected") {
		t.Errorf("debug log missing:\n%s", stderr)
	}
	if !strings.Contains(stderr, "batch parsed") {
		t.Errorf("info summary missing:\n%s", stderr)
	}
}
