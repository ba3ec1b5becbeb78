package embjson

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/uniyakcom/embjson/json"
)

// TestPackageAPIParse 包级 Parse 返回脱离 Arena 的 Go 值
func TestPackageAPIParse(t *testing.T) {
	v, err := Parse([]byte(`{a: [1, 2.5, 'x'], b: null}`))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"a": []any{int64(1), 2.5, "x"}, "b": nil}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

// TestPackageAPIParseError 包级 Parse 传递哨兵错误
func TestPackageAPIParseError(t *testing.T) {
	_, err := Parse([]byte(`[1, 2`))
	if !errors.Is(err, json.ErrUnterminated) {
		t.Errorf("err = %v, want ErrUnterminated", err)
	}
}

// TestPackageAPIValid 宽松与严格校验
func TestPackageAPIValid(t *testing.T) {
	tests := []struct {
		in      string
		lenient bool
		strict  bool
	}{
		{`{"a":1}`, true, true},
		{`{a:1}`, true, false},
		{`['x']`, true, false},
		{`[1] // c`, true, false},
		{`[1,]`, false, false},
		{`{"a":`, false, false},
		{``, false, false},
	}
	for _, tt := range tests {
		if got := Valid([]byte(tt.in)); got != tt.lenient {
			t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.lenient)
		}
		if got := ValidWith([]byte(tt.in), Options{Dialect: json.Strict}); got != tt.strict {
			t.Errorf("ValidWith(%q, strict) = %v, want %v", tt.in, got, tt.strict)
		}
	}
}

// TestPackageAPIUnmarshal 包级 Unmarshal
func TestPackageAPIUnmarshal(t *testing.T) {
	var cfg struct {
		SSID     string `json:"ssid"`
		Channel  int    `json:"channel"`
		Hostname string `json:"hostname"`
	}
	if err := Unmarshal([]byte(`{ssid: 'home', channel: 6, hostname: esp32}`), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.SSID != "home" || cfg.Channel != 6 || cfg.Hostname != "esp32" {
		t.Errorf("got %+v", cfg)
	}
}

// TestPackageAPICompact 紧凑重写
func TestPackageAPICompact(t *testing.T) {
	out, err := Compact([]byte("prefix:"), []byte("{ 'a' : [ 1 , 2.0 ] , /* c */ b : x }"))
	if err != nil {
		t.Fatal(err)
	}
	want := `prefix:{"a":[1,2.0],"b":"x"}`
	if string(out) != want {
		t.Errorf("Compact = %s, want %s", out, want)
	}

	out, err = Compact(nil, []byte(`{`))
	if err == nil || out != nil {
		t.Errorf("Compact on bad input = %q, %v", out, err)
	}
}
