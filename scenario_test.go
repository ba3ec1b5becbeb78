package embjson

import (
	"errors"
	"strings"
	"testing"

	"github.com/uniyakcom/embjson/json"
	"github.com/uniyakcom/embjson/profile"
)

const sensorDoc = `{"sensor":"gps","time":1351824120,"data":[48.756080,2.302038]}`

// TestScenarioNew 零配置入口
func TestScenarioNew(t *testing.T) {
	p := New()
	v, err := p.ParseString(sensorDoc)
	if err != nil {
		t.Fatal(err)
	}
	if v.GetString("sensor") != "gps" || v.GetFloat64("data", "0") != 48.756080 {
		t.Error("unexpected tree")
	}
}

// TestScenarioEmbedded 固定 Arena：容量足够时成功，超出时失败
func TestScenarioEmbedded(t *testing.T) {
	p := ForEmbedded()
	if !p.Arena().Fixed() || p.Arena().Cap() != 64 {
		t.Fatalf("embedded arena cap = %d", p.Arena().Cap())
	}
	if _, err := p.ParseString(sensorDoc); err != nil {
		t.Fatal(err)
	}
	big := "[" + strings.Repeat("1,", 64) + "1]"
	if _, err := p.ParseString(big); !errors.Is(err, json.ErrCapacityExceeded) {
		t.Errorf("err = %v, want ErrCapacityExceeded", err)
	}
}

// TestScenarioStrict 严格模式拒绝方言扩展
func TestScenarioStrict(t *testing.T) {
	p := ForStrict()
	if _, err := p.ParseString(`{a: 1}`); !errors.Is(err, json.ErrStructural) {
		t.Errorf("err = %v, want ErrStructural", err)
	}
	deep := strings.Repeat("[", 100) + strings.Repeat("]", 100)
	if _, err := p.ParseString(deep); err != nil {
		t.Errorf("strict depth 100: %v", err)
	}
	if _, err := ForLenient().ParseString(deep); !errors.Is(err, json.ErrDepthExceeded) {
		t.Errorf("lenient depth 100: err = %v", err)
	}
}

// TestScenarioByName Scenario 与 Option
func TestScenarioByName(t *testing.T) {
	for _, name := range profile.Names() {
		if p := Scenario(name); p == nil {
			t.Errorf("Scenario(%q) = nil", name)
		}
	}
	if Option(nil).Arena().Fixed() {
		t.Error("Option(nil) should default to a dynamic arena")
	}
}

// TestScenarioFit 按样本拟合容量
func TestScenarioFit(t *testing.T) {
	p, err := Fit(profile.Embedded(), []byte(sensorDoc))
	if err != nil {
		t.Fatal(err)
	}
	// obj, "gps", 1351824120, arr, 2 个浮点数 = 6 → +25% = 8
	if p.Arena().Cap() != 8 {
		t.Errorf("fitted cap = %d, want 8", p.Arena().Cap())
	}
	buf := []byte(sensorDoc)
	if _, err := p.ParseInPlace(buf); err != nil {
		t.Errorf("fitted parser: %v", err)
	}

	if _, err := Fit(profile.Strict(), []byte(`{a:1}`)); err == nil {
		t.Error("Fit should fail on a sample the profile rejects")
	}
}
