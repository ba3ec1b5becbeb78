package json

import (
	stdjson "encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAppendNodeCompact(t *testing.T) {
	var p Parser
	v := mustParse(t, &p, `{ "a" : 1, "b" : [ true , null ], "c" : "x\"y\n", "d" : 3.0, 'e': bare }`)
	got := string(AppendNode(nil, v))
	want := `{"a":1,"b":[true,null],"c":"x\"y\n","d":3.0,"e":"bare"}`
	if got != want {
		t.Errorf("AppendNode =\n%s\nwant\n%s", got, want)
	}
}

func TestAppendNodeKeepsNumberKind(t *testing.T) {
	var p Parser
	tests := []struct {
		in, out string
	}{
		{`314`, `314`},
		{`3.14e2`, `314.0`},
		{`-0.5`, `-0.5`},
		{`1e21`, `1e+21`},
		{`1e400`, `null`},
	}
	for _, tt := range tests {
		v := mustParse(t, &p, tt.in)
		if got := string(AppendNode(nil, v)); got != tt.out {
			t.Errorf("%s → %s, want %s", tt.in, got, tt.out)
		}
	}
}

func TestAppendNodeRoundTrip(t *testing.T) {
	docs := []string{
		`{"sensor":"gps","time":1351824120,"data":[48.756080,2.302038]}`,
		`[[],{},[{}],{"k":[]}]`,
		`{"s":"é😀\t","neg":-42,"f":0.1,"big":9223372036854775807}`,
		`{'lenient': yes, unquoted: [1, .5, +2]}`,
	}
	var p1, p2 Parser
	for _, doc := range docs {
		v1 := mustParse(t, &p1, doc)
		out := AppendNode(nil, v1)
		v2, err := p2.Parse(out)
		if err != nil {
			t.Errorf("reparse %s: %v", out, err)
			continue
		}
		if diff := cmp.Diff(v1.Interface(), v2.Interface()); diff != "" {
			t.Errorf("round trip %s (-first +second):\n%s", doc, diff)
		}
	}
}

func TestAppendNodeStdlibCompatible(t *testing.T) {
	var p Parser
	v := mustParse(t, &p, `{name: 'yak', list: [1, 2.5, "three"], nested: {ok: true}}`)
	data, err := stdjson.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	var got any
	if err := stdjson.Unmarshal(data, &got); err != nil {
		t.Fatalf("encoding/json rejected %s: %v", data, err)
	}
	want := map[string]any{
		"name":   "yak",
		"list":   []any{1.0, 2.5, "three"},
		"nested": map[string]any{"ok": true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendNodeInvalid(t *testing.T) {
	if got := string(AppendNode(nil, Node{})); got != "null" {
		t.Errorf("invalid node = %s, want null", got)
	}
}

func TestWriterBuilder(t *testing.T) {
	w := AcquireWriter()
	defer ReleaseWriter(w)

	w.Object(func(w *Writer) {
		w.Field("sensor", "dpr")
		w.FieldInt("time", 1351824120)
		w.FieldFloat("value", 3)
		w.FieldBool("ok", true)
		w.FieldNull("err")
		w.FieldArray("data", func(w *Writer) {
			w.ItemFloat(48.75608)
			w.ItemInt(2)
			w.Item("x")
		})
		w.FieldObject("empty", func(w *Writer) {})
	})
	want := `{"sensor":"dpr","time":1351824120,"value":3.0,"ok":true,"err":null,"data":[48.75608,2,"x"],"empty":{}}`
	if got := w.String(); got != want {
		t.Errorf("Writer =\n%s\nwant\n%s", got, want)
	}
	if w.Len() != len(want) {
		t.Errorf("Len = %d", w.Len())
	}

	w.Reset()
	w.Array(func(w *Writer) {})
	if w.String() != "[]" {
		t.Errorf("empty array = %s", w.String())
	}
}

func TestWriterNode(t *testing.T) {
	var p Parser
	v := mustParse(t, &p, `{"a":[1,2]}`)

	var w Writer
	w.Object(func(w *Writer) {
		w.FieldNode("copy", v.Get("a"))
		w.FieldArray("items", func(w *Writer) {
			w.ItemNode(v.Query("a.1"))
		})
	})
	want := `{"copy":[1,2],"items":[2]}`
	if got := w.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	w.Reset()
	w.Node(v)
	if got := w.String(); got != `{"a":[1,2]}` {
		t.Errorf("Node = %s", got)
	}
}

func TestAppendQuotedControlChars(t *testing.T) {
	got := string(appendQuoted(nil, "a\x01\b\f\\"))
	want := `"a\u0001\b\f\\"`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestAppendFloatSpecial(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := string(appendFloat(nil, f)); got != "null" {
			t.Errorf("%v → %s, want null", f, got)
		}
	}
}

func BenchmarkAppendNode(b *testing.B) {
	var p Parser
	v, err := p.ParseString(`{"sensor":"gps","time":1351824120,"data":[48.756080,2.302038]}`)
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]byte, 0, 128)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = AppendNode(buf[:0], v)
	}
}
