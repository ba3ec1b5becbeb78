package json

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestQuery(t *testing.T) {
	var p Parser
	v := mustParse(t, &p, `{"user":{"name":"yak","tags":["a","b"]},"items":[1,2.5,true],"a":{"b":{"c":null}}}`)

	if got := v.QueryString("user.name"); got != "yak" {
		t.Errorf("user.name = %q", got)
	}
	if got := v.QueryString("user.tags.1"); got != "b" {
		t.Errorf("user.tags.1 = %q", got)
	}
	if got := v.QueryInt("items.0"); got != 1 {
		t.Errorf("items.0 = %d", got)
	}
	if got := v.QueryFloat64("items.1"); got != 2.5 {
		t.Errorf("items.1 = %v", got)
	}
	if !v.QueryBool("items.2") {
		t.Error("items.2 should be true")
	}
	if !v.Query("a.b.c").IsNull() {
		t.Error("a.b.c should be null")
	}
	if v.Query("") != v {
		t.Error("empty path should return the node itself")
	}

	for _, path := range []string{"missing", "user.name.x", "items.9", "items.x", "user..name"} {
		if v.Exists(path) {
			t.Errorf("%q should not exist", path)
		}
	}
}

func TestQueryMatchesGet(t *testing.T) {
	var p Parser
	v := mustParse(t, &p, `{"a":[{"b":1},{"b":2}]}`)
	if v.Query("a.1.b") != v.Get("a", "1", "b") {
		t.Error("Query and Get disagree")
	}
}

func TestInterfaceDetachesStrings(t *testing.T) {
	buf := []byte(`{name: 'yak', tags: ['a', 'b']}`)
	var p Parser
	v, err := p.ParseInPlace(buf)
	if err != nil {
		t.Fatal(err)
	}
	got := v.Interface()
	for i := range buf {
		buf[i] = 'z'
	}
	p.Reset()
	want := map[string]any{"name": "yak", "tags": []any{"a", "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Interface mismatch after buffer reuse (-want +got):\n%s", diff)
	}
}
