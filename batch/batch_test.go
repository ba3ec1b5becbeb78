package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/uniyakcom/embjson/json"
	"github.com/uniyakcom/embjson/profile"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newBatch(t *testing.T, cfg Config) *Batch {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = quiet
	}
	b, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(b.Close)
	return b
}

func TestParseAll(t *testing.T) {
	b := newBatch(t, Config{Workers: 4})
	docs := make([][]byte, 100)
	for i := range docs {
		if i%10 == 9 {
			docs[i] = []byte(`{"id":`)
			continue
		}
		docs[i] = []byte(fmt.Sprintf(`{"id":%d,"name":"doc-%d"}`, i, i))
	}

	results, err := b.ParseAll(context.Background(), docs)
	if err != nil {
		t.Fatal(err)
	}
	defer ReleaseAll(results)

	if len(results) != len(docs) {
		t.Fatalf("got %d results", len(results))
	}
	// 所有结果同时有效（各自独立的 Arena）
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d has index %d", i, r.Index)
		}
		if i%10 == 9 {
			if !errors.Is(r.Err, json.ErrUnterminated) {
				t.Errorf("doc %d: err = %v", i, r.Err)
			}
			continue
		}
		if r.Err != nil {
			t.Errorf("doc %d: %v", i, r.Err)
			continue
		}
		if r.Root.GetInt("id") != int64(i) || r.Root.GetString("name") != fmt.Sprintf("doc-%d", i) {
			t.Errorf("doc %d: wrong tree", i)
		}
		if r.Slots != 3 {
			t.Errorf("doc %d: slots = %d", i, r.Slots)
		}
	}

	st := b.Stats()
	if st.Parsed != 90 || st.Failed != 10 || st.Panics != 0 {
		t.Errorf("Stats = %+v", st)
	}
}

func TestParseAllInPlaceProfile(t *testing.T) {
	b := newBatch(t, Config{Workers: 2, Profile: profile.Embedded()})
	docs := [][]byte{[]byte(`{s:'a'}`), []byte(`{s:'b'}`)}
	results, err := b.ParseAll(context.Background(), docs)
	if err != nil {
		t.Fatal(err)
	}
	defer ReleaseAll(results)
	for i, r := range results {
		if r.Err != nil {
			t.Fatal(r.Err)
		}
		if !r.Root.Member("s").Borrowed() || r.Bytes != 0 {
			t.Errorf("doc %d not parsed in place", i)
		}
	}
	if results[0].Root.GetString("s") != "a" || results[1].Root.GetString("s") != "b" {
		t.Error("wrong values")
	}
}

func TestParseAllFixedCapacity(t *testing.T) {
	p := profile.Embedded()
	p.Slots = 2
	b := newBatch(t, Config{Workers: 1, Profile: p})
	results, err := b.ParseAll(context.Background(), [][]byte{[]byte(`[1]`), []byte(`[1,2]`)})
	if err != nil {
		t.Fatal(err)
	}
	defer ReleaseAll(results)
	if results[0].Err != nil {
		t.Errorf("small doc: %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, json.ErrCapacityExceeded) {
		t.Errorf("large doc: err = %v", results[1].Err)
	}
}

func TestParseAllCanceled(t *testing.T) {
	b := newBatch(t, Config{Workers: 2})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := b.ParseAll(ctx, [][]byte{[]byte(`1`), []byte(`2`)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("doc %d: err = %v", i, r.Err)
		}
		r.Release()
	}
	if b.Stats().Parsed != 0 {
		t.Error("canceled batch parsed documents")
	}
}

func TestParseAllEmpty(t *testing.T) {
	b := newBatch(t, Config{})
	results, err := b.ParseAll(context.Background(), nil)
	if err != nil || len(results) != 0 {
		t.Errorf("empty batch: %v %v", results, err)
	}
}

func TestClosed(t *testing.T) {
	b, err := New(Config{Logger: quiet})
	if err != nil {
		t.Fatal(err)
	}
	b.Close()
	b.Close()
	if _, err := b.ParseAll(context.Background(), [][]byte{[]byte(`1`)}); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

func TestReleaseIdempotent(t *testing.T) {
	b := newBatch(t, Config{Workers: 1})
	results, err := b.ParseAll(context.Background(), [][]byte{[]byte(`[1]`)})
	if err != nil {
		t.Fatal(err)
	}
	r := results[0]
	r.Release()
	r.Release()
	if r.Root.Valid() {
		t.Error("Root valid after Release")
	}
	var nilResult *Result
	nilResult.Release()
}

func TestProfileIsCopied(t *testing.T) {
	p := profile.Strict()
	b := newBatch(t, Config{Profile: p})
	p.Dialect = json.Lenient
	if b.Profile().Dialect != json.Strict {
		t.Error("batch shares caller's profile")
	}
	results, _ := b.ParseAll(context.Background(), [][]byte{[]byte(`{a:1}`)})
	defer ReleaseAll(results)
	if !errors.Is(results[0].Err, json.ErrStructural) {
		t.Errorf("strict batch accepted lenient input: %v", results[0].Err)
	}
}

func BenchmarkParseAll(b *testing.B) {
	bt, err := New(Config{Logger: quiet})
	if err != nil {
		b.Fatal(err)
	}
	defer bt.Close()
	docs := make([][]byte, 256)
	for i := range docs {
		docs[i] = []byte(`{"sensor":"gps","time":1351824120,"data":[48.756080,2.302038]}`)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		results, _ := bt.ParseAll(context.Background(), docs)
		ReleaseAll(results)
	}
}
