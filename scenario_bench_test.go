package embjson

import "testing"

// BenchmarkScenarioEmbedded 固定 Arena 就地解析
func BenchmarkScenarioEmbedded(b *testing.B) {
	p := ForEmbedded()
	src := []byte(sensorDoc)
	buf := make([]byte, len(src))

	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		copy(buf, src)
		if _, err := p.ParseInPlace(buf); err != nil {
			b.Fatal(err)
		}
	}
	throughput := float64(b.N) / b.Elapsed().Seconds()
	b.ReportMetric(throughput/1e6, "M/s")
}

// BenchmarkScenarioLenient 可增长 Arena 复制解析
func BenchmarkScenarioLenient(b *testing.B) {
	p := ForLenient()
	src := []byte(`{sensor: 'gps', time: 1351824120, data: [48.756080, 2.302038]} // frame`)

	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(src); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkScenarioCompact 解析并紧凑重写
func BenchmarkScenarioCompact(b *testing.B) {
	src := []byte(sensorDoc)
	dst := make([]byte, 0, len(src))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		dst, _ = Compact(dst[:0], src)
	}
}
