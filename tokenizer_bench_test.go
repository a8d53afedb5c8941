package csvpretty

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func benchmarkData() []byte {
	return []byte(strings.Repeat(`id;name;"comment";amount
1;xxxxxxxxxxxxxxxx;"multi
line, quoted";12.50
2;日本語テキスト;plain;7
3;yyyyyyyyyyyyyyyyyyyyyyyy;"with ""quotes""";1000
`, 200))
}

func BenchmarkTokenize(b *testing.B) {
	data := benchmarkData()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	for i := 0; i < b.N; i++ {
		if _, err := NewTokenizer(bytes.NewReader(data)).Tokenize(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	tbl, err := NewTokenizer(bytes.NewReader(benchmarkData())).Tokenize()
	if err != nil {
		b.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.LineStyle = LineStyleUnicode
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := NewRenderer(io.Discard, cfg).Render(tbl); err != nil {
			b.Fatal(err)
		}
	}
}
