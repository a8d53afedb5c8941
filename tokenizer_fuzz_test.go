package csvpretty

import (
	"bytes"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
)

func FuzzTokenizerConsistency(f *testing.F) {
	seeds := []string{
		"",
		"a,b,c\n",
		"a,\"b,b\",c\n",
		"a,\"b\nc\",d\n",
		"\"unterminated\n",
		"a\"b,c\n",
		"one\r\ntwo\r\n",
		"x;y|z\n日本,\xe6\n",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 1<<12 {
			t.Skip()
		}

		tokWhole := NewTokenizer(strings.NewReader(input))
		tokWhole.MaxFields = len(input) + 1
		tokOne := NewTokenizer(iotest.OneByteReader(strings.NewReader(input)))
		tokOne.MaxFields = len(input) + 1

		whole, errWhole := tokWhole.Tokenize()
		oneByte, errOne := tokOne.Tokenize()
		if errWhole != nil || errOne != nil {
			t.Fatalf("Tokenize() errors: whole=%v oneByte=%v input=%q", errWhole, errOne, truncateForMessage(input))
		}
		if diff := cmp.Diff(collectRows(whole), collectRows(oneByte)); diff != "" {
			t.Fatalf("read size changed rows (-whole +oneByte):\n%s\ninput=%q", diff, truncateForMessage(input))
		}
		checkStatsInvariants(t, whole)

		var buf bytes.Buffer
		if err := NewRenderer(&buf, DefaultConfig()).Render(whole); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if !strings.HasSuffix(buf.String(), " rows)\n") {
			t.Fatalf("Render() output lacks footer: %q", truncateForMessage(buf.String()))
		}
	})
}

func truncateForMessage(s string) string {
	const max = 256
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
