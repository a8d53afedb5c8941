package csvpretty

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriterWrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records [][]string
		config  func(*Writer)
		want    string
	}{
		{
			name:    "basic",
			records: [][]string{{"a", "b", "c"}},
			want:    "a,b,c\n",
		},
		{
			name:    "emptyField",
			records: [][]string{{"", "b"}},
			want:    ",b\n",
		},
		{
			name:    "commaForcesQuote",
			records: [][]string{{"alpha,beta"}},
			want:    "\"alpha,beta\"\n",
		},
		{
			name:    "quoteEscaping",
			records: [][]string{{"he said \"hello\"", "plain"}},
			want:    "\"he said \"\"hello\"\"\",plain\n",
		},
		{
			name:    "newlineForcesQuote",
			records: [][]string{{"multi\nline", "z"}},
			want:    "\"multi\nline\",z\n",
		},
		{
			name:    "edgeBlanksForceQuote",
			records: [][]string{{" padded ", "x"}},
			want:    "\" padded \",x\n",
		},
		{
			name:    "alwaysQuote",
			records: [][]string{{"alpha", "beta"}},
			config: func(w *Writer) {
				w.AlwaysQuote = true
			},
			want: "\"alpha\",\"beta\"\n",
		},
		{
			name:    "customComma",
			records: [][]string{{"a;b", "c,d"}},
			config: func(w *Writer) {
				w.Comma = ';'
			},
			want: "\"a;b\";c,d\n",
		},
		{
			name:    "useCRLF",
			records: [][]string{{"a"}, {"b"}},
			config: func(w *Writer) {
				w.UseCRLF = true
			},
			want: "a\r\nb\r\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			w := NewWriter(&buf)
			if tc.config != nil {
				tc.config(w)
			}
			for _, rec := range tc.records {
				if err := w.Write(rec); err != nil {
					t.Fatalf("Write() error = %v", err)
				}
			}
			if err := w.Flush(); err != nil {
				t.Fatalf("Flush() error = %v", err)
			}
			if got := buf.String(); got != tc.want {
				t.Fatalf("unexpected output:\n got: %q\nwant: %q", got, tc.want)
			}
		})
	}
}

func TestWriterWriteTableRoundTrip(t *testing.T) {
	t.Parallel()

	const input = "a ; \"b;c\" ; \"x\ny\"\nshort\n\"say \"\"hi\"\"\";2\n"

	tbl, err := NewTokenizer(strings.NewReader(input)).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	var buf bytes.Buffer
	if err := NewWriter(&buf).WriteTable(tbl); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	want := "a,b;c,\"x\ny\"\nshort\n\"say \"\"hi\"\"\",2\n"
	if got := buf.String(); got != want {
		t.Fatalf("WriteTable() output:\n got: %q\nwant: %q", got, want)
	}

	again, err := NewTokenizer(strings.NewReader(buf.String())).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize() of exported CSV error = %v", err)
	}
	if diff := cmp.Diff(collectRows(tbl), collectRows(again)); diff != "" {
		t.Fatalf("re-tokenized rows differ (-first +second):\n%s", diff)
	}
}

type flushFailWriter struct {
	fail error
}

func (f *flushFailWriter) Write([]byte) (int, error) {
	return 0, f.fail
}

func TestWriterFlushError(t *testing.T) {
	t.Parallel()

	exp := errors.New("flush failed")
	w := NewWriter(&flushFailWriter{fail: exp})

	if err := w.Write([]string{"a"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); !errors.Is(err, exp) {
		t.Fatalf("expected flush error %v, got %v", exp, err)
	}
	if err := w.Write([]string{"b"}); !errors.Is(err, exp) {
		t.Fatalf("Write() should return stored error %v, got %v", exp, err)
	}
	if err := w.Error(); !errors.Is(err, exp) {
		t.Fatalf("Error() should return %v, got %v", exp, err)
	}
}

func TestNewWriterNilPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("NewWriter should panic on nil writer")
		}
	}()
	NewWriter(nil)
}
