package csvpretty

import (
	"github.com/mattn/go-runewidth"
)

// ToNUL passed as a byte length makes the width functions stop at the first NUL
// byte, or at the end of the slice when it holds none.
const ToNUL = -1

// Measure computes terminal display widths of UTF-8 text. Wide code points count
// as two columns, combining marks and control characters as zero.
type Measure struct {
	cond *runewidth.Condition
}

var defaultMeasure = NewMeasure(false)

// NewMeasure returns a Measure. When eastAsian is set, East Asian ambiguous-width
// code points occupy two columns.
func NewMeasure(eastAsian bool) *Measure {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = eastAsian
	return &Measure{cond: cond}
}

// CharLen reports how many bytes the UTF-8 sequence introduced by lead occupies.
// Continuation and invalid lead bytes report 1.
func CharLen(lead byte) int {
	switch {
	case lead&0x80 == 0:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	}
	return 1
}

// DisplayWidth returns the display width of the first n bytes of b using the
// default Measure. n may be ToNUL.
func DisplayWidth(b []byte, n int) int {
	return defaultMeasure.DisplayWidth(b, n)
}

// MultilineWidth is Measure.MultilineWidth on the default Measure.
func MultilineWidth(b []byte, n int, firstOnly bool) (int, bool) {
	return defaultMeasure.MultilineWidth(b, n, firstOnly)
}

// StringWidth returns the display width of s using the default Measure.
func StringWidth(s string) int {
	return defaultMeasure.StringWidth(s)
}

// DisplayWidth returns the sum of the column widths of the characters held in
// the first n bytes of b. n may be ToNUL.
func (m *Measure) DisplayWidth(b []byte, n int) int {
	return sumWidth(m.cond, clip(b, n))
}

// StringWidth returns the display width of s. Newlines count as zero columns.
func (m *Measure) StringWidth(s string) int {
	return sumWidth(m.cond, s)
}

// MultilineWidth measures a field that may hold embedded newlines. With
// firstOnly set it returns the width of the text before the first '\n';
// otherwise it returns the widest line. more reports whether b contains a
// newline, i.e. whether lines follow the first one.
func (m *Measure) MultilineWidth(b []byte, n int, firstOnly bool) (width int, more bool) {
	b = clip(b, n)
	for {
		line, rest, ok := splitLine(b)
		width = max(width, sumWidth(m.cond, line))
		if !ok {
			return width, more
		}
		more = true
		if firstOnly {
			return width, more
		}
		b = rest
	}
}

// LineWidth returns the width of the first line of s and whether more lines follow.
func (m *Measure) LineWidth(s string) (int, bool) {
	line, _, more := splitLine(s)
	return sumWidth(m.cond, line), more
}

// SplitFirstLine returns the text of s up to, but not including, the first
// '\n' together with the remaining tail. more is false, and rest empty, when s
// holds a single line.
func SplitFirstLine(s string) (line, rest string, more bool) {
	return splitLine(s)
}

func splitLine[T ~string | ~[]byte](s T) (line, rest T, more bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i], s[i+1:], true
		}
	}
	return s, s[len(s):], false
}

func sumWidth[T ~string | ~[]byte](cond *runewidth.Condition, s T) int {
	w := 0
	for _, r := range string(s) {
		w += cond.RuneWidth(r)
	}
	return w
}

func clip(b []byte, n int) []byte {
	if n < 0 {
		for i, c := range b {
			if c == 0 {
				return b[:i]
			}
		}
		return b
	}
	if n < len(b) {
		return b[:n]
	}
	return b
}
