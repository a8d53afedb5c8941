package csvpretty

import (
	"bufio"
	"errors"
	"io"
	"strconv"
)

var (
	errNilRenderer      = errors.New("csvpretty: renderer is nil")
	errRendererNoTarget = errors.New("csvpretty: renderer destination cannot be nil")
)

type borderPos int

const (
	posTop borderPos = iota
	posMiddle
	posBottom
)

// glyphs is one border character set. left, junction and right are indexed
// by borderPos.
type glyphs struct {
	horizontal string
	vertical   string
	left       [3]string
	junction   [3]string
	right      [3]string
	wrap       string
}

var (
	asciiGlyphs = glyphs{
		horizontal: "-",
		vertical:   "|",
		left:       [3]string{"+", "+", "+"},
		junction:   [3]string{"+", "+", "+"},
		right:      [3]string{"+", "+", "+"},
		wrap:       "+",
	}
	unicodeGlyphs = glyphs{
		horizontal: "─",
		vertical:   "│",
		left:       [3]string{"┌", "├", "└"},
		junction:   [3]string{"┬", "┼", "┴"},
		right:      [3]string{"┐", "┤", "┘"},
		wrap:       "↵",
	}
)

type alignment int

const (
	alignLeft alignment = iota
	alignRight
	alignCenter
)

// fieldCursor tracks the part of a field not printed yet.
type fieldCursor struct {
	rest string
	done bool
}

// Renderer lays out a tokenized Table as a bordered text table.
type Renderer struct {
	dst     *bufio.Writer
	cfg     Config
	glyphs  *glyphs
	measure *Measure

	cursors []fieldCursor
	err     error
}

// NewRenderer creates a Renderer writing to w with the border and line style
// settings of cfg.
func NewRenderer(w io.Writer, cfg Config) *Renderer {
	if w == nil {
		panic(errRendererNoTarget.Error())
	}
	g := &asciiGlyphs
	if cfg.LineStyle == LineStyleUnicode {
		g = &unicodeGlyphs
	}
	return &Renderer{
		dst:     bufio.NewWriterSize(w, defaultBufferSize),
		cfg:     cfg,
		glyphs:  g,
		measure: cfg.Measure(),
	}
}

// Render writes tbl followed by the "(n rows)" footer and flushes the output.
// It returns the first write error encountered.
func (r *Renderer) Render(tbl *Table) error {
	if r == nil {
		return errNilRenderer
	}
	if r.err != nil {
		return r.err
	}

	stats := tbl.Stats
	if stats == nil {
		stats = &ColumnStats{}
	}
	header := r.hasHeader(tbl.Rows)
	separated := false

	r.borderLine(posTop, stats)
	if tbl.Rows != nil {
		for i, row := range tbl.Rows.All() {
			isHeader := i == 0 && header
			r.row(row, isHeader, stats)
			if isHeader && r.borderLine(posMiddle, stats) {
				separated = true
			}
		}
	}
	r.borderLine(posBottom, stats)

	count := tbl.Processed
	if separated {
		count--
	}
	r.writeString("(" + strconv.Itoa(count) + " rows)\n")

	if r.err != nil {
		return r.err
	}
	if err := r.dst.Flush(); err != nil {
		r.err = err
	}
	return r.err
}

func (r *Renderer) hasHeader(rows *Store) bool {
	if rows == nil {
		return false
	}
	switch r.cfg.Header {
	case HeaderAlways:
		return rows.Len() > 0
	case HeaderNever:
		return false
	}
	return IsHeader(rows)
}

// IsHeader reports whether the first stored row looks like a header: every
// field of row 0 is non-empty and not numeric while row 1 holds at least one
// empty or numeric field. Fewer than two rows is never a header.
func IsHeader(rows *Store) bool {
	first := rows.First(2)
	if len(first) < 2 || len(first[0].Fields) == 0 {
		return false
	}
	for _, f := range first[0].Fields {
		if f == "" || isNumeric(f) {
			return false
		}
	}
	for _, f := range first[1].Fields {
		if f == "" || isNumeric(f) {
			return true
		}
	}
	return false
}

func isNumeric(field string) bool {
	return field != "" && field[0] >= '0' && field[0] <= '9'
}

// borderLine draws the horizontal line at pos and reports whether anything
// was written. Without a full box only the header separator is drawn.
func (r *Renderer) borderLine(pos borderPos, stats *ColumnStats) bool {
	g := r.glyphs
	ncols := stats.MaxFields

	switch r.cfg.Border {
	case 0:
		if pos != posMiddle {
			return false
		}
		for i := 0; i < ncols; i++ {
			if i > 0 {
				r.writeString(" ")
			}
			r.repeat(g.horizontal, stats.Width(i))
		}
	case 1:
		if pos != posMiddle {
			return false
		}
		n := ncols + 2
		for i := 0; i < ncols; i++ {
			n += stats.Width(i) + 1
		}
		r.repeat(g.horizontal, n)
	default:
		r.writeString(g.left[pos])
		for i := 0; i < ncols; i++ {
			if i > 0 {
				r.writeString(g.junction[pos])
			}
			r.repeat(g.horizontal, stats.Width(i)+2)
		}
		r.writeString(g.right[pos])
	}
	r.writeString("\n")
	return true
}

// row emits one stored row. Each output line is a wrap round printing the
// next line of every field; rounds repeat while a field has lines left.
func (r *Renderer) row(row *Row, header bool, stats *ColumnStats) {
	ncols := stats.MaxFields

	r.cursors = r.cursors[:0]
	for _, f := range row.Fields {
		r.cursors = append(r.cursors, fieldCursor{rest: f})
	}

	for {
		pending := false
		r.lineStart()
		for i := 0; i < ncols; i++ {
			if i > 0 {
				r.columnGap()
			}
			var (
				text  string
				more  bool
				align = alignLeft
			)
			if i < len(r.cursors) && !r.cursors[i].done {
				c := &r.cursors[i]
				text, c.rest, more = SplitFirstLine(c.rest)
				c.done = !more
				pending = pending || more
				switch {
				case header:
					align = alignCenter
				case isNumeric(row.Fields[i]):
					align = alignRight
				}
			}
			r.cell(text, stats.Width(i), align)
			r.trail(more, i == ncols-1 && !stats.IsMultiline(i))
		}
		r.lineEnd()
		if !pending {
			return
		}
	}
}

func (r *Renderer) cell(text string, width int, align alignment) {
	slack := max(width-r.measure.StringWidth(text), 0)
	var left int
	switch align {
	case alignRight:
		left = slack
	case alignCenter:
		left = slack / 2
	}
	r.pad(left)
	r.writeString(text)
	r.pad(slack - left)
}

// trail writes the slot after a cell: the wrap glyph when the field continues,
// a space otherwise. A borderless table drops the slot of its last column
// unless that column can wrap.
func (r *Renderer) trail(more, lastPlain bool) {
	switch {
	case more:
		r.writeString(r.glyphs.wrap)
	case lastPlain && r.cfg.Border == 0:
	default:
		r.writeString(" ")
	}
}

func (r *Renderer) lineStart() {
	if r.cfg.Border > 0 {
		r.writeString(r.glyphs.vertical)
		r.writeString(" ")
	}
}

func (r *Renderer) columnGap() {
	if r.cfg.Border == 2 {
		r.writeString(r.glyphs.vertical)
		r.writeString(" ")
	} else if r.cfg.Border == 1 {
		r.writeString(" ")
	}
}

func (r *Renderer) lineEnd() {
	if r.cfg.Border > 0 {
		r.writeString(r.glyphs.vertical)
	}
	r.writeString("\n")
}

const spaces = "                                "

func (r *Renderer) pad(n int) {
	for n > 0 {
		k := min(n, len(spaces))
		r.writeString(spaces[:k])
		n -= k
	}
}

func (r *Renderer) repeat(s string, n int) {
	for ; n > 0; n-- {
		r.writeString(s)
	}
}

func (r *Renderer) writeString(s string) {
	if r.err != nil {
		return
	}
	if _, err := r.dst.WriteString(s); err != nil {
		r.err = err
	}
}
