package csvpretty

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

const (
	defaultBufferSize = 1 << 12 // 4096 bytes

	// DefaultMaxFields is the sanity limit on the number of fields in one row.
	DefaultMaxFields = 1024
)

var (
	// ErrTruncatedUTF8 is reported when the input ends inside a multi-byte character.
	ErrTruncatedUTF8 = errors.New("csvpretty: unexpected end of input inside multi-byte character")
	// ErrMalformedUTF8 is reported when a multi-byte character lacks a continuation byte.
	ErrMalformedUTF8 = errors.New("csvpretty: malformed multi-byte character")
	// ErrUnterminatedQuote is reported when the input ends inside a quoted field.
	ErrUnterminatedQuote = errors.New("csvpretty: unterminated quoted field")
	// ErrFieldLimit is returned when a row holds more fields than MaxFields.
	ErrFieldLimit = errors.New("csvpretty: too many fields in row")
)

// ParseError contains location information for tokenizer diagnostics.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

// Error formats the parse error message with the stored line, column, and Err values.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("csvpretty: parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Unwrap.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ColumnStats aggregates per-column layout data over every stored row.
type ColumnStats struct {
	// Widths holds the widest display width seen in each column.
	Widths []int
	// Multiline marks columns where some field held an embedded newline.
	Multiline []bool
	// MaxFields is the largest field count of any stored row.
	MaxFields int
}

// Width returns the recorded width of column i, or 0 for unknown columns.
func (c *ColumnStats) Width(i int) int {
	if i < 0 || i >= len(c.Widths) {
		return 0
	}
	return c.Widths[i]
}

// IsMultiline reports whether column i ever held a multiline field.
func (c *ColumnStats) IsMultiline(i int) bool {
	if i < 0 || i >= len(c.Multiline) {
		return false
	}
	return c.Multiline[i]
}

// Observe folds one field of column i into the aggregate. Widths only grow.
func (c *ColumnStats) Observe(i, width int, multiline bool) {
	for len(c.Widths) <= i {
		c.Widths = append(c.Widths, 0)
		c.Multiline = append(c.Multiline, false)
	}
	if width > c.Widths[i] {
		c.Widths[i] = width
	}
	if multiline {
		c.Multiline[i] = true
	}
}

// Table is the tokenized input handed over to the Renderer.
type Table struct {
	Rows  *Store
	Stats *ColumnStats
	// Processed counts the committed rows.
	Processed int
	// Separator is the configured or detected delimiter, 0 when none was seen.
	Separator byte
}

type tokenState int

const (
	stateLeadingSpace tokenState = iota
	stateField
	stateQuoted
)

// Tokenizer turns a delimited byte stream into stored rows while aggregating
// column widths. The whole input is consumed by a single call to Tokenize.
type Tokenizer struct {
	src io.Reader

	// Separator is the field delimiter. Zero requests auto-detection: the first
	// ',', ';' or '|' seen outside quotes fixes it for the rest of the stream.
	Separator byte
	// MaxFields limits the number of fields in one row. Default is DefaultMaxFields.
	MaxFields int
	// Measure computes display widths. Default is the package Measure.
	Measure *Measure
	// Store receives committed rows. Default is a Store of DefaultBucketSize buckets.
	Store *Store
	// Logger receives recoverable diagnostics. Nil discards them.
	Logger logrus.FieldLogger

	buf    []byte
	bufPos int
	bufLen int
	bufErr error

	// Scratch line buffer: field bytes of the current row and their
	// start, end offsets. Reset once the row is committed.
	dataBuf     []byte
	fieldBounds []int

	state        tokenState
	fieldStart   int
	lastNonSpace int

	stats     ColumnStats
	processed int
	warnings  int
	line      int
	column    int
	table     *Table
}

// NewTokenizer creates a Tokenizer that consumes delimited data from r,
// panicking if r is nil.
func NewTokenizer(r io.Reader) *Tokenizer {
	if r == nil {
		panic("csvpretty: reader source cannot be nil")
	}

	return &Tokenizer{
		src:         r,
		MaxFields:   DefaultMaxFields,
		buf:         make([]byte, defaultBufferSize),
		dataBuf:     make([]byte, 0, 1024),
		fieldBounds: make([]int, 0, 32),
		line:        1,
	}
}

// Tokenize reads the entire input and returns the stored rows with their
// column statistics. Malformed UTF-8 and an unterminated quote are logged and
// tokenization continues; read errors and ErrFieldLimit are returned.
func (t *Tokenizer) Tokenize() (*Table, error) {
	if t.table != nil {
		return t.table, nil
	}
	if t.Store == nil {
		t.Store = NewStore(DefaultBucketSize)
	}
	if t.Measure == nil {
		t.Measure = defaultMeasure
	}
	if t.MaxFields <= 0 {
		t.MaxFields = DefaultMaxFields
	}

	for {
		c, err := t.readByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvpretty: read input: %w", err)
		}
		if err := t.consume(c); err != nil {
			return nil, err
		}
	}

	if t.state == stateQuoted {
		t.warn(ErrUnterminatedQuote)
	}
	if err := t.commitRow(); err != nil {
		return nil, err
	}

	t.table = &Table{
		Rows:      t.Store,
		Stats:     &t.stats,
		Processed: t.processed,
		Separator: t.Separator,
	}
	t.logger().WithFields(logrus.Fields{
		"rows":      t.processed,
		"columns":   t.stats.MaxFields,
		"separator": string(t.Separator),
	}).Debug("input tokenized")
	return t.table, nil
}

// Processed returns the number of rows committed so far.
func (t *Tokenizer) Processed() int {
	return t.processed
}

// Warnings returns the number of recoverable diagnostics reported so far.
func (t *Tokenizer) Warnings() int {
	return t.warnings
}

// Stats returns the column aggregate being built by the tokenizer.
func (t *Tokenizer) Stats() *ColumnStats {
	return &t.stats
}

// logger returns the configured logger or a discarding one.
func (t *Tokenizer) logger() logrus.FieldLogger {
	if t.Logger != nil {
		return t.Logger
	}
	return discardLogger
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// consume advances the state machine by one input byte.
func (t *Tokenizer) consume(c byte) error {
	if t.state == stateQuoted {
		if c == '"' {
			next, err := t.peekByte()
			if err == nil && next == '"' {
				t.bufPos++
				t.column++
				t.dataBuf = append(t.dataBuf, '"')
				t.lastNonSpace = len(t.dataBuf)
				return nil
			}
			if err != nil && err != io.EOF {
				return fmt.Errorf("csvpretty: read input: %w", err)
			}
			t.state = stateField
			return nil
		}
		t.dataBuf = append(t.dataBuf, c)
		if c == '\n' {
			t.line++
			t.column = 0
		} else if err := t.readContinuation(c); err != nil {
			return err
		}
		t.lastNonSpace = len(t.dataBuf)
		return nil
	}

	switch {
	case c == '\n':
		err := t.commitRow()
		t.line++
		t.column = 0
		return err
	case c == '"':
		t.state = stateQuoted
		t.lastNonSpace = len(t.dataBuf)
	case t.isSeparator(c):
		return t.closeField()
	case c == ' ' || c == '\r':
		// Leading blanks are dropped, trailing ones are cut at lastNonSpace.
		if t.state != stateLeadingSpace {
			t.dataBuf = append(t.dataBuf, c)
		}
	default:
		t.state = stateField
		t.dataBuf = append(t.dataBuf, c)
		if err := t.readContinuation(c); err != nil {
			return err
		}
		t.lastNonSpace = len(t.dataBuf)
	}
	return nil
}

// isSeparator reports whether c delimits fields, fixing the separator on the
// first candidate when auto-detection is active.
func (t *Tokenizer) isSeparator(c byte) bool {
	if t.Separator != 0 {
		return c == t.Separator
	}
	switch c {
	case ',', ';', '|':
		t.Separator = c
		t.logger().WithFields(logrus.Fields{
			"separator": string(c),
			"line":      t.line,
		}).Debug("separator detected")
		return true
	}
	return false
}

// readContinuation copies the continuation bytes of the character introduced
// by lead. A short or malformed sequence is reported and left incomplete; the
// offending byte is processed again as ordinary input.
func (t *Tokenizer) readContinuation(lead byte) error {
	for i := CharLen(lead); i > 1; i-- {
		c, err := t.peekByte()
		if err == io.EOF {
			t.warn(ErrTruncatedUTF8)
			return nil
		}
		if err != nil {
			return fmt.Errorf("csvpretty: read input: %w", err)
		}
		if c&0xC0 != 0x80 {
			t.warn(ErrMalformedUTF8)
			return nil
		}
		t.bufPos++
		t.column++
		t.dataBuf = append(t.dataBuf, c)
	}
	return nil
}

// closeField records the pending field, trimmed at the last non-blank byte.
func (t *Tokenizer) closeField() error {
	if len(t.fieldBounds)/2 >= t.MaxFields {
		return t.wrapError(ErrFieldLimit)
	}
	end := max(t.lastNonSpace, t.fieldStart)
	t.fieldBounds = append(t.fieldBounds, t.fieldStart, end)
	t.dataBuf = t.dataBuf[:end]
	t.fieldStart = end
	t.lastNonSpace = end
	t.state = stateLeadingSpace
	return nil
}

// commitRow copies the scratch buffer into a new stored row and updates the
// column statistics. A row without bytes and without closed fields is skipped.
func (t *Tokenizer) commitRow() error {
	defer t.resetLine()

	if len(t.dataBuf) == 0 && len(t.fieldBounds) == 0 {
		return nil
	}
	if err := t.closeField(); err != nil {
		return err
	}

	fieldCount := len(t.fieldBounds) / 2
	rowStr := string(t.dataBuf)
	fields := make([]string, fieldCount)
	multiline := false

	for i := 0; i < fieldCount; i++ {
		start := t.fieldBounds[2*i]
		end := t.fieldBounds[2*i+1]
		fields[i] = rowStr[start:end]

		width, more := t.Measure.MultilineWidth(t.dataBuf[start:end], end-start, false)
		t.stats.Observe(i, width, more)
		multiline = multiline || more
	}
	if fieldCount > t.stats.MaxFields {
		t.stats.MaxFields = fieldCount
	}

	t.Store.Append(fields, multiline)
	t.processed++
	return nil
}

func (t *Tokenizer) resetLine() {
	t.dataBuf = t.dataBuf[:0]
	t.fieldBounds = t.fieldBounds[:0]
	t.state = stateLeadingSpace
	t.fieldStart = 0
	t.lastNonSpace = 0
}

// warn reports a recoverable condition at the current position.
func (t *Tokenizer) warn(err error) {
	t.warnings++
	t.logger().WithFields(logrus.Fields{
		"line":   t.line,
		"column": t.column,
	}).Warn(err.Error())
}

// wrapError attaches the current line and column to err, producing a *ParseError.
func (t *Tokenizer) wrapError(err error) error {
	return &ParseError{Line: t.line, Column: t.column, Err: err}
}

// readByte consumes the next byte of input.
func (t *Tokenizer) readByte() (byte, error) {
	c, err := t.peekByte()
	if err != nil {
		return 0, err
	}
	t.bufPos++
	t.column++
	return c, nil
}

// peekByte returns the next buffered byte (refilling from src as needed) and propagates any read error.
func (t *Tokenizer) peekByte() (byte, error) {
	for {
		if t.bufPos < t.bufLen {
			return t.buf[t.bufPos], nil
		}
		if t.bufErr != nil {
			return 0, t.bufErr
		}

		n, err := t.src.Read(t.buf)
		if n == 0 && err != nil {
			t.bufErr = err
			return 0, err
		}
		if n == 0 {
			continue
		}
		t.bufPos = 0
		t.bufLen = n
		t.bufErr = err
	}
}
