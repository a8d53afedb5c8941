package csvpretty

import (
	"bufio"
	"errors"
	"io"
)

var (
	errNilWriter      = errors.New("csvpretty: writer is nil")
	errWriterNoTarget = errors.New("csvpretty: writer destination cannot be nil")
)

// Writer re-emits tokenized rows as RFC 4180 CSV. Fields are quoted only when
// they hold the delimiter, a quote, or a line break.
type Writer struct {
	dst *bufio.Writer

	// Comma is the field delimiter. Default is ','.
	Comma byte
	// UseCRLF writes records terminated with \r\n when set.
	UseCRLF bool
	// AlwaysQuote forces quoting for all fields when enabled.
	AlwaysQuote bool

	err error
}

// NewWriter creates a new Writer buffering output to w.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		panic(errWriterNoTarget.Error())
	}
	return &Writer{
		dst:   bufio.NewWriterSize(w, defaultBufferSize),
		Comma: ',',
	}
}

// Write emits a single record terminated with the configured newline sequence.
func (w *Writer) Write(record []string) error {
	if w == nil {
		return errNilWriter
	}
	if w.err != nil {
		return w.err
	}

	comma := w.Comma
	if comma == 0 {
		comma = ','
	}

	for i := range record {
		if i > 0 {
			w.writeByte(comma)
		}
		w.writeField(record[i], comma)
	}
	if w.UseCRLF {
		w.writeString("\r\n")
	} else {
		w.writeByte('\n')
	}
	return w.err
}

// WriteTable writes every stored row of tbl in input order and flushes. Short
// rows are written as they are, without padding to the widest row.
func (w *Writer) WriteTable(tbl *Table) error {
	if w == nil {
		return errNilWriter
	}
	if tbl.Rows != nil {
		for _, row := range tbl.Rows.All() {
			if err := w.Write(row.Fields); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

// Flush flushes pending buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w == nil {
		return errNilWriter
	}
	if w.err != nil {
		return w.err
	}
	if err := w.dst.Flush(); err != nil {
		w.err = err
	}
	return w.err
}

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error {
	if w == nil {
		return errNilWriter
	}
	return w.err
}

func (w *Writer) writeField(field string, comma byte) {
	if !w.AlwaysQuote && !fieldNeedsQuote(field, comma) {
		w.writeString(field)
		return
	}

	w.writeByte('"')
	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] == '"' {
			w.writeString(field[start:i])
			w.writeString(`""`)
			start = i + 1
		}
	}
	w.writeString(field[start:])
	w.writeByte('"')
}

func (w *Writer) writeString(s string) {
	if w.err != nil || s == "" {
		return
	}
	if _, err := w.dst.WriteString(s); err != nil {
		w.err = err
	}
}

func (w *Writer) writeByte(c byte) {
	if w.err != nil {
		return
	}
	if err := w.dst.WriteByte(c); err != nil {
		w.err = err
	}
}

// fieldNeedsQuote also quotes leading or trailing blanks, which the tokenizer
// would otherwise trim on the way back in.
func fieldNeedsQuote(field string, comma byte) bool {
	if field == "" {
		return false
	}
	if field[0] == ' ' || field[len(field)-1] == ' ' {
		return true
	}
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case '"', comma, '\n', '\r':
			return true
		}
	}
	return false
}
