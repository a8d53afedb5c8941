package csvpretty

import "iter"

// DefaultBucketSize is the number of rows held by one storage bucket.
const DefaultBucketSize = 1000

// Row is one committed input record. Its fields are never modified after the
// row has been stored.
type Row struct {
	Fields []string
	// Multiline is set when any field holds an embedded newline.
	Multiline bool
}

// bucket is a fixed-capacity chunk of rows. Once allocated, its rows slice is
// never grown, so stored rows are not relocated.
type bucket struct {
	rows []Row
	next *bucket
}

// Store owns every row produced by a Tokenizer. Rows are appended into chained
// fixed-capacity buckets, which keeps pointers returned by Append valid for the
// lifetime of the Store.
type Store struct {
	head    *bucket
	tail    *bucket
	size    int
	nrows   int
	buckets int
}

// NewStore returns an empty Store whose buckets hold size rows. A non-positive
// size selects DefaultBucketSize.
func NewStore(size int) *Store {
	if size <= 0 {
		size = DefaultBucketSize
	}
	return &Store{size: size}
}

// Append stores a row holding fields and returns a stable pointer to it. The
// Store takes ownership of the fields slice.
func (s *Store) Append(fields []string, multiline bool) *Row {
	if s.size <= 0 {
		s.size = DefaultBucketSize
	}
	if s.tail == nil || len(s.tail.rows) == cap(s.tail.rows) {
		b := &bucket{rows: make([]Row, 0, s.size)}
		if s.tail == nil {
			s.head = b
		} else {
			s.tail.next = b
		}
		s.tail = b
		s.buckets++
	}
	s.tail.rows = append(s.tail.rows, Row{Fields: fields, Multiline: multiline})
	s.nrows++
	return &s.tail.rows[len(s.tail.rows)-1]
}

// Len returns the number of stored rows.
func (s *Store) Len() int {
	return s.nrows
}

// Buckets returns the number of allocated buckets.
func (s *Store) Buckets() int {
	return s.buckets
}

// All yields the stored rows in input order together with their index.
func (s *Store) All() iter.Seq2[int, *Row] {
	return func(yield func(int, *Row) bool) {
		i := 0
		for b := s.head; b != nil; b = b.next {
			for j := range b.rows {
				if !yield(i, &b.rows[j]) {
					return
				}
				i++
			}
		}
	}
}

// First returns up to n leading rows.
func (s *Store) First(n int) []*Row {
	if n <= 0 {
		return nil
	}
	out := make([]*Row, 0, min(n, s.nrows))
	for _, row := range s.All() {
		if len(out) == n {
			break
		}
		out = append(out, row)
	}
	return out
}

// Release drops every bucket. The Store can be reused afterwards.
func (s *Store) Release() {
	for b := s.head; b != nil; {
		next := b.next
		b.next = nil
		b.rows = nil
		b = next
	}
	s.head, s.tail = nil, nil
	s.nrows, s.buckets = 0, 0
}
