package shape

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/spaolacci/murmur3"
)

// Schema is a finalized, canonically ordered row table. It is immutable and
// safe to share between goroutines.
type Schema struct {
	rows []Row
	date time.Time
	hash uint64
}

// FromRows finalizes a traversal-order table. Parent indices in rows refer to
// positions within rows.
func FromRows(rows []Row) *Schema {
	return finalize(rows, epoch())
}

func (s *Schema) Len() int {
	return len(s.rows)
}

func (s *Schema) Row(i int) Row {
	return s.rows[i]
}

// Rows returns a copy of the table.
func (s *Schema) Rows() []Row {
	res := make([]Row, len(s.rows))
	copy(res, s.rows)
	return res
}

// Children returns the indices of the rows whose parent is i, in table order.
// Use NoParent to get the roots.
func (s *Schema) Children(i int) []int {
	var res []int
	for j, r := range s.rows {
		if r.Parent == i {
			res = append(res, j)
		}
	}
	return res
}

func (s *Schema) Roots() []int {
	return s.Children(NoParent)
}

// Date is the timestamp extracted from the source document. It plays no part
// in equality or hashing.
func (s *Schema) Date() time.Time {
	return s.date
}

func (s *Schema) Hash() uint64 {
	return s.hash
}

func (s *Schema) Equal(o *Schema) bool {
	return Compare(s, o).Kind == OutcomeEqual
}

func (s *Schema) String() string {
	var b strings.Builder
	for i, r := range s.rows {
		fmt.Fprintf(&b, "%3d | %3d %-20s %-6s %d\n", i, r.Depth, r.Key, r.Type, r.Parent)
	}
	return b.String()
}

func hashRows(rows []Row) uint64 {
	h := murmur3.New64()
	var buf [binary.MaxVarintLen64]byte
	for _, r := range rows {
		n := binary.PutVarint(buf[:], int64(r.Depth))
		h.Write(buf[:n])
		n = binary.PutUvarint(buf[:], uint64(len(r.Key)))
		h.Write(buf[:n])
		h.Write([]byte(r.Key))
		h.Write([]byte{byte(r.Type)})
		n = binary.PutVarint(buf[:], int64(r.Parent))
		h.Write(buf[:n])
	}
	return h.Sum64()
}
