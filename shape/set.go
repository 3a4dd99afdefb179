package shape

import (
	"slices"
	"time"
)

// Entry is one distinct schema in a Set along with the ids of the documents
// that produced it.
type Entry struct {
	Schema *Schema
	IDs    []string

	// First and Last bound the dates of the schemas added for this entry.
	First time.Time
	Last  time.Time

	order int
}

// Set groups documents by finalized schema. It is not safe for concurrent
// use.
type Set struct {
	buckets map[uint64][]*Entry
	entries []*Entry
}

func NewSet() *Set {
	return &Set{buckets: make(map[uint64][]*Entry)}
}

// Add records id under s and reports whether s was not seen before.
func (ss *Set) Add(s *Schema, id string) bool {
	if e := ss.lookup(s); e != nil {
		e.IDs = append(e.IDs, id)
		if s.date.After(e.Last) {
			e.Last = s.date
		}
		if s.date.Before(e.First) {
			e.First = s.date
		}
		return false
	}

	e := &Entry{
		Schema: s,
		IDs:    []string{id},
		First:  s.date,
		Last:   s.date,
		order:  len(ss.entries),
	}
	ss.buckets[s.hash] = append(ss.buckets[s.hash], e)
	ss.entries = append(ss.entries, e)
	return true
}

func (ss *Set) Contains(s *Schema) bool {
	return ss.lookup(s) != nil
}

// IDs returns the ids recorded for s, or nil.
func (ss *Set) IDs(s *Schema) []string {
	if e := ss.lookup(s); e != nil {
		return e.IDs
	}
	return nil
}

// Get returns the entry whose schema hashes to h. Hash collisions between
// distinct schemas resolve to the earliest entry.
func (ss *Set) Get(h uint64) (*Entry, bool) {
	bucket := ss.buckets[h]
	if len(bucket) == 0 {
		return nil, false
	}
	return bucket[0], true
}

func (ss *Set) Len() int {
	return len(ss.entries)
}

// Entries returns the entries in insertion order.
func (ss *Set) Entries() []*Entry {
	return slices.Clone(ss.entries)
}

// EntriesByDate returns the entries ordered by first date, then last date,
// then insertion order.
func (ss *Set) EntriesByDate() []*Entry {
	res := slices.Clone(ss.entries)
	slices.SortFunc(res, func(a, b *Entry) int {
		if c := a.First.Compare(b.First); c != 0 {
			return c
		}
		if c := a.Last.Compare(b.Last); c != 0 {
			return c
		}
		return a.order - b.order
	})
	return res
}

func (ss *Set) lookup(s *Schema) *Entry {
	for _, e := range ss.buckets[s.hash] {
		if e.Schema.Equal(s) {
			return e
		}
	}
	return nil
}
