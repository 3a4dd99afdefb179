package shape

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
)

const (
	DefaultIDKey    = "_id"
	DefaultMaxDepth = 512
)

// Stats counts work done by a Builder across all Process calls.
type Stats struct {
	Documents         int
	Failed            int
	Rows              int
	SuppressedScalars int
	CollapsedElements int
}

// Builder infers schemas from documents. It keeps a working table between
// calls to avoid reallocating, so a Builder must not be used by more than one
// goroutine at a time. Use one Builder per goroutine or guard it with a lock.
type Builder struct {
	idKey    string
	maxDepth int
	log      *slog.Logger

	table []Row
	path  []string
	stats Stats
}

type Option func(*Builder)

// WithIDKey sets the document identifier key. Map entries under this key
// never contribute a row. An empty key disables the check.
func WithIDKey(k string) Option {
	return func(b *Builder) {
		b.idKey = k
	}
}

// WithMaxDepth bounds the nesting depth of processed documents.
func WithMaxDepth(n int) Option {
	return func(b *Builder) {
		b.maxDepth = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		b.log = l
	}
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		idKey:    DefaultIDKey,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Process infers the finalized schema of doc. Failures wrap
// ErrUnrecognizedValueType or ErrDepthExceeded in a *ValueError.
func (b *Builder) Process(doc map[string]any) (*Schema, error) {
	b.table = b.table[:0]
	b.path = append(b.path[:0], "$")

	if err := b.processDict(doc, 0, NoParent); err != nil {
		b.stats.Failed++
		return nil, err
	}

	s := finalize(b.table, ExtractDate(doc))
	b.stats.Documents++
	b.stats.Rows += s.Len()
	return s, nil
}

func (b *Builder) Stats() Stats {
	return b.stats
}

// ProcessOne runs doc through a new Builder with default options.
func ProcessOne(doc map[string]any) (*Schema, error) {
	return NewBuilder().Process(doc)
}

func (b *Builder) processDict(obj map[string]any, depth, parent int) error {
	if depth > b.maxDepth {
		return b.fail(obj, ErrDepthExceeded)
	}

	for key, val := range obj {
		if b.idKey != "" && key == b.idKey {
			continue
		}

		b.path = append(b.path, "."+key)
		t, err := typeOf(val)
		if err != nil {
			return b.fail(val, err)
		}

		i := b.add(Row{Depth: depth, Key: key, Type: t, Parent: parent})
		if err := b.descend(val, t, depth+1, i); err != nil {
			return err
		}
		b.path = b.path[:len(b.path)-1]
	}

	return nil
}

func (b *Builder) processArray(arr []any, depth, parent int) error {
	if depth > b.maxDepth {
		return b.fail(arr, ErrDepthExceeded)
	}

	// Scalar rows under one array differ only by type.
	var seen [TypeArray + 1]bool
	var shapes *Set

	for n, val := range arr {
		b.path = append(b.path, "["+strconv.Itoa(n)+"]")
		t, err := typeOf(val)
		if err != nil {
			return b.fail(val, err)
		}

		if !t.Composite() {
			if seen[t] {
				b.stats.SuppressedScalars++
			} else {
				seen[t] = true
				b.add(Row{Depth: depth, Type: t, Parent: parent})
			}
			b.path = b.path[:len(b.path)-1]
			continue
		}

		i := b.add(Row{Depth: depth, Type: t, Parent: parent})
		if err := b.descend(val, t, depth+1, i); err != nil {
			return err
		}

		if shapes == nil {
			shapes = NewSet()
		}
		b.dedupElement(shapes, i)
		b.path = b.path[:len(b.path)-1]
	}

	return nil
}

func (b *Builder) descend(val any, t Type, depth, parent int) error {
	switch t {
	case TypeDict:
		return b.processDict(val.(map[string]any), depth, parent)
	case TypeArray:
		return b.processArray(val.([]any), depth, parent)
	}
	return nil
}

// dedupElement compares the subtree rooted at table[i] against the shapes
// already seen in the enclosing array and drops it if one is equal. The
// subtree always occupies the tail of the table.
func (b *Builder) dedupElement(shapes *Set, i int) {
	sub := make([]Row, len(b.table)-i)
	for k, r := range b.table[i:] {
		if k == 0 {
			r.Parent = NoParent
		} else {
			r.Parent -= i
		}
		sub[k] = r
	}

	candidate := FromRows(sub)
	if shapes.Add(candidate, strconv.Itoa(i)) {
		return
	}

	if b.log != nil {
		b.log.Debug("collapsed array element", "path", b.pathString(), "rows", len(sub))
	}
	b.table = b.table[:i]
	b.stats.CollapsedElements++
}

func (b *Builder) add(r Row) int {
	b.table = append(b.table, r)
	return len(b.table) - 1
}

func (b *Builder) fail(val any, err error) error {
	return &ValueError{Path: b.pathString(), Value: val, Err: err}
}

func (b *Builder) pathString() string {
	return strings.Join(b.path, "")
}

func typeOf(v any) (Type, error) {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInt, nil
	case float32, float64:
		return TypeFloat, nil
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return TypeInt, nil
		}
		return TypeFloat, nil
	case string:
		return TypeStr, nil
	case map[string]any:
		return TypeDict, nil
	case []any:
		return TypeArray, nil
	}
	return 0, ErrUnrecognizedValueType
}
