package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dangunter/alsdata/shape"
)

// SimpleText renders a schema as an indented YAML-like list.
type SimpleText struct {
	w   io.Writer
	err error
}

var _ Visitor = (*SimpleText)(nil)

func NewSimpleText(w io.Writer) *SimpleText {
	return &SimpleText{w: w}
}

// Text writes s to w as simple text.
func Text(w io.Writer, s *shape.Schema) error {
	t := NewSimpleText(w)
	Walk(s, t)
	return t.Err()
}

// Err returns the first write error.
func (t *SimpleText) Err() error {
	return t.err
}

func (t *SimpleText) write(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s)
}

func (t *SimpleText) Begin() {
	t.write("---")
}

func (t *SimpleText) End() {
	t.write("\n")
}

func (t *SimpleText) BeginItemize(depth int) {}

func (t *SimpleText) EndItemize(depth int) {}

func (t *SimpleText) BeginItem(depth int) {
	t.write("\n" + strings.Repeat("  ", depth-1) + "- ")
}

func (t *SimpleText) EndItem(depth int) {}

func (t *SimpleText) One(value string) {
	t.write(value)
}

func (t *SimpleText) Pair(key, value string) {
	t.write(fmt.Sprintf("%s: %s", key, value))
}
