// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package database

import (
	"fmt"
	"math"
)

// Frame is an in-memory columnar table. Text columns hold "" for NULL and
// numeric columns hold NaN for NULL. Column order is preserved.
type Frame struct {
	rows    int
	columns []string
	text    map[string][]string
	numeric map[string][]float64
}

// NewFrame returns an empty frame with the given row count.
func NewFrame(rows int) *Frame {
	return &Frame{
		rows:    rows,
		text:    make(map[string][]string),
		numeric: make(map[string][]float64),
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.rows
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// Has reports whether the frame has a column with the given name.
func (f *Frame) Has(name string) bool {
	_, t := f.text[name]
	_, n := f.numeric[name]
	return t || n
}

// IsNumeric reports whether name is a numeric column.
func (f *Frame) IsNumeric(name string) bool {
	_, ok := f.numeric[name]
	return ok
}

// SetText adds or replaces a text column.
func (f *Frame) SetText(name string, values []string) error {
	if len(values) != f.rows {
		return fmt.Errorf("column %s: %d values for %d rows", name, len(values), f.rows)
	}
	if !f.Has(name) {
		f.columns = append(f.columns, name)
	}
	delete(f.numeric, name)
	f.text[name] = values
	return nil
}

// SetNumeric adds or replaces a numeric column.
func (f *Frame) SetNumeric(name string, values []float64) error {
	if len(values) != f.rows {
		return fmt.Errorf("column %s: %d values for %d rows", name, len(values), f.rows)
	}
	if !f.Has(name) {
		f.columns = append(f.columns, name)
	}
	delete(f.text, name)
	f.numeric[name] = values
	return nil
}

// Text returns a text column.
func (f *Frame) Text(name string) ([]string, bool) {
	v, ok := f.text[name]
	return v, ok
}

// Numeric returns a numeric column.
func (f *Frame) Numeric(name string) ([]float64, bool) {
	v, ok := f.numeric[name]
	return v, ok
}

// Drop removes a column if present.
func (f *Frame) Drop(name string) {
	if !f.Has(name) {
		return
	}
	delete(f.text, name)
	delete(f.numeric, name)
	for i, c := range f.columns {
		if c == name {
			f.columns = append(f.columns[:i:i], f.columns[i+1:]...)
			break
		}
	}
}

// Take returns a new frame containing the given rows in the given order.
func (f *Frame) Take(rows []int) *Frame {
	out := NewFrame(len(rows))
	out.columns = f.Columns()
	for name, col := range f.text {
		vals := make([]string, len(rows))
		for i, r := range rows {
			vals[i] = col[r]
		}
		out.text[name] = vals
	}
	for name, col := range f.numeric {
		vals := make([]float64, len(rows))
		for i, r := range rows {
			vals[i] = col[r]
		}
		out.numeric[name] = vals
	}
	return out
}

// Concat appends other below f. Columns missing on either side are filled
// with NULL; a column that is text on either side becomes text.
func (f *Frame) Concat(other *Frame) *Frame {
	out := NewFrame(f.rows + other.rows)
	names := f.Columns()
	for _, c := range other.columns {
		if !f.Has(c) {
			names = append(names, c)
		}
	}

	for _, name := range names {
		_, leftText := f.text[name]
		_, rightText := other.text[name]
		if leftText || rightText {
			vals := append(f.textOrEmpty(name), other.textOrEmpty(name)...)
			_ = out.SetText(name, vals)
			continue
		}
		vals := append(f.numericOrNaN(name), other.numericOrNaN(name)...)
		_ = out.SetNumeric(name, vals)
	}
	return out
}

func (f *Frame) textOrEmpty(name string) []string {
	if v, ok := f.text[name]; ok {
		return append([]string(nil), v...)
	}
	out := make([]string, f.rows)
	if v, ok := f.numeric[name]; ok {
		for i, x := range v {
			if !math.IsNaN(x) {
				out[i] = fmt.Sprint(x)
			}
		}
	}
	return out
}

func (f *Frame) numericOrNaN(name string) []float64 {
	if v, ok := f.numeric[name]; ok {
		return append([]float64(nil), v...)
	}
	out := make([]float64, f.rows)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
