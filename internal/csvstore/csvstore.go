// Package csvstore keeps a table in a single CSV file: header row first,
// whole-file reads, and whole-file atomic rewrites.
package csvstore

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Schema is the canonical column layout of a table. Aliases maps header
// names from older files to canonical names.
type Schema struct {
	Columns []string
	Aliases map[string]string
}

type Table struct {
	path   string
	schema Schema
	header []string
}

// Open makes sure path holds a table matching schema, creating the file
// when missing and upgrading its header otherwise. migrated reports whether
// the file on disk was rewritten.
func Open(path string, schema Schema) (t *Table, migrated bool, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false, errors.Wrapf(err, "csvstore: mkdir for %s", path)
	}
	t = &Table{path: path, schema: schema}

	header, rows, err := readFile(path)
	switch {
	case os.IsNotExist(errors.Cause(err)):
		t.header = append([]string(nil), schema.Columns...)
		return t, false, writeAtomic(path, t.header, nil)
	case err != nil:
		return nil, false, err
	}
	if len(header) == 0 {
		t.header = append([]string(nil), schema.Columns...)
		return t, true, writeAtomic(path, t.header, nil)
	}

	newHeader, newRows, changed := Upgrade(schema, header, rows)
	t.header = newHeader
	if !changed {
		return t, false, nil
	}
	if err := writeAtomic(path, newHeader, newRows); err != nil {
		return nil, false, err
	}
	return t, true, nil
}

func (t *Table) Path() string { return t.path }

// Header is the on-disk header: schema columns followed by any extra columns.
func (t *Table) Header() []string {
	return append([]string(nil), t.header...)
}

// ReadAll returns every data row, padded or cut to the header width.
func (t *Table) ReadAll() ([][]string, error) {
	header, rows, err := readFile(t.path)
	if err != nil {
		return nil, err
	}
	if !equal(header, t.header) {
		// edited behind our back; bring it in line with what we expect
		_, rows, _ = Upgrade(Schema{Columns: t.header, Aliases: t.schema.Aliases}, header, rows)
	}
	for i, r := range rows {
		rows[i] = fit(r, len(t.header))
	}
	return rows, nil
}

// WriteAll replaces the file contents with header plus rows.
func (t *Table) WriteAll(rows [][]string) error {
	return writeAtomic(t.path, t.header, rows)
}

// Append adds one row. The whole file is rewritten so a crash never leaves
// a half-written line behind.
func (t *Table) Append(row []string) error {
	rows, err := t.ReadAll()
	if err != nil {
		return err
	}
	return t.WriteAll(append(rows, fit(row, len(t.header))))
}

// Upgrade rewrites header and rows to the schema layout. Aliased columns are
// renamed, missing schema columns are added empty, and unknown columns are
// kept after the schema ones. changed is false when header already matches.
func Upgrade(schema Schema, header []string, rows [][]string) ([]string, [][]string, bool) {
	src := make(map[string]int, len(header))
	var extras []string
	for i, h := range header {
		name := strings.TrimSpace(h)
		if canon, ok := schema.Aliases[name]; ok {
			name = canon
		}
		if _, dup := src[name]; !dup && contains(schema.Columns, name) {
			src[name] = i
			continue
		}
		// keep the original spelling so a second pass sees the same header
		extra := h
		for n := 2; contains(schema.Columns, extra) || hasKey(src, extra); n++ {
			extra = h + "_" + strconv.Itoa(n)
		}
		src[extra] = i
		extras = append(extras, extra)
	}

	newHeader := append(append([]string(nil), schema.Columns...), extras...)
	if equal(header, newHeader) {
		return newHeader, rows, false
	}

	out := make([][]string, len(rows))
	for r, row := range rows {
		nr := make([]string, len(newHeader))
		for c, name := range newHeader {
			if i, ok := src[name]; ok && i < len(row) {
				nr[c] = row[i]
			}
		}
		out[r] = nr
	}
	return newHeader, out, true
}

func readFile(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "csvstore: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "csvstore: read header of %s", path)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "csvstore: read %s", path)
	}
	return header, rows, nil
}

// Read returns the header and rows of any CSV file, without a schema.
func Read(path string) ([]string, [][]string, error) {
	return readFile(path)
}

// Encode renders header plus rows as CSV.
func Encode(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, errors.Wrap(err, "csvstore: encode header")
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, errors.Wrap(err, "csvstore: encode rows")
	}
	return buf.Bytes(), nil
}

func writeAtomic(path string, header []string, rows [][]string) error {
	data, err := Encode(header, rows)
	if err != nil {
		return errors.Wrapf(err, "csvstore: %s", path)
	}
	return WriteFile(path, data)
}

// WriteFile writes data to a temp file next to path, syncs it, then renames
// it over path.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "csvstore: temp file for %s", path)
	}
	name := tmp.Name()
	defer os.Remove(name) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "csvstore: write %s", name)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "csvstore: sync %s", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "csvstore: close %s", name)
	}
	if err := os.Rename(name, path); err != nil {
		return errors.Wrapf(err, "csvstore: replace %s", path)
	}
	return nil
}

func fit(row []string, n int) []string {
	if len(row) == n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func hasKey(m map[string]int, k string) bool {
	_, ok := m[k]
	return ok
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
