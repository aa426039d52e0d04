package reports

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lojf/kidsdesk/internal/csvstore"
)

// DetailedDir holds the per-date detail files, under the reports directory.
const DetailedDir = "detailed"

// Table is a header plus rows, as stored in a history or detail file.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// History keeps one CSV file per report, one row per key (a date, or a month
// for birthdays). Writes replace the whole file atomically.
type History struct {
	mu  sync.Mutex
	dir string
	log *zap.Logger
}

func NewHistory(dir string, log *zap.Logger) *History {
	if log == nil {
		log = zap.NewNop()
	}
	return &History{dir: dir, log: log}
}

func (h *History) Dir() string { return h.dir }

func (h *History) path(report string) string {
	return filepath.Join(h.dir, report+".csv")
}

// Upsert stores values under key in the report's history file. An existing
// row with the same key is replaced, otherwise the row is appended.
func (h *History) Upsert(report string, header []string, key string, values []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return errors.Wrapf(err, "reports: mkdir %s", h.dir)
	}
	p := h.path(report)
	old, rows, err := csvstore.Read(p)
	if err != nil && !os.IsNotExist(errors.Cause(err)) {
		return err
	}
	if len(old) > 0 && !sameHeader(old, header) {
		h.log.Warn("history header changed, keeping rows by position",
			zap.String("report", report), zap.Strings("old", old), zap.Strings("new", header))
	}

	row := append([]string{key}, values...)
	replaced := false
	for i, r := range rows {
		if len(r) > 0 && r[0] == key {
			rows[i] = row
			replaced = true
			break
		}
	}
	if !replaced {
		rows = append(rows, row)
	}
	for i := range rows {
		rows[i] = pad(rows[i], len(header))
	}

	data, err := csvstore.Encode(header, rows)
	if err != nil {
		return err
	}
	if err := csvstore.WriteFile(p, data); err != nil {
		return err
	}
	h.log.Debug("history saved", zap.String("report", report), zap.String("key", key), zap.Bool("replaced", replaced))
	return nil
}

// Load returns the stored history of a report. A report never saved yields
// an empty table.
func (h *History) Load(report string) (Table, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	header, rows, err := csvstore.Read(h.path(report))
	if os.IsNotExist(errors.Cause(err)) {
		return Table{Rows: [][]string{}}, nil
	}
	if err != nil {
		return Table{}, err
	}
	if rows == nil {
		rows = [][]string{}
	}
	return Table{Header: header, Rows: rows}, nil
}

// SaveDetailed writes a detail file such as frequency_2024-03-10.csv and
// returns its path.
func (h *History) SaveDetailed(name string, t Table) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	dir := filepath.Join(h.dir, DetailedDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "reports: mkdir %s", dir)
	}
	data, err := csvstore.Encode(t.Header, t.Rows)
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, name+".csv")
	if err := csvstore.WriteFile(p, data); err != nil {
		return "", err
	}
	return p, nil
}

// Clear removes the history files of the named reports plus every detail
// file, and returns how many were removed. Other files in the directory are
// left alone.
func (h *History) Clear(reports []string) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	files := make([]string, 0, len(reports))
	for _, r := range reports {
		files = append(files, h.path(r))
	}
	detailed, err := filepath.Glob(filepath.Join(h.dir, DetailedDir, "*.csv"))
	if err != nil {
		return 0, errors.Wrap(err, "reports: list detail files")
	}
	files = append(files, detailed...)

	n := 0
	for _, f := range files {
		err := os.Remove(f)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return n, errors.Wrapf(err, "reports: remove %s", f)
		}
		n++
	}
	h.log.Info("report history cleared", zap.Int("files", n))
	return n, nil
}

func sameHeader(a, b []string) bool {
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

func pad(row []string, n int) []string {
	if len(row) == n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}
