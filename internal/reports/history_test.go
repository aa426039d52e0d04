package reports

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestUpsert_ReplacesByKey(t *testing.T) {
	h := NewHistory(t.TempDir(), nil)
	header := []string{"Date", "Visitors", "Members"}

	if err := h.Upsert("visitors_summary", header, "2024-03-03", []string{"1", "5"}); err != nil {
		t.Fatal(err)
	}
	if err := h.Upsert("visitors_summary", header, "2024-03-10", []string{"2", "5"}); err != nil {
		t.Fatal(err)
	}
	if err := h.Upsert("visitors_summary", header, "2024-03-03", []string{"3", "6"}); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(h.Dir(), "visitors_summary.csv"))
	if err != nil {
		t.Fatal(err)
	}
	want := "Date,Visitors,Members\n2024-03-03,3,6\n2024-03-10,2,5\n"
	if string(raw) != want {
		t.Errorf("file:\nwant %q\ngot  %q", want, raw)
	}

	tbl, err := h.Load("visitors_summary")
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[0][1] != "3" {
		t.Errorf("loaded %+v", tbl)
	}
}

func TestUpsert_LegacyHeaderKeepsRows(t *testing.T) {
	dir := t.TempDir()
	legacy := "Data,Visitantes,Membros\n2024-03-03,1,5\n"
	os.WriteFile(filepath.Join(dir, "visitors_summary.csv"), []byte(legacy), 0o644)

	h := NewHistory(dir, nil)
	if err := h.Upsert("visitors_summary", []string{"Date", "Visitors", "Members"}, "2024-03-03", []string{"2", "5"}); err != nil {
		t.Fatal(err)
	}
	tbl, _ := h.Load("visitors_summary")
	if tbl.Header[0] != "Date" || len(tbl.Rows) != 1 || tbl.Rows[0][1] != "2" {
		t.Errorf("got %+v", tbl)
	}
}

func TestLoad_Missing(t *testing.T) {
	h := NewHistory(t.TempDir(), nil)
	tbl, err := h.Load("nothing")
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Rows) != 0 {
		t.Errorf("got %+v", tbl)
	}
}

func TestClear(t *testing.T) {
	h := NewHistory(t.TempDir(), nil)
	h.Upsert("total_children", []string{"Date", "Total children"}, "2024-03-10", []string{"4"})
	if _, err := h.SaveDetailed("frequency_2024-03-10", Table{Header: []string{"Name"}, Rows: [][]string{{"Ana"}}}); err != nil {
		t.Fatal(err)
	}

	os.WriteFile(filepath.Join(h.Dir(), "notes.csv"), []byte("a\n"), 0o644)

	n, err := h.Clear([]string{"total_children", "age_groups"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("removed %d files, want 2", n)
	}
	left, _ := filepath.Glob(filepath.Join(h.Dir(), "*", "*.csv"))
	if len(left) != 0 {
		t.Errorf("left behind: %v", left)
	}
	if _, err := os.Stat(filepath.Join(h.Dir(), "notes.csv")); err != nil {
		t.Errorf("unrelated file removed: %v", err)
	}
}

func TestExports(t *testing.T) {
	tbl := Table{
		Header: []string{"Date", "Total children"},
		Rows:   [][]string{{"2024-03-03", "4"}, {"2024-03-10", "7"}},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, tbl); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "Date,Total children\n2024-03-03,4\n") {
		t.Errorf("csv: %q", buf.String())
	}

	x, err := XLSX("total_children", tbl)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(x)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	v, err := f.GetCellValue("total_children", "B3")
	if err != nil || v != "7" {
		t.Errorf("B3: %q %v", v, err)
	}
	if h, _ := f.GetCellValue("total_children", "A1"); h != "Date" {
		t.Errorf("A1: %q", h)
	}
}
