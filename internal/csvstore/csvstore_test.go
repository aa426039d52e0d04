package csvstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var testSchema = Schema{
	Columns: []string{"name", "age", "phone", "registration_date"},
	Aliases: map[string]string{"nome": "name", "idade": "age", "telefone": "phone"},
}

func writeRaw(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func readRaw(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(b)
}

func TestOpen_CreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "kids.csv")
	tbl, migrated, err := Open(path, testSchema)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if migrated {
		t.Error("fresh file should not count as migrated")
	}
	if got := readRaw(t, path); got != "name,age,phone,registration_date\n" {
		t.Errorf("unexpected contents %q", got)
	}
	rows, err := tbl.ReadAll()
	if err != nil || len(rows) != 0 {
		t.Errorf("ReadAll: rows=%v err=%v", rows, err)
	}
}

// A file from the first app version: Portuguese names, no phone or
// registration_date, plus a column nobody knows about.
func TestOpen_MigratesLegacyHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kids.csv")
	writeRaw(t, path, "nome,idade,apelido\nAna,4,Aninha\nBeto,12,\n")

	tbl, migrated, err := Open(path, testSchema)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !migrated {
		t.Fatal("expected migration")
	}
	want := "name,age,phone,registration_date,apelido\nAna,4,,,Aninha\nBeto,12,,,\n"
	if got := readRaw(t, path); got != want {
		t.Errorf("migrated file:\nwant %q\ngot  %q", want, got)
	}
	if h := strings.Join(tbl.Header(), ","); h != "name,age,phone,registration_date,apelido" {
		t.Errorf("header %q", h)
	}
}

func TestOpen_MigrationIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kids.csv")
	writeRaw(t, path, "nome,idade,telefone,nome\nAna,4,555,dup\n")

	if _, migrated, err := Open(path, testSchema); err != nil || !migrated {
		t.Fatalf("first Open: migrated=%v err=%v", migrated, err)
	}
	first := readRaw(t, path)

	_, migrated, err := Open(path, testSchema)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if migrated {
		t.Error("second Open rewrote an already migrated file")
	}
	if second := readRaw(t, path); second != first {
		t.Errorf("file changed on second pass:\n%q\n%q", first, second)
	}
	if !strings.Contains(first, "dup") {
		t.Errorf("duplicate column value lost: %q", first)
	}
}

func TestAppendAndWriteAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kids.csv")
	tbl, _, err := Open(path, testSchema)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := tbl.Append([]string{"Ana", "4"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := tbl.Append([]string{"Beto, Jr.", "12", "555", "2024-01-01"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	rows, err := tbl.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 2 || rows[0][0] != "Ana" || rows[0][3] != "" || rows[1][0] != "Beto, Jr." {
		t.Fatalf("rows: %v", rows)
	}

	if err := tbl.WriteAll(rows[1:]); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	rows, _ = tbl.ReadAll()
	if len(rows) != 1 || rows[0][0] != "Beto, Jr." {
		t.Errorf("after WriteAll: %v", rows)
	}

	// no temp files left behind
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the table file, found %d entries", len(entries))
	}
}

func TestReadAll_StripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kids.csv")
	writeRaw(t, path, "\ufeffname,age,phone,registration_date\nAna,4,,\n")
	tbl, migrated, err := Open(path, testSchema)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if migrated {
		t.Error("BOM alone should not trigger a migration")
	}
	rows, _ := tbl.ReadAll()
	if len(rows) != 1 || rows[0][0] != "Ana" {
		t.Errorf("rows: %v", rows)
	}
}
