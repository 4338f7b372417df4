package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// openers builds a fresh store of every backend inside dir
func openers(dir string) map[string]func() (KV, error) {
	return map[string]func() (KV, error){
		"memory": func() (KV, error) { return Open("memory", "") },
		"file":   func() (KV, error) { return Open("file", filepath.Join(dir, "store.json")) },
		"sqlite": func() (KV, error) { return Open("sqlite", filepath.Join(dir, "store.db")) },
	}
}

func TestBackendsGetSet(t *testing.T) {
	for name, open := range openers(t.TempDir()) {
		t.Run(name, func(t *testing.T) {
			kv, err := open()
			if err != nil {
				t.Fatalf("Failed to open: %v", err)
			}
			defer kv.Close()

			if _, ok, err := kv.Get("todoItems"); err != nil || ok {
				t.Fatalf("Expected absent key, got ok=%v err=%v", ok, err)
			}

			err = kv.SetMany(map[string]string{
				"todoItems":    `[{"text":"a"}]`,
				"checkedItems": `[false]`,
			})
			if err != nil {
				t.Fatalf("Failed to set: %v", err)
			}

			v, ok, err := kv.Get("checkedItems")
			if err != nil || !ok || v != `[false]` {
				t.Errorf("Expected [false], got %q ok=%v err=%v", v, ok, err)
			}

			// Overwrite one key, leave the other alone
			if err := kv.SetMany(map[string]string{"checkedItems": `[true]`}); err != nil {
				t.Fatalf("Failed to overwrite: %v", err)
			}
			v, _, _ = kv.Get("checkedItems")
			if v != `[true]` {
				t.Errorf("Expected [true], got %q", v)
			}
			v, _, _ = kv.Get("todoItems")
			if v != `[{"text":"a"}]` {
				t.Errorf("Untouched key changed: %q", v)
			}
		})
	}
}

func TestBackendsClosed(t *testing.T) {
	for name, open := range openers(t.TempDir()) {
		t.Run(name, func(t *testing.T) {
			kv, err := open()
			if err != nil {
				t.Fatalf("Failed to open: %v", err)
			}
			if err := kv.Close(); err != nil {
				t.Fatalf("Failed to close: %v", err)
			}
			if err := kv.SetMany(map[string]string{"k": "v"}); !errors.Is(err, ErrClosed) {
				t.Errorf("Expected ErrClosed, got %v", err)
			}
		})
	}
}

func TestPersistentBackendsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"file", "sqlite"} {
		t.Run(name, func(t *testing.T) {
			open := openers(dir)[name]
			kv, err := open()
			if err != nil {
				t.Fatalf("Failed to open: %v", err)
			}
			if err := kv.SetMany(map[string]string{"todoItems": "[]"}); err != nil {
				t.Fatalf("Failed to set: %v", err)
			}
			kv.Close()

			kv, err = open()
			if err != nil {
				t.Fatalf("Failed to reopen: %v", err)
			}
			defer kv.Close()
			if v, ok, _ := kv.Get("todoItems"); !ok || v != "[]" {
				t.Errorf("Expected value after reopen, got %q ok=%v", v, ok)
			}
		})
	}
}

func TestOpenFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := OpenFile(path); err == nil {
		t.Fatal("Expected error for malformed file")
	}
}

func TestFileStoreFailedWriteKeepsValues(t *testing.T) {
	dir := t.TempDir()
	fs, err := OpenFile(filepath.Join(dir, "store.json"))
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	if err := fs.SetMany(map[string]string{"k": "old"}); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}

	// A directory where the file should be makes the rename fail
	fs.path = dir
	if err := fs.SetMany(map[string]string{"k": "new"}); err == nil {
		t.Fatal("Expected write failure")
	}
	if v, _, _ := fs.Get("k"); v != "old" {
		t.Errorf("Expected old value after failed write, got %q", v)
	}
}

func TestInitializeRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.db")
	if err := Initialize(path); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}
	if err := Initialize(path); err == nil {
		t.Fatal("Expected error initializing an existing database")
	}
}

func TestUpdatedAtMigration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	// Build a database in the old layout
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to create legacy db: %v", err)
	}
	if _, err := conn.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		t.Fatalf("Failed to create legacy table: %v", err)
	}
	if _, err := conn.Exec(`INSERT INTO kv (key, value) VALUES ('todoItems', '[]')`); err != nil {
		t.Fatalf("Failed to seed legacy table: %v", err)
	}
	conn.Close()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("Failed to open legacy db: %v", err)
	}
	defer s.Close()

	var count int
	err = s.conn.QueryRow(`SELECT COUNT(*) FROM kv WHERE updated_at IS NOT NULL`).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query updated_at: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected backfilled row, got %d", count)
	}

	if err := s.SetMany(map[string]string{"checkedItems": "[]"}); err != nil {
		t.Errorf("Failed to write after migration: %v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	factory := func(string) (KV, error) { return NewMemoryStore(), nil }

	if err := r.Register("mem", factory); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}
	if err := r.Register("mem", factory); err == nil {
		t.Error("Expected duplicate registration to fail")
	}
	if _, err := r.Open("missing", ""); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Expected ErrUnknownBackend, got %v", err)
	}
	if kv, err := r.Open("mem", ""); err != nil || kv == nil {
		t.Errorf("Failed to open registered backend: %v", err)
	}

	got := ListBackends()
	want := []string{"file", "memory", "sqlite"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
		}
	}
}
