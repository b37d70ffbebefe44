package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDatabase(t *testing.T) {
	t.Run("opens in-memory database", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open in-memory database: %v", err)
		}
		defer db.Close()
	})

	t.Run("opens default config path on first run", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		config := DefaultConfig()
		db, err := NewDatabase(config.Database.Path)
		if err != nil {
			t.Fatalf("failed to open database at default path: %v", err)
		}
		defer db.Close()

		home, err := os.UserHomeDir()
		if err != nil {
			t.Fatalf("failed to resolve home directory: %v", err)
		}
		if _, err := os.Stat(filepath.Join(home, ".gamedex", "cache.db")); err != nil {
			t.Errorf("expected database file under home directory: %v", err)
		}
	})

	t.Run("creates nested parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b", "cache.db")

		db, err := NewDatabase(path)
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected database file to exist: %v", err)
		}
	})
}
