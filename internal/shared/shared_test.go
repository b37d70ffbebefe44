package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	first := GenerateID()
	second := GenerateID()

	if first == "" {
		t.Fatal("expected non-empty ID")
	}
	if first == second {
		t.Errorf("expected unique IDs, got %s twice", first)
	}
	if len(first) != 36 {
		t.Errorf("expected 36 character UUID, got %d characters", len(first))
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"name": "Outer Wilds"}

	t.Run("compact", func(t *testing.T) {
		out, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(out) != `{"name":"Outer Wilds"}` {
			t.Errorf("unexpected compact output: %s", out)
		}
	})

	t.Run("indented", func(t *testing.T) {
		out, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(out), "\n  ") {
			t.Errorf("expected indented output, got %s", out)
		}
	})

	t.Run("marshal error", func(t *testing.T) {
		if _, err := MarshalJSON(make(chan int), false); err == nil {
			t.Error("expected error for non-serializable value")
		}
	})
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid object", `{"year": 2024}`, false},
		{"valid array", `[1, 2, 3]`, false},
		{"trailing garbage", `{"year": 2024`, true},
		{"empty input", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON([]byte(tt.input))
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestCheckMark(t *testing.T) {
	if CheckMark(true) != "✓" {
		t.Error("expected check mark for true")
	}
	if CheckMark(false) != "✗" {
		t.Error("expected cross mark for false")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	expanded := ExpandHome("~/.gamedex/cache.db")
	if expanded != filepath.Join(home, ".gamedex/cache.db") {
		t.Errorf("expected path under %s, got %s", home, expanded)
	}

	absolute := "/var/lib/gamedex/cache.db"
	if got := ExpandHome(absolute); got != absolute {
		t.Errorf("expected absolute path unchanged, got %s", got)
	}

	if got := ExpandHome("~"); got != "~" {
		t.Errorf("expected bare tilde unchanged, got %s", got)
	}
}

func TestVerifyAndReadFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("reads regular file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "cover.txt")
		if err := os.WriteFile(path, []byte("contents"), 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		data, err := VerifyAndReadFile(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(data) != "contents" {
			t.Errorf("unexpected file contents: %s", data)
		}
	})

	t.Run("rejects directory", func(t *testing.T) {
		if _, err := VerifyAndReadFile(tmpDir); err == nil {
			t.Error("expected error for directory path")
		}
	})

	t.Run("rejects missing file", func(t *testing.T) {
		if _, err := VerifyAndReadFile(filepath.Join(tmpDir, "absent.txt")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
