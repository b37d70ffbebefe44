package formatter

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/duskfall/gamedex/internal/models"
	"github.com/duskfall/gamedex/internal/tasks"
	th "github.com/duskfall/gamedex/internal/testing"
)

func testSnapshot() *tasks.LibrarySnapshot {
	return &tasks.LibrarySnapshot{
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Games: []models.Game{
			{
				ID:            "g1",
				Name:          "Hades",
				Year:          2020,
				CompletedYear: 2024,
				IsCompleted:   true,
				IsFavourite:   true,
			},
			{
				ID:                 "g2",
				Name:               "Celeste",
				Year:               2018,
				CompletedYear:      2023,
				IsCompleted:        true,
				IsHundredPercent:   true,
				SpecialDescription: "All strawberries",
			},
			{
				ID:            "g3",
				Name:          "Hollow Knight",
				Year:          2017,
				CompletedYear: 2025,
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testSnapshot())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Name,Year,CompletedYear,Completed,HundredPercent,Favourite,Description,Note") {
			t.Errorf("CSV missing headers, got: %s", output)
		}

		if !strings.Contains(output, "g1") {
			t.Errorf("CSV missing game ID")
		}
		if !strings.Contains(output, "Hades") {
			t.Errorf("CSV missing game name")
		}
		if !strings.Contains(output, "All strawberries") {
			t.Errorf("CSV missing description")
		}

		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 4 {
			t.Errorf("expected header plus 3 records, got %d lines", len(lines))
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testSnapshot())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# Game Library") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, "**Games**: 3") {
			t.Errorf("Markdown missing game count")
		}
		if !strings.Contains(output, "## 2024") || !strings.Contains(output, "## 2023") {
			t.Errorf("Markdown missing year sections")
		}
		if !strings.Contains(output, "## To Be Completed") {
			t.Errorf("Markdown missing backlog section")
		}
		if !strings.Contains(output, "[100%]") {
			t.Errorf("Markdown missing 100%% flag")
		}
		if !strings.Contains(output, "★") {
			t.Errorf("Markdown missing favourite flag")
		}

		// newest completed year first
		if strings.Index(output, "## 2024") > strings.Index(output, "## 2023") {
			t.Errorf("expected 2024 section before 2023")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testSnapshot())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Games: 3") {
			t.Errorf("text missing count")
		}
		if !strings.Contains(output, "1. Hades (2020) - completed 2024") {
			t.Errorf("text missing completed line, got: %s", output)
		}
		if !strings.Contains(output, "Hollow Knight (2017) - backlog") {
			t.Errorf("text missing backlog line, got: %s", output)
		}
	})

	t.Run("Empty Snapshot", func(t *testing.T) {
		snapshot := &tasks.LibrarySnapshot{GeneratedAt: time.Now()}

		data, err := ExportToCSV(snapshot)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 1 {
			t.Errorf("expected only headers for empty snapshot, got %d lines", len(lines))
		}
	})
}

func TestFileExports(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "library")

		result, err := WriteCSVExport(testSnapshot(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		th.AssertFileExists(t, result.GamesFile)
		th.AssertFileExists(t, result.MetadataFile)

		content := th.MustReadFile(t, result.GamesFile)
		if !strings.Contains(content, "Hades") {
			t.Errorf("CSV file missing game data")
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "library.md")

		written, err := WriteMarkdownExport(testSnapshot(), path)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		if written != path {
			t.Errorf("expected path %s, got %s", path, written)
		}

		content := th.MustReadFile(t, written)
		if !strings.Contains(content, "# Game Library") {
			t.Errorf("Markdown file missing title")
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "library.txt")

		written, err := WriteTextExport(testSnapshot(), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}

		content := th.MustReadFile(t, written)
		if !strings.Contains(content, "Hades") {
			t.Errorf("text file missing game data")
		}
	})
}
