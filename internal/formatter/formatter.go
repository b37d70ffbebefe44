// package formatter provides functions to export library data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/duskfall/gamedex/internal/shared"
	"github.com/duskfall/gamedex/internal/tasks"
)

// ExportToCSV converts a library snapshot to CSV format with columns:
// ID, Name, Year, CompletedYear, Completed, HundredPercent, Favourite, Description, Note
func ExportToCSV(snapshot *tasks.LibrarySnapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Year", "CompletedYear", "Completed", "HundredPercent", "Favourite", "Description", "Note"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, game := range snapshot.Games {
		record := []string{
			game.ID,
			game.Name,
			strconv.Itoa(game.Year),
			strconv.Itoa(game.CompletedYear),
			strconv.FormatBool(game.IsCompleted),
			strconv.FormatBool(game.IsHundredPercent),
			strconv.FormatBool(game.IsFavourite),
			game.SpecialDescription,
			game.Note,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a library snapshot to Markdown format, grouped by
// completion year with the backlog last.
func ExportToMarkdown(snapshot *tasks.LibrarySnapshot) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Game Library\n\n")
	buf.WriteString(fmt.Sprintf("**Games**: %d\n", len(snapshot.Games)))
	buf.WriteString(fmt.Sprintf("**Generated**: %s\n\n", snapshot.GeneratedAt.Format(time.DateOnly)))

	years := []int{}
	byYear := map[int][]int{}
	var backlog []int

	for i, game := range snapshot.Games {
		if !game.IsCompleted {
			backlog = append(backlog, i)
			continue
		}
		if _, seen := byYear[game.CompletedYear]; !seen {
			years = append(years, game.CompletedYear)
		}
		byYear[game.CompletedYear] = append(byYear[game.CompletedYear], i)
	}

	// newest year first
	for i := 0; i < len(years); i++ {
		for j := i + 1; j < len(years); j++ {
			if years[j] > years[i] {
				years[i], years[j] = years[j], years[i]
			}
		}
	}

	for _, year := range years {
		buf.WriteString(fmt.Sprintf("## %d\n\n", year))
		for _, i := range byYear[year] {
			writeMarkdownGame(&buf, snapshot, i)
		}
		buf.WriteString("\n")
	}

	if len(backlog) > 0 {
		buf.WriteString("## To Be Completed\n\n")
		for _, i := range backlog {
			writeMarkdownGame(&buf, snapshot, i)
		}
	}

	return buf.Bytes(), nil
}

func writeMarkdownGame(buf *bytes.Buffer, snapshot *tasks.LibrarySnapshot, i int) {
	game := snapshot.Games[i]

	flags := ""
	if game.IsHundredPercent {
		flags += " [100%]"
	}
	if game.IsFavourite {
		flags += " ★"
	}

	buf.WriteString(fmt.Sprintf("- %s (%d)%s\n", game.Name, game.Year, flags))
	if game.SpecialDescription != "" {
		buf.WriteString(fmt.Sprintf("  - %s\n", game.SpecialDescription))
	}
}

// ExportToText converts a library snapshot to plain text format
func ExportToText(snapshot *tasks.LibrarySnapshot) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Games: %d\n\n", len(snapshot.Games)))

	for i, game := range snapshot.Games {
		status := "backlog"
		if game.IsCompleted {
			status = fmt.Sprintf("completed %d", game.CompletedYear)
		}
		buf.WriteString(fmt.Sprintf("%d. %s (%d) - %s\n", i+1, game.Name, game.Year, status))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToSnapshotJSON generates an indented JSON representation of the snapshot
func ToSnapshotJSON(snapshot *tasks.LibrarySnapshot) ([]byte, error) {
	return shared.MarshalJSON(snapshot.Games, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	GamesFile    string
	MetadataFile string
}

// WriteCSVExport exports the library to CSV with an accompanying JSON file.
//
// Creates {base}_games.csv and {base}_games.json
func WriteCSVExport(snapshot *tasks.LibrarySnapshot, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "library"
	}

	csvData, err := ExportToCSV(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	gamesFile := baseFilepath + "_games.csv"
	if err := os.WriteFile(gamesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToSnapshotJSON(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JSON: %w", err)
	}

	metadataFile := baseFilepath + "_games.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write JSON file: %w", err)
	}

	return &CSVExportResult{
		GamesFile:    gamesFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports the library to a Markdown file.
//
// Defaults to library.md as the filename.
func WriteMarkdownExport(snapshot *tasks.LibrarySnapshot, filepath string) (string, error) {
	if filepath == "" {
		filepath = "library.md"
	}

	mdData, err := ExportToMarkdown(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport exports the library to plain text format.
//
// Defaults to library.txt as the filename.
func WriteTextExport(snapshot *tasks.LibrarySnapshot, filepath string) (string, error) {
	if filepath == "" {
		filepath = "library.txt"
	}

	textData, err := ExportToText(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
