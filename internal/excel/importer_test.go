package excel

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabsync/internal/vocabulary"
	"github.com/example/vocabsync/pkg/models"
)

type memWordStore struct {
	items map[string]*models.WordEntry
}

func (s *memWordStore) Get(id string) (*models.WordEntry, error) { return s.items[id], nil }

func (s *memWordStore) Add(w *models.WordEntry) error {
	if _, ok := s.items[w.ID]; ok {
		return fmt.Errorf("word %s already exists", w.ID)
	}
	s.items[w.ID] = w
	return nil
}

func (s *memWordStore) Put(w *models.WordEntry) error {
	s.items[w.ID] = w
	return nil
}

func (s *memWordStore) All() ([]*models.WordEntry, error) {
	out := make([]*models.WordEntry, 0, len(s.items))
	for _, w := range s.items {
		out = append(out, w)
	}
	return out, nil
}

type memReviewStore struct {
	items map[string]*models.ReviewState
}

func (s *memReviewStore) Get(id string) (*models.ReviewState, error) { return s.items[id], nil }
func (s *memReviewStore) Add(r *models.ReviewState) error {
	s.items[r.WordID] = r
	return nil
}
func (s *memReviewStore) Put(r *models.ReviewState) error {
	s.items[r.WordID] = r
	return nil
}
func (s *memReviewStore) All() ([]*models.ReviewState, error) { return nil, nil }

func testService() (*vocabulary.Service, *memWordStore) {
	words := &memWordStore{items: map[string]*models.WordEntry{}}
	reviews := &memReviewStore{items: map[string]*models.ReviewState{}}
	svc := vocabulary.NewService(words, reviews, nil, nil, log.New(io.Discard, "", 0))
	return svc, words
}

func writeTestWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"Word", "Definition", "Phonetic", "Tags", "Source"},
		{"serendipity", "a fortunate accident", "/ˌsɛrənˈdɪpɪti/", "luck, nouns", "https://example.com/a"},
		{"ephemeral", "lasting a very short time", "", "", ""},
		{"", "a row without a word", "", "", ""},
		{"serendipity", "duplicate of row 2", "", "", "https://example.com/a"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("failed to build workbook: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "vocab.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

func TestImportWordsFromExcel(t *testing.T) {
	svc, words := testService()

	config := DefaultImportConfig()
	config.FilePath = writeTestWorkbook(t)

	result, err := ImportWords(context.Background(), svc, config)
	if err != nil {
		t.Fatalf("ImportWords failed: %v", err)
	}

	if result.TotalProcessed != 4 {
		t.Errorf("processed = %d, want 4 (header skipped)", result.TotalProcessed)
	}
	if result.Imported != 3 {
		t.Errorf("imported = %d, want 3", result.Imported)
	}
	if result.Skipped != 1 {
		t.Errorf("skipped = %d, want 1 (the wordless row)", result.Skipped)
	}
	if len(result.Errors) != 0 {
		t.Errorf("errors = %v", result.Errors)
	}

	// The duplicate row collapsed into a view-count bump.
	if len(words.items) != 2 {
		t.Fatalf("store holds %d entries, want 2", len(words.items))
	}
	entry := words.items[models.NewWordID("serendipity", "https://example.com/a")]
	if entry == nil {
		t.Fatal("serendipity entry missing")
	}
	if entry.ViewCount != 2 {
		t.Errorf("duplicate import: view count = %d, want 2", entry.ViewCount)
	}
	if len(entry.Definitions) != 1 || entry.Definitions[0] != "a fortunate accident" {
		t.Errorf("definitions = %v", entry.Definitions)
	}
	if entry.Phonetic != "/ˌsɛrənˈdɪpɪti/" {
		t.Errorf("phonetic = %q", entry.Phonetic)
	}
	if len(entry.Tags) != 2 || entry.Tags[0] != "luck" || entry.Tags[1] != "nouns" {
		t.Errorf("tags = %v", entry.Tags)
	}
	if entry.SourceTitle != "vocab.xlsx" {
		t.Errorf("source title = %q", entry.SourceTitle)
	}
}

func TestImportWordsFromCSV(t *testing.T) {
	svc, words := testService()

	path := filepath.Join(t.TempDir(), "vocab.csv")
	csv := "word,definition,phonetic,tags,source\n" +
		"petrichor,smell of rain,,nature,https://example.com/b\n" +
		"zenith,highest point,,,\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}

	config := DefaultImportConfig()
	config.FilePath = path

	result, err := ImportWords(context.Background(), svc, config)
	if err != nil {
		t.Fatalf("ImportWords failed: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 0 {
		t.Errorf("result = %+v, want 2 imported", result)
	}
	if len(words.items) != 2 {
		t.Errorf("store holds %d entries, want 2", len(words.items))
	}
}

func TestImportMissingFile(t *testing.T) {
	svc, _ := testService()
	config := DefaultImportConfig()
	config.FilePath = filepath.Join(t.TempDir(), "absent.xlsx")

	if _, err := ImportWords(context.Background(), svc, config); err == nil {
		t.Error("import of a missing file succeeded")
	}
}
