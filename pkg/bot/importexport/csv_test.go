package importexport

import (
	"strings"
	"testing"
	"time"

	"github.com/minhtq/tg-vocab-bank/pkg/internal/testutil"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

func TestParseEntriesCSV(t *testing.T) {
	data := []byte("headword,example\n" +
		"serendipity,Finding that book was pure serendipity.\n" +
		"ephemeral,Fame is often ephemeral.,adjective: lasting a very short time\n" +
		"resilient,She stayed resilient through it all.,adjective: able to recover quickly,kien cuong\n")

	inputs, skipped, err := ParseEntriesCSV(data)
	if err != nil {
		t.Fatalf("ParseEntriesCSV() error = %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(inputs) != 3 {
		t.Fatalf("len(inputs) = %d, want 3", len(inputs))
	}
	if inputs[0].Headword != "serendipity" || inputs[0].EnglishDef != "" {
		t.Errorf("inputs[0] = %+v, want two-column row", inputs[0])
	}
	if inputs[1].EnglishDef != "adjective: lasting a very short time" || inputs[1].NativeDef != "" {
		t.Errorf("inputs[1] = %+v, want three-column row", inputs[1])
	}
	if inputs[2].NativeDef != "kien cuong" {
		t.Errorf("inputs[2] = %+v, want four-column row", inputs[2])
	}
}

func TestParseEntriesCSVWithBOMAndSemicolons(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(
		"serendipity;Finding that book was pure serendipity.\n"+
			"ephemeral;Fame is often ephemeral.\n")...)

	inputs, skipped, err := ParseEntriesCSV(data)
	if err != nil {
		t.Fatalf("ParseEntriesCSV() error = %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(inputs) != 2 {
		t.Fatalf("len(inputs) = %d, want 2", len(inputs))
	}
	if inputs[0].Headword != "serendipity" {
		t.Errorf("inputs[0].Headword = %q, BOM not stripped or delimiter missed", inputs[0].Headword)
	}
}

func TestParseEntriesCSVSkipsBadRows(t *testing.T) {
	data := []byte("word,sentence\n" +
		"\n" +
		"only-one-column\n" +
		" , \n" +
		"valid,A valid example sentence.\n")

	inputs, skipped, err := ParseEntriesCSV(data)
	if err != nil {
		t.Fatalf("ParseEntriesCSV() error = %v", err)
	}
	if len(inputs) != 1 {
		t.Fatalf("len(inputs) = %d, want 1", len(inputs))
	}
	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
}

func TestImportEntries(t *testing.T) {
	testutil.SetupTestDB(t)
	repo := vocab.NewService(vocab.NewGormStore()).Bank(42)
	before := repo.Count() // seeded collection

	inputs := []EntryInput{
		{Headword: "serendipity", Example: "Finding that book was pure serendipity."},
		{Headword: "hello", Example: "A duplicate of the seeded entry."},
		{Headword: "", Example: "No headword here."},
		{Headword: "ephemeral", Example: "Fame is often ephemeral.", EnglishDef: "adjective: short-lived"},
	}

	added, duplicates, invalid, err := ImportEntries(repo, inputs)
	if err != nil {
		t.Fatalf("ImportEntries() error = %v", err)
	}
	if added != 2 || duplicates != 1 || invalid != 1 {
		t.Errorf("counts = %d/%d/%d, want added 2, duplicates 1, invalid 1", added, duplicates, invalid)
	}
	if repo.Count() != before+2 {
		t.Errorf("Count() = %d, want %d", repo.Count(), before+2)
	}

	// Imported rows are prepended like manual adds, newest first.
	entry, err := repo.Entry(0)
	if err != nil {
		t.Fatalf("Entry(0) error = %v", err)
	}
	if entry.Headword != "ephemeral" {
		t.Errorf("Entry(0).Headword = %q, want %q", entry.Headword, "ephemeral")
	}
}

func TestBuildExportCSV(t *testing.T) {
	entries := []vocab.Entry{
		{
			Headword:      "hello",
			Example:       "Hello, how are you today?",
			EnglishDef:    "interjection: used as a greeting",
			NativeDef:     "xin chao",
			Pronunciation: "/həˈloʊ/",
			PartOfSpeech:  "interjection",
			Synonyms:      []string{"hi", "greetings"},
		},
		{Headword: "world", Example: "The world is a beautiful place."},
	}

	data, err := BuildExportCSV(entries)
	if err != nil {
		t.Fatalf("BuildExportCSV() error = %v", err)
	}
	if data[0] != 0xEF || data[1] != 0xBB || data[2] != 0xBF {
		t.Error("export should start with a UTF-8 BOM")
	}

	text := string(data[3:])
	lines := strings.Split(strings.TrimRight(text, "\r\n"), "\r\n")
	if len(lines) != 2 {
		t.Fatalf("export has %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "hi|greetings") {
		t.Errorf("line 0 = %q, want joined synonyms", lines[0])
	}
	if !strings.HasPrefix(lines[1], "world,The world is a beautiful place.") {
		t.Errorf("line 1 = %q, want entry fields in order", lines[1])
	}
}

func TestExportRoundTrip(t *testing.T) {
	entries := []vocab.Entry{
		{Headword: "serendipity", Example: "Finding that book was pure serendipity.", EnglishDef: "noun: a happy accident", NativeDef: "tinh co"},
	}

	data, err := BuildExportCSV(entries)
	if err != nil {
		t.Fatalf("BuildExportCSV() error = %v", err)
	}
	inputs, skipped, err := ParseEntriesCSV(data)
	if err != nil {
		t.Fatalf("ParseEntriesCSV() error = %v", err)
	}
	if skipped != 0 || len(inputs) != 1 {
		t.Fatalf("inputs = %d, skipped = %d; want 1 and 0", len(inputs), skipped)
	}
	got := inputs[0]
	if got.Headword != "serendipity" || got.EnglishDef != "noun: a happy accident" || got.NativeDef != "tinh co" {
		t.Errorf("round trip = %+v", got)
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2025, 3, 9, 15, 4, 5, 0, time.UTC)
	if got := ExportFilename(now); got != "vocab-bank-20250309.csv" {
		t.Errorf("ExportFilename() = %q", got)
	}
}
