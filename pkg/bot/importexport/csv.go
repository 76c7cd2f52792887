package importexport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

// EntryInput is one parsed CSV row ready to go through the repository.
type EntryInput struct {
	Headword   string
	Example    string
	EnglishDef string
	NativeDef  string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const maxDelimiterSampleRecords = 20

// ParseEntriesCSV parses rows of headword,example[,english_def[,native_def]].
// It tolerates a UTF-8 BOM, detects the delimiter, and skips a header row.
func ParseEntriesCSV(data []byte) ([]EntryInput, int, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	delimiter := detectCSVDelimiter(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	var inputs []EntryInput
	skipped := 0
	checkedHeader := false

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, err
		}
		if isEmptyCSVRecord(record) {
			skipped++
			continue
		}
		if !checkedHeader {
			checkedHeader = true
			if isHeaderRecord(record) {
				continue
			}
		}
		if len(record) < 2 {
			skipped++
			continue
		}
		input := EntryInput{
			Headword: strings.TrimSpace(record[0]),
			Example:  strings.TrimSpace(record[1]),
		}
		if len(record) > 2 {
			input.EnglishDef = strings.TrimSpace(record[2])
		}
		if len(record) > 3 {
			input.NativeDef = strings.TrimSpace(record[3])
		}
		if input.Headword == "" || input.Example == "" {
			skipped++
			continue
		}
		inputs = append(inputs, input)
	}

	return inputs, skipped, nil
}

func detectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', '\t', ';'}
	bestDelimiter := candidates[0]
	bestScore := -1

	for _, delimiter := range candidates {
		score, err := scoreDelimiter(data, delimiter, maxDelimiterSampleRecords)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestDelimiter = delimiter
		}
	}

	if bestScore <= 0 {
		return ','
	}
	return bestDelimiter
}

func scoreDelimiter(data []byte, delimiter rune, maxRecords int) (int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	counts := make(map[int]int)
	recordsSeen := 0

	for recordsSeen < maxRecords {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if isEmptyCSVRecord(record) {
			continue
		}
		recordsSeen++

		if len(record) < 2 {
			continue
		}
		counts[len(record)]++
	}

	best := 0
	for _, score := range counts {
		if score > best {
			best = score
		}
	}
	return best, nil
}

func isEmptyCSVRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func isHeaderRecord(record []string) bool {
	if len(record) < 2 {
		return false
	}
	left := strings.ToLower(strings.TrimSpace(record[0]))
	right := strings.ToLower(strings.TrimSpace(record[1]))
	headers := map[string]struct{}{
		"headword": {},
		"word":     {},
		"example":  {},
		"sentence": {},
	}
	_, leftOK := headers[left]
	_, rightOK := headers[right]
	return leftOK && rightOK
}

// ImportEntries feeds parsed rows through the repository so duplicate
// and validation rules apply the same as manual adds.
func ImportEntries(repo *vocab.Repository, inputs []EntryInput) (added, duplicates, invalid int, err error) {
	for _, input := range inputs {
		addErr := repo.Add(input.Headword, input.Example, input.EnglishDef, input.NativeDef)
		switch {
		case addErr == nil:
			added++
		case errors.Is(addErr, vocab.ErrDuplicateHeadword):
			duplicates++
		case errors.Is(addErr, vocab.ErrEmptyField):
			invalid++
		default:
			return added, duplicates, invalid, addErr
		}
	}
	return added, duplicates, invalid, nil
}

// BuildExportCSV renders the full entry list, enrichment fields included.
func BuildExportCSV(entries []vocab.Entry) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.Write(utf8BOM); err != nil {
		return nil, err
	}

	writer := csv.NewWriter(&buf)
	writer.UseCRLF = true

	for _, entry := range entries {
		record := []string{
			entry.Headword,
			entry.Example,
			entry.EnglishDef,
			entry.NativeDef,
			entry.Pronunciation,
			entry.PartOfSpeech,
			strings.Join(entry.Synonyms, "|"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ExportFilename(now time.Time) string {
	return fmt.Sprintf("vocab-bank-%s.csv", now.Format("20060102"))
}
