package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/minhtq/tg-vocab-bank/pkg/config"
	"github.com/minhtq/tg-vocab-bank/pkg/vocab"
)

var errBadPosition = errors.New("invalid entry position")

func quizThreshold() int {
	threshold := config.AppConfig.Vocab.QuizThreshold
	if threshold <= 0 {
		threshold = vocab.DefaultQuizThreshold
	}
	return threshold
}

// formatGateStatus renders the quiz progress card shown on /start and /bank.
func formatGateStatus(count int) string {
	status := vocab.Gate(count, quizThreshold())
	if status.Unlocked {
		return "Quiz unlocked! Use /quiz to test yourself."
	}
	return fmt.Sprintf("Add %d more words to unlock the quiz (%.0f%% there).",
		status.Remaining, status.ProgressPercent)
}

func formatEntryLine(position int, entry vocab.Entry) string {
	return fmt.Sprintf("%d. %s — %s", position, entry.Headword, entry.Example)
}

// formatEntryDetail renders one entry with its enrichment fields, if any.
func formatEntryDetail(position int, entry vocab.Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d. %s", position, entry.Headword)
	if entry.Pronunciation != "" {
		fmt.Fprintf(&sb, " %s", entry.Pronunciation)
	}
	if entry.PartOfSpeech != "" {
		fmt.Fprintf(&sb, " (%s)", entry.PartOfSpeech)
	}
	sb.WriteString("\n")
	if entry.EnglishDef != "" {
		fmt.Fprintf(&sb, "Definition: %s\n", entry.EnglishDef)
	}
	if entry.NativeDef != "" {
		fmt.Fprintf(&sb, "Meaning: %s\n", entry.NativeDef)
	}
	if len(entry.Synonyms) > 0 {
		fmt.Fprintf(&sb, "Synonyms: %s\n", strings.Join(entry.Synonyms, ", "))
	}
	fmt.Fprintf(&sb, "Example: %s", entry.Example)
	return sb.String()
}

// parsePosition reads the 1-based entry number after a command.
func parsePosition(text, command string, count int) (int, error) {
	payload := strings.TrimSpace(strings.TrimPrefix(text, command))
	position, err := strconv.Atoi(payload)
	if err != nil {
		return 0, errBadPosition
	}
	if position < 1 || position > count {
		return 0, errBadPosition
	}
	return position, nil
}

// parsePipeArgs splits a command payload on "|" and trims each field.
func parsePipeArgs(text, command string) []string {
	payload := strings.TrimSpace(strings.TrimPrefix(text, command))
	if payload == "" {
		return nil
	}
	parts := strings.Split(payload, "|")
	args := make([]string, 0, len(parts))
	for _, part := range parts {
		args = append(args, strings.TrimSpace(part))
	}
	return args
}
